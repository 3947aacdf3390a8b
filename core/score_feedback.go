package core

import (
	"fmt"
	"time"

	"github.com/davidkimai/recursive-distill/core/ingest"
	"github.com/davidkimai/recursive-distill/schema"
)

// Remediation strings for low feedback responsiveness factors.
const (
	remedyIssueResponse     = "Respond to open issues; unanswered issues depress feedback responsiveness."
	remedyIssueResolution   = "Close or resolve aging issues to lift the resolution rate."
	remedyReviewIntegration = "Follow review feedback with commits landing after the earliest review comment."
	remedyFeedbackCommits   = "Reference the feedback being addressed in commit messages, e.g. 'address review' or '#12'."
)

// feedbackFactors measures how review and issue feedback flows back
// into revisions.
func (s *Scorer) feedbackFactors(activity *ingest.Activity) []schema.FactorScore {
	weights := s.cfg.Params.FeedbackWeights
	return []schema.FactorScore{
		s.issueResponseFactor(activity, weights.IssueResponse),
		s.issueResolutionFactor(activity, weights.IssueResolution),
		s.reviewIntegrationFactor(activity, weights.ReviewIntegration),
		s.feedbackCommitFactor(activity, weights.FeedbackCommits),
	}
}

// issueResponseFactor scores the share of open issues that received at
// least one comment.
func (s *Scorer) issueResponseFactor(activity *ingest.Activity, weight float64) schema.FactorScore {
	const name = "issue-response"
	if !activity.Issues.Available() {
		return s.neutralFactor(name, weight, activity.Issues.Reason(), remedyIssueResponse)
	}
	if !activity.IssueComments.Available() {
		return s.neutralFactor(name, weight, activity.IssueComments.Reason(), remedyIssueResponse)
	}

	var open []schema.PlatformItem
	for _, issue := range activity.Issues.Value() {
		if !issue.Closed() {
			open = append(open, issue)
		}
	}
	if len(open) == 0 {
		return s.neutralFactor(name, weight, "no open issues", remedyIssueResponse)
	}

	commented := make(map[int]struct{})
	for _, comment := range activity.IssueComments.Value() {
		commented[comment.Number] = struct{}{}
	}
	responded := 0
	for _, issue := range open {
		if _, ok := commented[issue.Number]; ok {
			responded++
		}
	}

	rate := float64(responded) / float64(len(open))
	score := s.rateScore(rate)
	return schema.FactorScore{
		Name:   name,
		Score:  score,
		Weight: weight,
		Detail: fmt.Sprintf("%.2f (%d of %d open issues responded)", score, responded, len(open)),
		Remedy: remedyIssueResponse,
	}
}

// issueResolutionFactor scores the share of all issues closed.
func (s *Scorer) issueResolutionFactor(activity *ingest.Activity, weight float64) schema.FactorScore {
	const name = "issue-resolution"
	if !activity.Issues.Available() {
		return s.neutralFactor(name, weight, activity.Issues.Reason(), remedyIssueResolution)
	}
	issues := activity.Issues.Value()
	if len(issues) == 0 {
		return s.neutralFactor(name, weight, "no issues", remedyIssueResolution)
	}

	closed := 0
	for _, issue := range issues {
		if issue.Closed() {
			closed++
		}
	}
	rate := float64(closed) / float64(len(issues))
	score := s.rateScore(rate)
	return schema.FactorScore{
		Name:   name,
		Score:  score,
		Weight: weight,
		Detail: fmt.Sprintf("%.2f (%d of %d issues resolved)", score, closed, len(issues)),
		Remedy: remedyIssueResolution,
	}
}

// reviewIntegrationFactor scores reviewed pull requests that gained at
// least one commit after their earliest review activity. Review
// activity spans submitted reviews and review comments.
func (s *Scorer) reviewIntegrationFactor(activity *ingest.Activity, weight float64) schema.FactorScore {
	const name = "review-integration"
	signals := []struct {
		available bool
		reason    string
	}{
		{activity.Reviews.Available(), activity.Reviews.Reason()},
		{activity.PullComments.Available(), activity.PullComments.Reason()},
		{activity.PullCommits.Available(), activity.PullCommits.Reason()},
	}
	for _, signal := range signals {
		if !signal.available {
			return s.neutralFactor(name, weight, signal.reason, remedyReviewIntegration)
		}
	}

	earliest := make(map[int]time.Time)
	note := func(number int, at time.Time) {
		if number <= 0 || at.IsZero() {
			return
		}
		if current, ok := earliest[number]; !ok || at.Before(current) {
			earliest[number] = at
		}
	}
	for number, reviews := range activity.Reviews.Value() {
		for _, review := range reviews {
			note(number, review.CreatedAt)
		}
	}
	for _, comment := range activity.PullComments.Value() {
		note(comment.Number, comment.CreatedAt)
	}
	if len(earliest) == 0 {
		return s.neutralFactor(name, weight, "no reviewed pull requests", remedyReviewIntegration)
	}

	commits := activity.PullCommits.Value()
	integrated := 0
	for number, first := range earliest {
		for _, revision := range commits[number] {
			if revision.Timestamp.After(first) {
				integrated++
				break
			}
		}
	}

	rate := float64(integrated) / float64(len(earliest))
	score := s.rateScore(rate)
	return schema.FactorScore{
		Name:   name,
		Score:  score,
		Weight: weight,
		Detail: fmt.Sprintf("%.2f (%d of %d reviewed pull requests integrated feedback)", score, integrated, len(earliest)),
		Remedy: remedyReviewIntegration,
	}
}

// feedbackCommitFactor scores the share of commits whose message
// references feedback or an issue, boosted so a moderate rate already
// saturates the score.
func (s *Scorer) feedbackCommitFactor(activity *ingest.Activity, weight float64) schema.FactorScore {
	const name = "feedback-commits"
	revisions := activity.Revisions
	if len(revisions) == 0 {
		return s.neutralFactor(name, weight, "no commits", remedyFeedbackCommits)
	}

	matching := 0
	for _, revision := range revisions {
		if (s.feedback != nil && s.feedback.MatchString(revision.Message)) || s.issueRefs.MatchString(revision.Message) {
			matching++
		}
	}
	rate := float64(matching) / float64(len(revisions))
	score := clamp01(min(1, s.cfg.Params.FeedbackCommitBoost*rate))
	return schema.FactorScore{
		Name:   name,
		Score:  score,
		Weight: weight,
		Detail: fmt.Sprintf("%.2f (%d of %d commits reference feedback)", score, matching, len(revisions)),
		Remedy: remedyFeedbackCommits,
	}
}

// rateScore maps a platform activity rate onto [floor, 1].
func (s *Scorer) rateScore(rate float64) float64 {
	floor := s.cfg.Params.RateFloor
	return clamp01(floor + (1-floor)*rate)
}
