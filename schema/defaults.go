package schema

import "time"

// Gating and reporting defaults. The publication threshold is the
// stricter of the two gates; the minimum threshold gates per-push runs.
const (
	DefaultMinimumThreshold     = 0.6
	DefaultPublicationThreshold = 0.8
	DefaultTrendWindow          = 7 * 24 * time.Hour
	DefaultHistoryCap           = 500
	DefaultFetchCacheTTL        = 30 * time.Minute
)

// ScoringParams holds every tunable constant of the scorer. Defaults
// reproduce the documented scoring methodology exactly; overrides come
// from configuration, never from code changes.
type ScoringParams struct {
	ComponentWeights map[Component]float64 // Geometric-mean exponents, default 1 each

	SignalWeights   SignalWeights
	FeedbackWeights FeedbackWeights
	BoundedWeights  BoundedWeights
	ElasticWeights  ElasticWeights

	CitationTarget      float64 // Citations per paragraph that saturate the density score
	UnsupportedPenalty  float64 // Multiplier applied to the unsupported-claim rate
	RateFloor           float64 // Floor of the platform-backed rate mapping 0.5 + 0.5*rate
	FeedbackCommitBoost float64 // Multiplier on the feedback-commit rate
	CohesionMinimum     float64 // Jaccard overlap at which a section counts as cohesive
	DriftPenalty        float64 // Drift multiplier in the topic-focus factor
	TopicLimit          int     // Tokens kept per section topic set
	MinTokenLength      int     // Shortest token considered a topic term

	NeutralScore            float64 // Substituted when a signal is unavailable
	RecommendationThreshold float64 // Scores below this emit recommendations
	StableBand              float64 // |delta| below this is a stable trend

	StubFactors StubFactors
}

// SignalWeights blends the signal alignment factors.
type SignalWeights struct {
	CitationDensity float64
	ClaimSupport    float64
	DataIntegrity   float64
	CodeResult      float64
}

// FeedbackWeights blends the feedback responsiveness factors.
type FeedbackWeights struct {
	IssueResponse     float64
	IssueResolution   float64
	ReviewIntegration float64
	FeedbackCommits   float64
}

// BoundedWeights blends the bounded integrity factors.
type BoundedWeights struct {
	ScopeCoverage   float64
	TopicFocus      float64
	TermConsistency float64
	MethodBoundary  float64
}

// ElasticWeights blends the elastic tolerance factors.
type ElasticWeights struct {
	Contradiction float64
	Perspective   float64
	Uncertainty   float64
	Limitation    float64
}

// StubFactors are the placeholder factor scores that currently return a
// fixed value irrespective of content. They are kept configurable so a
// future analyzer can replace them without changing call sites.
type StubFactors struct {
	TermConsistency          float64
	MethodBoundary           float64
	ContradictionIntegration float64
	MultiPerspective         float64
	UncertaintyDensity       float64
	LimitationAcknowledgment float64
}

// DefaultScoringParams returns the documented scoring constants.
func DefaultScoringParams() ScoringParams {
	return ScoringParams{
		ComponentWeights: map[Component]float64{
			SignalComponent:   1,
			FeedbackComponent: 1,
			BoundedComponent:  1,
			ElasticComponent:  1,
		},
		SignalWeights: SignalWeights{
			CitationDensity: 0.3,
			ClaimSupport:    0.3,
			DataIntegrity:   0.2,
			CodeResult:      0.2,
		},
		FeedbackWeights: FeedbackWeights{
			IssueResponse:     0.2,
			IssueResolution:   0.3,
			ReviewIntegration: 0.3,
			FeedbackCommits:   0.2,
		},
		BoundedWeights: BoundedWeights{
			ScopeCoverage:   0.3,
			TopicFocus:      0.3,
			TermConsistency: 0.2,
			MethodBoundary:  0.2,
		},
		ElasticWeights: ElasticWeights{
			Contradiction: 0.25,
			Perspective:   0.25,
			Uncertainty:   0.25,
			Limitation:    0.25,
		},
		CitationTarget:      0.5,
		UnsupportedPenalty:  2.0,
		RateFloor:           0.5,
		FeedbackCommitBoost: 2.5,
		CohesionMinimum:     0.3,
		DriftPenalty:        0.7,
		TopicLimit:          10,
		MinTokenLength:      4,

		NeutralScore:            0.5,
		RecommendationThreshold: 0.7,
		StableBand:              0.05,

		StubFactors: StubFactors{
			TermConsistency:          0.8,
			MethodBoundary:           0.8,
			ContradictionIntegration: 0.8,
			MultiPerspective:         0.8,
			UncertaintyDensity:       0.8,
			LimitationAcknowledgment: 0.8,
		},
	}
}

// Lexicons holds every keyword list and pattern the engine matches
// against free text. All entries are overridable via configuration.
type Lexicons struct {
	AssertionVerbs   []string // Verbs that mark a sentence as a claim
	CitationPatterns []string // Regex sources recognized as citation markers
	FeedbackTerms    []string // Commit-message terms marking feedback incorporation
	IssueRefPattern  string   // Regex for issue references in commit messages
	DataMarkers      []string // Regex sources marking data-integrity presence
	CodeMarkers      []string // Regex sources marking code/result presence
	Stopwords        []string // Tokens excluded from topic extraction

	ClassKeywords    map[ResidueClass][]string // Keyword-vote lexicons per taxonomy class
	PatternDetectors []PatternDetector         // Unmarked linguistic pattern channel

	FoundationalMarkers []string // Depth markers mapping to deep
	ExplanatoryMarkers  []string // Depth markers mapping to intermediate

	ResidueStart string // Inline sentinel opening marker
	ResidueEnd   string // Inline sentinel closing marker
}

// PatternDetector maps one linguistic pattern to a taxonomy class.
type PatternDetector struct {
	Name    string       // Short label recorded as the failure mode
	Class   ResidueClass // Taxonomy class the pattern maps to
	Pattern string       // Regex source applied per sentence
}

// DefaultLexicons returns the documented keyword lists and patterns.
func DefaultLexicons() Lexicons {
	return Lexicons{
		AssertionVerbs: []string{
			"shows", "demonstrates", "suggests", "indicates",
			"proves", "reveals", "confirms", "establishes",
		},
		CitationPatterns: []string{
			`\[\^[^\]]+\]`,             // footnote markers
			`\[\d+\]`,                  // numeric references
			`\[[^\]]+\]\([^)]+\)`,      // markdown links
			`https?://\S+`,             // bare URLs
			`(?i)\bdoi:\s*\S+`,         // DOIs
			`(?i)\barxiv:\s*\S+`,       // arXiv ids
			`\([A-Z][A-Za-z-]+(?: et al\.)?,? \d{4}\)`, // author-year
		},
		FeedbackTerms: []string{
			"feedback", "review", "address", "respond", "incorporate", "fix",
		},
		IssueRefPattern: `#\d+`,
		DataMarkers: []string{
			`(?m)^\|.+\|\s*$`,    // markdown table row
			`(?i)\bfigure\s+\d+`, // figure references
			`(?i)\btable\s+\d+`,  // table references
			`(?i)\bdataset\b`,
		},
		CodeMarkers: []string{
			"```",               // fenced code block
			`(?i)\boutput:\s`,   // inline result markers
			`(?i)\bresult:\s`,
		},
		Stopwords: []string{
			"about", "above", "after", "again", "against", "their", "there",
			"these", "thing", "think", "this", "those", "through", "under",
			"until", "very", "what", "when", "where", "which", "while", "with",
			"would", "your", "ability", "because", "being", "between", "both",
			"could", "does", "doing", "during", "each", "from", "have", "having",
			"here", "itself", "more", "most", "only", "other", "over", "same",
			"should", "some", "such", "than", "that", "them", "then", "they",
			"were", "will", "into", "been", "also",
		},
		ClassKeywords: map[ResidueClass][]string{
			LinguisticUncertainty: {
				"uncertain", "unclear", "ambiguous", "vague", "tentative",
				"perhaps", "possibly", "hedge",
			},
			UnsupportedAssertion: {
				"unsupported", "uncited", "assertion", "evidence",
				"citation", "source", "claim",
			},
			ArticulationGap: {
				"articulate", "express", "describe", "ineffable",
				"words", "language", "capture",
			},
			ScopeBoundary: {
				"scope", "boundary", "beyond", "outside", "excluded", "defer",
			},
			AcknowledgedContradiction: {
				"contradiction", "contradicts", "tension", "conflict",
				"inconsistent", "paradox",
			},
		},
		PatternDetectors: []PatternDetector{
			{
				Name:    "hedged-claim",
				Class:   LinguisticUncertainty,
				Pattern: `(?i)\b(may|might|perhaps|possibly|unclear|uncertain|seems?|appears?)\b`,
			},
			{
				Name:    "missing-support",
				Class:   UnsupportedAssertion,
				Pattern: `(?i)\b(clearly|obviously|undoubtedly|certainly|it is (well )?known)\b`,
			},
			{
				Name:    "articulation-limit",
				Class:   ArticulationGap,
				Pattern: `(?i)(hard to (articulate|express|describe)|difficult to (articulate|express|capture)|words fail|cannot fully (express|capture)|struggle to describe)`,
			},
			{
				Name:    "scope-excursion",
				Class:   ScopeBoundary,
				Pattern: `(?i)(beyond the scope|out of scope|outside (the|our) scope|not addressed here|left for future work)`,
			},
			{
				Name:    "unresolved-contradiction",
				Class:   AcknowledgedContradiction,
				Pattern: `(?i)(contradicts?|inconsistent with|in tension with|conflicts? with|on the other hand)`,
			},
		},
		FoundationalMarkers: []string{
			"fundamental", "foundational", "axiomatic", "first principles",
			"bedrock", "at its core",
		},
		ExplanatoryMarkers: []string{
			"because", "therefore", "explains", "explanation",
			"mechanism", "accounts for",
		},
		ResidueStart: "<!--residue-->",
		ResidueEnd:   "<!--/residue-->",
	}
}

// FailureModeFor returns the default machine label for a class.
func FailureModeFor(class ResidueClass) string {
	switch class {
	case LinguisticUncertainty:
		return "hedged-claim"
	case UnsupportedAssertion:
		return "missing-support"
	case ArticulationGap:
		return "articulation-limit"
	case ScopeBoundary:
		return "scope-excursion"
	case AcknowledgedContradiction:
		return "unresolved-contradiction"
	default:
		return "unclassified"
	}
}
