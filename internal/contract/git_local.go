package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// LocalRevisionClient implements the RevisionClient interface by
// executing the local 'git' binary installed on the machine.
type LocalRevisionClient struct{}

var _ RevisionClient = &LocalRevisionClient{} // Compile-time check

// NewLocalRevisionClient creates a new instance of the local revision client.
func NewLocalRevisionClient() *LocalRevisionClient {
	return &LocalRevisionClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalRevisionClient) Run(_ context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.Command("git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRevisionLog implements the RevisionClient interface. A repository
// with no commits yields empty output rather than an error, so an empty
// project still scores with neutral activity factors.
func (c *LocalRevisionClient) GetRevisionLog(ctx context.Context, repoPath string, startTime, endTime time.Time) ([]byte, error) {
	head, err := c.GetHeadHash(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	if head == "" {
		return nil, nil
	}

	args := []string{
		"log",
		"--numstat",
		"--pretty=format:--%H|%an|%ae|%ad|%s",
		"--date=iso-strict",
	}
	if !startTime.IsZero() {
		args = append(args, fmt.Sprintf("--since=%s", startTime.Format(DateTimeFormat)))
	}
	if !endTime.IsZero() {
		args = append(args, fmt.Sprintf("--until=%s", endTime.Format(DateTimeFormat)))
	}
	return c.Run(ctx, repoPath, args...)
}

// GetHeadHash implements the RevisionClient interface. An empty string
// with no error means the repository exists but has no commits yet.
func (c *LocalRevisionClient) GetHeadHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "--verify", "--quiet", "HEAD")
	if err != nil {
		// HEAD does not resolve on an unborn branch. Distinguish that
		// from a path that is not a repository at all.
		if _, rootErr := c.GetRepoRoot(ctx, repoPath); rootErr == nil {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRepoRoot implements the RevisionClient interface.
func (c *LocalRevisionClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
