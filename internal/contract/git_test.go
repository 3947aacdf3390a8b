package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// initScratchRepo creates an empty git repository in a temp directory.
func initScratchRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "--quiet")
	runGit(t, dir, "config", "user.name", "Scratch Author")
	runGit(t, dir, "config", "user.email", "scratch@example.com")
	return dir
}

// commitFile writes a file and commits it in the scratch repository.
func commitFile(t *testing.T, dir, name, content, message string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	runGit(t, dir, "add", name)
	runGit(t, dir, "commit", "--quiet", "-m", message)
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, out)
}

// TestMockRevisionClient_Run ensures the mock correctly records and returns
// expected values when its Run method is called.
func TestMockRevisionClient_Run(t *testing.T) {
	mockClient := new(MockRevisionClient)

	const expectedRepoPath = "/path/to/repo"
	expectedArgs := []string{"log", "-1", "--oneline"}
	expectedOutput := []byte("a1b2c3d commit message")
	expectedError := errors.New("mocked git error")

	var calledArgs []any
	ctx := context.Background()
	calledArgs = append(calledArgs, ctx, expectedRepoPath)
	for _, arg := range expectedArgs {
		calledArgs = append(calledArgs, arg)
	}

	mockClient.
		On("Run", calledArgs...).
		Return(expectedOutput, expectedError).
		Once()

	actualOutput, actualError := mockClient.Run(ctx, expectedRepoPath, expectedArgs...)

	assert.Equal(t, expectedOutput, actualOutput, "Run should return the programmed output")
	assert.Equal(t, expectedError, actualError, "Run should return the programmed error")
	mockClient.AssertExpectations(t)
}

// TestNewLocalRevisionClient tests the constructor for LocalRevisionClient.
func TestNewLocalRevisionClient(t *testing.T) {
	client := NewLocalRevisionClient()
	assert.NotNil(t, client, "NewLocalRevisionClient should return a non-nil client")
	assert.IsType(t, &LocalRevisionClient{}, client, "NewLocalRevisionClient should return a LocalRevisionClient instance")
}

// TestLocalRevisionClient_Run tests the Run method with various scenarios.
func TestLocalRevisionClient_Run(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalRevisionClient()
	ctx := context.Background()
	repo := initScratchRepo(t)

	tests := []struct {
		name        string
		repoPath    string
		args        []string
		expectError bool
	}{
		{
			name:        "invalid repo path",
			repoPath:    "/nonexistent/path",
			args:        []string{"status"},
			expectError: true,
		},
		{
			name:        "invalid git command",
			repoPath:    repo,
			args:        []string{"invalid-command"},
			expectError: true,
		},
		{
			name:        "valid command",
			repoPath:    repo,
			args:        []string{"status", "--porcelain"},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Run(ctx, tt.repoPath, tt.args...)
			if tt.expectError {
				assert.Error(t, err, "Run should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "Run should not return an error for %s", tt.name)
			}
		})
	}
}

// TestLocalRevisionClient_GetRepoRoot tests the GetRepoRoot method.
func TestLocalRevisionClient_GetRepoRoot(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalRevisionClient()
	ctx := context.Background()
	repo := initScratchRepo(t)

	root, err := client.GetRepoRoot(ctx, repo)
	assert.NoError(t, err, "GetRepoRoot should not return an error for a repository")
	assert.NotEmpty(t, root, "GetRepoRoot should return a non-empty root path")

	// Resolving from a subdirectory lands on the same root.
	sub := filepath.Join(repo, "notes")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	root2, err := client.GetRepoRoot(ctx, sub)
	assert.NoError(t, err, "GetRepoRoot should not return an error for a subdirectory")
	assert.Equal(t, root, root2, "GetRepoRoot should return the same root for a subdirectory")

	_, err = client.GetRepoRoot(ctx, "/nonexistent/path")
	assert.Error(t, err, "GetRepoRoot should return an error for non-git directory")
}

// TestLocalRevisionClient_GetHeadHash tests head resolution on empty and
// populated repositories.
func TestLocalRevisionClient_GetHeadHash(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalRevisionClient()
	ctx := context.Background()

	t.Run("no commits yields empty hash without error", func(t *testing.T) {
		repo := initScratchRepo(t)
		hash, err := client.GetHeadHash(ctx, repo)
		require.NoError(t, err)
		assert.Empty(t, hash)
	})

	t.Run("head resolves after a commit", func(t *testing.T) {
		repo := initScratchRepo(t)
		commitFile(t, repo, "intro.md", "# Intro\n", "add intro")
		hash, err := client.GetHeadHash(ctx, repo)
		require.NoError(t, err)
		assert.Len(t, hash, 40, "full SHA-1 hash expected")
	})

	t.Run("non-repository errors", func(t *testing.T) {
		_, err := client.GetHeadHash(ctx, t.TempDir())
		assert.Error(t, err)
	})
}

// TestLocalRevisionClient_GetRevisionLog tests the GetRevisionLog method.
func TestLocalRevisionClient_GetRevisionLog(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalRevisionClient()
	ctx := context.Background()

	t.Run("empty repository yields empty log", func(t *testing.T) {
		repo := initScratchRepo(t)
		out, err := client.GetRevisionLog(ctx, repo, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("commits show up with headers and numstat", func(t *testing.T) {
		repo := initScratchRepo(t)
		commitFile(t, repo, "intro.md", "# Intro\n\nSome text.\n", "add intro")
		commitFile(t, repo, "method.md", "# Method\n", "add method")

		out, err := client.GetRevisionLog(ctx, repo, time.Time{}, time.Time{})
		require.NoError(t, err)
		content := string(out)
		assert.Contains(t, content, "--", "commit header marker expected")
		assert.Contains(t, content, "Scratch Author")
		assert.Contains(t, content, "scratch@example.com")
		assert.Contains(t, content, "intro.md")
		assert.Contains(t, content, "method.md")
	})

	t.Run("until filter drops future-bounded commits", func(t *testing.T) {
		repo := initScratchRepo(t)
		commitFile(t, repo, "intro.md", "# Intro\n", "add intro")

		out, err := client.GetRevisionLog(ctx, repo, time.Time{}, time.Now().Add(-24*time.Hour))
		require.NoError(t, err)
		assert.NotContains(t, string(out), "intro.md")
	})
}
