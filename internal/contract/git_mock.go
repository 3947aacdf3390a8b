package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockRevisionClient is a testify mock for the RevisionClient type.
type MockRevisionClient struct {
	mock.Mock
}

var _ RevisionClient = &MockRevisionClient{} // Compile-time check

// Run implements the RevisionClient interface.
func (m *MockRevisionClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRevisionLog implements the RevisionClient interface.
func (m *MockRevisionClient) GetRevisionLog(ctx context.Context, repoPath string, startTime, endTime time.Time) ([]byte, error) {
	ret := m.Called(ctx, repoPath, startTime, endTime)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetHeadHash implements the RevisionClient interface.
func (m *MockRevisionClient) GetHeadHash(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	hash, _ := ret.Get(0).(string)
	return hash, ret.Error(1)
}

// GetRepoRoot implements the RevisionClient interface.
func (m *MockRevisionClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}
