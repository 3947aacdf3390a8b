package platform

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// MockPlatformClient is a mock implementation of PlatformClient for testing.
type MockPlatformClient struct {
	mock.Mock
}

var _ contract.PlatformClient = &MockPlatformClient{} // Compile-time check

// Issues implements the PlatformClient interface.
func (m *MockPlatformClient) Issues(ctx context.Context) contract.Signal[[]schema.PlatformItem] {
	args := m.Called(ctx)
	return args.Get(0).(contract.Signal[[]schema.PlatformItem])
}

// IssueComments implements the PlatformClient interface.
func (m *MockPlatformClient) IssueComments(ctx context.Context) contract.Signal[[]schema.PlatformItem] {
	args := m.Called(ctx)
	return args.Get(0).(contract.Signal[[]schema.PlatformItem])
}

// Pulls implements the PlatformClient interface.
func (m *MockPlatformClient) Pulls(ctx context.Context) contract.Signal[[]schema.PlatformItem] {
	args := m.Called(ctx)
	return args.Get(0).(contract.Signal[[]schema.PlatformItem])
}

// PullReviews implements the PlatformClient interface.
func (m *MockPlatformClient) PullReviews(ctx context.Context, number int) contract.Signal[[]schema.PlatformItem] {
	args := m.Called(ctx, number)
	return args.Get(0).(contract.Signal[[]schema.PlatformItem])
}

// PullComments implements the PlatformClient interface.
func (m *MockPlatformClient) PullComments(ctx context.Context) contract.Signal[[]schema.PlatformItem] {
	args := m.Called(ctx)
	return args.Get(0).(contract.Signal[[]schema.PlatformItem])
}

// PullCommits implements the PlatformClient interface.
func (m *MockPlatformClient) PullCommits(ctx context.Context, number int) contract.Signal[[]schema.Revision] {
	args := m.Called(ctx, number)
	return args.Get(0).(contract.Signal[[]schema.Revision])
}

// ForkCount implements the PlatformClient interface.
func (m *MockPlatformClient) ForkCount(ctx context.Context) contract.Signal[int] {
	args := m.Called(ctx)
	return args.Get(0).(contract.Signal[int])
}
