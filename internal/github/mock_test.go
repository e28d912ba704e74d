package github

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
)

// MockAPIClient is a mock implementation of APIClient for testing
type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) FetchResource(ctx context.Context, path string, noCache bool) (map[string]interface{}, error) {
	args := m.Called(ctx, path, noCache)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockAPIClient) GetOrganization(ctx context.Context, id int64) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockAPIClient) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAPIClient) GetRepository(ctx context.Context, id int64) (*domain.Repository, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repository), args.Error(1)
}

func (m *MockAPIClient) GetTeam(ctx context.Context, orgID, teamID int64) (*domain.Team, error) {
	args := m.Called(ctx, orgID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockAPIClient) GetOrgMembership(ctx context.Context, org, user string) (*domain.Membership, error) {
	args := m.Called(ctx, org, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockAPIClient) EditOrgMembership(ctx context.Context, org, user, role string) (*domain.Membership, error) {
	args := m.Called(ctx, org, user, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockAPIClient) RemoveOrgMember(ctx context.Context, org, user string) error {
	args := m.Called(ctx, org, user)
	return args.Error(0)
}

func (m *MockAPIClient) IsOrgMember(ctx context.Context, org, user string) (bool, error) {
	args := m.Called(ctx, org, user)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPIClient) ListOrgMembers(ctx context.Context, org, role string) ([]string, error) {
	args := m.Called(ctx, org, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAPIClient) CreateRepository(ctx context.Context, org string, opts domain.RepositoryOptions) (*domain.Repository, error) {
	args := m.Called(ctx, org, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repository), args.Error(1)
}

func (m *MockAPIClient) DeleteRepository(ctx context.Context, owner, name string) error {
	args := m.Called(ctx, owner, name)
	return args.Error(0)
}

func (m *MockAPIClient) AddCollaborator(ctx context.Context, owner, name, user, permission string) error {
	args := m.Called(ctx, owner, name, user, permission)
	return args.Error(0)
}

func (m *MockAPIClient) StartImport(ctx context.Context, owner, name, vcsURL, vcsUsername, vcsPassword string) error {
	args := m.Called(ctx, owner, name, vcsURL, vcsUsername, vcsPassword)
	return args.Error(0)
}

func (m *MockAPIClient) CreateTeam(ctx context.Context, org string, opts domain.TeamOptions) (*domain.Team, error) {
	args := m.Called(ctx, org, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockAPIClient) DeleteTeam(ctx context.Context, orgID, teamID int64) error {
	args := m.Called(ctx, orgID, teamID)
	return args.Error(0)
}

func (m *MockAPIClient) AddTeamMembership(ctx context.Context, orgID, teamID int64, user string) error {
	args := m.Called(ctx, orgID, teamID, user)
	return args.Error(0)
}

func (m *MockAPIClient) RemoveTeamMembership(ctx context.Context, orgID, teamID int64, user string) error {
	args := m.Called(ctx, orgID, teamID, user)
	return args.Error(0)
}

func (m *MockAPIClient) AddTeamRepository(ctx context.Context, orgID, teamID int64, owner, name, permission string) error {
	args := m.Called(ctx, orgID, teamID, owner, name, permission)
	return args.Error(0)
}

func (m *MockAPIClient) IsTeamRepository(ctx context.Context, orgID, teamID int64, owner, name string) (bool, error) {
	args := m.Called(ctx, orgID, teamID, owner, name)
	return args.Bool(0), args.Error(1)
}
