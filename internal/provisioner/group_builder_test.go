package provisioner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
	apperrors "github.com/gitclassrooms/classroom-provisioner/internal/errors"
)

func testGroupAssignment() *domain.GroupAssignment {
	return &domain.GroupAssignment{
		ID:             "group-assignment-1",
		Title:          "Group Project",
		Slug:           "group-project",
		OrganizationID: 100,
		CreatorID:      "teacher-1",
	}
}

func testGroup(teamID int64) *domain.Group {
	return &domain.Group{
		ID:           "group-1",
		Title:        "Team Rocket",
		Slug:         "team-rocket",
		GithubTeamID: teamID,
	}
}

func groupRepo() *domain.Repository {
	return &domain.Repository{
		ID:         8,
		Name:       "group-project-team-rocket",
		FullName:   "classroom-org/group-project-team-rocket",
		OwnerID:    100,
		OwnerLogin: "classroom-org",
	}
}

func TestGroupAssignmentRepoBuilder_Build(t *testing.T) {
	ctx := context.Background()

	t.Run("creates team on the group's first submission", func(t *testing.T) {
		store := new(MockStorage)
		api := new(MockAPIClient)
		expectOrgLogin(api)

		group := testGroup(0)

		api.On("CreateTeam", mock.Anything, "classroom-org", mock.MatchedBy(func(opts domain.TeamOptions) bool {
			return opts.Name == "Team Rocket" && opts.Permission == "push"
		})).Return(&domain.Team{ID: 42, OrgID: 100, Name: "Team Rocket"}, nil)
		store.On("SaveGroup", mock.Anything, mock.MatchedBy(func(g *domain.Group) bool {
			return g.ID == "group-1" && g.GithubTeamID == 42
		})).Return(nil)

		api.On("CreateRepository", mock.Anything, "classroom-org", mock.MatchedBy(func(opts domain.RepositoryOptions) bool {
			return opts.Name == "group-project-team-rocket"
		})).Return(groupRepo(), nil)
		api.On("GetRepository", mock.Anything, int64(8)).Return(groupRepo(), nil)
		api.On("AddTeamRepository", mock.Anything, int64(100), int64(42),
			"classroom-org", "group-project-team-rocket", "push").Return(nil)
		store.On("SaveGroupAssignmentRepo", mock.Anything, mock.AnythingOfType("*domain.GroupAssignmentRepo")).Return(nil)

		builder := NewGroupAssignmentRepoBuilder(store, api)
		record, err := builder.Build(ctx, testGroupAssignment(), group)
		require.NoError(t, err)

		assert.Equal(t, "group-assignment-1", record.GroupAssignmentID)
		assert.Equal(t, "group-1", record.GroupID)
		assert.Equal(t, int64(8), record.GithubRepoID)
		assert.Equal(t, int64(42), record.GithubTeamID)
		assert.Equal(t, int64(42), group.GithubTeamID)
		store.AssertExpectations(t)
		api.AssertExpectations(t)
	})

	t.Run("reuses the group's existing team", func(t *testing.T) {
		store := new(MockStorage)
		api := new(MockAPIClient)
		expectOrgLogin(api)

		api.On("CreateRepository", mock.Anything, "classroom-org", mock.Anything).Return(groupRepo(), nil)
		api.On("GetRepository", mock.Anything, int64(8)).Return(groupRepo(), nil)
		api.On("AddTeamRepository", mock.Anything, int64(100), int64(42),
			"classroom-org", "group-project-team-rocket", "push").Return(nil)
		store.On("SaveGroupAssignmentRepo", mock.Anything, mock.Anything).Return(nil)

		builder := NewGroupAssignmentRepoBuilder(store, api)
		record, err := builder.Build(ctx, testGroupAssignment(), testGroup(42))
		require.NoError(t, err)
		assert.Equal(t, int64(42), record.GithubTeamID)

		api.AssertNotCalled(t, "CreateTeam", mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "SaveGroup", mock.Anything, mock.Anything)
	})

	t.Run("team grant failure rolls back the repository", func(t *testing.T) {
		store := new(MockStorage)
		api := new(MockAPIClient)
		expectOrgLogin(api)

		api.On("CreateRepository", mock.Anything, "classroom-org", mock.Anything).Return(groupRepo(), nil)
		api.On("GetRepository", mock.Anything, int64(8)).Return(groupRepo(), nil)
		api.On("AddTeamRepository", mock.Anything, int64(100), int64(42),
			"classroom-org", "group-project-team-rocket", "push").
			Return(apperrors.NewForbiddenError("insufficient permissions"))
		api.On("DeleteRepository", mock.Anything, "classroom-org", "group-project-team-rocket").Return(nil)

		builder := NewGroupAssignmentRepoBuilder(store, api)
		_, err := builder.Build(ctx, testGroupAssignment(), testGroup(42))
		require.Error(t, err)

		api.AssertCalled(t, "DeleteRepository", mock.Anything, "classroom-org", "group-project-team-rocket")
		store.AssertNotCalled(t, "SaveGroupAssignmentRepo", mock.Anything, mock.Anything)
	})
}

func TestGroupAssignmentRepoBuilder_Destroy(t *testing.T) {
	ctx := context.Background()

	record := &domain.GroupAssignmentRepo{
		ID:                "record-1",
		GroupAssignmentID: "group-assignment-1",
		GroupID:           "group-1",
		GithubRepoID:      8,
		GithubTeamID:      42,
	}

	t.Run("deletes repository, team and local record", func(t *testing.T) {
		store := new(MockStorage)
		api := new(MockAPIClient)

		api.On("GetRepository", mock.Anything, int64(8)).Return(groupRepo(), nil)
		api.On("DeleteRepository", mock.Anything, "classroom-org", "group-project-team-rocket").Return(nil)
		store.On("GetGroupAssignment", mock.Anything, "group-assignment-1").Return(testGroupAssignment(), nil)
		api.On("DeleteTeam", mock.Anything, int64(100), int64(42)).Return(nil)
		store.On("DeleteGroupAssignmentRepo", mock.Anything, "record-1").Return(nil)

		builder := NewGroupAssignmentRepoBuilder(store, api)
		require.NoError(t, builder.Destroy(ctx, record))
		api.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("remote failures still remove the local record", func(t *testing.T) {
		store := new(MockStorage)
		api := new(MockAPIClient)

		api.On("GetRepository", mock.Anything, int64(8)).
			Return(nil, apperrors.NewNotFoundError("repository"))
		store.On("GetGroupAssignment", mock.Anything, "group-assignment-1").
			Return(nil, apperrors.NewNotFoundError("group assignment"))
		store.On("DeleteGroupAssignmentRepo", mock.Anything, "record-1").Return(nil)

		builder := NewGroupAssignmentRepoBuilder(store, api)
		require.NoError(t, builder.Destroy(ctx, record))
		store.AssertExpectations(t)
	})
}
