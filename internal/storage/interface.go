package storage

import (
	"context"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
)

// Storage is the abstract interface for the persistence layer. Get operations
// return a NOT_FOUND application error when no row matches.
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByLogin(ctx context.Context, login string) (*domain.User, error)

	// Group operations
	SaveGroup(ctx context.Context, group *domain.Group) error
	GetGroup(ctx context.Context, id string) (*domain.Group, error)

	// Assignment operations
	SaveAssignment(ctx context.Context, assignment *domain.Assignment) error
	GetAssignment(ctx context.Context, id string) (*domain.Assignment, error)
	ListAssignments(ctx context.Context) ([]*domain.Assignment, error)
	SaveGroupAssignment(ctx context.Context, assignment *domain.GroupAssignment) error
	GetGroupAssignment(ctx context.Context, id string) (*domain.GroupAssignment, error)

	// Repo access operations (unique per user and organization)
	SaveRepoAccess(ctx context.Context, access *domain.RepoAccess) error
	GetRepoAccess(ctx context.Context, userID string, organizationID int64) (*domain.RepoAccess, error)

	// Submission repo records. Save enforces the github_repo_id uniqueness
	// constraint and fails on duplicates rather than upserting.
	SaveAssignmentRepo(ctx context.Context, repo *domain.AssignmentRepo) error
	GetAssignmentRepo(ctx context.Context, id string) (*domain.AssignmentRepo, error)
	ListAssignmentRepos(ctx context.Context, assignmentID string) ([]*domain.AssignmentRepo, error)
	DeleteAssignmentRepo(ctx context.Context, id string) error

	SaveGroupAssignmentRepo(ctx context.Context, repo *domain.GroupAssignmentRepo) error
	GetGroupAssignmentRepo(ctx context.Context, id string) (*domain.GroupAssignmentRepo, error)
	ListGroupAssignmentRepos(ctx context.Context, groupAssignmentID string) ([]*domain.GroupAssignmentRepo, error)
	DeleteGroupAssignmentRepo(ctx context.Context, id string) error

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}
