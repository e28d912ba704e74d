package github

import (
	"context"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
)

// APIClient defines the interface for GitHub API operations. The production
// implementation delegates to the GitHub REST API; tests supply doubles.
// Entity wrappers receive an already-authenticated APIClient rather than
// constructing one from raw credentials.
type APIClient interface {
	// Generic resource reads. FetchResource returns the raw remote
	// representation of the resource at path as a field name to value
	// mapping. noCache forces a fresh read, bypassing intermediary caches.
	FetchResource(ctx context.Context, path string, noCache bool) (map[string]interface{}, error)

	// Resource lookups by remote id
	GetOrganization(ctx context.Context, id int64) (*domain.Organization, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetRepository(ctx context.Context, id int64) (*domain.Repository, error)
	GetTeam(ctx context.Context, orgID, teamID int64) (*domain.Team, error)

	// Organization membership operations
	GetOrgMembership(ctx context.Context, org, user string) (*domain.Membership, error)
	EditOrgMembership(ctx context.Context, org, user, role string) (*domain.Membership, error)
	RemoveOrgMember(ctx context.Context, org, user string) error
	IsOrgMember(ctx context.Context, org, user string) (bool, error)
	ListOrgMembers(ctx context.Context, org, role string) ([]string, error)

	// Repository operations
	CreateRepository(ctx context.Context, org string, opts domain.RepositoryOptions) (*domain.Repository, error)
	DeleteRepository(ctx context.Context, owner, name string) error
	AddCollaborator(ctx context.Context, owner, name, user, permission string) error

	// StartImport triggers a remote import of VCS content into a repository
	StartImport(ctx context.Context, owner, name, vcsURL, vcsUsername, vcsPassword string) error

	// Team operations
	CreateTeam(ctx context.Context, org string, opts domain.TeamOptions) (*domain.Team, error)
	DeleteTeam(ctx context.Context, orgID, teamID int64) error
	AddTeamMembership(ctx context.Context, orgID, teamID int64, user string) error
	RemoveTeamMembership(ctx context.Context, orgID, teamID int64, user string) error
	AddTeamRepository(ctx context.Context, orgID, teamID int64, owner, name, permission string) error
	IsTeamRepository(ctx context.Context, orgID, teamID int64, owner, name string) (bool, error)
}
