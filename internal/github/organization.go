package github

import (
	"context"
	"fmt"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
	apperrors "github.com/gitclassrooms/classroom-provisioner/internal/errors"
)

const teamDescriptionTemplate = "%s created by Classroom for GitHub"

// Organization wraps a remote organization id together with an authenticated
// API client. Construction performs no network call; the login is resolved
// lazily on first use.
type Organization struct {
	id    int64
	api   APIClient
	login string
}

// NewOrganization creates an organization wrapper
func NewOrganization(id int64, api APIClient) *Organization {
	return &Organization{id: id, api: api}
}

// ID returns the remote organization id
func (o *Organization) ID() int64 {
	return o.id
}

// Login resolves and returns the organization's login
func (o *Organization) Login(ctx context.Context) (string, error) {
	if o.login != "" {
		return o.login, nil
	}
	org, err := o.api.GetOrganization(ctx, o.id)
	if err != nil {
		return "", err
	}
	o.login = org.Login
	return o.login, nil
}

// AddMembership invites a user into the organization with the member role.
// Idempotent: when the user already has a membership, the existing one is
// returned unchanged.
func (o *Organization) AddMembership(ctx context.Context, login string) (*domain.Membership, error) {
	orgLogin, err := o.Login(ctx)
	if err != nil {
		return nil, err
	}

	membership, err := o.api.GetOrgMembership(ctx, orgLogin, login)
	if err == nil {
		return membership, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	return o.api.EditOrgMembership(ctx, orgLogin, login, domain.MembershipRoleMember)
}

// ActiveAdmin reports whether a user is an activated organization admin.
// A missing membership is a valid negative result, not an error.
func (o *Organization) ActiveAdmin(ctx context.Context, login string) (bool, error) {
	orgLogin, err := o.Login(ctx)
	if err != nil {
		return false, err
	}

	membership, err := o.api.GetOrgMembership(ctx, orgLogin, login)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	return membership.Admin() && membership.Active(), nil
}

// CreateRepository creates a repository under the organization. Caller
// options are merged over the defaults (issues, wiki and downloads enabled).
func (o *Organization) CreateRepository(ctx context.Context, name string, opts domain.RepositoryOptions) (*Repository, error) {
	if !domain.ValidRepoName(name) {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("invalid repository name %q", name))
	}

	orgLogin, err := o.Login(ctx)
	if err != nil {
		return nil, err
	}

	opts.Name = name
	mergeRepositoryDefaults(&opts)

	repo, err := o.api.CreateRepository(ctx, orgLogin, opts)
	if err != nil {
		return nil, err
	}

	return NewRepository(repo.ID, o.api), nil
}

// CreateTeam creates a team under the organization with push permission
func (o *Organization) CreateTeam(ctx context.Context, name string) (*Team, error) {
	orgLogin, err := o.Login(ctx)
	if err != nil {
		return nil, err
	}

	team, err := o.api.CreateTeam(ctx, orgLogin, domain.TeamOptions{
		Name:        name,
		Description: fmt.Sprintf(teamDescriptionTemplate, name),
		Permission:  "push",
	})
	if err != nil {
		return nil, err
	}

	orgID := team.OrgID
	if orgID == 0 {
		orgID = o.id
	}
	return NewTeam(orgID, team.ID, o.api), nil
}

// Plan fetches the organization's private repository quota, bypassing any
// intermediary cache. Fails when the authenticated token lacks the scope to
// read plan details.
func (o *Organization) Plan(ctx context.Context) (*domain.Plan, error) {
	rep, err := o.api.FetchResource(ctx, fmt.Sprintf("organizations/%d", o.id), true)
	if err != nil {
		return nil, err
	}

	owned, ownedOK := numericField(rep, "owned_private_repos")
	plan, planOK := rep["plan"].(map[string]interface{})
	if !ownedOK || !planOK {
		return nil, apperrors.NewForbiddenError(
			"cannot read the organization plan, the access token is missing the required scope; reauthenticate and try again")
	}
	allowed, allowedOK := numericField(plan, "private_repos")
	if !allowedOK {
		return nil, apperrors.NewForbiddenError(
			"cannot read the organization plan, the access token is missing the required scope; reauthenticate and try again")
	}

	return &domain.Plan{
		OwnedPrivateRepos: owned,
		PrivateRepos:      allowed,
	}, nil
}

// RemoveMember removes a user from the organization. Refuses, returning
// false, when the user is an active admin; a missing membership makes the
// removal a no-op returning false.
func (o *Organization) RemoveMember(ctx context.Context, login string) (bool, error) {
	orgLogin, err := o.Login(ctx)
	if err != nil {
		return false, err
	}

	membership, err := o.api.GetOrgMembership(ctx, orgLogin, login)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if membership.Admin() && membership.Active() {
		return false, nil
	}

	if err := o.api.RemoveOrgMember(ctx, orgLogin, login); err != nil {
		return false, err
	}
	return true, nil
}

// IsMember reports whether a user is a member of the organization
func (o *Organization) IsMember(ctx context.Context, login string) (bool, error) {
	orgLogin, err := o.Login(ctx)
	if err != nil {
		return false, err
	}
	return o.api.IsOrgMember(ctx, orgLogin, login)
}

// Members lists the logins of the organization's members, optionally
// filtered by role
func (o *Organization) Members(ctx context.Context, role string) ([]string, error) {
	orgLogin, err := o.Login(ctx)
	if err != nil {
		return nil, err
	}
	return o.api.ListOrgMembers(ctx, orgLogin, role)
}

// Field returns a read-only attribute of the remote organization
// representation by name
func (o *Organization) Field(ctx context.Context, name string) (interface{}, error) {
	return fetchField(ctx, o.api, fmt.Sprintf("organizations/%d", o.id), name)
}

// HasField reports whether the named attribute exists on the remote
// organization representation. Costs one full remote fetch per probe.
func (o *Organization) HasField(ctx context.Context, name string) (bool, error) {
	return probeField(ctx, o.api, fmt.Sprintf("organizations/%d", o.id), name)
}

func mergeRepositoryDefaults(opts *domain.RepositoryOptions) {
	enabled := true
	if opts.HasIssues == nil {
		opts.HasIssues = &enabled
	}
	if opts.HasWiki == nil {
		opts.HasWiki = &enabled
	}
	if opts.HasDownloads == nil {
		opts.HasDownloads = &enabled
	}
}

// numericField reads an integer-valued JSON field, which decodes as float64
func numericField(rep map[string]interface{}, name string) (int64, bool) {
	v, ok := rep[name].(float64)
	if !ok {
		return 0, false
	}
	return int64(v), true
}
