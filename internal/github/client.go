package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
	apperrors "github.com/gitclassrooms/classroom-provisioner/internal/errors"
)

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client      *github.Client
	rateLimiter RateLimiter
}

// NewClient creates a GitHub API client authenticated with a user access
// token
func NewClient(token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		client:      github.NewClient(tc),
		rateLimiter: NewRateLimiter(),
	}
}

// NewAppClient creates a GitHub API client authenticated as an OAuth
// application via its client id and secret. App-level auth can only read
// public resources and check token authorizations.
func NewAppClient(clientID, clientSecret string) *Client {
	tp := &github.BasicAuthTransport{
		Username: clientID,
		Password: clientSecret,
	}

	return &Client{
		client:      github.NewClient(tp.Client()),
		rateLimiter: NewRateLimiter(),
	}
}

// FetchResource returns the raw representation of the resource at path
func (c *Client) FetchResource(ctx context.Context, path string, noCache bool) (map[string]interface{}, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := c.client.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, wrapAPIError(err, path)
	}
	if noCache {
		req.Header.Set("Cache-Control", "no-cache, no-store")
	}

	var body map[string]interface{}
	resp, err := c.client.Do(ctx, req, &body)
	c.updateRateLimit(resp)
	if err != nil {
		return nil, wrapAPIError(err, path)
	}

	return body, nil
}

// GetOrganization retrieves an organization by its remote id
func (c *Client) GetOrganization(ctx context.Context, id int64) (*domain.Organization, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	org, resp, err := c.client.Organizations.GetByID(ctx, id)
	c.updateRateLimit(resp)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("organization %d", id))
	}

	return &domain.Organization{
		ID:    org.GetID(),
		Login: org.GetLogin(),
	}, nil
}

// GetUser retrieves a user by their remote id
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	user, resp, err := c.client.Users.GetByID(ctx, id)
	c.updateRateLimit(resp)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("user %d", id))
	}

	return &domain.User{
		GithubUserID: user.GetID(),
		Login:        user.GetLogin(),
	}, nil
}

// GetRepository retrieves a repository by its remote id
func (c *Client) GetRepository(ctx context.Context, id int64) (*domain.Repository, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	repo, resp, err := c.client.Repositories.GetByID(ctx, id)
	c.updateRateLimit(resp)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("repository %d", id))
	}

	return convertRepository(repo), nil
}

// GetTeam retrieves a team by its remote id
func (c *Client) GetTeam(ctx context.Context, orgID, teamID int64) (*domain.Team, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	team, resp, err := c.client.Teams.GetTeamByID(ctx, orgID, teamID)
	c.updateRateLimit(resp)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("team %d", teamID))
	}

	return &domain.Team{
		ID:    team.GetID(),
		OrgID: orgID,
		Name:  team.GetName(),
		Slug:  team.GetSlug(),
	}, nil
}

// GetOrgMembership retrieves a user's membership within an organization
func (c *Client) GetOrgMembership(ctx context.Context, org, user string) (*domain.Membership, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	membership, resp, err := c.client.Organizations.GetOrgMembership(ctx, user, org)
	c.updateRateLimit(resp)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("membership of %s in %s", user, org))
	}

	return convertMembership(membership), nil
}

// EditOrgMembership creates or updates a user's membership within an
// organization
func (c *Client) EditOrgMembership(ctx context.Context, org, user, role string) (*domain.Membership, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	membership, resp, err := c.client.Organizations.EditOrgMembership(ctx, user, org, &github.Membership{
		Role: github.String(role),
	})
	c.updateRateLimit(resp)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("membership of %s in %s", user, org))
	}

	return convertMembership(membership), nil
}

// RemoveOrgMember removes a user from an organization
func (c *Client) RemoveOrgMember(ctx context.Context, org, user string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.client.Organizations.RemoveMember(ctx, org, user)
	c.updateRateLimit(resp)
	if err != nil {
		return wrapAPIError(err, fmt.Sprintf("membership of %s in %s", user, org))
	}
	return nil
}

// IsOrgMember reports whether a user is a member of an organization
func (c *Client) IsOrgMember(ctx context.Context, org, user string) (bool, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return false, err
	}

	member, resp, err := c.client.Organizations.IsMember(ctx, org, user)
	c.updateRateLimit(resp)
	if err != nil {
		return false, wrapAPIError(err, fmt.Sprintf("membership of %s in %s", user, org))
	}
	return member, nil
}

// ListOrgMembers lists the logins of an organization's members, optionally
// filtered by role
func (c *Client) ListOrgMembers(ctx context.Context, org, role string) ([]string, error) {
	var logins []string
	opts := &github.ListMembersOptions{
		Role:        role,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		members, resp, err := c.client.Organizations.ListMembers(ctx, org, opts)
		c.updateRateLimit(resp)
		if err != nil {
			return nil, wrapAPIError(err, fmt.Sprintf("members of %s", org))
		}

		for _, member := range members {
			logins = append(logins, member.GetLogin())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return logins, nil
}

// CreateRepository creates a repository scoped to an organization
func (c *Client) CreateRepository(ctx context.Context, org string, opts domain.RepositoryOptions) (*domain.Repository, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	repo, resp, err := c.client.Repositories.Create(ctx, org, &github.Repository{
		Name:         github.String(opts.Name),
		Description:  github.String(opts.Description),
		Private:      github.Bool(opts.Private),
		HasIssues:    opts.HasIssues,
		HasWiki:      opts.HasWiki,
		HasDownloads: opts.HasDownloads,
	})
	c.updateRateLimit(resp)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("repository %s/%s", org, opts.Name))
	}

	return convertRepository(repo), nil
}

// DeleteRepository deletes a repository
func (c *Client) DeleteRepository(ctx context.Context, owner, name string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.client.Repositories.Delete(ctx, owner, name)
	c.updateRateLimit(resp)
	if err != nil {
		return wrapAPIError(err, fmt.Sprintf("repository %s/%s", owner, name))
	}
	return nil
}

// AddCollaborator grants a user access to a repository
func (c *Client) AddCollaborator(ctx context.Context, owner, name, user, permission string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	_, resp, err := c.client.Repositories.AddCollaborator(ctx, owner, name, user, &github.RepositoryAddCollaboratorOptions{
		Permission: permission,
	})
	c.updateRateLimit(resp)
	if err != nil {
		return wrapAPIError(err, fmt.Sprintf("collaborator %s on %s/%s", user, owner, name))
	}
	return nil
}

// StartImport triggers a remote import of VCS content into a repository
func (c *Client) StartImport(ctx context.Context, owner, name, vcsURL, vcsUsername, vcsPassword string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	_, resp, err := c.client.Migrations.StartImport(ctx, owner, name, &github.Import{
		VCS:         github.String("git"),
		VCSURL:      github.String(vcsURL),
		VCSUsername: github.String(vcsUsername),
		VCSPassword: github.String(vcsPassword),
	})
	c.updateRateLimit(resp)
	if err != nil {
		return wrapAPIError(err, fmt.Sprintf("import into %s/%s", owner, name))
	}
	return nil
}

// CreateTeam creates a team scoped to an organization
func (c *Client) CreateTeam(ctx context.Context, org string, opts domain.TeamOptions) (*domain.Team, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	team, resp, err := c.client.Teams.CreateTeam(ctx, org, github.NewTeam{
		Name:        opts.Name,
		Description: github.String(opts.Description),
		Permission:  github.String(opts.Permission),
	})
	c.updateRateLimit(resp)
	if err != nil {
		return nil, wrapAPIError(err, fmt.Sprintf("team %s in %s", opts.Name, org))
	}

	return &domain.Team{
		ID:    team.GetID(),
		OrgID: team.GetOrganization().GetID(),
		Name:  team.GetName(),
		Slug:  team.GetSlug(),
	}, nil
}

// DeleteTeam deletes a team
func (c *Client) DeleteTeam(ctx context.Context, orgID, teamID int64) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.client.Teams.DeleteTeamByID(ctx, orgID, teamID)
	c.updateRateLimit(resp)
	if err != nil {
		return wrapAPIError(err, fmt.Sprintf("team %d", teamID))
	}
	return nil
}

// AddTeamMembership adds a user to a team with the member role
func (c *Client) AddTeamMembership(ctx context.Context, orgID, teamID int64, user string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	_, resp, err := c.client.Teams.AddTeamMembershipByID(ctx, orgID, teamID, user, &github.TeamAddTeamMembershipOptions{
		Role: domain.MembershipRoleMember,
	})
	c.updateRateLimit(resp)
	if err != nil {
		return wrapAPIError(err, fmt.Sprintf("membership of %s in team %d", user, teamID))
	}
	return nil
}

// RemoveTeamMembership removes a user from a team
func (c *Client) RemoveTeamMembership(ctx context.Context, orgID, teamID int64, user string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.client.Teams.RemoveTeamMembershipByID(ctx, orgID, teamID, user)
	c.updateRateLimit(resp)
	if err != nil {
		return wrapAPIError(err, fmt.Sprintf("membership of %s in team %d", user, teamID))
	}
	return nil
}

// AddTeamRepository grants a team access to a repository
func (c *Client) AddTeamRepository(ctx context.Context, orgID, teamID int64, owner, name, permission string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.client.Teams.AddTeamRepoByID(ctx, orgID, teamID, owner, name, &github.TeamAddTeamRepoOptions{
		Permission: permission,
	})
	c.updateRateLimit(resp)
	if err != nil {
		return wrapAPIError(err, fmt.Sprintf("repository %s/%s for team %d", owner, name, teamID))
	}
	return nil
}

// IsTeamRepository reports whether a team manages a repository
func (c *Client) IsTeamRepository(ctx context.Context, orgID, teamID int64, owner, name string) (bool, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return false, err
	}

	_, resp, err := c.client.Teams.IsTeamRepoByID(ctx, orgID, teamID, owner, name)
	c.updateRateLimit(resp)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, wrapAPIError(err, fmt.Sprintf("repository %s/%s for team %d", owner, name, teamID))
	}
	return true, nil
}

// CheckTokenAuthorization reports whether token is a valid authorization of
// the OAuth application identified by clientID. Requires app-level auth.
func (c *Client) CheckTokenAuthorization(ctx context.Context, clientID, token string) (bool, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return false, err
	}

	_, resp, err := c.client.Authorizations.Check(ctx, clientID, token)
	c.updateRateLimit(resp)
	if err != nil {
		translated := wrapAPIError(err, "token authorization")
		if apperrors.IsNotFound(translated) {
			return false, nil
		}
		return false, translated
	}
	return true, nil
}

// updateRateLimit records the rate limit observed on an API response
func (c *Client) updateRateLimit(resp *github.Response) {
	if resp != nil && resp.Rate.Remaining >= 0 {
		c.rateLimiter.UpdateLimit(resp.Rate.Remaining, resp.Rate.Reset.Time)
	}
}

func convertRepository(repo *github.Repository) *domain.Repository {
	return &domain.Repository{
		ID:         repo.GetID(),
		Name:       repo.GetName(),
		FullName:   repo.GetFullName(),
		OwnerID:    repo.GetOwner().GetID(),
		OwnerLogin: repo.GetOwner().GetLogin(),
		Private:    repo.GetPrivate(),
		CloneURL:   repo.GetCloneURL(),
	}
}

func convertMembership(m *github.Membership) *domain.Membership {
	return &domain.Membership{
		Role:  m.GetRole(),
		State: m.GetState(),
	}
}
