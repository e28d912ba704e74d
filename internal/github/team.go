package github

import (
	"context"
	"fmt"
)

// Team wraps a remote team id (and its owning organization id) together with
// an authenticated API client
type Team struct {
	orgID int64
	id    int64
	api   APIClient
}

// NewTeam creates a team wrapper
func NewTeam(orgID, id int64, api APIClient) *Team {
	return &Team{orgID: orgID, id: id, api: api}
}

// ID returns the remote team id
func (t *Team) ID() int64 {
	return t.id
}

// OrgID returns the remote id of the owning organization
func (t *Team) OrgID() int64 {
	return t.orgID
}

// AddMembership adds a user to the team with the member role
func (t *Team) AddMembership(ctx context.Context, login string) error {
	return t.api.AddTeamMembership(ctx, t.orgID, t.id, login)
}

// RemoveMembership removes a user from the team
func (t *Team) RemoveMembership(ctx context.Context, login string) error {
	return t.api.RemoveTeamMembership(ctx, t.orgID, t.id, login)
}

// AddRepository grants the team push access to a repository
func (t *Team) AddRepository(ctx context.Context, repo *Repository) error {
	data, err := repo.resolve(ctx)
	if err != nil {
		return err
	}
	return t.api.AddTeamRepository(ctx, t.orgID, t.id, data.OwnerLogin, data.Name, "push")
}

// HasRepository reports whether the team manages a repository
func (t *Team) HasRepository(ctx context.Context, repo *Repository) (bool, error) {
	data, err := repo.resolve(ctx)
	if err != nil {
		return false, err
	}
	return t.api.IsTeamRepository(ctx, t.orgID, t.id, data.OwnerLogin, data.Name)
}

// Delete deletes the remote team
func (t *Team) Delete(ctx context.Context) error {
	return t.api.DeleteTeam(ctx, t.orgID, t.id)
}

// Field returns a read-only attribute of the remote team representation by
// name
func (t *Team) Field(ctx context.Context, name string) (interface{}, error) {
	return fetchField(ctx, t.api, fmt.Sprintf("teams/%d", t.id), name)
}

// HasField reports whether the named attribute exists on the remote team
// representation
func (t *Team) HasField(ctx context.Context, name string) (bool, error) {
	return probeField(ctx, t.api, fmt.Sprintf("teams/%d", t.id), name)
}
