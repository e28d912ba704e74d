package github

import (
	"context"
	"fmt"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
)

// Repository wraps a remote repository id together with an authenticated API
// client. The owner/name pair most remote operations need is resolved lazily.
type Repository struct {
	id   int64
	api  APIClient
	data *domain.Repository
}

// NewRepository creates a repository wrapper
func NewRepository(id int64, api APIClient) *Repository {
	return &Repository{id: id, api: api}
}

// ID returns the remote repository id
func (r *Repository) ID() int64 {
	return r.id
}

func (r *Repository) resolve(ctx context.Context) (*domain.Repository, error) {
	if r.data != nil {
		return r.data, nil
	}
	repo, err := r.api.GetRepository(ctx, r.id)
	if err != nil {
		return nil, err
	}
	r.data = repo
	return repo, nil
}

// FullName resolves and returns the repository's "owner/name" identifier
func (r *Repository) FullName(ctx context.Context) (string, error) {
	repo, err := r.resolve(ctx)
	if err != nil {
		return "", err
	}
	return repo.FullName, nil
}

// AddCollaborator grants a user push access to the repository
func (r *Repository) AddCollaborator(ctx context.Context, login string) error {
	repo, err := r.resolve(ctx)
	if err != nil {
		return err
	}
	return r.api.AddCollaborator(ctx, repo.OwnerLogin, repo.Name, login, "push")
}

// ImportStarterCode triggers a remote import of source's content into the
// repository, authenticated as creator (whose token doubles as the VCS
// password on the import request).
func (r *Repository) ImportStarterCode(ctx context.Context, source *Repository, creatorLogin, creatorToken string) error {
	repo, err := r.resolve(ctx)
	if err != nil {
		return err
	}
	src, err := source.resolve(ctx)
	if err != nil {
		return err
	}
	return r.api.StartImport(ctx, repo.OwnerLogin, repo.Name, src.CloneURL, creatorLogin, creatorToken)
}

// Delete deletes the remote repository
func (r *Repository) Delete(ctx context.Context) error {
	repo, err := r.resolve(ctx)
	if err != nil {
		return err
	}
	return r.api.DeleteRepository(ctx, repo.OwnerLogin, repo.Name)
}

// Organization resolves and returns the owning organization's wrapper
func (r *Repository) Organization(ctx context.Context) (*Organization, error) {
	repo, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return NewOrganization(repo.OwnerID, r.api), nil
}

// Field returns a read-only attribute of the remote repository
// representation by name
func (r *Repository) Field(ctx context.Context, name string) (interface{}, error) {
	return fetchField(ctx, r.api, fmt.Sprintf("repositories/%d", r.id), name)
}

// HasField reports whether the named attribute exists on the remote
// repository representation
func (r *Repository) HasField(ctx context.Context, name string) (bool, error) {
	return probeField(ctx, r.api, fmt.Sprintf("repositories/%d", r.id), name)
}
