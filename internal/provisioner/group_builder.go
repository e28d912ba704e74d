package provisioner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
	"github.com/gitclassrooms/classroom-provisioner/internal/github"
	"github.com/gitclassrooms/classroom-provisioner/internal/storage"
)

// GroupAssignmentRepoBuilder orchestrates the creation and teardown of group
// submission repositories. It mirrors the individual workflow, with the
// group's team taking the invitee's place: the team is granted push access to
// the new repository instead of a single collaborator.
type GroupAssignmentRepoBuilder struct {
	store storage.Storage
	api   github.APIClient
}

// NewGroupAssignmentRepoBuilder creates a new builder
func NewGroupAssignmentRepoBuilder(store storage.Storage, api github.APIClient) *GroupAssignmentRepoBuilder {
	return &GroupAssignmentRepoBuilder{
		store: store,
		api:   api,
	}
}

// Build provisions a submission repository for group
func (b *GroupAssignmentRepoBuilder) Build(ctx context.Context, assignment *domain.GroupAssignment, group *domain.Group) (*domain.GroupAssignmentRepo, error) {
	org := github.NewOrganization(assignment.OrganizationID, b.api)

	if assignment.Private {
		if err := verifyQuota(ctx, org); err != nil {
			return nil, err
		}
	}

	team, err := b.ensureTeam(ctx, org, group)
	if err != nil {
		return nil, creationFailed(err)
	}

	name := domain.SubmissionRepoName(assignment.Slug, group.Slug)
	repo, err := org.CreateRepository(ctx, name, domain.RepositoryOptions{
		Description: fmt.Sprintf("%s: %s's submission", assignment.Title, group.Title),
		Private:     assignment.Private,
	})
	if err != nil {
		return nil, creationFailed(err)
	}

	if err := team.AddRepository(ctx, repo); err != nil {
		rollbackRepository(ctx, repo)
		return nil, creationFailed(err)
	}

	if assignment.Private && assignment.StarterCodeRepoID != 0 {
		if err := b.importStarterCode(ctx, repo, assignment.CreatorID, assignment.StarterCodeRepoID); err != nil {
			rollbackRepository(ctx, repo)
			return nil, creationFailed(err)
		}
	}

	now := time.Now()
	record := &domain.GroupAssignmentRepo{
		ID:                uuid.New().String(),
		GroupAssignmentID: assignment.ID,
		GroupID:           group.ID,
		GithubRepoID:      repo.ID(),
		GithubTeamID:      team.ID(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := b.store.SaveGroupAssignmentRepo(ctx, record); err != nil {
		rollbackRepository(ctx, repo)
		return nil, creationFailed(err)
	}

	return record, nil
}

// Destroy tears down a group submission repository. As with the individual
// variant, remote deletions are logged-only and the local record always goes.
func (b *GroupAssignmentRepoBuilder) Destroy(ctx context.Context, record *domain.GroupAssignmentRepo) error {
	repo := github.NewRepository(record.GithubRepoID, b.api)
	if err := repo.Delete(ctx); err != nil {
		log.Printf("provisioner: failed to delete repository %d during teardown: %v", record.GithubRepoID, err)
	}

	if record.GithubTeamID != 0 {
		assignment, err := b.store.GetGroupAssignment(ctx, record.GroupAssignmentID)
		if err != nil {
			log.Printf("provisioner: failed to resolve group assignment %s during teardown: %v", record.GroupAssignmentID, err)
		} else {
			team := github.NewTeam(assignment.OrganizationID, record.GithubTeamID, b.api)
			if err := team.Delete(ctx); err != nil {
				log.Printf("provisioner: failed to delete team %d during teardown: %v", record.GithubTeamID, err)
			}
		}
	}

	return b.store.DeleteGroupAssignmentRepo(ctx, record.ID)
}

// ensureTeam resolves the group's team, creating it remotely and persisting
// its id on the group the first time the group submits
func (b *GroupAssignmentRepoBuilder) ensureTeam(ctx context.Context, org *github.Organization, group *domain.Group) (*github.Team, error) {
	if group.GithubTeamID != 0 {
		return github.NewTeam(org.ID(), group.GithubTeamID, b.api), nil
	}

	team, err := org.CreateTeam(ctx, group.Title)
	if err != nil {
		return nil, err
	}

	group.GithubTeamID = team.ID()
	group.UpdatedAt = time.Now()
	if err := b.store.SaveGroup(ctx, group); err != nil {
		return nil, err
	}

	return team, nil
}

func (b *GroupAssignmentRepoBuilder) importStarterCode(ctx context.Context, repo *github.Repository, creatorID string, starterRepoID int64) error {
	creator, err := b.store.GetUser(ctx, creatorID)
	if err != nil {
		return err
	}
	source := github.NewRepository(starterRepoID, b.api)
	return repo.ImportStarterCode(ctx, source, creator.Login, creator.Token)
}
