package provisioner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
	apperrors "github.com/gitclassrooms/classroom-provisioner/internal/errors"
	"github.com/gitclassrooms/classroom-provisioner/internal/github"
	"github.com/gitclassrooms/classroom-provisioner/internal/storage"
)

// AssignmentRepoBuilder orchestrates the creation and teardown of individual
// submission repositories. The API client must be authenticated as the
// assignment creator. Each Build invocation owns its own entity wrappers;
// builders hold no cross-call state beyond their collaborators.
type AssignmentRepoBuilder struct {
	store storage.Storage
	api   github.APIClient
}

// NewAssignmentRepoBuilder creates a new builder
func NewAssignmentRepoBuilder(store storage.Storage, api github.APIClient) *AssignmentRepoBuilder {
	return &AssignmentRepoBuilder{
		store: store,
		api:   api,
	}
}

// Build provisions a submission repository for invitee:
// quota check (private only), repository creation, collaborator grant,
// starter code import (private only), then the durable local record. Any
// failure after the repository exists rolls it back with a best-effort
// delete; only the final persist must succeed for Build to report success.
func (b *AssignmentRepoBuilder) Build(ctx context.Context, assignment *domain.Assignment, invitee *domain.User) (*domain.AssignmentRepo, error) {
	org := github.NewOrganization(assignment.OrganizationID, b.api)

	if assignment.Private {
		if err := verifyQuota(ctx, org); err != nil {
			return nil, err
		}
	}

	if err := b.ensureRepoAccess(ctx, org, assignment, invitee); err != nil {
		return nil, creationFailed(err)
	}

	name := domain.SubmissionRepoName(assignment.Slug, invitee.Login)
	repo, err := org.CreateRepository(ctx, name, domain.RepositoryOptions{
		Description: fmt.Sprintf("%s: %s's submission", assignment.Title, invitee.Login),
		Private:     assignment.Private,
	})
	if err != nil {
		return nil, creationFailed(err)
	}

	if err := repo.AddCollaborator(ctx, invitee.Login); err != nil {
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
	record := &domain.AssignmentRepo{
		ID:           uuid.New().String(),
		AssignmentID: assignment.ID,
		UserID:       invitee.ID,
		GithubRepoID: repo.ID(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := b.store.SaveAssignmentRepo(ctx, record); err != nil {
		rollbackRepository(ctx, repo)
		return nil, creationFailed(err)
	}

	return record, nil
}

// Destroy tears down a submission repository. Remote deletions are
// best-effort: failures are logged, never returned, and the local record is
// removed regardless.
func (b *AssignmentRepoBuilder) Destroy(ctx context.Context, record *domain.AssignmentRepo) error {
	repo := github.NewRepository(record.GithubRepoID, b.api)
	if err := repo.Delete(ctx); err != nil {
		log.Printf("provisioner: failed to delete repository %d during teardown: %v", record.GithubRepoID, err)
	}

	if record.GithubTeamID != 0 {
		assignment, err := b.store.GetAssignment(ctx, record.AssignmentID)
		if err != nil {
			log.Printf("provisioner: failed to resolve assignment %s during teardown: %v", record.AssignmentID, err)
		} else {
			team := github.NewTeam(assignment.OrganizationID, record.GithubTeamID, b.api)
			if err := team.Delete(ctx); err != nil {
				log.Printf("provisioner: failed to delete team %d during teardown: %v", record.GithubTeamID, err)
			}
		}
	}

	return b.store.DeleteAssignmentRepo(ctx, record.ID)
}

// ensureRepoAccess activates the invitee's organization membership and
// records the unique (user, organization) repo access row the first time a
// user submits within an organization
func (b *AssignmentRepoBuilder) ensureRepoAccess(ctx context.Context, org *github.Organization, assignment *domain.Assignment, invitee *domain.User) error {
	_, err := b.store.GetRepoAccess(ctx, invitee.ID, assignment.OrganizationID)
	if err == nil {
		return nil
	}
	if !apperrors.IsNotFound(err) {
		return err
	}

	if _, err := org.AddMembership(ctx, invitee.Login); err != nil {
		return err
	}

	now := time.Now()
	return b.store.SaveRepoAccess(ctx, &domain.RepoAccess{
		ID:             uuid.New().String(),
		UserID:         invitee.ID,
		OrganizationID: assignment.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (b *AssignmentRepoBuilder) importStarterCode(ctx context.Context, repo *github.Repository, creatorID string, starterRepoID int64) error {
	creator, err := b.store.GetUser(ctx, creatorID)
	if err != nil {
		return err
	}
	source := github.NewRepository(starterRepoID, b.api)
	return repo.ImportStarterCode(ctx, source, creator.Login, creator.Token)
}

// verifyQuota fails before any remote mutation when the organization has no
// private repository headroom left
func verifyQuota(ctx context.Context, org *github.Organization) error {
	plan, err := org.Plan(ctx)
	if err != nil {
		return err
	}
	if !plan.HasHeadroom() {
		return apperrors.NewQuotaExceededError(fmt.Sprintf(
			"private repository quota exhausted: %d of %d private repositories in use; upgrade the organization plan at https://github.com/account/billing/plans",
			plan.OwnedPrivateRepos, plan.PrivateRepos))
	}
	return nil
}

// rollbackRepository deletes a partially provisioned repository. Best-effort:
// a failed rollback is logged and the original failure still surfaces.
func rollbackRepository(ctx context.Context, repo *github.Repository) {
	if err := repo.Delete(ctx); err != nil {
		log.Printf("provisioner: failed to delete repository %d during rollback: %v", repo.ID(), err)
	}
}

func creationFailed(err error) error {
	return apperrors.NewInternalError("could not create repository", err)
}
