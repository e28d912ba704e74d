package reporter

import (
	"context"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
	apperrors "github.com/gitclassrooms/classroom-provisioner/internal/errors"
	"github.com/gitclassrooms/classroom-provisioner/internal/storage"
)

// Reporter defines read-side summaries over provisioned submissions
type Reporter interface {
	// AssignmentSummary returns the submission counts for one assignment
	AssignmentSummary(ctx context.Context, assignmentID string) (*domain.AssignmentSummary, error)

	// AssignmentRoster returns one entry per provisioned submission,
	// resolved to the submitting user's login
	AssignmentRoster(ctx context.Context, assignmentID string) ([]*domain.RosterEntry, error)

	// ListAssignmentSummaries returns summaries for every assignment
	ListAssignmentSummaries(ctx context.Context) ([]*domain.AssignmentSummary, error)
}

// reporter implements the Reporter interface
type reporter struct {
	storage storage.Storage
}

// NewReporter creates a new reporter
func NewReporter(storage storage.Storage) Reporter {
	return &reporter{
		storage: storage,
	}
}

// AssignmentSummary returns the submission counts for one assignment
func (r *reporter) AssignmentSummary(ctx context.Context, assignmentID string) (*domain.AssignmentSummary, error) {
	assignment, err := r.storage.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	repos, err := r.storage.ListAssignmentRepos(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	return &domain.AssignmentSummary{
		AssignmentID: assignment.ID,
		Title:        assignment.Title,
		Slug:         assignment.Slug,
		Private:      assignment.Private,
		Submissions:  len(repos),
	}, nil
}

// AssignmentRoster returns one entry per provisioned submission
func (r *reporter) AssignmentRoster(ctx context.Context, assignmentID string) ([]*domain.RosterEntry, error) {
	repos, err := r.storage.ListAssignmentRepos(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	var roster []*domain.RosterEntry
	for _, repo := range repos {
		login := ""
		user, err := r.storage.GetUser(ctx, repo.UserID)
		switch {
		case err == nil:
			login = user.Login
		case !apperrors.IsNotFound(err):
			return nil, err
		}

		roster = append(roster, &domain.RosterEntry{
			RecordID:     repo.ID,
			Login:        login,
			GithubRepoID: repo.GithubRepoID,
			CreatedAt:    repo.CreatedAt,
		})
	}

	return roster, nil
}

// ListAssignmentSummaries returns summaries for every assignment
func (r *reporter) ListAssignmentSummaries(ctx context.Context) ([]*domain.AssignmentSummary, error) {
	assignments, err := r.storage.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}

	var summaries []*domain.AssignmentSummary
	for _, assignment := range assignments {
		summary, err := r.AssignmentSummary(ctx, assignment.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
