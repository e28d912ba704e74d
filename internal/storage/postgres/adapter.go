package postgres

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
	apperrors "github.com/gitclassrooms/classroom-provisioner/internal/errors"
	"github.com/gitclassrooms/classroom-provisioner/internal/storage"
)

// postgresStorage implements the Storage interface for PostgreSQL
type postgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage creates a new PostgreSQL storage instance
func NewPostgresStorage(connStr string) (storage.Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &postgresStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *postgresStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		github_user_id BIGINT NOT NULL UNIQUE,
		login TEXT NOT NULL,
		token TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_login ON users(login);

	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL,
		github_team_id BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL,
		organization_id BIGINT NOT NULL,
		creator_id TEXT NOT NULL,
		private BOOLEAN NOT NULL DEFAULT FALSE,
		starter_code_repo_id BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_organization ON assignments(organization_id);

	CREATE TABLE IF NOT EXISTS group_assignments (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL,
		organization_id BIGINT NOT NULL,
		creator_id TEXT NOT NULL,
		private BOOLEAN NOT NULL DEFAULT FALSE,
		starter_code_repo_id BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_group_assignments_organization ON group_assignments(organization_id);

	CREATE TABLE IF NOT EXISTS repo_accesses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		organization_id BIGINT NOT NULL,
		github_team_id BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, organization_id)
	);

	CREATE TABLE IF NOT EXISTS assignment_repos (
		id TEXT PRIMARY KEY,
		assignment_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		github_repo_id BIGINT NOT NULL UNIQUE,
		github_team_id BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_assignment_repos_assignment ON assignment_repos(assignment_id);
	CREATE INDEX IF NOT EXISTS idx_assignment_repos_user ON assignment_repos(user_id);

	CREATE TABLE IF NOT EXISTS group_assignment_repos (
		id TEXT PRIMARY KEY,
		group_assignment_id TEXT NOT NULL,
		group_id TEXT NOT NULL,
		github_repo_id BIGINT NOT NULL UNIQUE,
		github_team_id BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_group_assignment_repos_assignment ON group_assignment_repos(group_assignment_id);
	CREATE INDEX IF NOT EXISTS idx_group_assignment_repos_group ON group_assignment_repos(group_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveUser saves a user
func (s *postgresStorage) SaveUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, github_user_id, login, token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			github_user_id = EXCLUDED.github_user_id,
			login = EXCLUDED.login,
			token = EXCLUDED.token,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.GithubUserID,
		user.Login,
		user.Token,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

// GetUser retrieves a user by id
func (s *postgresStorage) GetUser(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, github_user_id, login, token, created_at, updated_at
		FROM users WHERE id = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByLogin retrieves a user by GitHub login
func (s *postgresStorage) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `
		SELECT id, github_user_id, login, token, created_at, updated_at
		FROM users WHERE login = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, login))
}

func (s *postgresStorage) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.GithubUserID, &u.Login, &u.Token, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user")
		}
		return nil, err
	}
	return &u, nil
}

// SaveGroup saves a group
func (s *postgresStorage) SaveGroup(ctx context.Context, group *domain.Group) error {
	query := `
		INSERT INTO groups (id, title, slug, github_team_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			github_team_id = EXCLUDED.github_team_id,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		group.ID,
		group.Title,
		group.Slug,
		group.GithubTeamID,
		group.CreatedAt,
		group.UpdatedAt,
	)
	return err
}

// GetGroup retrieves a group by id
func (s *postgresStorage) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	query := `
		SELECT id, title, slug, github_team_id, created_at, updated_at
		FROM groups WHERE id = $1
	`
	var g domain.Group
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Title, &g.Slug, &g.GithubTeamID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("group")
		}
		return nil, err
	}
	return &g, nil
}

// SaveAssignment saves an assignment
func (s *postgresStorage) SaveAssignment(ctx context.Context, a *domain.Assignment) error {
	query := `
		INSERT INTO assignments (id, title, slug, organization_id, creator_id, private, starter_code_repo_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			organization_id = EXCLUDED.organization_id,
			creator_id = EXCLUDED.creator_id,
			private = EXCLUDED.private,
			starter_code_repo_id = EXCLUDED.starter_code_repo_id,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Slug,
		a.OrganizationID,
		a.CreatorID,
		a.Private,
		a.StarterCodeRepoID,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

// GetAssignment retrieves an assignment by id
func (s *postgresStorage) GetAssignment(ctx context.Context, id string) (*domain.Assignment, error) {
	query := `
		SELECT id, title, slug, organization_id, creator_id, private, starter_code_repo_id, created_at, updated_at
		FROM assignments WHERE id = $1
	`
	var a domain.Assignment
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Title, &a.Slug, &a.OrganizationID, &a.CreatorID, &a.Private, &a.StarterCodeRepoID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("assignment")
		}
		return nil, err
	}
	return &a, nil
}

// ListAssignments retrieves all assignments
func (s *postgresStorage) ListAssignments(ctx context.Context) ([]*domain.Assignment, error) {
	query := `
		SELECT id, title, slug, organization_id, creator_id, private, starter_code_repo_id, created_at, updated_at
		FROM assignments ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.OrganizationID, &a.CreatorID, &a.Private, &a.StarterCodeRepoID, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, &a)
	}
	return assignments, rows.Err()
}

// SaveGroupAssignment saves a group assignment
func (s *postgresStorage) SaveGroupAssignment(ctx context.Context, a *domain.GroupAssignment) error {
	query := `
		INSERT INTO group_assignments (id, title, slug, organization_id, creator_id, private, starter_code_repo_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			organization_id = EXCLUDED.organization_id,
			creator_id = EXCLUDED.creator_id,
			private = EXCLUDED.private,
			starter_code_repo_id = EXCLUDED.starter_code_repo_id,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Slug,
		a.OrganizationID,
		a.CreatorID,
		a.Private,
		a.StarterCodeRepoID,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

// GetGroupAssignment retrieves a group assignment by id
func (s *postgresStorage) GetGroupAssignment(ctx context.Context, id string) (*domain.GroupAssignment, error) {
	query := `
		SELECT id, title, slug, organization_id, creator_id, private, starter_code_repo_id, created_at, updated_at
		FROM group_assignments WHERE id = $1
	`
	var a domain.GroupAssignment
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Title, &a.Slug, &a.OrganizationID, &a.CreatorID, &a.Private, &a.StarterCodeRepoID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("group assignment")
		}
		return nil, err
	}
	return &a, nil
}

// SaveRepoAccess saves a repo access row
func (s *postgresStorage) SaveRepoAccess(ctx context.Context, access *domain.RepoAccess) error {
	query := `
		INSERT INTO repo_accesses (id, user_id, organization_id, github_team_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, organization_id) DO UPDATE SET
			github_team_id = EXCLUDED.github_team_id,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		access.ID,
		access.UserID,
		access.OrganizationID,
		access.GithubTeamID,
		access.CreatedAt,
		access.UpdatedAt,
	)
	return err
}

// GetRepoAccess retrieves the repo access row for a user and organization
func (s *postgresStorage) GetRepoAccess(ctx context.Context, userID string, organizationID int64) (*domain.RepoAccess, error) {
	query := `
		SELECT id, user_id, organization_id, github_team_id, created_at, updated_at
		FROM repo_accesses WHERE user_id = $1 AND organization_id = $2
	`
	var ra domain.RepoAccess
	err := s.db.QueryRowContext(ctx, query, userID, organizationID).Scan(
		&ra.ID, &ra.UserID, &ra.OrganizationID, &ra.GithubTeamID, &ra.CreatedAt, &ra.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("repo access")
		}
		return nil, err
	}
	return &ra, nil
}

// SaveAssignmentRepo inserts a submission repo record. A duplicate
// github_repo_id violates the unique constraint and fails the insert.
func (s *postgresStorage) SaveAssignmentRepo(ctx context.Context, repo *domain.AssignmentRepo) error {
	query := `
		INSERT INTO assignment_repos (id, assignment_id, user_id, github_repo_id, github_team_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		repo.ID,
		repo.AssignmentID,
		repo.UserID,
		repo.GithubRepoID,
		repo.GithubTeamID,
		repo.CreatedAt,
		repo.UpdatedAt,
	)
	return err
}

// GetAssignmentRepo retrieves a submission repo record by id
func (s *postgresStorage) GetAssignmentRepo(ctx context.Context, id string) (*domain.AssignmentRepo, error) {
	query := `
		SELECT id, assignment_id, user_id, github_repo_id, github_team_id, created_at, updated_at
		FROM assignment_repos WHERE id = $1
	`
	var r domain.AssignmentRepo
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.AssignmentID, &r.UserID, &r.GithubRepoID, &r.GithubTeamID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("assignment repo")
		}
		return nil, err
	}
	return &r, nil
}

// ListAssignmentRepos retrieves all submission repo records for an assignment
func (s *postgresStorage) ListAssignmentRepos(ctx context.Context, assignmentID string) ([]*domain.AssignmentRepo, error) {
	query := `
		SELECT id, assignment_id, user_id, github_repo_id, github_team_id, created_at, updated_at
		FROM assignment_repos WHERE assignment_id = $1 ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []*domain.AssignmentRepo
	for rows.Next() {
		var r domain.AssignmentRepo
		err := rows.Scan(&r.ID, &r.AssignmentID, &r.UserID, &r.GithubRepoID, &r.GithubTeamID, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		repos = append(repos, &r)
	}
	return repos, rows.Err()
}

// DeleteAssignmentRepo deletes a submission repo record
func (s *postgresStorage) DeleteAssignmentRepo(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM assignment_repos WHERE id = $1`, id)
	return err
}

// SaveGroupAssignmentRepo inserts a group submission repo record
func (s *postgresStorage) SaveGroupAssignmentRepo(ctx context.Context, repo *domain.GroupAssignmentRepo) error {
	query := `
		INSERT INTO group_assignment_repos (id, group_assignment_id, group_id, github_repo_id, github_team_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		repo.ID,
		repo.GroupAssignmentID,
		repo.GroupID,
		repo.GithubRepoID,
		repo.GithubTeamID,
		repo.CreatedAt,
		repo.UpdatedAt,
	)
	return err
}

// GetGroupAssignmentRepo retrieves a group submission repo record by id
func (s *postgresStorage) GetGroupAssignmentRepo(ctx context.Context, id string) (*domain.GroupAssignmentRepo, error) {
	query := `
		SELECT id, group_assignment_id, group_id, github_repo_id, github_team_id, created_at, updated_at
		FROM group_assignment_repos WHERE id = $1
	`
	var r domain.GroupAssignmentRepo
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.GroupAssignmentID, &r.GroupID, &r.GithubRepoID, &r.GithubTeamID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("group assignment repo")
		}
		return nil, err
	}
	return &r, nil
}

// ListGroupAssignmentRepos retrieves all group submission repo records for a
// group assignment
func (s *postgresStorage) ListGroupAssignmentRepos(ctx context.Context, groupAssignmentID string) ([]*domain.GroupAssignmentRepo, error) {
	query := `
		SELECT id, group_assignment_id, group_id, github_repo_id, github_team_id, created_at, updated_at
		FROM group_assignment_repos WHERE group_assignment_id = $1 ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, groupAssignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []*domain.GroupAssignmentRepo
	for rows.Next() {
		var r domain.GroupAssignmentRepo
		err := rows.Scan(&r.ID, &r.GroupAssignmentID, &r.GroupID, &r.GithubRepoID, &r.GithubTeamID, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		repos = append(repos, &r)
	}
	return repos, rows.Err()
}

// DeleteGroupAssignmentRepo deletes a group submission repo record
func (s *postgresStorage) DeleteGroupAssignmentRepo(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM group_assignment_repos WHERE id = $1`, id)
	return err
}

// Close closes the database connection
func (s *postgresStorage) Close() error {
	return s.db.Close()
}
