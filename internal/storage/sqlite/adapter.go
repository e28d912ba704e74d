package sqlite

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gitclassrooms/classroom-provisioner/internal/domain"
	apperrors "github.com/gitclassrooms/classroom-provisioner/internal/errors"
	"github.com/gitclassrooms/classroom-provisioner/internal/storage"
)

// sqliteStorage implements the Storage interface for SQLite
type sqliteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (storage.Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	s := &sqliteStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *sqliteStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		github_user_id INTEGER NOT NULL UNIQUE,
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
		github_team_id INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL,
		organization_id INTEGER NOT NULL,
		creator_id TEXT NOT NULL,
		private INTEGER NOT NULL DEFAULT 0,
		starter_code_repo_id INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_organization ON assignments(organization_id);

	CREATE TABLE IF NOT EXISTS group_assignments (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL,
		organization_id INTEGER NOT NULL,
		creator_id TEXT NOT NULL,
		private INTEGER NOT NULL DEFAULT 0,
		starter_code_repo_id INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_group_assignments_organization ON group_assignments(organization_id);

	CREATE TABLE IF NOT EXISTS repo_accesses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		organization_id INTEGER NOT NULL,
		github_team_id INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, organization_id)
	);

	CREATE TABLE IF NOT EXISTS assignment_repos (
		id TEXT PRIMARY KEY,
		assignment_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		github_repo_id INTEGER NOT NULL UNIQUE,
		github_team_id INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_assignment_repos_assignment ON assignment_repos(assignment_id);
	CREATE INDEX IF NOT EXISTS idx_assignment_repos_user ON assignment_repos(user_id);

	CREATE TABLE IF NOT EXISTS group_assignment_repos (
		id TEXT PRIMARY KEY,
		group_assignment_id TEXT NOT NULL,
		group_id TEXT NOT NULL,
		github_repo_id INTEGER NOT NULL UNIQUE,
		github_team_id INTEGER NOT NULL DEFAULT 0,
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
func (s *sqliteStorage) SaveUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT OR REPLACE INTO users (id, github_user_id, login, token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
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
func (s *sqliteStorage) GetUser(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, github_user_id, login, token, created_at, updated_at
		FROM users WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id), "user")
}

// GetUserByLogin retrieves a user by GitHub login
func (s *sqliteStorage) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `
		SELECT id, github_user_id, login, token, created_at, updated_at
		FROM users WHERE login = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, login), "user")
}

func (s *sqliteStorage) scanUser(row *sql.Row, resource string) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.GithubUserID, &u.Login, &u.Token, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(resource)
		}
		return nil, err
	}
	return &u, nil
}

// SaveGroup saves a group
func (s *sqliteStorage) SaveGroup(ctx context.Context, group *domain.Group) error {
	query := `
		INSERT OR REPLACE INTO groups (id, title, slug, github_team_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
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
func (s *sqliteStorage) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	query := `
		SELECT id, title, slug, github_team_id, created_at, updated_at
		FROM groups WHERE id = ?
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
func (s *sqliteStorage) SaveAssignment(ctx context.Context, a *domain.Assignment) error {
	query := `
		INSERT OR REPLACE INTO assignments (id, title, slug, organization_id, creator_id, private, starter_code_repo_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Slug,
		a.OrganizationID,
		a.CreatorID,
		boolToInt(a.Private),
		a.StarterCodeRepoID,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

// GetAssignment retrieves an assignment by id
func (s *sqliteStorage) GetAssignment(ctx context.Context, id string) (*domain.Assignment, error) {
	query := `
		SELECT id, title, slug, organization_id, creator_id, private, starter_code_repo_id, created_at, updated_at
		FROM assignments WHERE id = ?
	`
	var a domain.Assignment
	var private int
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Title, &a.Slug, &a.OrganizationID, &a.CreatorID, &private, &a.StarterCodeRepoID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("assignment")
		}
		return nil, err
	}
	a.Private = private == 1
	return &a, nil
}

// ListAssignments retrieves all assignments
func (s *sqliteStorage) ListAssignments(ctx context.Context) ([]*domain.Assignment, error) {
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
		var private int
		err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.OrganizationID, &a.CreatorID, &private, &a.StarterCodeRepoID, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		a.Private = private == 1
		assignments = append(assignments, &a)
	}
	return assignments, rows.Err()
}

// SaveGroupAssignment saves a group assignment
func (s *sqliteStorage) SaveGroupAssignment(ctx context.Context, a *domain.GroupAssignment) error {
	query := `
		INSERT OR REPLACE INTO group_assignments (id, title, slug, organization_id, creator_id, private, starter_code_repo_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Slug,
		a.OrganizationID,
		a.CreatorID,
		boolToInt(a.Private),
		a.StarterCodeRepoID,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

// GetGroupAssignment retrieves a group assignment by id
func (s *sqliteStorage) GetGroupAssignment(ctx context.Context, id string) (*domain.GroupAssignment, error) {
	query := `
		SELECT id, title, slug, organization_id, creator_id, private, starter_code_repo_id, created_at, updated_at
		FROM group_assignments WHERE id = ?
	`
	var a domain.GroupAssignment
	var private int
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Title, &a.Slug, &a.OrganizationID, &a.CreatorID, &private, &a.StarterCodeRepoID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("group assignment")
		}
		return nil, err
	}
	a.Private = private == 1
	return &a, nil
}

// SaveRepoAccess saves a repo access row
func (s *sqliteStorage) SaveRepoAccess(ctx context.Context, access *domain.RepoAccess) error {
	query := `
		INSERT OR REPLACE INTO repo_accesses (id, user_id, organization_id, github_team_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
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
func (s *sqliteStorage) GetRepoAccess(ctx context.Context, userID string, organizationID int64) (*domain.RepoAccess, error) {
	query := `
		SELECT id, user_id, organization_id, github_team_id, created_at, updated_at
		FROM repo_accesses WHERE user_id = ? AND organization_id = ?
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
func (s *sqliteStorage) SaveAssignmentRepo(ctx context.Context, repo *domain.AssignmentRepo) error {
	query := `
		INSERT INTO assignment_repos (id, assignment_id, user_id, github_repo_id, github_team_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
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
func (s *sqliteStorage) GetAssignmentRepo(ctx context.Context, id string) (*domain.AssignmentRepo, error) {
	query := `
		SELECT id, assignment_id, user_id, github_repo_id, github_team_id, created_at, updated_at
		FROM assignment_repos WHERE id = ?
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
func (s *sqliteStorage) ListAssignmentRepos(ctx context.Context, assignmentID string) ([]*domain.AssignmentRepo, error) {
	query := `
		SELECT id, assignment_id, user_id, github_repo_id, github_team_id, created_at, updated_at
		FROM assignment_repos WHERE assignment_id = ? ORDER BY created_at
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
func (s *sqliteStorage) DeleteAssignmentRepo(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM assignment_repos WHERE id = ?`, id)
	return err
}

// SaveGroupAssignmentRepo inserts a group submission repo record
func (s *sqliteStorage) SaveGroupAssignmentRepo(ctx context.Context, repo *domain.GroupAssignmentRepo) error {
	query := `
		INSERT INTO group_assignment_repos (id, group_assignment_id, group_id, github_repo_id, github_team_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
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
func (s *sqliteStorage) GetGroupAssignmentRepo(ctx context.Context, id string) (*domain.GroupAssignmentRepo, error) {
	query := `
		SELECT id, group_assignment_id, group_id, github_repo_id, github_team_id, created_at, updated_at
		FROM group_assignment_repos WHERE id = ?
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
func (s *sqliteStorage) ListGroupAssignmentRepos(ctx context.Context, groupAssignmentID string) ([]*domain.GroupAssignmentRepo, error) {
	query := `
		SELECT id, group_assignment_id, group_id, github_repo_id, github_team_id, created_at, updated_at
		FROM group_assignment_repos WHERE group_assignment_id = ? ORDER BY created_at
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
func (s *sqliteStorage) DeleteGroupAssignmentRepo(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM group_assignment_repos WHERE id = ?`, id)
	return err
}

// Close closes the database connection
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
