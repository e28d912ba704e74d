package domain

import "time"

// User represents a classroom participant with a linked GitHub account.
// Token is the user's OAuth access token and authenticates every remote
// operation performed on that user's behalf.
type User struct {
	ID           string
	GithubUserID int64
	Login        string
	Token        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Group represents a student group working on group assignments. GithubTeamID
// is zero until a team has been provisioned for the group.
type Group struct {
	ID           string
	Title        string
	Slug         string
	GithubTeamID int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Assignment represents an individual assignment belonging to a classroom
// organization. StarterCodeRepoID is the GitHub id of the repository whose
// content seeds each submission, zero when the assignment has no starter code.
type Assignment struct {
	ID                string
	Title             string
	Slug              string
	OrganizationID    int64
	CreatorID         string
	Private           bool
	StarterCodeRepoID int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// GroupAssignment represents an assignment submitted by groups rather than
// individual students
type GroupAssignment struct {
	ID                string
	Title             string
	Slug              string
	OrganizationID    int64
	CreatorID         string
	Private           bool
	StarterCodeRepoID int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RepoAccess links a user to a classroom organization. Unique per
// (UserID, OrganizationID) pair.
type RepoAccess struct {
	ID             string
	UserID         string
	OrganizationID int64
	GithubTeamID   int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AssignmentRepo is the durable record of an individual submission
// repository. GithubRepoID is required and unique across all records; it is
// written only after the remote repository has been fully provisioned.
type AssignmentRepo struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	UserID       string    `json:"user_id"`
	GithubRepoID int64     `json:"github_repo_id"`
	GithubTeamID int64     `json:"github_team_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GroupAssignmentRepo is the durable record of a group submission repository
type GroupAssignmentRepo struct {
	ID                string    `json:"id"`
	GroupAssignmentID string    `json:"group_assignment_id"`
	GroupID           string    `json:"group_id"`
	GithubRepoID      int64     `json:"github_repo_id"`
	GithubTeamID      int64     `json:"github_team_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
