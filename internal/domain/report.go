package domain

import "time"

// AssignmentSummary aggregates submission counts for one assignment
type AssignmentSummary struct {
	AssignmentID string `json:"assignment_id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Private      bool   `json:"private"`
	Submissions  int    `json:"submissions"`
}

// RosterEntry is one row of an assignment roster
type RosterEntry struct {
	RecordID     string    `json:"record_id"`
	Login        string    `json:"login"`
	GithubRepoID int64     `json:"github_repo_id"`
	CreatedAt    time.Time `json:"created_at"`
}
