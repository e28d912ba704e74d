package domain

// Organization is the remote representation of a GitHub organization
type Organization struct {
	ID    int64
	Login string
}

// Repository is the remote representation of a GitHub repository
type Repository struct {
	ID         int64
	Name       string
	FullName   string
	OwnerID    int64
	OwnerLogin string
	Private    bool
	CloneURL   string
}

// Team is the remote representation of a GitHub team
type Team struct {
	ID    int64
	OrgID int64
	Name  string
	Slug  string
}

// Membership is a transient read of a user's standing within an organization
// or team
type Membership struct {
	Role  string // "admin" or "member"
	State string // "pending" or "active"
}

const (
	MembershipRoleAdmin  = "admin"
	MembershipRoleMember = "member"

	MembershipStateActive  = "active"
	MembershipStatePending = "pending"
)

// Active reports whether the membership is an activated one
func (m *Membership) Active() bool {
	return m.State == MembershipStateActive
}

// Admin reports whether the membership carries the admin role
func (m *Membership) Admin() bool {
	return m.Role == MembershipRoleAdmin
}

// Plan is a transient read of an organization's private repository quota.
// Never persisted; fetched fresh before any private repository creation.
type Plan struct {
	OwnedPrivateRepos int64
	PrivateRepos      int64
}

// HasHeadroom reports whether the plan allows creating one more private
// repository
func (p *Plan) HasHeadroom() bool {
	return p.OwnedPrivateRepos < p.PrivateRepos
}

// RepositoryOptions describes a repository to be created. The three feature
// toggles default to enabled when left nil.
type RepositoryOptions struct {
	Name         string
	Description  string
	Private      bool
	HasIssues    *bool
	HasWiki      *bool
	HasDownloads *bool
}

// TeamOptions describes a team to be created
type TeamOptions struct {
	Name        string
	Description string
	Permission  string
}
