package models

import "time"

// Domain models matching the database schema in db/migrations/0001_init.sql

// OpportunityType is the closed set of listing kinds.
type OpportunityType string

const (
	TypeInternship  OpportunityType = "internship"
	TypeCompetition OpportunityType = "competition"
	TypeScholarship OpportunityType = "scholarship"
	TypeProgram     OpportunityType = "program"
)

// OpportunityTypes lists every valid type in display order.
var OpportunityTypes = []OpportunityType{TypeInternship, TypeCompetition, TypeScholarship, TypeProgram}

// Valid reports whether t is one of the four known types.
func (t OpportunityType) Valid() bool {
	switch t {
	case TypeInternship, TypeCompetition, TypeScholarship, TypeProgram:
		return true
	}
	return false
}

// Label is the human label used in listings and badges.
func (t OpportunityType) Label() string {
	switch t {
	case TypeInternship:
		return "Internship"
	case TypeCompetition:
		return "Competition"
	case TypeScholarship:
		return "Scholarship"
	case TypeProgram:
		return "Program"
	}
	return string(t)
}

type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
)

type User struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Created      int64  `json:"created" db:"created"`
}

type Profile struct {
	ID               int64  `json:"id" db:"id"`
	UserID           int64  `json:"user_id" db:"user_id"`
	Email            string `json:"email" db:"email"`
	FullName         string `json:"full_name" db:"full_name"`
	Role             Role   `json:"role" db:"role"`
	OrganizationName string `json:"organization_name,omitempty" db:"organization_name"`
	Updated          int64  `json:"updated" db:"updated"`
}

// IsProvider reports whether the profile may manage listings.
func (p *Profile) IsProvider() bool {
	return p != nil && p.Role == RoleProvider
}

type Opportunity struct {
	ID           string          `json:"id" db:"id"`
	Title        string          `json:"title" db:"title"`
	Organization string          `json:"organization" db:"organization"`
	Type         OpportunityType `json:"type" db:"type"`
	Location     *string         `json:"location" db:"location"`
	Deadline     *time.Time      `json:"deadline" db:"deadline"`
	Stipend      *string         `json:"stipend" db:"stipend"`
	Eligibility  *string         `json:"eligibility" db:"eligibility"`
	Description  string          `json:"description" db:"description"`
	ApplyLink    *string         `json:"apply_link" db:"apply_link"`
	IsActive     bool            `json:"is_active" db:"is_active"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	ProviderID   int64           `json:"provider_id" db:"provider_id"`
}

// OpportunityInput carries the provider-editable fields of an opportunity.
// Optional fields are nil when absent, never empty strings.
type OpportunityInput struct {
	Title        string          `json:"title" validate:"required"`
	Organization string          `json:"organization" validate:"required"`
	Type         OpportunityType `json:"type" validate:"required,oneof=internship competition scholarship program"`
	Location     *string         `json:"location"`
	Deadline     *time.Time      `json:"deadline"`
	Stipend      *string         `json:"stipend"`
	Eligibility  *string         `json:"eligibility"`
	Description  string          `json:"description" validate:"required"`
	ApplyLink    *string         `json:"apply_link" validate:"omitempty,url"`
}

// Apply copies the editable fields onto o, leaving identity, owner, creation
// time and the active flag untouched.
func (in OpportunityInput) Apply(o *Opportunity) {
	o.Title = in.Title
	o.Organization = in.Organization
	o.Type = in.Type
	o.Location = in.Location
	o.Deadline = in.Deadline
	o.Stipend = in.Stipend
	o.Eligibility = in.Eligibility
	o.Description = in.Description
	o.ApplyLink = in.ApplyLink
}

type SavedRelation struct {
	UserID        int64  `json:"user_id" db:"user_id"`
	OpportunityID string `json:"opportunity_id" db:"opportunity_id"`
	Created       int64  `json:"created" db:"created"`
}
