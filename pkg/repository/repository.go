package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/oppboard/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Lookups return (nil, nil) when the record does not exist.

// ErrEmailTaken is returned by CreateUser when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type ProfileRepo interface {
	CreateProfile(ctx context.Context, p *models.Profile) (int64, error)
	GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, p *models.Profile) error
}

type OpportunityRepo interface {
	// CreateOpportunity assigns ID and CreatedAt on o and persists it.
	CreateOpportunity(ctx context.Context, o *models.Opportunity) error
	GetOpportunity(ctx context.Context, id string) (*models.Opportunity, error)
	// UpdateOpportunity rewrites the editable fields of a record owned by
	// providerID and returns the stored row, or nil when no such row exists.
	UpdateOpportunity(ctx context.Context, id string, providerID int64, in models.OpportunityInput) (*models.Opportunity, error)
	// SetOpportunityActive returns false when no row owned by providerID matched.
	SetOpportunityActive(ctx context.Context, id string, providerID int64, active bool) (bool, error)
	// DeleteOpportunity returns false when nothing was deleted.
	DeleteOpportunity(ctx context.Context, id string, providerID int64) (bool, error)
	ListActiveOpportunities(ctx context.Context) ([]models.Opportunity, error)
	ListOpportunitiesByProvider(ctx context.Context, providerID int64) ([]models.Opportunity, error)
}

type SavedRepo interface {
	// SaveOpportunity is idempotent for an existing pair.
	SaveOpportunity(ctx context.Context, userID int64, opportunityID string) error
	UnsaveOpportunity(ctx context.Context, userID int64, opportunityID string) error
	ListSavedIDs(ctx context.Context, userID int64) ([]string, error)
	PurgeSavedForOpportunity(ctx context.Context, opportunityID string) (int64, error)
	PurgeOrphanSaved(ctx context.Context) (int64, error)
}

// Store groups every repository the API needs.
type Store interface {
	UserRepo
	ProfileRepo
	OpportunityRepo
	SavedRepo
}
