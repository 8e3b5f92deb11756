package mock

import (
	"context"

	"github.com/garnizeh/oppboard/pkg/models"
	"github.com/garnizeh/oppboard/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	UserRepo *mockUserRepo
	ProfRepo *mockProfileRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		UserRepo: &mockUserRepo{},
		ProfRepo: &mockProfileRepo{},
	}
}

var _ repository.UserRepo = (*mockUserRepo)(nil)
var _ repository.ProfileRepo = (*mockProfileRepo)(nil)

type mockUserRepo struct {
	Stored    *models.User
	CreateErr error
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.Stored = &models.User{ID: 1, Email: u.Email, PasswordHash: u.PasswordHash}
	u.ID = 1
	return 1, nil
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.Stored != nil && m.Stored.Email == email {
		return m.Stored, nil
	}
	return nil, nil
}

type mockProfileRepo struct {
	Stored    *models.Profile
	CreateErr error
	GetErr    error
}

func (m *mockProfileRepo) CreateProfile(ctx context.Context, p *models.Profile) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	cp := *p
	cp.ID = 1
	m.Stored = &cp
	p.ID = 1
	return 1, nil
}

func (m *mockProfileRepo) GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored != nil && m.Stored.UserID == userID {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *mockProfileRepo) UpdateProfile(ctx context.Context, p *models.Profile) error {
	m.Stored = p
	return nil
}
