package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/garnizeh/oppboard/pkg/models"
	"github.com/garnizeh/oppboard/pkg/repository"
)

func (r *PostgresRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	created := now()
	err := r.pool.QueryRow(ctx, `INSERT INTO users (email, password_hash, created) VALUES ($1, $2, $3) RETURNING id`,
		u.Email, u.PasswordHash, created).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrEmailTaken
		}
		return 0, err
	}
	u.Created = created

	return u.ID, nil
}

func (r *PostgresRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, `SELECT id, email, password_hash, created FROM users WHERE id = $1`, id)
}

func (r *PostgresRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `SELECT id, email, password_hash, created FROM users WHERE email = $1`, email)
}

func (r *PostgresRepo) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepo) CreateProfile(ctx context.Context, p *models.Profile) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("profile is nil")
	}
	if p.Role == "" {
		p.Role = models.RoleUser
	}

	err := r.pool.QueryRow(ctx, `INSERT INTO profiles (user_id, full_name, role, organization_name, updated) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.UserID, p.FullName, string(p.Role), p.OrganizationName, now()).Scan(&p.ID)
	if err != nil {
		return 0, err
	}

	return p.ID, nil
}

func (r *PostgresRepo) GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	var (
		p    models.Profile
		role string
	)
	err := r.pool.QueryRow(ctx, `SELECT p.id, p.user_id, u.email, p.full_name, p.role, p.organization_name, p.updated FROM profiles p JOIN users u ON u.id = p.user_id WHERE p.user_id = $1`, userID).
		Scan(&p.ID, &p.UserID, &p.Email, &p.FullName, &role, &p.OrganizationName, &p.Updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.Role = models.Role(role)

	return &p, nil
}

func (r *PostgresRepo) UpdateProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}
	_, err := r.pool.Exec(ctx, `UPDATE profiles SET full_name = $1, organization_name = $2, updated = $3 WHERE id = $4`, p.FullName, p.OrganizationName, now(), p.ID)
	return err
}
