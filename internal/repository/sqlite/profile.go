package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/oppboard/pkg/models"
)

func (r *SQLiteRepo) CreateProfile(ctx context.Context, p *models.Profile) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("profile is nil")
	}

	role := p.Role
	if role == "" {
		role = models.RoleUser
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO profiles (user_id, full_name, role, organization_name, updated) VALUES (?, ?, ?, ?, ?)`, p.UserID, p.FullName, string(role), p.OrganizationName, now())
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	p.ID = id
	p.Role = role

	return id, nil
}

func (r *SQLiteRepo) GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	row := r.conn.QueryRow(ctx, `SELECT p.id, p.user_id, u.email, p.full_name, p.role, p.organization_name, p.updated FROM profiles p JOIN users u ON u.id = p.user_id WHERE p.user_id = ?`, userID)
	var p models.Profile
	var role string
	if err := row.Scan(&p.ID, &p.UserID, &p.Email, &p.FullName, &role, &p.OrganizationName, &p.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	p.Role = models.Role(role)

	return &p, nil
}

func (r *SQLiteRepo) UpdateProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE profiles SET full_name = ?, organization_name = ?, updated = ? WHERE id = ?`, p.FullName, p.OrganizationName, now(), p.ID)
	return err
}
