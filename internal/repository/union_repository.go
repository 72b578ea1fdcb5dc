// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for unions (tenants). Unions are
// managed only through the super-admin endpoints; regular traffic touches
// them via the login lookup.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/union-raid-tracker/internal/model"
)

// UnionRepo encapsulates all database queries related to unions. It depends
// on a sql.DB connection which should be configured elsewhere.
type UnionRepo struct {
	db *sql.DB
}

// NewUnionRepo constructs a UnionRepo with the provided DB handle. This
// function allows dependency injection of the database in tests and at
// startup.
func NewUnionRepo(db *sql.DB) *UnionRepo { return &UnionRepo{db: db} }

// GetActiveByName fetches an active union by its login name. Inactive unions
// are invisible to login, so a disabled tenant fails with ErrNotFound rather
// than a credential error.
func (r *UnionRepo) GetActiveByName(ctx context.Context, name string) (*model.Union, error) {
	const q = `SELECT id, name, user_password, admin_password, is_active, created_at
	           FROM unions WHERE name = $1 AND is_active = TRUE`
	var u model.Union
	err := r.db.QueryRowContext(ctx, q, name).Scan(&u.ID, &u.Name, &u.UserPassword, &u.AdminPassword, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns every union, newest first, annotated with its season count
// and its live member count across all seasons. Super-admin only.
func (r *UnionRepo) List(ctx context.Context) ([]model.Union, error) {
	const q = `SELECT u.id, u.name, u.user_password, u.admin_password, u.is_active, u.created_at,
	                  (SELECT COUNT(*) FROM seasons s WHERE s.union_id = u.id),
	                  (SELECT COUNT(*) FROM members m
	                   JOIN seasons s ON s.id = m.season_id
	                   WHERE s.union_id = u.id AND m.deleted_at IS NULL)
	           FROM unions u ORDER BY u.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	unions := []model.Union{}
	for rows.Next() {
		var u model.Union
		if err := rows.Scan(&u.ID, &u.Name, &u.UserPassword, &u.AdminPassword, &u.IsActive, &u.CreatedAt,
			&u.SeasonCount, &u.MemberCount); err != nil {
			return nil, err
		}
		unions = append(unions, u)
	}
	return unions, rows.Err()
}

// Create inserts a new union. Password fields must already be bcrypt hashes;
// hashing is the handler's responsibility so the repository stays oblivious
// to the secret material. On success the ID and CreatedAt fields are
// populated from the returned row.
func (r *UnionRepo) Create(ctx context.Context, u *model.Union) error {
	const q = `INSERT INTO unions (name, user_password, admin_password, is_active)
	           VALUES ($1, $2, $3, TRUE)
	           RETURNING id, is_active, created_at`
	err := r.db.QueryRowContext(ctx, q, u.Name, u.UserPassword, u.AdminPassword).
		Scan(&u.ID, &u.IsActive, &u.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "unique") {
		return ErrConflict
	}
	return err
}

// Update applies a partial update to a union. Nil pointers leave the column
// untouched; COALESCE keeps this a single statement.
func (r *UnionRepo) Update(ctx context.Context, id int64, name *string, isActive *bool, userPassword, adminPassword *string) error {
	const q = `UPDATE unions SET
	             name           = COALESCE($2, name),
	             is_active      = COALESCE($3, is_active),
	             user_password  = COALESCE($4, user_password),
	             admin_password = COALESCE($5, admin_password)
	           WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, name, isActive, userPassword, adminPassword)
	if err != nil {
		if strings.Contains(err.Error(), "unique") {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a union and, through the seasons FK cascade, every domain
// row the union ever owned.
func (r *UnionRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM unions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
