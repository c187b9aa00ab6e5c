package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, firstname, name, phone_number, role)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Email, u.PasswordHash, u.Firstname, u.Name, u.PhoneNumber, u.Role,
	)
	if pgCode(err, pgUniqueViolation) {
		return apperr.Conflict("Un compte existe déjà avec cet email")
	}
	return err
}

const userCols = `id, email, password_hash, firstname, name, phone_number, role, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Firstname, &u.Name,
		&u.PhoneNumber, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Cet utilisateur n'existe pas")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userCols+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Firstname, &u.Name,
			&u.PhoneNumber, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, u *model.User) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET email=$1, firstname=$2, name=$3, phone_number=$4, updated_at=NOW()
		 WHERE id=$5`,
		u.Email, u.Firstname, u.Name, u.PhoneNumber, u.ID,
	)
	if pgCode(err, pgUniqueViolation) {
		return apperr.Conflict("Un compte existe déjà avec cet email")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Cet utilisateur n'existe pas")
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Cet utilisateur n'existe pas")
	}
	return nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id string, role model.Role) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET role=$1, updated_at=NOW() WHERE id=$2`, role, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Cet utilisateur n'existe pas")
	}
	return nil
}

// RoleByID backs the per-request authorization check. The role is read
// live so a demotion takes effect without waiting for token expiry.
func (s *Store) RoleByID(ctx context.Context, id string) (model.Role, error) {
	var role model.Role
	err := s.pool.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, id).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("Cet utilisateur n'existe pas")
	}
	return role, err
}

func (s *Store) AdminEmails(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT email FROM users WHERE role = $1`, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		out = append(out, email)
	}
	return out, rows.Err()
}
