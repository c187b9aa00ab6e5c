package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/model"
)

const massageCols = `id, name, description, duration, price, position, COALESCE(image,''), created_at, updated_at`

func (s *Store) CreateMassage(ctx context.Context, m *model.Massage) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO massages (id, name, description, duration, price, position, image)
		 VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''))`,
		m.ID, m.Name, m.Description, m.Duration, m.Price, m.Position, m.Image,
	)
	return err
}

func (s *Store) MassageByID(ctx context.Context, id string) (*model.Massage, error) {
	m := &model.Massage{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+massageCols+` FROM massages WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Description, &m.Duration, &m.Price, &m.Position,
		&m.Image, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Ce massage n'existe pas")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMassages orders by display position, newest first within a position.
func (s *Store) ListMassages(ctx context.Context) ([]model.Massage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+massageCols+` FROM massages ORDER BY position ASC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Massage
	for rows.Next() {
		var m model.Massage
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Duration, &m.Price,
			&m.Position, &m.Image, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) UpdateMassage(ctx context.Context, m *model.Massage) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE massages
		 SET name=$1, description=$2, duration=$3, price=$4, position=$5,
		     image=NULLIF($6,''), updated_at=NOW()
		 WHERE id=$7`,
		m.Name, m.Description, m.Duration, m.Price, m.Position, m.Image, m.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Ce massage n'existe pas")
	}
	return nil
}

func (s *Store) DeleteMassage(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM massages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Ce massage n'existe pas")
	}
	return nil
}
