package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/arbitra/internal/holder"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// mapError turns unique-name violations into holder.ErrDuplicateName.
func mapError(err error, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return holder.ErrDuplicateName
	}

	return fmt.Errorf("%s: %w", action, err)
}

func (s *Store) CreateHolder(ctx context.Context, h *holder.Holder) error {
	query := `
		INSERT INTO holders (name, is_investor, created_by, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, h.Name, h.IsInvestor, h.CreatedBy).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return mapError(err, "creating holder")
	}

	return nil
}

func (s *Store) GetHolder(ctx context.Context, id uuid.UUID) (*holder.Holder, error) {
	query := `
		SELECT id, name, is_investor, created_by, created_at
		FROM holders
		WHERE id = $1
	`

	var h holder.Holder

	err := s.db.QueryRowContext(ctx, query, id).Scan(&h.ID, &h.Name, &h.IsInvestor, &h.CreatedBy, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, holder.ErrNotFound
		}

		return nil, fmt.Errorf("getting holder: %w", err)
	}

	return &h, nil
}

func (s *Store) ListHolders(ctx context.Context) ([]*holder.Holder, error) {
	query := `
		SELECT id, name, is_investor, created_by, created_at
		FROM holders
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing holders: %w", err)
	}
	defer rows.Close()

	var holders []*holder.Holder

	for rows.Next() {
		var h holder.Holder
		if err := rows.Scan(&h.ID, &h.Name, &h.IsInvestor, &h.CreatedBy, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning holder: %w", err)
		}

		holders = append(holders, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating holder rows: %w", err)
	}

	return holders, nil
}

func (s *Store) UpdateHolder(ctx context.Context, h *holder.Holder) error {
	query := `
		UPDATE holders
		SET name = $1, is_investor = $2
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, h.Name, h.IsInvestor, h.ID)
	if err != nil {
		return mapError(err, "updating holder")
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return holder.ErrNotFound
	}

	return nil
}

// DeleteHolder removes the holder; the holder_id foreign key nulls out references.
func (s *Store) DeleteHolder(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM holders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting holder: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return holder.ErrNotFound
	}

	return nil
}
