package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/arbitra/internal/preferences"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, owner, key string) ([]byte, error) {
	query := `
		SELECT value
		FROM preferences
		WHERE owner = $1 AND key = $2
	`

	var value []byte

	err := s.db.QueryRowContext(ctx, query, owner, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, preferences.ErrNotFound
		}

		return nil, fmt.Errorf("getting preference: %w", err)
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, owner, key string, value []byte) error {
	query := `
		INSERT INTO preferences (owner, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (owner, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, owner, key, string(value)); err != nil {
		return fmt.Errorf("setting preference: %w", err)
	}

	return nil
}
