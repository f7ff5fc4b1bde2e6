package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/arbitra/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) AppendEntry(ctx context.Context, e *audit.Entry) error {
	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return fmt.Errorf("encoding changes: %w", err)
	}

	query := `
		INSERT INTO audit_log (transaction_id, actor, action, changes, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query, e.TransactionID, e.Actor, e.Action, changes).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}

	return nil
}

func (s *Store) ListEntries(ctx context.Context, transactionID uuid.UUID) ([]*audit.Entry, error) {
	query := `
		SELECT id, transaction_id, actor, action, changes, created_at
		FROM audit_log
		WHERE transaction_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry

	for rows.Next() {
		var (
			e       audit.Entry
			action  string
			changes []byte
		)

		if err := rows.Scan(&e.ID, &e.TransactionID, &e.Actor, &action, &changes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		e.Action = audit.Action(action)

		if err := json.Unmarshal(changes, &e.Changes); err != nil {
			return nil, fmt.Errorf("decoding changes: %w", err)
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit rows: %w", err)
	}

	return entries, nil
}
