package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/calc"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.sequence_id, t.fiat_currency, t.fiat_amount, t.fiat_rate, t.usdt_amount, t.usdt_rate,
	t.payment_method, t.settlement_mode, t.bank_sell_rate, t.retained_currency,
	t.retained_override, t.profit_override, t.status, t.fiat_acquired, t.usdt_sold, t.fiat_paid,
	t.holder_id, h.name, t.is_private, t.notes, t.created_by, t.created_at, t.updated_at
`

const fromTransactions = `
	FROM transactions t
	LEFT JOIN holders h ON t.holder_id = h.id
`

// scanTransaction reads a row in selectTransactionColumns order.
func scanTransaction(s scanner) (*transaction.Record, error) {
	var (
		r                transaction.Record
		currency, method string
		mode, status     string
		bankSellRate     decimal.NullDecimal
		retainedCurrency sql.NullString
		retainedOverride decimal.NullDecimal
		profitOverride   decimal.NullDecimal
		holderName       sql.NullString
	)

	if err := s.Scan(
		&r.ID, &r.SequenceID, &currency, &r.FiatAmount, &r.FiatRate, &r.UsdtAmount, &r.UsdtRate,
		&method, &mode, &bankSellRate, &retainedCurrency,
		&retainedOverride, &profitOverride, &status,
		&r.Steps.FiatAcquired, &r.Steps.UsdtSold, &r.Steps.FiatPaid,
		&r.HolderID, &holderName, &r.IsPrivate, &r.Notes, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	settlement, err := transaction.ParseSettlement(
		calc.Mode(mode),
		nullDecimalPtr(bankSellRate),
		transaction.Currency(retainedCurrency.String),
	)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", r.ID, err)
	}

	r.FiatCurrency = transaction.Currency(currency)
	r.PaymentMethod = transaction.PaymentMethod(method)
	r.Status = transaction.Status(status)
	r.Settlement = settlement
	r.RetainedOverride = nullDecimalPtr(retainedOverride)
	r.HolderName = holderName.String

	if profitOverride.Valid {
		r.Profit = transaction.Overridden(profitOverride.Decimal)
	}

	return &r, nil
}

func nullDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	return &d.Decimal
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// writeArgs returns the mutable columns of r in insert order, followed by the cached profit and
// retained amount used by SQL-side reports.
func writeArgs(r *transaction.Record) []any {
	line := transaction.LineFor(r)
	override, _ := r.Profit.Override()

	return []any{
		r.FiatCurrency,
		r.FiatAmount,
		r.FiatRate,
		r.UsdtAmount,
		r.UsdtRate,
		r.PaymentMethod,
		r.Settlement.Mode(),
		nullDecimal(r.Settlement.BankSellRate()),
		nullString(string(r.Settlement.RetainedCurrency())),
		nullDecimal(r.RetainedOverride),
		decimal.NullDecimal{Decimal: override, Valid: r.Profit.IsOverridden()},
		r.Status,
		r.Steps.FiatAcquired,
		r.Steps.UsdtSold,
		r.Steps.FiatPaid,
		r.HolderID,
		r.IsPrivate,
		r.Notes,
		line.Profit,
		line.RetainedAmount,
	}
}

func (s *Store) CreateTransaction(ctx context.Context, r *transaction.Record) error {
	query := `
		INSERT INTO transactions (
			fiat_currency, fiat_amount, fiat_rate, usdt_amount, usdt_rate,
			payment_method, settlement_mode, bank_sell_rate, retained_currency,
			retained_override, profit_override, status, fiat_acquired, usdt_sold, fiat_paid,
			holder_id, is_private, notes, profit, retained_amount,
			created_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, COALESCE($22, NOW()))
		RETURNING id, sequence_id, created_at
	`

	args := append(writeArgs(r), r.CreatedBy, nullTime(r.CreatedAt))

	err := s.db.QueryRowContext(ctx, query, args...).Scan(&r.ID, &r.SequenceID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Record, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.id = $1 AND t.deleted_at IS NULL`

	return s.getOne(ctx, query, id)
}

func (s *Store) GetTransactionBySequence(ctx context.Context, seq int64) (*transaction.Record, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.sequence_id = $1 AND t.deleted_at IS NULL`

	return s.getOne(ctx, query, seq)
}

func (s *Store) getOne(ctx context.Context, query string, arg any) (*transaction.Record, error) {
	r, err := scanTransaction(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return r, nil
}

// filterClause translates filter into a WHERE fragment. Dates must already be resolved.
func filterClause(filter transaction.ListFilter) (string, []any) {
	where := " WHERE t.deleted_at IS NULL"

	var args []any

	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND "+cond, len(args))
	}

	switch filter.Visibility {
	case transaction.VisibilityPrivate:
		where += " AND t.is_private"
	case transaction.VisibilityPublic:
		where += " AND NOT t.is_private"
	}

	switch filter.Channel {
	case transaction.ChannelOnlyHybrid:
		where += " AND t.settlement_mode = 'hybrid'"
	case transaction.ChannelOnlyCash, transaction.ChannelOnlyBank:
		where += " AND t.settlement_mode <> 'hybrid'"
		add("t.payment_method = $%d", string(filter.Channel))
	}

	switch filter.Status {
	case transaction.StatusActive:
		where += " AND t.status IN ('planned', 'in_progress')"
	case transaction.StatusOnlyComplete:
		where += " AND t.status = 'complete'"
	}

	if filter.StartDate != nil {
		add("t.created_at >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("t.created_at < $%d", *filter.EndDate)
	}

	if filter.HolderID != nil {
		add("t.holder_id = $%d", *filter.HolderID)
	}

	return where, args
}

// ListTransactions returns matching records, newest first.
func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Record, error) {
	where, args := filterClause(filter)
	query := `SELECT ` + selectTransactionColumns + fromTransactions + where + `
		ORDER BY t.created_at DESC, t.sequence_id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var records []*transaction.Record

	for rows.Next() {
		r, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return records, nil
}

// UpdateTransaction overwrites every mutable column. Concurrent updates are last-writer-wins.
func (s *Store) UpdateTransaction(ctx context.Context, r *transaction.Record) error {
	query := `
		UPDATE transactions
		SET fiat_currency = $1, fiat_amount = $2, fiat_rate = $3, usdt_amount = $4, usdt_rate = $5,
			payment_method = $6, settlement_mode = $7, bank_sell_rate = $8, retained_currency = $9,
			retained_override = $10, profit_override = $11, status = $12,
			fiat_acquired = $13, usdt_sold = $14, fiat_paid = $15,
			holder_id = $16, is_private = $17, notes = $18, profit = $19, retained_amount = $20,
			updated_at = NOW()
		WHERE id = $21 AND deleted_at IS NULL
		RETURNING updated_at
	`

	args := append(writeArgs(r), r.ID)

	var updatedAt time.Time

	err := s.db.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	r.UpdatedAt = &updatedAt

	return nil
}

// DeleteTransaction soft-deletes the record. Its sequence id is never reused.
func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
