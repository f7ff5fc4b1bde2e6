package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/audit"
	"github.com/MrJamesThe3rd/arbitra/internal/holder"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, r *Record) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Record, error)
	GetTransactionBySequence(ctx context.Context, seq int64) (*Record, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Record, error)
	UpdateTransaction(ctx context.Context, r *Record) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// AuditLog receives one entry per mutation. Failures are logged, never returned.
type AuditLog interface {
	Append(ctx context.Context, e audit.Entry) error
}

// Holders resolves holder references.
type Holders interface {
	Get(ctx context.Context, id uuid.UUID) (*holder.Holder, error)
	Investors(ctx context.Context) (map[uuid.UUID]string, error)
}

// Service is the lifecycle manager of arbitrage transactions. Every write goes to the store
// first; the returned record reflects what was persisted. Concurrent writers to the same
// record follow last-writer-wins.
type Service struct {
	repo    Repository
	holders Holders
	audit   AuditLog
	now     func() time.Time
}

func NewService(repo Repository, holders Holders, auditLog AuditLog) *Service {
	return &Service{
		repo:    repo,
		holders: holders,
		audit:   auditLog,
		now:     time.Now,
	}
}

// WithClock replaces the clock used to resolve date presets.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateParams struct {
	FiatCurrency     Currency
	FiatAmount       decimal.Decimal
	FiatRate         decimal.Decimal
	UsdtAmount       decimal.Decimal
	UsdtRate         decimal.Decimal
	PaymentMethod    PaymentMethod
	Settlement       Settlement
	ProfitOverride   *decimal.Decimal
	RetainedOverride *decimal.Decimal
	HolderID         *uuid.UUID
	IsPrivate        bool
	Notes            string
	// CreatedAt backdates imported trades. Zero means now.
	CreatedAt time.Time
}

func (p CreateParams) record() *Record {
	r := &Record{
		FiatCurrency:     p.FiatCurrency,
		FiatAmount:       p.FiatAmount,
		FiatRate:         p.FiatRate,
		UsdtAmount:       p.UsdtAmount,
		UsdtRate:         p.UsdtRate,
		PaymentMethod:    p.PaymentMethod,
		Settlement:       p.Settlement,
		Profit:           Computed(),
		RetainedOverride: p.RetainedOverride,
		Status:           StatusPlanned,
		HolderID:         p.HolderID,
		IsPrivate:        p.IsPrivate,
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt,
	}

	if r.FiatCurrency == "" {
		r.FiatCurrency = CurrencyEUR
	}

	if r.PaymentMethod == "" {
		r.PaymentMethod = PaymentCash
	}

	if p.ProfitOverride != nil {
		r.Profit = Overridden(*p.ProfitOverride)
	}

	return r
}

// Preview returns the figures a record built from params would have, without storing it.
func (s *Service) Preview(params CreateParams) Line {
	return params.Line()
}

// Line runs the engine over the record params describe.
func (p CreateParams) Line() Line {
	return LineFor(p.record())
}

// Validate reports the error Create would reject params with, without the holder lookup.
func (p CreateParams) Validate() error {
	return validate(p.record())
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Record, error) {
	r := params.record()
	if err := validate(r); err != nil {
		return nil, err
	}

	if err := s.checkHolder(ctx, r.HolderID); err != nil {
		return nil, err
	}

	r.CreatedBy = audit.ActorFrom(ctx)

	if err := s.repo.CreateTransaction(ctx, r); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	s.record(ctx, r.ID, audit.ActionCreated, audit.Diff(nil, r.Snapshot()))

	return r, nil
}

// CreateBatch stores every params in order and stops at the first failure.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Record, error) {
	records := make([]*Record, 0, len(params))

	for i, p := range params {
		r, err := s.Create(ctx, p)
		if err != nil {
			return records, fmt.Errorf("row %d: %w", i+1, err)
		}

		records = append(records, r)
	}

	return records, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) GetBySequence(ctx context.Context, seq int64) (*Record, error) {
	return s.repo.GetTransactionBySequence(ctx, seq)
}

// GetByDisplayID looks a record up by its display id. The prefix must match the record's
// current channel.
func (s *Service) GetByDisplayID(ctx context.Context, displayID string) (*Record, error) {
	channel, seq, err := ParseDisplayID(displayID)
	if err != nil {
		return nil, ErrNotFound
	}

	r, err := s.GetBySequence(ctx, seq)
	if err != nil {
		return nil, err
	}

	if r.Channel() != channel {
		return nil, ErrNotFound
	}

	return r, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	return s.repo.ListTransactions(ctx, filter.Resolved(s.now()))
}

type UpdateParams struct {
	FiatCurrency  *Currency
	FiatAmount    *decimal.Decimal
	FiatRate      *decimal.Decimal
	UsdtAmount    *decimal.Decimal
	UsdtRate      *decimal.Decimal
	PaymentMethod *PaymentMethod
	IsPrivate     *bool
	Notes         *string

	RetainedOverride      *decimal.Decimal
	ClearRetainedOverride bool
}

// Update applies the non-nil fields of params. Funds retained in the record's own fiat follow
// a fiat currency change, and the retained override set in the old currency is dropped.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Record, error) {
	return s.mutate(ctx, id, audit.ActionUpdated, func(r *Record) error {
		if params.FiatCurrency != nil && *params.FiatCurrency != r.FiatCurrency {
			if r.Settlement.RetainedCurrency() == r.FiatCurrency {
				r.Settlement = Retained(*params.FiatCurrency)
				r.RetainedOverride = nil
			}

			r.FiatCurrency = *params.FiatCurrency
		}

		if params.FiatAmount != nil {
			r.FiatAmount = *params.FiatAmount
		}

		if params.FiatRate != nil {
			r.FiatRate = *params.FiatRate
		}

		if params.UsdtAmount != nil {
			r.UsdtAmount = *params.UsdtAmount
		}

		if params.UsdtRate != nil {
			r.UsdtRate = *params.UsdtRate
		}

		if params.PaymentMethod != nil {
			r.PaymentMethod = *params.PaymentMethod
		}

		if params.IsPrivate != nil {
			r.IsPrivate = *params.IsPrivate
		}

		if params.Notes != nil {
			r.Notes = *params.Notes
		}

		if params.ClearRetainedOverride {
			r.RetainedOverride = nil
		}

		if params.RetainedOverride != nil {
			r.RetainedOverride = params.RetainedOverride
		}

		return validate(r)
	})
}

// SetStep marks a progress step and lets the status follow.
func (s *Service) SetStep(ctx context.Context, id uuid.UUID, step Step, done bool) (*Record, error) {
	return s.mutate(ctx, id, audit.ActionStep, func(r *Record) error {
		return ApplyStep(r, step, done)
	})
}

// SetStatus is the manual escape hatch: the status is stored as given, even if it disagrees
// with the progress steps.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Record, error) {
	return s.mutate(ctx, id, audit.ActionStatusOverride, func(r *Record) error {
		return OverrideStatus(r, status)
	})
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.mutate(ctx, id, audit.ActionCancelled, Cancel)
}

// SetSettlement switches the settlement mode. Switching away from retained drops any retained
// amount override. A completed record without a holder cannot become retained.
func (s *Service) SetSettlement(ctx context.Context, id uuid.UUID, settlement Settlement) (*Record, error) {
	return s.mutate(ctx, id, audit.ActionSettlement, func(r *Record) error {
		if err := settlement.Validate(); err != nil {
			return err
		}

		if settlement.IsRetained() && r.HolderID == nil && r.Status == StatusComplete {
			return ErrHolderRequired
		}

		r.Settlement = settlement
		if !settlement.IsRetained() {
			r.RetainedOverride = nil
		}

		return nil
	})
}

func (s *Service) OverrideProfit(ctx context.Context, id uuid.UUID, value decimal.Decimal) (*Record, error) {
	return s.mutate(ctx, id, audit.ActionProfit, func(r *Record) error {
		r.Profit = Overridden(value)
		return nil
	})
}

// ResetProfit goes back to the computed profit.
func (s *Service) ResetProfit(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.mutate(ctx, id, audit.ActionProfit, func(r *Record) error {
		r.Profit = Computed()
		return nil
	})
}

func (s *Service) AttachHolder(ctx context.Context, id, holderID uuid.UUID) (*Record, error) {
	if err := s.checkHolder(ctx, &holderID); err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, audit.ActionHolder, func(r *Record) error {
		r.HolderID = &holderID
		return nil
	})
}

// DetachHolder clears the holder. Completed retained records must keep theirs.
func (s *Service) DetachHolder(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.mutate(ctx, id, audit.ActionHolder, func(r *Record) error {
		if r.Status == StatusComplete && r.Settlement.IsRetained() {
			return validationf("completed transactions with retained funds need a holder")
		}

		r.HolderID = nil
		r.HolderName = ""

		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	r, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	s.record(ctx, id, audit.ActionDeleted, audit.Diff(r.Snapshot(), nil))

	return nil
}

// Report summarizes the records matching filter.
func (s *Service) Report(ctx context.Context, filter ListFilter) (Summary, []Line, error) {
	records, err := s.List(ctx, filter)
	if err != nil {
		return Summary{}, nil, fmt.Errorf("listing transactions: %w", err)
	}

	investors, err := s.holders.Investors(ctx)
	if err != nil {
		return Summary{}, nil, err
	}

	lines := make([]Line, len(records))
	for i, r := range records {
		lines[i] = LineFor(r)
	}

	return Summarize(records, investors), lines, nil
}

// mutate loads a fresh copy of the record, applies fn, stores it and audits the difference.
// Nothing is stored when fn fails.
func (s *Service) mutate(ctx context.Context, id uuid.UUID, action audit.Action, fn func(r *Record) error) (*Record, error) {
	r, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	before := r.Snapshot()

	if err := fn(r); err != nil {
		return nil, err
	}

	changes := audit.Diff(before, r.Snapshot())
	if len(changes) == 0 {
		// Manual status assignments are audited even when they change nothing.
		if action == audit.ActionStatusOverride {
			s.record(ctx, id, action, map[string]audit.Change{
				"status": {Old: before["status"], New: before["status"]},
			})
		}

		return r, nil
	}

	if err := s.repo.UpdateTransaction(ctx, r); err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	s.record(ctx, id, action, changes)

	return r, nil
}

func (s *Service) record(ctx context.Context, id uuid.UUID, action audit.Action, changes map[string]audit.Change) {
	if s.audit == nil {
		return
	}

	entry := audit.Entry{
		TransactionID: id,
		Actor:         audit.ActorFrom(ctx),
		Action:        action,
		Changes:       changes,
	}

	if err := s.audit.Append(ctx, entry); err != nil {
		slog.Error("failed to append audit entry",
			"error", err,
			"transaction_id", id,
			"action", action,
		)
	}
}

func (s *Service) checkHolder(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}

	if _, err := s.holders.Get(ctx, *id); err != nil {
		if errors.Is(err, holder.ErrNotFound) {
			return validationf("holder %s does not exist", id)
		}

		return fmt.Errorf("getting holder: %w", err)
	}

	return nil
}

func validate(r *Record) error {
	if !r.FiatCurrency.ValidFiat() {
		return validationf("unsupported fiat currency %q", r.FiatCurrency)
	}

	if !r.PaymentMethod.Valid() {
		return validationf("unknown payment method %q", r.PaymentMethod)
	}

	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"fiat amount", r.FiatAmount},
		{"fiat rate", r.FiatRate},
		{"usdt amount", r.UsdtAmount},
		{"usdt rate", r.UsdtRate},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return validationf("%s cannot be negative", a.name)
		}
	}

	return r.Settlement.Validate()
}
