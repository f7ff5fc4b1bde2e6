package audit

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Action names the kind of mutation an entry records.
type Action string

const (
	ActionCreated        Action = "created"
	ActionUpdated        Action = "updated"
	ActionStep           Action = "step"
	ActionStatusOverride Action = "status_override"
	ActionCancelled      Action = "cancelled"
	ActionSettlement     Action = "settlement"
	ActionProfit         Action = "profit"
	ActionHolder         Action = "holder"
	ActionDeleted        Action = "deleted"
)

// Change is the old and new value of one attribute.
type Change struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Entry is one audited mutation of a transaction.
type Entry struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Actor         string
	Action        Action
	Changes       map[string]Change
	CreatedAt     time.Time
}

// Diff returns the attributes whose value differs between before and after.
// A nil map on either side means the record did not exist.
func Diff(before, after map[string]any) map[string]Change {
	changes := make(map[string]Change)

	for k, newV := range after {
		oldV := before[k]
		if before != nil && reflect.DeepEqual(oldV, newV) {
			continue
		}

		changes[k] = Change{Old: oldV, New: newV}
	}

	for k, oldV := range before {
		if _, ok := after[k]; ok {
			continue
		}

		changes[k] = Change{Old: oldV, New: nil}
	}

	return changes
}

const SystemActor = "system"

type actorKey struct{}

// WithActor attaches the acting user to ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the acting user, or SystemActor when none is set.
func ActorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}

	return SystemActor
}

//go:generate mockgen -source=audit.go -destination=repository_mock.go -package=audit
type Repository interface {
	AppendEntry(ctx context.Context, e *Entry) error
	ListEntries(ctx context.Context, transactionID uuid.UUID) ([]*Entry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Append stores e, filling in the actor from ctx when empty.
func (s *Service) Append(ctx context.Context, e Entry) error {
	if e.Actor == "" {
		e.Actor = ActorFrom(ctx)
	}

	return s.repo.AppendEntry(ctx, &e)
}

// History returns the entries of a transaction, oldest first.
func (s *Service) History(ctx context.Context, transactionID uuid.UUID) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, transactionID)
}
