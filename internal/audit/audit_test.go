package audit_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/arbitra/internal/audit"
)

func TestDiff(t *testing.T) {
	type testCase struct {
		name   string
		before map[string]any
		after  map[string]any
		want   map[string]audit.Change
	}

	tests := []testCase{
		{
			name:   "NoChanges",
			before: map[string]any{"status": "planned", "fiat_paid": false},
			after:  map[string]any{"status": "planned", "fiat_paid": false},
			want:   map[string]audit.Change{},
		},
		{
			name:   "ChangedOnly",
			before: map[string]any{"status": "planned", "notes": "a", "holder_id": nil},
			after:  map[string]any{"status": "in_progress", "notes": "a", "holder_id": "h1"},
			want: map[string]audit.Change{
				"status":    {Old: "planned", New: "in_progress"},
				"holder_id": {Old: nil, New: "h1"},
			},
		},
		{
			name:   "Created",
			before: nil,
			after:  map[string]any{"status": "planned", "holder_id": nil},
			want: map[string]audit.Change{
				"status":    {Old: nil, New: "planned"},
				"holder_id": {Old: nil, New: nil},
			},
		},
		{
			name:   "Deleted",
			before: map[string]any{"status": "complete"},
			after:  nil,
			want:   map[string]audit.Change{"status": {Old: "complete", New: nil}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, audit.Diff(tt.before, tt.after))
		})
	}
}

func TestActor(t *testing.T) {
	assert.Equal(t, audit.SystemActor, audit.ActorFrom(context.Background()))
	assert.Equal(t, audit.SystemActor, audit.ActorFrom(audit.WithActor(context.Background(), "")))
	assert.Equal(t, "amira", audit.ActorFrom(audit.WithActor(context.Background(), "amira")))
}

func TestService_Append(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txID := uuid.New()
	repo := audit.NewMockRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().
			AppendEntry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *audit.Entry) error {
				assert.Equal(t, "amira", e.Actor)
				return nil
			}),
		repo.EXPECT().
			AppendEntry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *audit.Entry) error {
				assert.Equal(t, "importer", e.Actor)
				return nil
			}),
	)

	svc := audit.NewService(repo)
	ctx := audit.WithActor(context.Background(), "amira")

	require.NoError(t, svc.Append(ctx, audit.Entry{TransactionID: txID, Action: audit.ActionStep}))
	require.NoError(t, svc.Append(ctx, audit.Entry{TransactionID: txID, Action: audit.ActionCreated, Actor: "importer"}))
}

func TestService_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txID := uuid.New()
	entries := []*audit.Entry{{TransactionID: txID, Action: audit.ActionCreated}}

	repo := audit.NewMockRepository(ctrl)
	repo.EXPECT().ListEntries(gomock.Any(), txID).Return(entries, nil)

	got, err := audit.NewService(repo).History(context.Background(), txID)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
