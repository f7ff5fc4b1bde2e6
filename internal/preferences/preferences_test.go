package preferences_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/arbitra/internal/preferences"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string, string) ([]byte, error) {
	return nil, errors.New("db down")
}

func (failingStore) Set(context.Context, string, string, []byte) error {
	return errors.New("db down")
}

func TestFilterRoundTrip(t *testing.T) {
	ctx := context.Background()
	holderID := uuid.New()
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name   string
		filter transaction.ListFilter
		want   transaction.ListFilter
	}

	tests := []testCase{
		{
			name:   "Custom",
			filter: transaction.ListFilter{Period: transaction.PeriodCustom, StartDate: &start, EndDate: &end, HolderID: &holderID},
			want:   transaction.ListFilter{Period: transaction.PeriodCustom, StartDate: &start, EndDate: &end, HolderID: &holderID},
		},
		{
			name: "PresetDropsDates",
			filter: transaction.ListFilter{
				Visibility: transaction.VisibilityPublic,
				Channel:    transaction.ChannelOnlyHybrid,
				Status:     transaction.StatusActive,
				Period:     transaction.PeriodLastMonth,
				StartDate:  &start,
			},
			want: transaction.ListFilter{
				Visibility: transaction.VisibilityPublic,
				Channel:    transaction.ChannelOnlyHybrid,
				Status:     transaction.StatusActive,
				Period:     transaction.PeriodLastMonth,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := preferences.NewMemory()

			require.NoError(t, preferences.SaveFilter(ctx, store, "amira", tt.filter))

			got, err := preferences.LoadFilter(ctx, store, "amira")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			other, err := preferences.LoadFilter(ctx, store, "omar")
			require.NoError(t, err)
			assert.Equal(t, transaction.ListFilter{}, other)
		})
	}
}

func TestLoadFilter_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := preferences.LoadFilter(ctx, failingStore{}, "amira")
	assert.Error(t, err)

	store := preferences.NewMemory()
	require.NoError(t, store.Set(ctx, "amira", "ledger_filter", []byte("{broken")))

	_, err = preferences.LoadFilter(ctx, store, "amira")
	assert.Error(t, err)

	assert.Error(t, preferences.SaveFilter(ctx, failingStore{}, "amira", transaction.ListFilter{}))
}
