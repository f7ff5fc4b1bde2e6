package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

func TestFilterClause(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	holderID := uuid.New()

	type testCase struct {
		name      string
		filter    transaction.ListFilter
		wantWhere string
		wantArgs  []any
	}

	tests := []testCase{
		{
			name:      "Empty",
			filter:    transaction.ListFilter{},
			wantWhere: " WHERE t.deleted_at IS NULL",
		},
		{
			name: "CashActive",
			filter: transaction.ListFilter{
				Channel: transaction.ChannelOnlyCash,
				Status:  transaction.StatusActive,
			},
			wantWhere: " WHERE t.deleted_at IS NULL AND t.settlement_mode <> 'hybrid' AND t.payment_method = $1" +
				" AND t.status IN ('planned', 'in_progress')",
			wantArgs: []any{"cash"},
		},
		{
			name: "HybridPrivateInRangeForHolder",
			filter: transaction.ListFilter{
				Visibility: transaction.VisibilityPrivate,
				Channel:    transaction.ChannelOnlyHybrid,
				StartDate:  &start,
				EndDate:    &end,
				HolderID:   &holderID,
			},
			wantWhere: " WHERE t.deleted_at IS NULL AND t.is_private AND t.settlement_mode = 'hybrid'" +
				" AND t.created_at >= $1 AND t.created_at < $2 AND t.holder_id = $3",
			wantArgs: []any{start, end, holderID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := filterClause(tt.filter)

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
