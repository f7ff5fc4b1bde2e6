package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

func TestParseRange(t *testing.T) {
	type testCase struct {
		name      string
		start     string
		end       string
		wantStart time.Time
		wantEnd   time.Time
		wantErr   string
	}

	tests := []testCase{
		{
			name:      "SingleDay",
			start:     "2024-03-10",
			end:       "2024-03-10",
			wantStart: time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local),
			wantEnd:   time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "MonthEnd",
			start:     "2024-02-01",
			end:       "2024-02-29",
			wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local),
			wantEnd:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local),
		},
		{
			name:    "BadStart",
			start:   "10/03/2024",
			end:     "2024-03-10",
			wantErr: "invalid start date",
		},
		{
			name:    "BadEnd",
			start:   "2024-03-10",
			end:     "",
			wantErr: "invalid end date",
		},
		{
			name:    "Reversed",
			start:   "2024-03-10",
			end:     "2024-03-09",
			wantErr: "end date is before start date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := parseRange(tt.start, tt.end)

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(start))
			assert.True(t, tt.wantEnd.Equal(end))
		})
	}
}

func TestPeriodPicker_SelectPreset(t *testing.T) {
	p := NewPeriodPicker(transaction.PeriodToday)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(PeriodSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, transaction.PeriodYesterday, msg.Period)
	assert.Nil(t, msg.Start)
}

func TestPeriodPicker_CustomEntersInputs(t *testing.T) {
	p := NewPeriodPicker(transaction.PeriodCustom)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, p.IsSelecting())

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, p.IsSelecting())
}
