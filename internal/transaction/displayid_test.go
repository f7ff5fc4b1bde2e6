package transaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

func TestRecord_DisplayID(t *testing.T) {
	r := sampleRecord()
	assert.Equal(t, "C42", r.DisplayID())

	r.PaymentMethod = transaction.PaymentBank
	assert.Equal(t, "B42", r.DisplayID())

	r.Settlement = transaction.Hybrid(nil)
	assert.Equal(t, "H42", r.DisplayID())
}

func TestParseDisplayID(t *testing.T) {
	tests := []struct {
		in          string
		wantChannel transaction.Channel
		wantSeq     int64
		wantErr     bool
	}{
		{in: "C1", wantChannel: transaction.ChannelCash, wantSeq: 1},
		{in: "b120", wantChannel: transaction.ChannelBank, wantSeq: 120},
		{in: " H7 ", wantChannel: transaction.ChannelHybrid, wantSeq: 7},
		{in: "C0", wantErr: true},
		{in: "Z5", wantErr: true},
		{in: "C", wantErr: true},
		{in: "C-3", wantErr: true},
		{in: "C+42", wantErr: true},
		{in: "B4 2", wantErr: true},
		{in: "Cabc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			channel, seq, err := transaction.ParseDisplayID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantChannel, channel)
			assert.Equal(t, tt.wantSeq, seq)
		})
	}
}
