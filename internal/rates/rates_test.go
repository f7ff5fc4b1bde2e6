package rates_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/arbitra/internal/rates"
)

func TestHTTPProvider_Rate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/EUR":
			w.Write([]byte(`{"rate": "7.85"}`))
		case "/GBP":
			w.Write([]byte(`{"rate": 9.1}`))
		case "/USDT":
			w.Write([]byte(`{"rate": "0"}`))
		case "/BAD":
			w.Write([]byte(`not json`))
		case "/DOWN":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := rates.NewHTTPProvider(srv.URL+"/", time.Second)

	type testCase struct {
		currency string
		want     string
		wantErr  error
		anyErr   bool
	}

	tests := []testCase{
		{currency: "eur", want: "7.85"},
		{currency: "GBP", want: "9.1"},
		{currency: "USDT", wantErr: rates.ErrUnavailable},
		{currency: "CHF", wantErr: rates.ErrUnavailable},
		{currency: "BAD", anyErr: true},
		{currency: "DOWN", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			got, err := p.Rate(context.Background(), tt.currency)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

type stubProvider struct {
	mu    sync.Mutex
	rates map[string]decimal.Decimal
	err   error
	calls int
}

func (p *stubProvider) Rate(_ context.Context, currency string) (decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++

	if p.err != nil {
		return decimal.Zero, p.err
	}

	r, ok := p.rates[currency]
	if !ok {
		return decimal.Zero, rates.ErrUnavailable
	}

	return r, nil
}

func TestService_Quote(t *testing.T) {
	defaults := map[string]decimal.Decimal{"GBP": decimal.RequireFromString("8.7")}

	t.Run("Primary", func(t *testing.T) {
		primary := &stubProvider{rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("7.6")}}
		fallback := &stubProvider{}

		q := rates.NewService(primary, fallback, defaults).Quote(context.Background(), "eur")

		assert.Equal(t, rates.SourceLive, q.Source)
		assert.Equal(t, "EUR", q.Currency)
		assert.Equal(t, "7.6", q.Rate.String())
		assert.Zero(t, fallback.calls)
	})

	t.Run("Fallback", func(t *testing.T) {
		primary := &stubProvider{err: errors.New("timeout")}
		fallback := &stubProvider{rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("7.4")}}

		q := rates.NewService(primary, fallback, defaults).Quote(context.Background(), "EUR")

		assert.Equal(t, rates.SourceFallback, q.Source)
		assert.Equal(t, "7.4", q.Rate.String())
	})

	t.Run("LastKnown", func(t *testing.T) {
		primary := &stubProvider{rates: map[string]decimal.Decimal{"EUR": decimal.RequireFromString("7.6")}}
		svc := rates.NewService(primary, nil, defaults)

		first := svc.Quote(context.Background(), "EUR")
		require.Equal(t, rates.SourceLive, first.Source)

		primary.err = errors.New("down")
		q := svc.Quote(context.Background(), "EUR")

		assert.Equal(t, rates.SourceCached, q.Source)
		assert.Equal(t, "7.6", q.Rate.String())
		assert.Equal(t, first.FetchedAt, q.FetchedAt)
	})

	t.Run("Default", func(t *testing.T) {
		q := rates.NewService(nil, nil, defaults).Quote(context.Background(), "GBP")

		assert.Equal(t, rates.SourceDefault, q.Source)
		assert.Equal(t, "8.7", q.Rate.String())
	})

	t.Run("Nothing", func(t *testing.T) {
		q := rates.NewService(&stubProvider{err: errors.New("down")}, nil, nil).Quote(context.Background(), "EUR")

		assert.Equal(t, rates.SourceNone, q.Source)
		assert.True(t, q.Rate.IsZero())
	})
}

func TestService_Refresh(t *testing.T) {
	primary := &stubProvider{rates: map[string]decimal.Decimal{
		"EUR":  decimal.RequireFromString("7.6"),
		"GBP":  decimal.RequireFromString("8.9"),
		"USDT": decimal.RequireFromString("7.1"),
	}}
	svc := rates.NewService(primary, nil, nil)

	svc.Refresh(context.Background(), "EUR", "GBP", "USDT")
	assert.Equal(t, 3, primary.calls)

	primary.err = errors.New("down")

	for _, c := range []string{"EUR", "GBP", "USDT"} {
		assert.Equal(t, rates.SourceCached, svc.Quote(context.Background(), c).Source, c)
	}
}

func TestParseDefaults(t *testing.T) {
	got, err := rates.ParseDefaults(map[string]string{"eur": " 7.5 ", "GBP": "8.7"})
	require.NoError(t, err)
	assert.Equal(t, "7.5", got["EUR"].String())
	assert.Equal(t, "8.7", got["GBP"].String())

	_, err = rates.ParseDefaults(map[string]string{"EUR": "seven"})
	assert.Error(t, err)
}
