// Package rates fetches live LYD exchange rates for the calculator. Lookups degrade instead of
// failing: primary provider, fallback provider, last known quote, configured default.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrUnavailable is returned by providers that have no usable rate for a currency.
var ErrUnavailable = errors.New("rate unavailable")

// Provider returns the LYD price of one unit of currency.
type Provider interface {
	Rate(ctx context.Context, currency string) (decimal.Decimal, error)
}

// HTTPProvider reads rates from GET {base}/{currency}, answering {"rate": "6.1"}.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type rateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

func (p *HTTPProvider) Rate(ctx context.Context, currency string) (decimal.Decimal, error) {
	addr := p.baseURL + "/" + url.PathEscape(strings.ToUpper(currency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return decimal.Zero, ErrUnavailable
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, addr)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decoding rate: %w", err)
	}

	if !body.Rate.IsPositive() {
		return decimal.Zero, ErrUnavailable
	}

	return body.Rate, nil
}

// Source tells where a quote came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
	SourceCached   Source = "cached"
	SourceDefault  Source = "default"
	SourceNone     Source = "none"
	SourceManual   Source = "manual"
)

type Quote struct {
	Currency  string          `json:"currency"`
	Rate      decimal.Decimal `json:"rate"`
	Source    Source          `json:"source"`
	FetchedAt time.Time       `json:"fetched_at,omitzero"`
}

// Service hands out rates, remembering the last successful quote per currency.
type Service struct {
	primary  Provider
	fallback Provider
	defaults map[string]decimal.Decimal
	now      func() time.Time

	mu   sync.Mutex
	last map[string]Quote
}

// NewService builds a rate service. Either provider may be nil.
func NewService(primary, fallback Provider, defaults map[string]decimal.Decimal) *Service {
	return &Service{
		primary:  primary,
		fallback: fallback,
		defaults: defaults,
		now:      time.Now,
		last:     make(map[string]Quote),
	}
}

// Quote returns the best available rate for currency. It never fails; with nothing known the
// rate is zero and the source is SourceNone.
func (s *Service) Quote(ctx context.Context, currency string) Quote {
	currency = strings.ToUpper(currency)

	if q, ok := s.fetch(ctx, currency); ok {
		return q
	}

	s.mu.Lock()
	q, ok := s.last[currency]
	s.mu.Unlock()

	if ok {
		q.Source = SourceCached
		return q
	}

	if d, ok := s.defaults[currency]; ok {
		return Quote{Currency: currency, Rate: d, Source: SourceDefault}
	}

	return Quote{Currency: currency, Rate: decimal.Zero, Source: SourceNone}
}

func (s *Service) fetch(ctx context.Context, currency string) (Quote, bool) {
	providers := []struct {
		p      Provider
		source Source
	}{
		{s.primary, SourceLive},
		{s.fallback, SourceFallback},
	}

	for _, pr := range providers {
		if pr.p == nil {
			continue
		}

		rate, err := pr.p.Rate(ctx, currency)
		if err != nil {
			slog.Warn("rate provider failed", "currency", currency, "source", pr.source, "error", err)
			continue
		}

		q := Quote{Currency: currency, Rate: rate, Source: pr.source, FetchedAt: s.now()}

		s.mu.Lock()
		s.last[currency] = q
		s.mu.Unlock()

		return q, true
	}

	return Quote{}, false
}

// Refresh fetches every currency concurrently and waits for all of them.
func (s *Service) Refresh(ctx context.Context, currencies ...string) {
	g, ctx := errgroup.WithContext(ctx)

	for _, c := range currencies {
		c := c
		g.Go(func() error {
			s.Quote(ctx, c)
			return nil
		})
	}

	_ = g.Wait()
}

// Prefetch refreshes currencies in the background. The caller's cancellation does not stop it.
func (s *Service) Prefetch(ctx context.Context, currencies ...string) {
	go s.Refresh(context.WithoutCancel(ctx), currencies...)
}

// ParseDefaults converts configured default rates. A malformed value is an error.
func ParseDefaults(raw map[string]string) (map[string]decimal.Decimal, error) {
	defaults := make(map[string]decimal.Decimal, len(raw))

	for c, v := range raw {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("default rate for %s: %w", c, err)
		}

		defaults[strings.ToUpper(c)] = d
	}

	return defaults, nil
}
