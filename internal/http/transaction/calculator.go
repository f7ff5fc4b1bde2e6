package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/http/respond"
	"github.com/MrJamesThe3rd/arbitra/internal/rates"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

// Calculator previews the figures of a trade without storing it. Missing rates are filled in
// from the rate service.
type Calculator struct {
	svc   *transaction.Service
	rates *rates.Service
}

func NewCalculator(svc *transaction.Service, rates *rates.Service) *Calculator {
	return &Calculator{svc: svc, rates: rates}
}

func (c *Calculator) Routes(r chi.Router) {
	r.Post("/", c.calculate)
}

type calculateRequest struct {
	FiatCurrency  transaction.Currency      `json:"fiat_currency"`
	FiatAmount    decimal.Decimal           `json:"fiat_amount"`
	FiatRate      *decimal.Decimal          `json:"fiat_rate,omitempty"`
	UsdtAmount    decimal.Decimal           `json:"usdt_amount"`
	UsdtRate      *decimal.Decimal          `json:"usdt_rate,omitempty"`
	PaymentMethod transaction.PaymentMethod `json:"payment_method,omitempty"`
	Settlement    settlementDTO             `json:"settlement"`
}

type calculateResponse struct {
	FiatRate rates.Quote     `json:"fiat_rate"`
	UsdtRate rates.Quote     `json:"usdt_rate"`
	Metrics  metricsResponse `json:"metrics"`
}

func (c *Calculator) calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if !decode(w, r, &req) {
		return
	}

	settlement, err := req.Settlement.settlement()
	if err != nil {
		respond.Error(w, err)
		return
	}

	if req.FiatCurrency == "" {
		req.FiatCurrency = transaction.CurrencyEUR
	}

	fiatQuote := c.quote(r, string(req.FiatCurrency), req.FiatRate)
	usdtQuote := c.quote(r, string(transaction.CurrencyUSDT), req.UsdtRate)

	line := c.svc.Preview(transaction.CreateParams{
		FiatCurrency:  req.FiatCurrency,
		FiatAmount:    req.FiatAmount,
		FiatRate:      fiatQuote.Rate,
		UsdtAmount:    req.UsdtAmount,
		UsdtRate:      usdtQuote.Rate,
		PaymentMethod: req.PaymentMethod,
		Settlement:    settlement,
	})

	respond.JSON(w, http.StatusOK, calculateResponse{
		FiatRate: fiatQuote,
		UsdtRate: usdtQuote,
		Metrics:  toMetricsResponse(line),
	})
}

// quote returns given as a manual quote, or asks the rate service when it is nil.
func (c *Calculator) quote(r *http.Request, currency string, given *decimal.Decimal) rates.Quote {
	if given != nil {
		return rates.Quote{Currency: currency, Rate: *given, Source: rates.SourceManual}
	}

	return c.rates.Quote(r.Context(), currency)
}
