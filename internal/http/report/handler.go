package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/http/respond"
	txhttp "github.com/MrJamesThe3rd/arbitra/internal/http/transaction"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
}

type retainedResponse struct {
	Currency transaction.Currency `json:"currency"`
	Amount   decimal.Decimal      `json:"amount"`
	ValueLyd decimal.Decimal      `json:"value_lyd"`
}

type capitalResponse struct {
	HolderID   uuid.UUID            `json:"holder_id"`
	HolderName string               `json:"holder_name"`
	Currency   transaction.Currency `json:"currency"`
	Amount     decimal.Decimal      `json:"amount"`
}

// SummaryResponse is the JSON form of transaction.Summary.
type SummaryResponse struct {
	Count           int                `json:"count"`
	Cancelled       int                `json:"cancelled"`
	TotalCost       decimal.Decimal    `json:"total_cost"`
	TotalReturn     decimal.Decimal    `json:"total_return"`
	RealizedReturn  decimal.Decimal    `json:"realized_return"`
	TotalProfit     decimal.Decimal    `json:"total_profit"`
	RealizedProfit  decimal.Decimal    `json:"realized_profit"`
	AverageProfit   decimal.Decimal    `json:"average_profit"`
	Margin          decimal.Decimal    `json:"margin"`
	Retained        []retainedResponse `json:"retained"`
	InvestorCapital []capitalResponse  `json:"investor_capital"`
}

func ToSummaryResponse(s transaction.Summary) SummaryResponse {
	resp := SummaryResponse{
		Count:           s.Count,
		Cancelled:       s.Cancelled,
		TotalCost:       s.TotalCost,
		TotalReturn:     s.TotalReturn,
		RealizedReturn:  s.RealizedReturn,
		TotalProfit:     s.TotalProfit,
		RealizedProfit:  s.RealizedProfit,
		AverageProfit:   s.AverageProfit,
		Margin:          s.Margin,
		Retained:        make([]retainedResponse, len(s.Retained)),
		InvestorCapital: make([]capitalResponse, len(s.InvestorCapital)),
	}

	for i, rt := range s.Retained {
		resp.Retained[i] = retainedResponse{Currency: rt.Currency, Amount: rt.Amount, ValueLyd: rt.ValueLyd}
	}

	for i, hc := range s.InvestorCapital {
		resp.InvestorCapital[i] = capitalResponse{
			HolderID:   hc.HolderID,
			HolderName: hc.HolderName,
			Currency:   hc.Currency,
			Amount:     hc.Amount,
		}
	}

	return resp
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, err := txhttp.FilterFromQuery(r.URL.Query())
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	summary, _, err := h.svc.Report(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToSummaryResponse(summary))
}
