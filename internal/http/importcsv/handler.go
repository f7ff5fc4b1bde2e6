package importcsv

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/calc"
	"github.com/MrJamesThe3rd/arbitra/internal/http/respond"
	"github.com/MrJamesThe3rd/arbitra/internal/importer"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type tradeResponse struct {
	ID            *uuid.UUID                `json:"id,omitempty"`
	DisplayID     string                    `json:"display_id,omitempty"`
	FiatCurrency  transaction.Currency      `json:"fiat_currency"`
	FiatAmount    decimal.Decimal           `json:"fiat_amount"`
	UsdtAmount    decimal.Decimal           `json:"usdt_amount"`
	PaymentMethod transaction.PaymentMethod `json:"payment_method"`
	Mode          calc.Mode                 `json:"settlement_mode"`
	CostLyd       decimal.Decimal           `json:"cost_lyd"`
	Profit        decimal.Decimal           `json:"profit"`
	Margin        decimal.Decimal           `json:"margin"`
}

type importResponse struct {
	DryRun   bool            `json:"dry_run"`
	Imported int             `json:"imported"`
	Trades   []tradeResponse `json:"trades"`
}

func toTradeResponse(l transaction.Line, stored bool) tradeResponse {
	r := l.Record

	resp := tradeResponse{
		FiatCurrency:  r.FiatCurrency,
		FiatAmount:    r.FiatAmount,
		UsdtAmount:    r.UsdtAmount,
		PaymentMethod: r.PaymentMethod,
		Mode:          r.Settlement.Mode(),
		CostLyd:       l.Metrics.CostLyd,
		Profit:        l.Profit,
		Margin:        l.Margin,
	}

	if stored {
		resp.ID = &r.ID
		resp.DisplayID = r.DisplayID()
	}

	return resp
}

// importCSV takes a multipart upload with a "file" field. With dry_run=true nothing is stored
// and the response previews the figures of every row.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	dryRun := false

	if s := r.FormValue("dry_run"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			respond.BadRequest(w, "dry_run must be a boolean")
			return
		}

		dryRun = v
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	res, err := h.importSvc.Import(r.Context(), file, dryRun)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := importResponse{
		DryRun:   dryRun,
		Imported: res.Created,
		Trades:   make([]tradeResponse, 0, len(res.Lines)),
	}
	for _, l := range res.Lines {
		resp.Trades = append(resp.Trades, toTradeResponse(l, !dryRun))
	}

	status := http.StatusCreated
	if dryRun {
		status = http.StatusOK
	}

	respond.JSON(w, status, resp)
}
