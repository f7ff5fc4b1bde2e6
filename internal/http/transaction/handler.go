package transaction

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/audit"
	"github.com/MrJamesThe3rd/arbitra/internal/http/respond"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

type Handler struct {
	svc     *transaction.Service
	history *audit.Service
}

func NewHandler(svc *transaction.Service, history *audit.Service) *Handler {
	return &Handler{svc: svc, history: history}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/steps", h.setStep)
	r.Patch("/{id}/status", h.setStatus)
	r.Post("/{id}/cancel", h.cancel)
	r.Put("/{id}/settlement", h.setSettlement)
	r.Put("/{id}/profit", h.overrideProfit)
	r.Delete("/{id}/profit", h.resetProfit)
	r.Put("/{id}/holder", h.attachHolder)
	r.Delete("/{id}/holder", h.detachHolder)
	r.Get("/{id}/audit", h.audit)
}

type createTransactionRequest struct {
	FiatCurrency     transaction.Currency      `json:"fiat_currency"`
	FiatAmount       decimal.Decimal           `json:"fiat_amount"`
	FiatRate         decimal.Decimal           `json:"fiat_rate"`
	UsdtAmount       decimal.Decimal           `json:"usdt_amount"`
	UsdtRate         decimal.Decimal           `json:"usdt_rate"`
	PaymentMethod    transaction.PaymentMethod `json:"payment_method"`
	Settlement       settlementDTO             `json:"settlement"`
	ProfitOverride   *decimal.Decimal          `json:"profit_override,omitempty"`
	RetainedOverride *decimal.Decimal          `json:"retained_override,omitempty"`
	HolderID         *uuid.UUID                `json:"holder_id,omitempty"`
	IsPrivate        bool                      `json:"is_private"`
	Notes            string                    `json:"notes"`
}

func (req createTransactionRequest) params() (transaction.CreateParams, error) {
	settlement, err := req.Settlement.settlement()
	if err != nil {
		return transaction.CreateParams{}, err
	}

	return transaction.CreateParams{
		FiatCurrency:     req.FiatCurrency,
		FiatAmount:       req.FiatAmount,
		FiatRate:         req.FiatRate,
		UsdtAmount:       req.UsdtAmount,
		UsdtRate:         req.UsdtRate,
		PaymentMethod:    req.PaymentMethod,
		Settlement:       settlement,
		ProfitOverride:   req.ProfitOverride,
		RetainedOverride: req.RetainedOverride,
		HolderID:         req.HolderID,
		IsPrivate:        req.IsPrivate,
		Notes:            req.Notes,
	}, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !decode(w, r, &req) {
		return
	}

	params, err := req.params()
	if err != nil {
		respond.Error(w, err)
		return
	}

	tx, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := FilterFromQuery(r.URL.Query())
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	FiatCurrency          *transaction.Currency      `json:"fiat_currency,omitempty"`
	FiatAmount            *decimal.Decimal           `json:"fiat_amount,omitempty"`
	FiatRate              *decimal.Decimal           `json:"fiat_rate,omitempty"`
	UsdtAmount            *decimal.Decimal           `json:"usdt_amount,omitempty"`
	UsdtRate              *decimal.Decimal           `json:"usdt_rate,omitempty"`
	PaymentMethod         *transaction.PaymentMethod `json:"payment_method,omitempty"`
	IsPrivate             *bool                      `json:"is_private,omitempty"`
	Notes                 *string                    `json:"notes,omitempty"`
	RetainedOverride      *decimal.Decimal           `json:"retained_override,omitempty"`
	ClearRetainedOverride bool                       `json:"clear_retained_override,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateTransactionRequest
	if !decode(w, r, &req) {
		return
	}

	h.reply(w)(h.svc.Update(r.Context(), id, transaction.UpdateParams{
		FiatCurrency:          req.FiatCurrency,
		FiatAmount:            req.FiatAmount,
		FiatRate:              req.FiatRate,
		UsdtAmount:            req.UsdtAmount,
		UsdtRate:              req.UsdtRate,
		PaymentMethod:         req.PaymentMethod,
		IsPrivate:             req.IsPrivate,
		Notes:                 req.Notes,
		RetainedOverride:      req.RetainedOverride,
		ClearRetainedOverride: req.ClearRetainedOverride,
	}))
}

type setStepRequest struct {
	Step transaction.Step `json:"step"`
	Done bool             `json:"done"`
}

func (h *Handler) setStep(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req setStepRequest
	if !decode(w, r, &req) {
		return
	}

	h.reply(w)(h.svc.SetStep(r.Context(), id, req.Step, req.Done))
}

type setStatusRequest struct {
	Status transaction.Status `json:"status"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req setStatusRequest
	if !decode(w, r, &req) {
		return
	}

	h.reply(w)(h.svc.SetStatus(r.Context(), id, req.Status))
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	h.reply(w)(h.svc.Cancel(r.Context(), id))
}

func (h *Handler) setSettlement(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req settlementDTO
	if !decode(w, r, &req) {
		return
	}

	settlement, err := req.settlement()
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.reply(w)(h.svc.SetSettlement(r.Context(), id, settlement))
}

type overrideProfitRequest struct {
	Value *decimal.Decimal `json:"value"`
}

func (h *Handler) overrideProfit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req overrideProfitRequest
	if !decode(w, r, &req) {
		return
	}

	if req.Value == nil {
		respond.BadRequest(w, "value is required")
		return
	}

	h.reply(w)(h.svc.OverrideProfit(r.Context(), id, *req.Value))
}

func (h *Handler) resetProfit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	h.reply(w)(h.svc.ResetProfit(r.Context(), id))
}

type attachHolderRequest struct {
	HolderID uuid.UUID `json:"holder_id"`
}

func (h *Handler) attachHolder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req attachHolderRequest
	if !decode(w, r, &req) {
		return
	}

	h.reply(w)(h.svc.AttachHolder(r.Context(), id, req.HolderID))
}

func (h *Handler) detachHolder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	h.reply(w)(h.svc.DetachHolder(r.Context(), id))
}

func (h *Handler) audit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Get(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	entries, err := h.history.History(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toAuditResponse(entries))
}

// reply writes the record returned by a mutation, or its error.
func (h *Handler) reply(w http.ResponseWriter) func(*transaction.Record, error) {
	return func(tx *transaction.Record, err error) {
		if err != nil {
			respond.Error(w, err)
			return
		}

		respond.JSON(w, http.StatusOK, toResponse(tx))
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return uuid.Nil, false
	}

	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return false
	}

	return true
}
