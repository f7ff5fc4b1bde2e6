package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/audit"
	"github.com/MrJamesThe3rd/arbitra/internal/calc"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

type settlementDTO struct {
	Mode             calc.Mode            `json:"mode"`
	BankSellRate     *decimal.Decimal     `json:"bank_sell_rate,omitempty"`
	RetainedCurrency transaction.Currency `json:"retained_currency,omitempty"`
}

func (d settlementDTO) settlement() (transaction.Settlement, error) {
	return transaction.ParseSettlement(d.Mode, d.BankSellRate, d.RetainedCurrency)
}

func toSettlementDTO(s transaction.Settlement) settlementDTO {
	return settlementDTO{
		Mode:             s.Mode(),
		BankSellRate:     s.BankSellRate(),
		RetainedCurrency: s.RetainedCurrency(),
	}
}

type stepsDTO struct {
	FiatAcquired bool `json:"fiat_acquired"`
	UsdtSold     bool `json:"usdt_sold"`
	FiatPaid     bool `json:"fiat_paid"`
}

// metricsResponse is the engine output of one trade.
type metricsResponse struct {
	CostLyd           decimal.Decimal `json:"cost_lyd"`
	UsdtToCoverCost   decimal.Decimal `json:"usdt_to_cover_cost"`
	SurplusUsdt       decimal.Decimal `json:"surplus_usdt"`
	Profit            decimal.Decimal `json:"profit"`
	RealizedProfit    decimal.Decimal `json:"realized_profit"`
	ReturnLyd         decimal.Decimal `json:"return_lyd"`
	RealizedReturnLyd decimal.Decimal `json:"realized_return_lyd"`
	ReturnUsdt        decimal.Decimal `json:"return_usdt"`
	EffectiveProfit   decimal.Decimal `json:"effective_profit"`
	Margin            decimal.Decimal `json:"margin"`
	RetainedAmount    decimal.Decimal `json:"retained_amount"`
}

func toMetricsResponse(l transaction.Line) metricsResponse {
	m := l.Metrics

	return metricsResponse{
		CostLyd:           m.CostLyd,
		UsdtToCoverCost:   m.UsdtToCoverCost,
		SurplusUsdt:       m.SurplusUsdt,
		Profit:            m.Profit,
		RealizedProfit:    m.RealizedProfit,
		ReturnLyd:         m.ReturnLyd,
		RealizedReturnLyd: m.RealizedReturnLyd,
		ReturnUsdt:        m.ReturnUsdt,
		EffectiveProfit:   l.Profit,
		Margin:            l.Margin,
		RetainedAmount:    l.RetainedAmount,
	}
}

type transactionResponse struct {
	ID               uuid.UUID                 `json:"id"`
	DisplayID        string                    `json:"display_id"`
	FiatCurrency     transaction.Currency      `json:"fiat_currency"`
	FiatAmount       decimal.Decimal           `json:"fiat_amount"`
	FiatRate         decimal.Decimal           `json:"fiat_rate"`
	UsdtAmount       decimal.Decimal           `json:"usdt_amount"`
	UsdtRate         decimal.Decimal           `json:"usdt_rate"`
	PaymentMethod    transaction.PaymentMethod `json:"payment_method"`
	Channel          transaction.Channel       `json:"channel"`
	Settlement       settlementDTO             `json:"settlement"`
	ProfitOverride   *decimal.Decimal          `json:"profit_override,omitempty"`
	RetainedOverride *decimal.Decimal          `json:"retained_override,omitempty"`
	Status           transaction.Status        `json:"status"`
	Steps            stepsDTO                  `json:"steps"`
	HolderID         *uuid.UUID                `json:"holder_id,omitempty"`
	HolderName       string                    `json:"holder_name,omitempty"`
	IsPrivate        bool                      `json:"is_private"`
	Notes            string                    `json:"notes,omitempty"`
	CreatedBy        string                    `json:"created_by"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        *time.Time                `json:"updated_at,omitempty"`
	Metrics          metricsResponse           `json:"metrics"`
}

func toResponse(r *transaction.Record) transactionResponse {
	resp := transactionResponse{
		ID:               r.ID,
		DisplayID:        r.DisplayID(),
		FiatCurrency:     r.FiatCurrency,
		FiatAmount:       r.FiatAmount,
		FiatRate:         r.FiatRate,
		UsdtAmount:       r.UsdtAmount,
		UsdtRate:         r.UsdtRate,
		PaymentMethod:    r.PaymentMethod,
		Channel:          r.Channel(),
		Settlement:       toSettlementDTO(r.Settlement),
		RetainedOverride: r.RetainedOverride,
		Status:           r.Status,
		Steps: stepsDTO{
			FiatAcquired: r.Steps.FiatAcquired,
			UsdtSold:     r.Steps.UsdtSold,
			FiatPaid:     r.Steps.FiatPaid,
		},
		HolderID:   r.HolderID,
		HolderName: r.HolderName,
		IsPrivate:  r.IsPrivate,
		Notes:      r.Notes,
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Metrics:    toMetricsResponse(transaction.LineFor(r)),
	}

	if v, ok := r.Profit.Override(); ok {
		resp.ProfitOverride = &v
	}

	return resp
}

func toResponseList(records []*transaction.Record) []transactionResponse {
	resp := make([]transactionResponse, len(records))
	for i, r := range records {
		resp[i] = toResponse(r)
	}

	return resp
}

type auditEntryResponse struct {
	ID        uuid.UUID               `json:"id"`
	Actor     string                  `json:"actor"`
	Action    audit.Action            `json:"action"`
	Changes   map[string]audit.Change `json:"changes"`
	CreatedAt time.Time               `json:"created_at"`
}

func toAuditResponse(entries []*audit.Entry) []auditEntryResponse {
	resp := make([]auditEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = auditEntryResponse{
			ID:        e.ID,
			Actor:     e.Actor,
			Action:    e.Action,
			Changes:   e.Changes,
			CreatedAt: e.CreatedAt,
		}
	}

	return resp
}
