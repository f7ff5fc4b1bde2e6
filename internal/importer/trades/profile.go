package trades

// field is one input of a trade row.
type field int

const (
	fieldDate field = iota
	fieldCurrency
	fieldFiatAmount
	fieldFiatRate
	fieldUsdtAmount
	fieldUsdtRate
	fieldPaymentMethod
	fieldSettlement
	fieldBankSellRate
	fieldRetainedCurrency
	fieldPrivate
	fieldNotes
)

// Profile describes the header layout of one trade sheet format.
// Adding a format is adding a Profile to profiles.
type Profile struct {
	Name    string
	Columns map[field]string
}

var required = []field{fieldFiatAmount, fieldFiatRate, fieldUsdtAmount, fieldUsdtRate}

// profiles are tried in order; the first whose required columns all appear in a row wins.
var profiles = []Profile{
	{
		// Round-trips the CSV export.
		Name: "ledger",
		Columns: map[field]string{
			fieldDate:             "created_at",
			fieldCurrency:         "fiat_currency",
			fieldFiatAmount:       "fiat_amount",
			fieldFiatRate:         "fiat_rate",
			fieldUsdtAmount:       "usdt_amount",
			fieldUsdtRate:         "usdt_rate",
			fieldPaymentMethod:    "payment_method",
			fieldSettlement:       "settlement_mode",
			fieldBankSellRate:     "bank_sell_rate",
			fieldRetainedCurrency: "retained_currency",
			fieldPrivate:          "is_private",
			fieldNotes:            "notes",
		},
	},
	{
		// The hand-kept spreadsheet used before the ledger existed.
		Name: "sheet",
		Columns: map[field]string{
			fieldDate:          "date",
			fieldCurrency:      "currency",
			fieldFiatAmount:    "amount",
			fieldFiatRate:      "rate",
			fieldUsdtAmount:    "usdt",
			fieldUsdtRate:      "usdt rate",
			fieldPaymentMethod: "method",
			fieldNotes:         "notes",
		},
	},
}
