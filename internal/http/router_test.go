package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/arbitra/internal/audit"
	"github.com/MrJamesThe3rd/arbitra/internal/auth"
	"github.com/MrJamesThe3rd/arbitra/internal/export"
	"github.com/MrJamesThe3rd/arbitra/internal/holder"
	apihttp "github.com/MrJamesThe3rd/arbitra/internal/http"
	exporthttp "github.com/MrJamesThe3rd/arbitra/internal/http/export"
	holderhttp "github.com/MrJamesThe3rd/arbitra/internal/http/holder"
	"github.com/MrJamesThe3rd/arbitra/internal/http/importcsv"
	"github.com/MrJamesThe3rd/arbitra/internal/http/preview"
	rateshttp "github.com/MrJamesThe3rd/arbitra/internal/http/rates"
	"github.com/MrJamesThe3rd/arbitra/internal/http/report"
	txhttp "github.com/MrJamesThe3rd/arbitra/internal/http/transaction"
	"github.com/MrJamesThe3rd/arbitra/internal/importer"
	"github.com/MrJamesThe3rd/arbitra/internal/rates"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

type mocks struct {
	transactions *transaction.MockRepository
	holders      *holder.MockRepository
}

func newRouter(t *testing.T, issuer *auth.Issuer) (http.Handler, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		transactions: transaction.NewMockRepository(ctrl),
		holders:      holder.NewMockRepository(ctrl),
	}

	holderSvc := holder.NewService(m.holders)
	auditSvc := audit.NewService(audit.NewMockRepository(ctrl))
	txSvc := transaction.NewService(m.transactions, holderSvc, auditSvc)
	rateSvc := rates.NewService(nil, nil, map[string]decimal.Decimal{"EUR": decimal.RequireFromString("7.5")})

	h := apihttp.New(apihttp.Handlers{
		Transactions: txhttp.NewHandler(txSvc, auditSvc),
		Calculator:   txhttp.NewCalculator(txSvc, rateSvc),
		Holders:      holderhttp.NewHandler(holderSvc),
		Reports:      report.NewHandler(txSvc),
		Export:       exporthttp.NewHandler(export.NewService(txSvc)),
		Import:       importcsv.NewHandler(importer.NewService(txSvc)),
		Rates:        rateshttp.NewHandler(rateSvc),
		Preview:      preview.NewHandler(txSvc, "Arbitra", "https://ledger.example"),
	}, issuer, []string{"https://ledger.example"})

	return h, m
}

func TestRouter_Auth(t *testing.T) {
	issuer := auth.NewIssuer("s3cret", time.Hour)

	token, err := issuer.Issue("amira")
	require.NoError(t, err)

	type testCase struct {
		name       string
		path       string
		token      string
		setupMock  func(m mocks)
		wantStatus int
	}

	tests := []testCase{
		{
			name:       "MissingToken",
			path:       "/api/v1/holders",
			setupMock:  func(m mocks) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "InvalidToken",
			path:       "/api/v1/holders",
			token:      "garbage",
			setupMock:  func(m mocks) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:  "ValidToken",
			path:  "/api/v1/holders",
			token: token,
			setupMock: func(m mocks) {
				m.holders.EXPECT().ListHolders(gomock.Any()).Return([]*holder.Holder{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "PreviewIsPublic",
			path: "/t/C1",
			setupMock: func(m mocks) {
				m.transactions.EXPECT().GetTransactionBySequence(gomock.Any(), int64(1)).Return(&transaction.Record{
					ID:            uuid.New(),
					SequenceID:    1,
					FiatCurrency:  transaction.CurrencyEUR,
					PaymentMethod: transaction.PaymentCash,
					Status:        transaction.StatusPlanned,
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Healthz",
			path:       "/healthz",
			setupMock:  func(m mocks) {},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newRouter(t, issuer)
			tt.setupMock(m)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouter_OpenWithoutIssuer(t *testing.T) {
	h, _ := newRouter(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rates/eur", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"default"`)
}

func TestRouter_CORS(t *testing.T) {
	h, _ := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transactions/", nil)
	req.Header.Set("Origin", "https://ledger.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://ledger.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RejectsNonJSON(t *testing.T) {
	h, _ := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/holders/", nil)
	req.Header.Set("Content-Type", "text/plain")
	req.ContentLength = 4

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
