package export_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/arbitra/internal/export"
	exporthttp "github.com/MrJamesThe3rd/arbitra/internal/http/export"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

var generatedAt = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func newRouter(t *testing.T, setup func(m *export.MockReporter)) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	reporter := export.NewMockReporter(ctrl)
	setup(reporter)

	svc := export.NewService(reporter).WithClock(func() time.Time { return generatedAt })

	r := chi.NewRouter()
	exporthttp.NewHandler(svc).Routes(r)

	return r
}

func sampleLines() []transaction.Line {
	r := &transaction.Record{
		ID:            uuid.New(),
		SequenceID:    3,
		FiatCurrency:  transaction.CurrencyEUR,
		FiatAmount:    decimal.NewFromInt(1000),
		FiatRate:      decimal.RequireFromString("7.5"),
		UsdtAmount:    decimal.NewFromInt(1100),
		UsdtRate:      decimal.NewFromInt(7),
		PaymentMethod: transaction.PaymentBank,
		Status:        transaction.StatusComplete,
		CreatedAt:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	return []transaction.Line{transaction.LineFor(r)}
}

func TestHandler_Metadata(t *testing.T) {
	h := newRouter(t, func(m *export.MockReporter) {
		m.EXPECT().
			Report(gomock.Any(), transaction.ListFilter{Period: transaction.PeriodLastMonth}).
			Return(transaction.Summary{Count: 1, TotalProfit: decimal.NewFromInt(200)}, sampleLines(), nil)
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"period":"last_month"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Summary  map[string]any `json:"summary"`
		Trades   int            `json:"trades"`
		Markdown string         `json:"markdown"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 1, body.Trades)
	assert.Equal(t, "200", body.Summary["total_profit"])
	assert.Contains(t, body.Markdown, "| B3 |")
}

func TestHandler_Download(t *testing.T) {
	type testCase struct {
		name            string
		query           string
		setupMock       func(m *export.MockReporter)
		wantStatus      int
		wantContentType string
		wantFilename    string
	}

	ok := func(m *export.MockReporter) {
		m.EXPECT().Report(gomock.Any(), transaction.ListFilter{}).Return(transaction.Summary{Count: 1}, sampleLines(), nil)
	}

	tests := []testCase{
		{
			name:            "CSV",
			setupMock:       ok,
			wantStatus:      http.StatusOK,
			wantContentType: "text/csv; charset=utf-8",
			wantFilename:    `attachment; filename="ledger_20240315.csv"`,
		},
		{
			name:            "Zip",
			query:           "?format=zip",
			setupMock:       ok,
			wantStatus:      http.StatusOK,
			wantContentType: "application/zip",
			wantFilename:    `attachment; filename="export_20240315.zip"`,
		},
		{
			name:       "UnknownFormat",
			query:      "?format=pdf",
			setupMock:  func(m *export.MockReporter) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "StoreError",
			query: "?format=zip",
			setupMock: func(m *export.MockReporter) {
				m.EXPECT().Report(gomock.Any(), gomock.Any()).Return(transaction.Summary{}, nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newRouter(t, tt.setupMock)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/download"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			assert.Equal(t, tt.wantContentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantFilename, rec.Header().Get("Content-Disposition"))

			if tt.wantContentType == "application/zip" {
				zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
				require.NoError(t, err)
				assert.Len(t, zr.File, 2)

				return
			}

			assert.Contains(t, rec.Body.String(), ";B3;complete;")
		})
	}
}
