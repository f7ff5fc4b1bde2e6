package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/arbitra/internal/importer"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

const sheet = "fiat_currency;fiat_amount;fiat_rate;usdt_amount;usdt_rate;payment_method\n" +
	"EUR;1000;7.5;1100;7;cash\n" +
	"GBP;500;8.7;610;7.1;bank\n"

func TestService_Import(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		name        string
		input       string
		dryRun      bool
		setupMock   func(m *importer.MockCreator)
		wantLines   int
		wantCreated int
		wantKind    *transaction.Kind
	}

	validation := transaction.KindValidation
	store := transaction.KindStore

	tests := []testCase{
		{
			name:      "DryRun",
			input:     sheet,
			dryRun:    true,
			setupMock: func(m *importer.MockCreator) {},
			wantLines: 2,
		},
		{
			name:  "Commit",
			input: sheet,
			setupMock: func(m *importer.MockCreator) {
				m.EXPECT().
					CreateBatch(ctx, gomock.Len(2)).
					DoAndReturn(func(_ context.Context, params []transaction.CreateParams) ([]*transaction.Record, error) {
						records := make([]*transaction.Record, len(params))
						for i, p := range params {
							records[i] = &transaction.Record{
								ID:           uuid.New(),
								FiatCurrency: p.FiatCurrency,
								FiatAmount:   p.FiatAmount,
								FiatRate:     p.FiatRate,
								UsdtAmount:   p.UsdtAmount,
								UsdtRate:     p.UsdtRate,
							}
						}

						return records, nil
					})
			},
			wantLines:   2,
			wantCreated: 2,
		},
		{
			name:  "PartialFailure",
			input: sheet,
			setupMock: func(m *importer.MockCreator) {
				m.EXPECT().
					CreateBatch(ctx, gomock.Any()).
					Return([]*transaction.Record{{ID: uuid.New()}}, errors.New("db down"))
			},
			wantCreated: 1,
			wantKind:    &store,
		},
		{
			name:      "UnknownFormat",
			input:     "foo;bar\n1;2\n",
			setupMock: func(m *importer.MockCreator) {},
			wantKind:  &validation,
		},
		{
			name:      "HeaderOnly",
			input:     "fiat_amount;fiat_rate;usdt_amount;usdt_rate\n",
			setupMock: func(m *importer.MockCreator) {},
			wantKind:  &validation,
		},
		{
			name:      "DryRunRejectsInvalidRow",
			input:     "fiat_currency;fiat_amount;fiat_rate;usdt_amount;usdt_rate\nLYD;1000;7.5;1100;7\n",
			dryRun:    true,
			setupMock: func(m *importer.MockCreator) {},
			wantKind:  &validation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			creator := importer.NewMockCreator(ctrl)
			tt.setupMock(creator)

			res, err := importer.NewService(creator).Import(ctx, strings.NewReader(tt.input), tt.dryRun)

			if tt.wantKind != nil {
				require.Error(t, err)
				assert.Equal(t, *tt.wantKind, transaction.KindOf(err))

				if tt.wantCreated > 0 {
					require.NotNil(t, res)
					assert.Equal(t, tt.wantCreated, res.Created)
				}

				return
			}

			require.NoError(t, err)
			assert.Len(t, res.Lines, tt.wantLines)
			assert.Equal(t, tt.wantCreated, res.Created)
		})
	}
}

func TestService_Import_DryRunFigures(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := importer.NewService(importer.NewMockCreator(ctrl))

	res, err := svc.Import(context.Background(), strings.NewReader(sheet), true)
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)

	assert.Equal(t, "7500", res.Lines[0].Metrics.CostLyd.String())
	assert.Equal(t, "200", res.Lines[0].Profit.String())
	assert.Equal(t, transaction.PaymentBank, res.Lines[1].Record.PaymentMethod)
}
