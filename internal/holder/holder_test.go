package holder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/arbitra/internal/holder"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    holder.CreateParams
		setupMock func(m *holder.MockRepository)
		wantName  string
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: holder.CreateParams{Name: "  Salem   Trading ", IsInvestor: true},
			setupMock: func(m *holder.MockRepository) {
				m.EXPECT().
					CreateHolder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, h *holder.Holder) error {
						h.ID = uuid.New()
						return nil
					})
			},
			wantName: "Salem Trading",
		},
		{
			name:    "EmptyName",
			params:  holder.CreateParams{Name: "   "},
			wantErr: holder.ErrEmptyName,
		},
		{
			name:   "Duplicate",
			params: holder.CreateParams{Name: "Salem"},
			setupMock: func(m *holder.MockRepository) {
				m.EXPECT().CreateHolder(gomock.Any(), gomock.Any()).Return(holder.ErrDuplicateName)
			},
			wantErr: holder.ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := holder.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := holder.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_Rename(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := holder.NewMockRepository(ctrl)

	repo.EXPECT().GetHolder(gomock.Any(), id).Return(&holder.Holder{ID: id, Name: "Old", IsInvestor: true}, nil)
	repo.EXPECT().
		UpdateHolder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, h *holder.Holder) error {
			assert.Equal(t, "New Name", h.Name)
			assert.True(t, h.IsInvestor)
			return nil
		})

	got, err := holder.NewService(repo).Rename(context.Background(), id, " New  Name ")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
}

func TestService_SetInvestor_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := holder.NewMockRepository(ctrl)
	repo.EXPECT().GetHolder(gomock.Any(), id).Return(nil, holder.ErrNotFound)

	_, err := holder.NewService(repo).SetInvestor(context.Background(), id, true)
	assert.ErrorIs(t, err, holder.ErrNotFound)
}

func TestService_Investors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	investor := &holder.Holder{ID: uuid.New(), Name: "Nadia", IsInvestor: true}
	partner := &holder.Holder{ID: uuid.New(), Name: "Omar"}

	repo := holder.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().ListHolders(gomock.Any()).Return([]*holder.Holder{investor, partner}, nil),
		repo.EXPECT().ListHolders(gomock.Any()).Return(nil, errors.New("db error")),
	)

	svc := holder.NewService(repo)

	got, err := svc.Investors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{investor.ID: "Nadia"}, got)

	_, err = svc.Investors(context.Background())
	assert.Error(t, err)
}
