package holder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("holder not found")
	ErrDuplicateName = errors.New("holder name already exists")
	ErrEmptyName     = errors.New("holder name is required")
)

// Holder is a counterparty that can receive settled fiat or hold retained capital.
type Holder struct {
	ID         uuid.UUID
	Name       string
	IsInvestor bool // takes part in retained-capital reporting
	CreatedBy  string
	CreatedAt  time.Time
}

//go:generate mockgen -source=holder.go -destination=repository_mock.go -package=holder
type Repository interface {
	CreateHolder(ctx context.Context, h *Holder) error
	GetHolder(ctx context.Context, id uuid.UUID) (*Holder, error)
	ListHolders(ctx context.Context) ([]*Holder, error)
	UpdateHolder(ctx context.Context, h *Holder) error
	DeleteHolder(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name       string
	IsInvestor bool
	CreatedBy  string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Holder, error) {
	name, err := normalizeName(params.Name)
	if err != nil {
		return nil, err
	}

	h := &Holder{
		Name:       name,
		IsInvestor: params.IsInvestor,
		CreatedBy:  params.CreatedBy,
	}
	if err := s.repo.CreateHolder(ctx, h); err != nil {
		return nil, err
	}

	return h, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Holder, error) {
	return s.repo.GetHolder(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Holder, error) {
	return s.repo.ListHolders(ctx)
}

type UpdateParams struct {
	Name       *string
	IsInvestor *bool
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Holder, error) {
	h, err := s.repo.GetHolder(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name, err := normalizeName(*params.Name)
		if err != nil {
			return nil, err
		}

		h.Name = name
	}

	if params.IsInvestor != nil {
		h.IsInvestor = *params.IsInvestor
	}

	if err := s.repo.UpdateHolder(ctx, h); err != nil {
		return nil, err
	}

	return h, nil
}

func (s *Service) Rename(ctx context.Context, id uuid.UUID, name string) (*Holder, error) {
	return s.Update(ctx, id, UpdateParams{Name: &name})
}

// SetInvestor toggles whether the holder's retained capital shows up in investor reports.
func (s *Service) SetInvestor(ctx context.Context, id uuid.UUID, isInvestor bool) (*Holder, error) {
	return s.Update(ctx, id, UpdateParams{IsInvestor: &isInvestor})
}

// Delete removes a holder. Transactions referencing it keep existing; the store clears
// their reference.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteHolder(ctx, id)
}

// Investors returns the names of investor holders keyed by id.
func (s *Service) Investors(ctx context.Context) (map[uuid.UUID]string, error) {
	holders, err := s.repo.ListHolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing holders: %w", err)
	}

	investors := make(map[uuid.UUID]string)

	for _, h := range holders {
		if h.IsInvestor {
			investors[h.ID] = h.Name
		}
	}

	return investors, nil
}

func normalizeName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", ErrEmptyName
	}

	return name, nil
}
