package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/arbitra/internal/importer/trades"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer

// Creator stores parsed trades.
type Creator interface {
	CreateBatch(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Record, error)
}

// Result is the outcome of an import. Lines are always filled, Created only when the rows were
// stored.
type Result struct {
	Lines   []transaction.Line
	Created int
}

type Service struct {
	parser  Importer
	creator Creator
}

func NewService(creator Creator) *Service {
	return &Service{
		parser:  trades.NewParser(),
		creator: creator,
	}
}

// Import parses r and, unless dryRun, stores every row. A dry run still rejects rows that would
// fail validation so the preview matches what a real import would do.
func (s *Service) Import(ctx context.Context, r io.Reader, dryRun bool) (*Result, error) {
	params, err := s.parser.Parse(r)
	if err != nil {
		return nil, &transaction.ValidationError{Message: err.Error()}
	}

	if len(params) == 0 {
		return nil, &transaction.ValidationError{Message: "no trades found"}
	}

	if dryRun {
		res := &Result{Lines: make([]transaction.Line, 0, len(params))}

		for i, p := range params {
			if err := p.Validate(); err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}

			res.Lines = append(res.Lines, p.Line())
		}

		return res, nil
	}

	records, err := s.creator.CreateBatch(ctx, params)
	if err != nil {
		return &Result{Created: len(records)}, fmt.Errorf("importing trades: %w", err)
	}

	res := &Result{Lines: make([]transaction.Line, 0, len(records)), Created: len(records)}
	for _, rec := range records {
		res.Lines = append(res.Lines, transaction.LineFor(rec))
	}

	return res, nil
}
