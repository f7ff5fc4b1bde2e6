package importer

import (
	"io"

	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

// Importer turns an uploaded sheet into transaction params.
type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
