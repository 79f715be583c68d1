// Package store defines persistence for portfolio records.
package store

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/folio/internal/model"
)

// ErrNotFound is returned when no record exists for a code.
var ErrNotFound = errors.New("portfolio not found")

// Store defines the persistence interface for portfolio records. Codes are
// keyed case-insensitively; implementations normalize with model.NormalizeCode.
type Store interface {
	// GetPortfolio returns the record without counting a view.
	GetPortfolio(ctx context.Context, code string) (*model.PortfolioRecord, error)
	// RecordView increments the view count and returns the updated record.
	RecordView(ctx context.Context, code string) (*model.PortfolioRecord, error)
	// PutPortfolio creates or replaces the document and view limit. The view
	// count of an existing record is preserved.
	PutPortfolio(ctx context.Context, rec *model.PortfolioRecord) error
	DeletePortfolio(ctx context.Context, code string) error
	// ListPortfolios returns every record ordered by code.
	ListPortfolios(ctx context.Context) ([]*model.PortfolioRecord, error)

	Close() error
}
