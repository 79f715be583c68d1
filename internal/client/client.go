// Package client talks to the folio portfolio service over HTTP/JSON. The
// viewer only needs Resolver; the CLI uses the full PortfolioClient.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alfredjeanlab/folio/internal/model"
)

// ErrNotFound is returned by Resolve when the service has no portfolio for
// the code.
var ErrNotFound = errors.New("portfolio not found")

// Resolver maps an access code to a portfolio document.
type Resolver interface {
	Resolve(ctx context.Context, code string) (*Resolution, error)
}

// Resolution is a successful lookup.
type Resolution struct {
	Code           string           `json:"code"`
	Portfolio      *model.Portfolio `json:"data"`
	AvailableViews int              `json:"available_views"`
}

// PortfolioClient is the interface the folio CLI uses to manage the service.
type PortfolioClient interface {
	Resolver

	PutPortfolio(ctx context.Context, code string, req *PutPortfolioRequest) (*model.PortfolioRecord, error)
	DeletePortfolio(ctx context.Context, code string) error
	ListPortfolios(ctx context.Context) (*ListPortfoliosResponse, error)
	Health(ctx context.Context) (string, error)

	Close() error
}

// PutPortfolioRequest creates or replaces the document behind a code.
type PutPortfolioRequest struct {
	Portfolio *model.Portfolio `json:"portfolio"`
	ViewLimit int              `json:"view_limit,omitempty"`
}

// ListPortfoliosResponse is the admin listing.
type ListPortfoliosResponse struct {
	Portfolios []model.PortfolioSummary `json:"portfolios"`
	Total      int                      `json:"total"`
}

// TransportError is returned by Resolve for every failure other than a
// missing code: connection errors, timeouts, non-404 error statuses and
// undecodable bodies.
type TransportError struct {
	Code string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Code, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTemporary reports whether err is a TransportError, i.e. a failure the
// caller may retry.
func IsTemporary(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second
