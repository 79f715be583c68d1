package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/folio/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanPortfolio scans a single row into a model.PortfolioRecord.
// The row must contain columns in the order defined by portfolioColumns.
func scanPortfolio(row scannable) (*model.PortfolioRecord, error) {
	var (
		rec model.PortfolioRecord
		doc []byte
	)
	if err := row.Scan(&rec.Code, &doc, &rec.ViewLimit, &rec.ViewCount, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}

	rec.Portfolio = &model.Portfolio{}
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, rec.Portfolio); err != nil {
			return nil, fmt.Errorf("decode document for %s: %w", rec.Code, err)
		}
	}
	return &rec, nil
}
