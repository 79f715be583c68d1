package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/store"
)

// portfolioColumns is the column list used for SELECT statements on the portfolios table.
const portfolioColumns = `code, document, view_limit, view_count, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryGetPortfolio(ctx context.Context, db executor, code string) (*model.PortfolioRecord, error) {
	row := db.QueryRowContext(ctx, `SELECT `+portfolioColumns+` FROM portfolios WHERE code = $1`, code)
	rec, err := scanPortfolio(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get portfolio: %w", err)
	}
	return rec, nil
}

func queryRecordView(ctx context.Context, db executor, code string) (*model.PortfolioRecord, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE portfolios SET view_count = view_count + 1
		WHERE code = $1
		RETURNING `+portfolioColumns, code)
	rec, err := scanPortfolio(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record view: %w", err)
	}
	return rec, nil
}

func queryPutPortfolio(ctx context.Context, db executor, rec *model.PortfolioRecord) error {
	doc, err := json.Marshal(rec.Portfolio)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	limit := rec.ViewLimit
	if limit <= 0 {
		limit = model.DefaultViewLimit
	}

	// An existing view_count survives replacement.
	row := db.QueryRowContext(ctx, `
		INSERT INTO portfolios (code, document, view_limit)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET
			document = EXCLUDED.document,
			view_limit = EXCLUDED.view_limit,
			updated_at = now()
		RETURNING view_count, created_at, updated_at`,
		rec.Code, doc, limit,
	)
	if err := row.Scan(&rec.ViewCount, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return fmt.Errorf("put portfolio: %w", err)
	}
	rec.ViewLimit = limit
	return nil
}

func queryDeletePortfolio(ctx context.Context, db executor, code string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM portfolios WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete portfolio: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete portfolio: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func queryListPortfolios(ctx context.Context, db executor) ([]*model.PortfolioRecord, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+portfolioColumns+` FROM portfolios ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	defer rows.Close()

	var recs []*model.PortfolioRecord
	for rows.Next() {
		rec, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("scan portfolios: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan portfolios: %w", err)
	}
	return recs, nil
}
