// Package sync exports the portfolio store as JSONL and ships the export to
// backup destinations on a schedule.
package sync

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/store"
)

// FormatVersion is written to every export header.
const FormatVersion = "1"

// maxLineSize bounds a single JSONL line on import.
const maxLineSize = 4 << 20

// Header is the first JSONL record written by ExportJSONL.
type Header struct {
	Version        string    `json:"version"`
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	PortfolioCount int       `json:"portfolio_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ExportJSONL writes every portfolio record from the store as JSONL to w.
// Records are sorted by code and carry their view accounting.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	recs, err := s.ListPortfolios(ctx)
	if err != nil {
		return fmt.Errorf("list portfolios: %w", err)
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Code < recs[j].Code
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(Header{
		Version:        FormatVersion,
		Type:           "header",
		Timestamp:      time.Now().UTC(),
		PortfolioCount: len(recs),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, r := range recs {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal portfolio %s: %w", r.Code, err)
		}
		if err := enc.Encode(record{Type: "portfolio", Data: data}); err != nil {
			return fmt.Errorf("encode portfolio %s: %w", r.Code, err)
		}
	}
	return nil
}

// ReadJSONL parses an export produced by ExportJSONL. Unknown record types
// are skipped so newer exports stay readable.
func ReadJSONL(r io.Reader) (*Header, []*model.PortfolioRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		hdr  *Header
		recs []*model.PortfolioRecord
		line int
	)
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		if hdr == nil {
			var h Header
			if err := json.Unmarshal(raw, &h); err != nil || h.Type != "header" {
				return nil, nil, fmt.Errorf("line %d: missing export header", line)
			}
			if h.Version != FormatVersion {
				return nil, nil, fmt.Errorf("line %d: unsupported export version %q", line, h.Version)
			}
			hdr = &h
			continue
		}

		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.Type != "portfolio" {
			continue
		}
		var p model.PortfolioRecord
		if err := json.Unmarshal(rec.Data, &p); err != nil {
			return nil, nil, fmt.Errorf("line %d: decode portfolio: %w", line, err)
		}
		recs = append(recs, &p)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read export: %w", err)
	}
	if hdr == nil {
		return nil, nil, errors.New("empty export")
	}
	if hdr.PortfolioCount != len(recs) {
		return nil, nil, fmt.Errorf("export header lists %d portfolios, found %d", hdr.PortfolioCount, len(recs))
	}
	return hdr, recs, nil
}

// ImportJSONL reads an export and puts every record into the store. Existing
// records with the same code are replaced; their view counts are kept.
func ImportJSONL(ctx context.Context, s store.Store, r io.Reader) (int, error) {
	_, recs, err := ReadJSONL(r)
	if err != nil {
		return 0, err
	}
	for i, rec := range recs {
		if err := model.ValidateRecord(rec); err != nil {
			return i, fmt.Errorf("portfolio %s: %w", rec.Code, err)
		}
		if err := s.PutPortfolio(ctx, rec); err != nil {
			return i, fmt.Errorf("put portfolio %s: %w", rec.Code, err)
		}
	}
	return len(recs), nil
}
