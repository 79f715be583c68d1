package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/store"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	f, err := store.LoadFixture("../testdata/portfolio-fixture.json")
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewFromFixture(f)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestGetPortfolio_CaseInsensitive(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	for _, code := range []string{"abc123", "ABC123", "AbC123", " abc123 "} {
		rec, err := s.GetPortfolio(ctx, code)
		if err != nil {
			t.Fatalf("GetPortfolio(%q): %v", code, err)
		}
		if rec.Portfolio.Name != "Jane Doe" {
			t.Errorf("GetPortfolio(%q) name = %q", code, rec.Portfolio.Name)
		}
	}
	if _, err := s.GetPortfolio(ctx, "zzz999"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordView(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	rec, err := s.RecordView(ctx, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if rec.ViewCount != 1 || rec.AvailableViews() != 19 {
		t.Fatalf("after first view: count=%d available=%d", rec.ViewCount, rec.AvailableViews())
	}
	got, _ := s.GetPortfolio(ctx, "abc123")
	if got.ViewCount != 1 {
		t.Errorf("GetPortfolio counted a view: %d", got.ViewCount)
	}
}

func TestRecordView_Concurrent(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.RecordView(ctx, "abc123"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	rec, _ := s.GetPortfolio(ctx, "abc123")
	if rec.ViewCount != 50 {
		t.Fatalf("ViewCount = %d, want 50", rec.ViewCount)
	}
}

func TestPutPortfolio_PreservesViewCount(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	if _, err := s.RecordView(ctx, "abc123"); err != nil {
		t.Fatal(err)
	}
	rec := &model.PortfolioRecord{Code: "ABC123", Portfolio: &model.Portfolio{Name: "Jane Q. Doe"}, ViewLimit: 5}
	if err := s.PutPortfolio(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if rec.Code != "abc123" || rec.ViewCount != 1 {
		t.Fatalf("put result = %+v", rec)
	}
	got, _ := s.GetPortfolio(ctx, "abc123")
	if got.Portfolio.Name != "Jane Q. Doe" || got.AvailableViews() != 4 {
		t.Errorf("stored = %+v", got)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	rec, _ := s.GetPortfolio(ctx, "abc123")
	rec.Portfolio.Name = "Mallory"
	rec.Portfolio.Experience[0].Company = "Evil Corp"

	again, _ := s.GetPortfolio(ctx, "abc123")
	if again.Portfolio.Name != "Jane Doe" || again.Portfolio.Experience[0].Company == "Evil Corp" {
		t.Fatal("mutation of a returned record leaked into the store")
	}
}

func TestDeleteAndList(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	recs, _ := s.ListPortfolios(ctx)
	if len(recs) != 2 || recs[0].Code != "abc123" || recs[1].Code != "xyz789" {
		t.Fatalf("ListPortfolios = %v", recs)
	}
	if err := s.DeletePortfolio(ctx, "XYZ789"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeletePortfolio(ctx, "xyz789"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	recs, _ = s.ListPortfolios(ctx)
	if len(recs) != 1 {
		t.Fatalf("after delete: %d records", len(recs))
	}
}
