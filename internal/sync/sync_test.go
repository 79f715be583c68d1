package sync

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/store"
	"github.com/alfredjeanlab/folio/internal/store/memory"
)

// mockDestination records calls to Write.
type mockDestination struct {
	name   string
	err    error
	writes atomic.Int64
	last   atomic.Value // []byte
}

func (d *mockDestination) Name() string { return d.name }

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes.Add(1)
	cp := make([]byte, len(data))
	copy(cp, data)
	d.last.Store(cp)
	return d.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestSchedulerStartStop(t *testing.T) {
	dest := &mockDestination{name: "mock"}
	sched := NewScheduler(seededStore(t), []Destination{dest}, 50*time.Millisecond, testLogger())
	sched.Start()

	// Wait for at least the initial sync + one tick.
	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}
	data, ok := dest.last.Load().([]byte)
	if !ok || len(data) == 0 {
		t.Fatal("expected non-empty data")
	}
	if lines := nonEmptyLines(string(data)); len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}

func TestSchedulerStop_NoStart(t *testing.T) {
	sched := NewScheduler(memory.New(), nil, time.Minute, nil)
	sched.Stop()
}

func TestSyncNow_FailingDestination(t *testing.T) {
	bad := &mockDestination{name: "bad", err: errors.New("disk full")}
	good := &mockDestination{name: "good"}
	sched := NewScheduler(seededStore(t), []Destination{bad, good}, time.Minute, testLogger())

	err := sched.SyncNow(context.Background())
	if err == nil || !strings.Contains(err.Error(), "bad: disk full") {
		t.Fatalf("err = %v", err)
	}
	if good.writes.Load() != 1 {
		t.Error("good destination skipped after failure")
	}
}

type brokenStore struct{ store.Store }

func (brokenStore) ListPortfolios(context.Context) ([]*model.PortfolioRecord, error) {
	return nil, errors.New("connection refused")
}

func TestSyncNow_ExportFailure(t *testing.T) {
	dest := &mockDestination{name: "mock"}
	sched := NewScheduler(brokenStore{}, []Destination{dest}, time.Minute, testLogger())
	if err := sched.SyncNow(context.Background()); err == nil {
		t.Fatal("expected export error")
	}
	if dest.writes.Load() != 0 {
		t.Error("destination written despite export failure")
	}
}
