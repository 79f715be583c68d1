// Package server implements the folio portfolio service: the public
// code-resolution endpoint, the admin API, an SSE event stream and a gRPC
// health endpoint.
package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alfredjeanlab/folio/internal/events"
	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/store"
)

// PortfolioServer serves portfolio records from a store.
type PortfolioServer struct {
	store            store.Store
	publisher        events.Publisher
	sseHub           *sseHub
	defaultViewLimit int
}

// Option configures a PortfolioServer.
type Option func(*PortfolioServer)

// WithDefaultViewLimit sets the view limit applied when a PUT omits one.
func WithDefaultViewLimit(n int) Option {
	return func(s *PortfolioServer) {
		if n > 0 {
			s.defaultViewLimit = n
		}
	}
}

// NewPortfolioServer returns a new PortfolioServer backed by the given store and publisher.
func NewPortfolioServer(s store.Store, p events.Publisher, opts ...Option) *PortfolioServer {
	if p == nil {
		p = &events.NoopPublisher{}
	}
	srv := &PortfolioServer{
		store:            s,
		publisher:        p,
		sseHub:           newSSEHub(),
		defaultViewLimit: model.DefaultViewLimit,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// publish sends an event to the bus and to SSE clients. Both are
// best-effort; failures are logged but do not block the caller.
func (s *PortfolioServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// Resolve looks up code and counts a view. Malformed codes are reported as
// store.ErrNotFound; callers cannot tell them apart from unknown codes.
func (s *PortfolioServer) Resolve(ctx context.Context, code string) (*model.PortfolioRecord, error) {
	if !model.IsValidCode(code) {
		s.publish(ctx, events.TopicPortfolioMissed, events.PortfolioMissed{Code: code})
		return nil, store.ErrNotFound
	}
	rec, err := s.store.RecordView(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		s.publish(ctx, events.TopicPortfolioMissed, events.PortfolioMissed{Code: model.NormalizeCode(code)})
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TopicPortfolioResolved, events.PortfolioResolved{
		Code:           rec.Code,
		Name:           rec.Portfolio.Name,
		AvailableViews: rec.AvailableViews(),
	})
	return rec, nil
}

// Put validates and stores a record.
func (s *PortfolioServer) Put(ctx context.Context, rec *model.PortfolioRecord) error {
	if rec.ViewLimit == 0 {
		rec.ViewLimit = s.defaultViewLimit
	}
	if err := model.ValidateRecord(rec); err != nil {
		return err
	}
	if err := s.store.PutPortfolio(ctx, rec); err != nil {
		return err
	}
	s.publish(ctx, events.TopicPortfolioUpserted, events.PortfolioUpserted{
		Code:      rec.Code,
		Name:      rec.Portfolio.Name,
		ViewLimit: rec.ViewLimit,
	})
	return nil
}

// Delete removes the record for code.
func (s *PortfolioServer) Delete(ctx context.Context, code string) error {
	if err := s.store.DeletePortfolio(ctx, code); err != nil {
		return err
	}
	s.publish(ctx, events.TopicPortfolioDeleted, events.PortfolioDeleted{Code: model.NormalizeCode(code)})
	return nil
}

// List returns a summary of every record.
func (s *PortfolioServer) List(ctx context.Context) ([]model.PortfolioSummary, error) {
	recs, err := s.store.ListPortfolios(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.PortfolioSummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Summary())
	}
	return out, nil
}

// Ping checks the store is reachable by listing records.
func (s *PortfolioServer) Ping(ctx context.Context) error {
	_, err := s.store.ListPortfolios(ctx)
	return err
}
