package events

import (
	"context"
	"errors"
)

// Event topic constants
const (
	TopicPortfolioResolved = "folio.portfolio.resolved"
	TopicPortfolioMissed   = "folio.portfolio.missed"
	TopicPortfolioUpserted = "folio.portfolio.upserted"
	TopicPortfolioDeleted  = "folio.portfolio.deleted"

	// Viewer events, emitted per session by the walkthrough.
	TopicWalkthroughSection   = "folio.walkthrough.section"
	TopicWalkthroughCompleted = "folio.walkthrough.completed"
)

// Event types

type PortfolioResolved struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	AvailableViews int    `json:"available_views"`
}

type PortfolioMissed struct {
	Code string `json:"code"`
}

type PortfolioUpserted struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ViewLimit int    `json:"view_limit"`
}

type PortfolioDeleted struct {
	Code string `json:"code"`
}

// Walkthrough events

type WalkthroughSection struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
	Section   string `json:"section"`
	ItemIndex int    `json:"item_index"`
	Action    string `json:"action"`
}

type WalkthroughCompleted struct {
	SessionID string   `json:"session_id"`
	Code      string   `json:"code"`
	Visited   []string `json:"visited"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// MultiPublisher publishes every event to each of its publishers in order.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, topic string, event any) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, topic, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
