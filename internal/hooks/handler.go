package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/folio/internal/events"
)

// Handler runs hooks for incoming events.
type Handler struct {
	hooks  []Hook
	logger *slog.Logger
}

// NewHandler creates a handler for hooks.
func NewHandler(hooks []Hook, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{hooks: hooks, logger: logger}
}

// eventEnv exposes the event to the command. FOLIO_CODE is set when the
// payload carries a code.
func eventEnv(h Hook, payload []byte) map[string]string {
	env := map[string]string{
		"FOLIO_HOOK":  h.Name,
		"FOLIO_TOPIC": h.Topic,
		"FOLIO_EVENT": string(payload),
	}
	var p struct {
		Code string `json:"code"`
	}
	if json.Unmarshal(payload, &p) == nil && p.Code != "" {
		env["FOLIO_CODE"] = p.Code
	}
	return env
}

// Run executes h for one event payload. It returns a warning for a failed
// hook whose OnFailure is warn, and "" otherwise.
func (hd *Handler) Run(ctx context.Context, h Hook, payload []byte) string {
	result := Execute(ctx, h.Command, time.Duration(h.Timeout)*time.Second, eventEnv(h, payload))
	hd.logger.Info("hooks: executed", "hook", h.Name, "topic", h.Topic, "ok", result.Err == nil)
	if result.Err == nil || h.OnFailure == OnFailureIgnore {
		return ""
	}
	return fmt.Sprintf("hook %s failed: %v: %s", h.Name, result.Err, result.Output)
}

// StartSubscriber subscribes every hook's topic and runs the hook for each
// event. Events for one hook run in order. It blocks until ctx is cancelled.
func (hd *Handler) StartSubscriber(ctx context.Context, sub events.Subscriber) error {
	type subscription struct {
		hook   Hook
		ch     <-chan []byte
		cancel func()
	}
	subs := make([]subscription, 0, len(hd.hooks))
	defer func() {
		for _, s := range subs {
			s.cancel()
		}
	}()
	for _, h := range hd.hooks {
		ch, cancel, err := sub.Subscribe(h.Topic)
		if err != nil {
			return fmt.Errorf("hooks: subscribe %s: %w", h.Topic, err)
		}
		subs = append(subs, subscription{hook: h, ch: ch, cancel: cancel})
	}

	hd.logger.Info("hooks: subscriber started", "hooks", len(subs))

	var wg sync.WaitGroup
	for _, s := range subs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case payload, ok := <-s.ch:
					if !ok {
						return
					}
					if w := hd.Run(ctx, s.hook, payload); w != "" {
						hd.logger.Warn("hooks: " + w)
					}
				}
			}
		}()
	}
	wg.Wait()
	hd.logger.Info("hooks: subscriber stopping")
	return nil
}
