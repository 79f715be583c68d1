package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// defaultSSEHistory is the number of recent events kept for replay to
	// reconnecting clients.
	defaultSSEHistory = 512

	// sseKeepaliveInterval is how often keepalive comments are sent to
	// prevent connection timeouts.
	sseKeepaliveInterval = 15 * time.Second

	// sseRetryMillis is the reconnection delay suggested to EventSource clients.
	sseRetryMillis = 3000
)

// sseEvent is a single event kept in history and sent to SSE clients.
type sseEvent struct {
	ID    uint64
	Topic string
	Data  []byte
}

// sseHub fans out events from publish to connected SSE clients and keeps a
// bounded history so clients can resume with Last-Event-ID.
type sseHub struct {
	mu      sync.Mutex
	clients map[*sseClient]struct{}
	lastID  uint64
	history []sseEvent // circular, len == cap once full
	head    int        // index of the oldest event when full
}

type sseClient struct {
	topics []string
	ch     chan sseEvent
}

func newSSEHub() *sseHub {
	return newSSEHubSize(defaultSSEHistory)
}

func newSSEHubSize(history int) *sseHub {
	return &sseHub{
		clients: make(map[*sseClient]struct{}),
		history: make([]sseEvent, 0, history),
	}
}

// broadcast records an event and delivers it to every matching client.
// Slow clients drop events rather than block the publisher.
func (h *sseHub) broadcast(topic string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	evt := sseEvent{ID: h.lastID, Topic: topic, Data: payload}
	if len(h.history) < cap(h.history) {
		h.history = append(h.history, evt)
	} else if cap(h.history) > 0 {
		h.history[h.head] = evt
		h.head = (h.head + 1) % cap(h.history)
	}

	for c := range h.clients {
		if !c.matches(topic) {
			continue
		}
		select {
		case c.ch <- evt:
		default:
		}
	}
}

// subscribe registers a client and returns it together with the buffered
// events newer than lastID that match its filters. Registration and the
// history snapshot happen atomically so no event is missed or duplicated.
func (h *sseHub) subscribe(topics []string, lastID uint64) (*sseClient, []sseEvent) {
	c := &sseClient{topics: topics, ch: make(chan sseEvent, 64)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}

	if lastID == 0 {
		return c, nil
	}
	var backlog []sseEvent
	n := len(h.history)
	for i := 0; i < n; i++ {
		evt := h.history[(h.head+i)%n]
		if evt.ID > lastID && c.matches(evt.Topic) {
			backlog = append(backlog, evt)
		}
	}
	return c, backlog
}

func (h *sseHub) unsubscribe(c *sseClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// clientCount returns the number of connected clients.
func (h *sseHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// matches reports whether topic passes the client's filters. No filters
// means every topic.
func (c *sseClient) matches(topic string) bool {
	if len(c.topics) == 0 {
		return true
	}
	for _, pattern := range c.topics {
		if matchTopicPattern(pattern, topic) {
			return true
		}
	}
	return false
}

// matchTopicPattern matches a dot-separated topic against a pattern.
// Supports "*" as a single-segment wildcard and ">" as a multi-segment
// suffix wildcard (NATS-style).
func matchTopicPattern(pattern, topic string) bool {
	if pattern == topic {
		return true
	}

	patParts := strings.Split(pattern, ".")
	topParts := strings.Split(topic, ".")

	for i, pp := range patParts {
		if pp == ">" {
			return i < len(topParts)
		}
		if i >= len(topParts) {
			return false
		}
		if pp != "*" && pp != topParts[i] {
			return false
		}
	}

	return len(patParts) == len(topParts)
}

// parseTopics splits a comma-separated topics query value.
func parseTopics(q string) []string {
	var topics []string
	for _, t := range strings.Split(q, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

// lastEventID reads the resume point from the Last-Event-ID header, or from
// the "since" query parameter for clients that cannot set headers.
func lastEventID(r *http.Request) uint64 {
	v := r.Header.Get("Last-Event-ID")
	if v == "" {
		v = r.URL.Query().Get("since")
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// handleEventStream handles GET /v1/events/stream (SSE endpoint).
func (s *PortfolioServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	client, backlog := s.sseHub.subscribe(parseTopics(r.URL.Query().Get("topics")), lastEventID(r))
	defer s.sseHub.unsubscribe(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry:%d\n\n", sseRetryMillis)
	for _, evt := range backlog {
		writeSSEEvent(w, evt)
	}
	flusher.Flush()

	ctx := r.Context()
	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-client.ch:
			writeSSEEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprintf(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, evt sseEvent) {
	fmt.Fprintf(w, "id:%d\nevent:%s\ndata:%s\n\n", evt.ID, evt.Topic, evt.Data)
}

// broadcastEvent JSON-encodes event and hands it to the SSE hub.
func (s *PortfolioServer) broadcastEvent(topic string, event any) {
	if s.sseHub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event for SSE broadcast", "topic", topic, "error", err)
		return
	}
	s.sseHub.broadcast(topic, payload)
}
