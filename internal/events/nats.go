package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// TopicPrefix roots every folio subject. Subscribe to TopicPrefix+">" for
// all of them.
const TopicPrefix = "folio."

// ErrForeignTopic is returned when publishing outside the folio namespace.
var ErrForeignTopic = errors.New("topic outside the folio namespace")

const (
	closeFlushTimeout  = 2 * time.Second
	subscriptionBuffer = 64
)

// connect dials url as a named folio client that reconnects forever.
// Options in opts are applied after the defaults and win over them.
func connect(url, role string, opts ...nats.Option) (*nats.Conn, error) {
	defaults := []nats.Option{
		nats.Name("folio-" + role),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return nc, nil
}

// NATSPublisher sends folio events to FOLIO_NATS_URL as JSON, one subject
// per topic.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string, opts ...nats.Option) (*NATSPublisher, error) {
	nc, err := connect(url, "publisher", opts...)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: nc}, nil
}

// Publish does nothing and returns ctx's error once ctx is done. While
// reconnecting, nats buffers the event and sends it after the link is back.
func (p *NATSPublisher) Publish(ctx context.Context, topic string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.HasPrefix(topic, TopicPrefix) {
		return fmt.Errorf("%w: %q", ErrForeignTopic, topic)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", topic, err)
	}
	if err := p.conn.Publish(topic, data); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}

// Close flushes buffered events before closing the connection, so events
// published while the service shuts down still reach the server.
func (p *NATSPublisher) Close() error {
	if p.conn.IsClosed() {
		return nil
	}
	err := p.conn.FlushTimeout(closeFlushTimeout)
	p.conn.Close()
	if err != nil {
		return fmt.Errorf("flushing events on close: %w", err)
	}
	return nil
}

// NATSSubscriber hands raw folio event payloads to hooks and `folio watch`.
type NATSSubscriber struct {
	conn *nats.Conn
}

// NewNATSSubscriber connects as a folio subscriber. Callers usually add
// disconnect and reconnect handlers through opts.
func NewNATSSubscriber(url string, opts ...nats.Option) (*NATSSubscriber, error) {
	nc, err := connect(url, "subscriber", opts...)
	if err != nil {
		return nil, err
	}
	return &NATSSubscriber{conn: nc}, nil
}

// subscription bridges a nats callback to a bounded channel. A payload that
// arrives while the channel is full is dropped; nats callbacks must not block.
type subscription struct {
	sub  *nats.Subscription
	ch   chan []byte
	mu   sync.Mutex
	done bool
	once sync.Once
}

func (s *subscription) deliver(msg *nats.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	select {
	case s.ch <- msg.Data:
	default:
	}
}

// cancel unsubscribes and closes the channel. Payloads already buffered
// stay readable.
func (s *subscription) cancel() {
	s.once.Do(func() {
		if s.sub != nil {
			_ = s.sub.Unsubscribe()
		}
		s.mu.Lock()
		s.done = true
		close(s.ch)
		s.mu.Unlock()
	})
}

// Subscribe delivers payloads for topic, which may use wildcards such as
// "folio.portfolio.*". The subscription is registered on the server before
// Subscribe returns.
func (s *NATSSubscriber) Subscribe(topic string) (<-chan []byte, func(), error) {
	sn := &subscription{ch: make(chan []byte, subscriptionBuffer)}
	sub, err := s.conn.Subscribe(topic, sn.deliver)
	if err != nil {
		sn.cancel()
		return nil, nil, fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	sn.sub = sub
	if err := s.conn.Flush(); err != nil {
		sn.cancel()
		return nil, nil, fmt.Errorf("registering subscription to %s: %w", topic, err)
	}
	return sn.ch, sn.cancel, nil
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}
