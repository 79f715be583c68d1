package events

import (
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
)

// startTestNATS starts an embedded NATS server and returns its client URL.
func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestNATSSubscriber_Wildcard(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	var sub Subscriber
	nsub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	sub = nsub
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("folio.walkthrough.>")
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer cancel()

	for _, topic := range []string{TopicPortfolioResolved, TopicWalkthroughSection, TopicWalkthroughCompleted} {
		if err := pub.conn.Publish(topic, []byte(`"`+topic+`"`)); err != nil {
			t.Fatalf("publishing to %s: %v", topic, err)
		}
	}
	pub.conn.Flush()

	want := []string{`"` + TopicWalkthroughSection + `"`, `"` + TopicWalkthroughCompleted + `"`}
	for i, w := range want {
		select {
		case msg := <-ch:
			if string(msg) != w {
				t.Errorf("message %d = %s, want %s", i, msg, w)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

func TestNATSSubscriber_CancelClosesChannel(t *testing.T) {
	url := startTestNATS(t)

	sub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("folio.>")
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	cancel()
	cancel() // idempotent

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}
}
