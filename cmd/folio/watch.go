package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/folio/internal/events"
	"github.com/alfredjeanlab/folio/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch [topic]",
	Short:   "Stream portfolio and walkthrough events",
	Long:    "Stream events from NATS when a NATS URL is known, otherwise from the service's SSE endpoint. The topic may use NATS wildcards (default folio.>).",
	GroupID: "system",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := "folio.>"
		if len(args) == 1 {
			topic = args[0]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = os.Getenv("FOLIO_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, cmd.OutOrStdout(), natsURL, topic)
		}
		return watchSSE(ctx, cmd.OutOrStdout(), apiURL, apiToken, topic)
	},
}

// watchNATS prints every payload published on topic until ctx ends.
func watchNATS(ctx context.Context, w io.Writer, natsURL, topic string) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats: disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("nats: reconnected")
		}),
	)
	if err != nil {
		return err
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(topic)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			printEvent(w, sseMessage{Data: string(data)})
		}
	}
}

// watchSSE follows GET /v1/events/stream, reconnecting with Last-Event-ID
// after the stream drops.
func watchSSE(ctx context.Context, w io.Writer, baseURL, token, topic string) error {
	var lastID string
	for {
		err := streamSSE(ctx, baseURL, token, topic, lastID, func(m sseMessage) {
			if m.ID != "" {
				lastID = m.ID
			}
			printEvent(w, m)
		})
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			slog.Warn("event stream dropped", "err", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(2 * time.Second):
		}
	}
}

func streamSSE(ctx context.Context, baseURL, token, topic, lastID string, fn func(sseMessage)) error {
	u := strings.TrimRight(baseURL, "/") + "/v1/events/stream?topics=" + url.QueryEscape(topic)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if lastID != "" {
		req.Header.Set("Last-Event-ID", lastID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream: HTTP %d", resp.StatusCode)
	}
	return readSSE(resp.Body, fn)
}

// sseMessage is one dispatched server-sent event.
type sseMessage struct {
	ID    string
	Event string
	Data  string
}

// readSSE parses an event stream, calling fn for each event that carries
// data. Comments and retry lines are skipped.
func readSSE(r io.Reader, fn func(sseMessage)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		msg  sseMessage
		data []string
	)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if len(data) > 0 {
				msg.Data = strings.Join(data, "\n")
				fn(msg)
			}
			msg, data = sseMessage{}, nil
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "id":
			msg.ID = value
		case "event":
			msg.Event = value
		case "data":
			data = append(data, value)
		}
	}
	return sc.Err()
}

func printEvent(w io.Writer, m sseMessage) {
	if jsonOutput {
		fmt.Fprintln(w, m.Data)
		return
	}
	stamp := ui.RenderMuted(time.Now().Format("15:04:05"))
	if m.Event == "" {
		fmt.Fprintf(w, "%s %s\n", stamp, m.Data)
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", stamp, ui.RenderAccent(m.Event), m.Data)
}

func init() {
	watchCmd.Flags().String("nats", "", "NATS URL (default FOLIO_NATS_URL or the active remote)")
}
