package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alfredjeanlab/folio/internal/events"
	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/store"
	"github.com/alfredjeanlab/folio/internal/store/memory"
)

func newTestServer(t *testing.T, opts HTTPOptions) (*PortfolioServer, *events.MemoryPublisher, http.Handler) {
	t.Helper()
	f, err := store.LoadFixture("../store/testdata/portfolio-fixture.json")
	if err != nil {
		t.Fatal(err)
	}
	ms, err := memory.NewFromFixture(f)
	if err != nil {
		t.Fatal(err)
	}
	pub := &events.MemoryPublisher{}
	s := NewPortfolioServer(ms, pub)
	return s, pub, s.NewHTTPHandler(opts)
}

// doJSON performs an HTTP request with an optional JSON body and returns the recorder.
func doJSON(t *testing.T, handler http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// requireStatus asserts the recorder has the expected HTTP status code.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected status %d, got %d; body: %s", code, rec.Code, rec.Body.String())
	}
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v; body: %s", err, rec.Body.String())
	}
	return v
}

func TestResolve_Found(t *testing.T) {
	_, pub, h := newTestServer(t, HTTPOptions{AllowedOrigin: "*"})

	rec := doJSON(t, h, http.MethodGet, "/ABC123", nil, "")
	requireStatus(t, rec, http.StatusOK)
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header on resolve")
	}
	got := decodeJSON[resolveResponse](t, rec)
	if got.Code != "abc123" || got.Data.Name != "Jane Doe" || got.AvailableViews != 19 {
		t.Fatalf("response = %+v", got)
	}
	if len(got.Data.Experience) != 3 || len(got.Data.Project) != 2 {
		t.Errorf("document truncated: %+v", got.Data)
	}

	rec = doJSON(t, h, http.MethodGet, "/abc123", nil, "")
	if got := decodeJSON[resolveResponse](t, rec); got.AvailableViews != 18 {
		t.Errorf("second view available = %d, want 18", got.AvailableViews)
	}

	topics := pub.Topics()
	if len(topics) != 2 || topics[0] != events.TopicPortfolioResolved {
		t.Errorf("published %v", topics)
	}
}

func TestResolve_NotFound(t *testing.T) {
	_, pub, h := newTestServer(t, HTTPOptions{})
	for _, path := range []string{"/zzz999", "/abc", "/abc1234", "/ab-123"} {
		rec := doJSON(t, h, http.MethodGet, path, nil, "")
		requireStatus(t, rec, http.StatusNotFound)
		if got := decodeJSON[map[string]string](t, rec); got["error"] != "Code not found" {
			t.Errorf("%s: body = %v", path, got)
		}
	}
	for _, topic := range pub.Topics() {
		if topic != events.TopicPortfolioMissed {
			t.Errorf("unexpected topic %s", topic)
		}
	}
}

func TestResolve_ViewsNeverBlock(t *testing.T) {
	s, _, h := newTestServer(t, HTTPOptions{})
	ctx := context.Background()
	if err := s.Put(ctx, &model.PortfolioRecord{Code: "lim001", Portfolio: &model.Portfolio{Name: "L"}, ViewLimit: 1}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		requireStatus(t, doJSON(t, h, http.MethodGet, "/lim001", nil, ""), http.StatusOK)
	}
	rec := doJSON(t, h, http.MethodGet, "/lim001", nil, "")
	if got := decodeJSON[resolveResponse](t, rec); got.AvailableViews != 0 {
		t.Errorf("available = %d, want 0", got.AvailableViews)
	}
}

func TestResolve_Preflight(t *testing.T) {
	_, _, h := newTestServer(t, HTTPOptions{AllowedOrigin: "*"})
	rec := doJSON(t, h, http.MethodOptions, "/abc123", nil, "")
	requireStatus(t, rec, http.StatusNoContent)
}

func TestHealth(t *testing.T) {
	_, _, h := newTestServer(t, HTTPOptions{AuthToken: "secret"})
	rec := doJSON(t, h, http.MethodGet, "/v1/health", nil, "")
	requireStatus(t, rec, http.StatusOK)
	if got := decodeJSON[map[string]string](t, rec); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	_, _, h := newTestServer(t, HTTPOptions{AuthToken: "secret"})
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/v1/portfolios"},
		{http.MethodPut, "/v1/portfolios/abc123"},
		{http.MethodDelete, "/v1/portfolios/abc123"},
		{http.MethodGet, "/v1/events/stream"},
	} {
		rec := doJSON(t, h, tc.method, tc.path, nil, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
	requireStatus(t, doJSON(t, h, http.MethodGet, "/abc123", nil, ""), http.StatusOK)
}

func TestListPortfolios(t *testing.T) {
	_, _, h := newTestServer(t, HTTPOptions{AuthToken: "secret"})
	doJSON(t, h, http.MethodGet, "/abc123", nil, "")

	rec := doJSON(t, h, http.MethodGet, "/v1/portfolios", nil, "secret")
	requireStatus(t, rec, http.StatusOK)
	got := decodeJSON[struct {
		Portfolios []model.PortfolioSummary `json:"portfolios"`
		Total      int                      `json:"total"`
	}](t, rec)
	if got.Total != 2 || len(got.Portfolios) != 2 {
		t.Fatalf("list = %+v", got)
	}
	if p := got.Portfolios[0]; p.Code != "abc123" || p.Name != "Jane Doe" || p.ViewCount != 1 {
		t.Errorf("first = %+v", p)
	}
}

func TestPutPortfolio(t *testing.T) {
	_, pub, h := newTestServer(t, HTTPOptions{})

	body := map[string]any{"portfolio": map[string]any{"name": "New Person", "summary": "Hi."}, "view_limit": 3}
	rec := doJSON(t, h, http.MethodPut, "/v1/portfolios/NEW001", body, "")
	requireStatus(t, rec, http.StatusOK)
	got := decodeJSON[model.PortfolioRecord](t, rec)
	if got.Code != "new001" || got.ViewLimit != 3 || got.Portfolio.Name != "New Person" {
		t.Fatalf("record = %+v", got)
	}

	rec = doJSON(t, h, http.MethodGet, "/new001", nil, "")
	if r := decodeJSON[resolveResponse](t, rec); r.AvailableViews != 2 {
		t.Errorf("available = %d, want 2", r.AvailableViews)
	}

	if topics := pub.Topics(); topics[0] != events.TopicPortfolioUpserted {
		t.Errorf("topics = %v", topics)
	}
}

func TestPutPortfolio_Invalid(t *testing.T) {
	_, _, h := newTestServer(t, HTTPOptions{})
	for _, tc := range []struct {
		name string
		path string
		body any
		want string
	}{
		{"bad code", "/v1/portfolios/ab", map[string]any{"portfolio": map[string]any{"name": "X"}}, "code"},
		{"missing name", "/v1/portfolios/abc999", map[string]any{"portfolio": map[string]any{}}, "name"},
		{"missing document", "/v1/portfolios/abc999", map[string]any{}, "portfolio"},
		{"negative limit", "/v1/portfolios/abc999", map[string]any{"portfolio": map[string]any{"name": "X"}, "view_limit": -1}, "view_limit"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPut, tc.path, tc.body, "")
			requireStatus(t, rec, http.StatusBadRequest)
			if !strings.Contains(rec.Body.String(), tc.want) {
				t.Errorf("body = %s, want mention of %q", rec.Body.String(), tc.want)
			}
		})
	}

	req := httptest.NewRequest(http.MethodPut, "/v1/portfolios/abc999", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestDeletePortfolio(t *testing.T) {
	s, pub, h := newTestServer(t, HTTPOptions{})
	requireStatus(t, doJSON(t, h, http.MethodDelete, "/v1/portfolios/XYZ789", nil, ""), http.StatusNoContent)
	requireStatus(t, doJSON(t, h, http.MethodDelete, "/v1/portfolios/xyz789", nil, ""), http.StatusNotFound)
	requireStatus(t, doJSON(t, h, http.MethodGet, "/xyz789", nil, ""), http.StatusNotFound)

	if _, err := s.store.GetPortfolio(context.Background(), "xyz789"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("store still has record: %v", err)
	}
	if topics := pub.Topics(); topics[0] != events.TopicPortfolioDeleted {
		t.Errorf("topics = %v", topics)
	}
}

type failingStore struct{ store.Store }

func (failingStore) RecordView(context.Context, string) (*model.PortfolioRecord, error) {
	return nil, errors.New("connection reset")
}

func (failingStore) ListPortfolios(context.Context) ([]*model.PortfolioRecord, error) {
	return nil, errors.New("connection reset")
}

func TestStoreFailures(t *testing.T) {
	s := NewPortfolioServer(failingStore{}, nil)
	h := s.NewHTTPHandler(HTTPOptions{})
	requireStatus(t, doJSON(t, h, http.MethodGet, "/abc123", nil, ""), http.StatusInternalServerError)
	requireStatus(t, doJSON(t, h, http.MethodGet, "/v1/health", nil, ""), http.StatusServiceUnavailable)
}
