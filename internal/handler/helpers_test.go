package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/union-raid-tracker/internal/queue"
)

// newJSONContext builds an echo context around a JSON request body.
func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// decodeBody unmarshals the recorded response into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return m
}

// fakeEvents records published row-change events.
type fakeEvents struct {
	mu     sync.Mutex
	events []queue.RowChangeEvent
}

func (f *fakeEvents) Publish(_ context.Context, ev queue.RowChangeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeEvents) all() []queue.RowChangeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]queue.RowChangeEvent(nil), f.events...)
}
