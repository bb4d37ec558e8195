// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bureau-foundation/heaterlink/lib/attr"
	"github.com/bureau-foundation/heaterlink/lib/clock"
	"github.com/bureau-foundation/heaterlink/lib/testutil"
)

// fakeTable is a minimal PutItem endpoint. Responses are served from
// the queue in order; once the queue is empty every request succeeds.
type fakeTable struct {
	mu        sync.Mutex
	responses []fakeResponse
	requests  []capturedRequest
}

type fakeResponse struct {
	status int
	body   string
}

type capturedRequest struct {
	target      string
	contentType string
	body        putItemRequest
}

func (f *fakeTable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	var body putItemRequest
	json.Unmarshal(data, &body)

	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{
		target:      r.Header.Get("X-Amz-Target"),
		contentType: r.Header.Get("Content-Type"),
		body:        body,
	})
	response := fakeResponse{status: http.StatusOK, body: "{}"}
	if len(f.responses) > 0 {
		response = f.responses[0]
		f.responses = f.responses[1:]
	}
	f.mu.Unlock()

	w.WriteHeader(response.status)
	io.WriteString(w, response.body)
}

func (f *fakeTable) captured() []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capturedRequest(nil), f.requests...)
}

func newTestHTTPStore(t *testing.T, table *fakeTable, attempts int, clk clock.Clock) *HTTPStore {
	t.Helper()
	server := httptest.NewServer(table)
	t.Cleanup(server.Close)

	store, err := NewHTTPStore(HTTPConfig{
		Endpoint:    server.URL,
		Table:       "heater-telemetry",
		MaxAttempts: attempts,
		Clock:       clk,
	})
	if err != nil {
		t.Fatalf("NewHTTPStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestHTTPStorePutItem(t *testing.T) {
	table := &fakeTable{}
	store := newTestHTTPStore(t, table, 1, clock.Real())

	item := attr.Item{
		"fsm_state":    attr.NumberNode("31"),
		"flame_detect": attr.NumberNode("12.5"),
	}
	if err := store.PutItem(context.Background(), item); err != nil {
		t.Fatalf("PutItem: %v", err)
	}

	requests := table.captured()
	if len(requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(requests))
	}
	request := requests[0]
	if request.target != "DynamoDB_20120810.PutItem" {
		t.Errorf("X-Amz-Target = %q", request.target)
	}
	if request.contentType != "application/x-amz-json-1.0" {
		t.Errorf("Content-Type = %q", request.contentType)
	}
	if request.body.TableName != "heater-telemetry" {
		t.Errorf("TableName = %q", request.body.TableName)
	}
	if !request.body.Item["fsm_state"].Equal(attr.NumberNode("31")) {
		t.Errorf("Item[fsm_state] = %s", request.body.Item["fsm_state"])
	}
}

func TestHTTPStoreRejection(t *testing.T) {
	table := &fakeTable{responses: []fakeResponse{{
		status: http.StatusBadRequest,
		body:   `{"__type":"com.amazonaws.dynamodb.v20120810#ValidationException","message":"One or more parameter values were invalid"}`,
	}}}
	store := newTestHTTPStore(t, table, 3, clock.Real())

	err := store.PutItem(context.Background(), attr.Item{"a": attr.StringNode("b")})
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("PutItem error = %v, want *WriteError", err)
	}
	if writeErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", writeErr.Status)
	}
	if writeErr.Message != "One or more parameter values were invalid" {
		t.Errorf("Message = %q", writeErr.Message)
	}
	if writeErr.Temporary() {
		t.Error("validation failure reported as temporary")
	}
	if got := len(table.captured()); got != 1 {
		t.Errorf("permanent failure was attempted %d times, want 1", got)
	}
}

func TestHTTPStoreNoRetryByDefault(t *testing.T) {
	table := &fakeTable{responses: []fakeResponse{{status: http.StatusServiceUnavailable}}}
	store := newTestHTTPStore(t, table, 0, clock.Real())

	err := store.PutItem(context.Background(), attr.Item{"a": attr.StringNode("b")})
	var writeErr *WriteError
	if !errors.As(err, &writeErr) || writeErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("PutItem error = %v, want 503 WriteError", err)
	}
	if got := len(table.captured()); got != 1 {
		t.Errorf("attempted %d times, want 1", got)
	}
}

func TestHTTPStoreRetriesWithBackoff(t *testing.T) {
	table := &fakeTable{responses: []fakeResponse{
		{status: http.StatusInternalServerError},
		{status: http.StatusBadRequest, body: `{"__type":"com.amazonaws.dynamodb.v20120810#ThrottlingException","Message":"slow down"}`},
	}}
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := newTestHTTPStore(t, table, 3, fake)

	var finished atomic.Bool
	done := make(chan error, 1)
	go func() {
		done <- store.PutItem(context.Background(), attr.Item{"a": attr.StringNode("b")})
		finished.Store(true)
	}()

	fake.WaitForTimers(1)
	if finished.Load() {
		t.Fatal("PutItem returned before the first backoff elapsed")
	}
	fake.Advance(initialBackoff)

	fake.WaitForTimers(1)
	fake.Advance(2 * initialBackoff)

	if err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for PutItem"); err != nil {
		t.Fatalf("PutItem: %v", err)
	}
	if got := len(table.captured()); got != 3 {
		t.Errorf("attempted %d times, want 3", got)
	}
}

func TestHTTPStoreGivesUpAfterMaxAttempts(t *testing.T) {
	table := &fakeTable{responses: []fakeResponse{
		{status: http.StatusInternalServerError},
		{status: http.StatusInternalServerError},
	}}
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := newTestHTTPStore(t, table, 2, fake)

	done := make(chan error, 1)
	go func() {
		done <- store.PutItem(context.Background(), attr.Item{"a": attr.StringNode("b")})
	}()

	fake.WaitForTimers(1)
	fake.Advance(initialBackoff)

	err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for PutItem")
	var writeErr *WriteError
	if !errors.As(err, &writeErr) || writeErr.Status != http.StatusInternalServerError {
		t.Fatalf("PutItem error = %v, want 500 WriteError", err)
	}
}

func TestHTTPStoreCancelledDuringBackoff(t *testing.T) {
	table := &fakeTable{responses: []fakeResponse{{status: http.StatusInternalServerError}}}
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := newTestHTTPStore(t, table, 5, fake)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- store.PutItem(ctx, attr.Item{"a": attr.StringNode("b")})
	}()

	fake.WaitForTimers(1)
	cancel()

	if err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for PutItem"); err == nil {
		t.Fatal("PutItem succeeded after cancellation")
	}
	if got := len(table.captured()); got != 1 {
		t.Errorf("attempted %d times, want 1", got)
	}
}

func TestNewHTTPStoreValidation(t *testing.T) {
	if _, err := NewHTTPStore(HTTPConfig{Table: "t"}); err == nil {
		t.Error("missing endpoint accepted")
	}
	if _, err := NewHTTPStore(HTTPConfig{Endpoint: "http://localhost"}); err == nil {
		t.Error("missing table accepted")
	}
}
