// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bureau-foundation/heaterlink/lib/attr"
	"github.com/bureau-foundation/heaterlink/lib/clock"
)

// putItemTarget is the X-Amz-Target of the PutItem operation.
const putItemTarget = "DynamoDB_20120810.PutItem"

// Backoff between attempts starts at initialBackoff and doubles on
// each consecutive failure, capped at maxBackoff.
const (
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 * 1024

// HTTPConfig configures an HTTPStore.
type HTTPConfig struct {
	// Endpoint is the store's base URL, for example
	// "http://localhost:8000".
	Endpoint string

	// Table is the table every item is written to.
	Table string

	// MaxAttempts is the number of tries per item. Values below 1
	// mean 1 (no retry).
	MaxAttempts int

	// Client defaults to a client with a 10 second timeout.
	Client *http.Client

	// Clock times the backoff. Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives retry warnings. Nil discards them.
	Logger *slog.Logger
}

// HTTPStore writes items with the DynamoDB JSON PutItem protocol. It
// is safe for concurrent use.
type HTTPStore struct {
	endpoint    string
	table       string
	maxAttempts int
	client      *http.Client
	clock       clock.Clock
	logger      *slog.Logger
}

// NewHTTPStore validates cfg and returns a store.
func NewHTTPStore(cfg HTTPConfig) (*HTTPStore, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("itemstore: endpoint is required")
	}
	if cfg.Table == "" {
		return nil, errors.New("itemstore: table is required")
	}

	store := &HTTPStore{
		endpoint:    cfg.Endpoint,
		table:       cfg.Table,
		maxAttempts: max(cfg.MaxAttempts, 1),
		client:      cfg.Client,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
	}
	if store.client == nil {
		store.client = &http.Client{Timeout: 10 * time.Second}
	}
	if store.clock == nil {
		store.clock = clock.Real()
	}
	if store.logger == nil {
		store.logger = slog.New(slog.DiscardHandler)
	}
	return store, nil
}

// putItemRequest is the PutItem request body.
type putItemRequest struct {
	TableName string    `json:"TableName"`
	Item      attr.Item `json:"Item"`
}

// errorResponse is the store's error body. DynamoDB spells the message
// key both ways depending on the error.
type errorResponse struct {
	Type         string `json:"__type"`
	Message      string `json:"message"`
	MessageUpper string `json:"Message"`
}

// PutItem writes item, retrying temporary failures with exponential
// backoff until MaxAttempts is reached or ctx is done.
func (s *HTTPStore) PutItem(ctx context.Context, item attr.Item) error {
	body, err := json.Marshal(putItemRequest{TableName: s.table, Item: item})
	if err != nil {
		return fmt.Errorf("encoding put request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		err := s.put(ctx, body)
		if err == nil {
			return nil
		}
		if attempt >= s.maxAttempts || !retryable(err) || ctx.Err() != nil {
			return err
		}

		s.logger.Warn("store write failed, will retry",
			"error", err,
			"attempt", attempt,
			"backoff", backoff,
		)
		select {
		case <-s.clock.After(backoff):
		case <-ctx.Done():
			return err
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

func (s *HTTPStore) put(ctx context.Context, body []byte) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building put request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-amz-json-1.0")
	request.Header.Set("X-Amz-Target", putItemTarget)

	response, err := s.client.Do(request)
	if err != nil {
		return fmt.Errorf("sending put request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		io.Copy(io.Discard, io.LimitReader(response.Body, maxErrorBody))
		return nil
	}

	writeErr := &WriteError{Status: response.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
	var decoded errorResponse
	if json.Unmarshal(data, &decoded) == nil {
		writeErr.Type = decoded.Type
		writeErr.Message = decoded.Message
		if writeErr.Message == "" {
			writeErr.Message = decoded.MessageUpper
		}
	}
	return writeErr
}

// retryable reports whether err may succeed on another attempt:
// transport failures and temporary store rejections.
func retryable(err error) bool {
	var writeErr *WriteError
	if errors.As(err, &writeErr) {
		return writeErr.Temporary()
	}
	return true
}

// Close releases idle connections.
func (s *HTTPStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
