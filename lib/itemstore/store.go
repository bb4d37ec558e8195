// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemstore

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bureau-foundation/heaterlink/lib/attr"
)

// Store persists one item per call.
type Store interface {
	// PutItem writes item. It blocks until the store acknowledges the
	// write or fails.
	PutItem(ctx context.Context, item attr.Item) error

	// Close releases the store's resources.
	Close() error
}

// WriteError reports a write the store rejected.
type WriteError struct {
	// Status is the HTTP status code returned by the store.
	Status int
	// Type is the store's error type, for example
	// "com.amazonaws.dynamodb.v20120810#ValidationException".
	Type string
	// Message is the store's error description, if it sent one.
	Message string
}

func (e *WriteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("store write failed with status %d", e.Status)
	}
	return fmt.Sprintf("store write failed with status %d: %s", e.Status, e.Message)
}

// Temporary reports whether retrying the write may succeed: server
// errors and throttling.
func (e *WriteError) Temporary() bool {
	if e.Status >= 500 || e.Status == http.StatusTooManyRequests {
		return true
	}
	return strings.HasSuffix(e.Type, "#ThrottlingException") ||
		strings.HasSuffix(e.Type, "#ProvisionedThroughputExceededException")
}

// Discard is a Store that drops every item.
type Discard struct{}

func (Discard) PutItem(context.Context, attr.Item) error { return nil }

func (Discard) Close() error { return nil }
