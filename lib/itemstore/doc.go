// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package itemstore writes encoded telemetry items to a key-value
// store.
//
// The relay talks to a [Store] and does not care where items end up.
// Three implementations exist:
//
//   - [HTTPStore] speaks the DynamoDB JSON 1.0 PutItem protocol. It
//     targets DynamoDB Local, compatible stores, or a signing proxy in
//     front of the real service; it does not sign requests itself.
//   - [SQLiteStore] keeps items in a local SQLite table as CBOR blobs,
//     for single-box deployments and bench testing.
//   - [Discard] accepts and drops items.
//
// [FromConfig] picks the backend from a config.StoreConfig.
//
// A non-2xx response from the remote store is a [*WriteError]. Retry
// policy belongs to the store: HTTPStore retries transport failures
// and 5xx responses up to its configured attempt count; the relay
// itself never retries.
package itemstore
