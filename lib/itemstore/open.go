// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemstore

import (
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/heaterlink/lib/clock"
	"github.com/bureau-foundation/heaterlink/lib/config"
)

// FromConfig opens the store backend named by cfg.Backend.
func FromConfig(cfg config.StoreConfig, clk clock.Clock, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case config.StoreDiscard, "":
		return Discard{}, nil
	case config.StoreSQLite:
		store, err := OpenSQLite(SQLiteConfig{
			Path:   cfg.Path,
			Table:  cfg.Table,
			Clock:  clk,
			Logger: logger,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreHTTP:
		store, err := NewHTTPStore(HTTPConfig{
			Endpoint:    cfg.Endpoint,
			Table:       cfg.Table,
			MaxAttempts: cfg.MaxAttempts,
			Clock:       clk,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
