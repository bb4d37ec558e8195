// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the heaterlink
// relay.
//
// Configuration is loaded from a single file specified by either the
// HEATERLINK_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no automatic file search. When
// neither is given the defaults apply, which reproduce a bare relay:
// listen on 0.0.0.0:8192, read up to 200 bytes per frame, log every
// decoded record, and store nothing.
//
// YAML (.yaml, .yml, or any other extension), JSON with comments
// (.json, .jsonc) and TOML (.toml) are accepted. File values are merged over
// [Default], so a file only needs the fields it changes.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded.
//
// Key exports:
//
//   - [Config] -- master struct with Listen, Store, Archive, Log
//   - [Default] -- returns a Config with every field filled
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- rejects unusable configurations
//
// This package depends on no other heaterlink packages.
package config
