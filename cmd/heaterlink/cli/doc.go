// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the heaterlink
// operator tool: a tree of [Command] values with pflag flag sets,
// generated help, and a logger that matches the terminal it writes to.
package cli
