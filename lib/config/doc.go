// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for dqview.
//
// Configuration is loaded from a single file specified by either the
// DQVIEW_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search. Without either,
// the caller starts from [Default] and command-line flags.
//
// Files are YAML. Files named *.json or *.jsonc are accepted too;
// comments and trailing commas are stripped before decoding.
//
// The file may contain environment-specific sections (development,
// staging, production) that override base values when
// [Config].Environment matches, so one file can describe several
// catalogs.
//
// ${VAR} and ${VAR:-default} patterns are expanded in the catalog URL,
// the token, and the log path. The default token is ${DQVIEW_TOKEN}.
//
// Key exports:
//
//   - [Config] -- master struct with Catalog, View, Logging
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other dqview packages.
package config
