// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal building blocks shared by dqview's
// screens: the color theme, floating dropdown and picker overlays,
// fuzzy option ranking, row glow after mutations, and ANSI-aware
// splicing of overlays onto a rendered view.
//
// Nothing here knows about filter state or the catalog API beyond
// the status vocabulary the theme colors. Screens own their layout and
// route keys into these components.
package tui
