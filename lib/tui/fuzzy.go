// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"sort"
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one pattern against one text.
// A zero Score means no match.
type FuzzyResult struct {
	Score     int
	Positions []int // Rune offsets into the text, ascending.
}

// FuzzyMatch scores pattern against text using fzf's V2 algorithm.
// Matching is case-insensitive: both sides are lowercased before
// scoring. The slab may be nil; callers ranking many candidates
// should pass one from util.MakeSlab to avoid per-call allocation.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}
	lowered := make([]rune, len(pattern))
	for index, character := range pattern {
		lowered[index] = unicode.ToLower(character)
	}

	chars := util.ToChars([]byte(strings.ToLower(text)))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Score <= 0 || positions == nil {
		return FuzzyResult{}
	}

	sorted := append([]int(nil), (*positions)...)
	sort.Ints(sorted)
	return FuzzyResult{Score: result.Score, Positions: sorted}
}

// RankOptions filters options to those matching query and orders them
// by descending score, keeping the original order among ties. Match
// positions are recorded on the returned copies. An empty query
// returns the options unchanged.
func RankOptions(options []DropdownOption, query string) []DropdownOption {
	query = strings.TrimSpace(query)
	if query == "" {
		return options
	}
	pattern := []rune(query)
	slab := util.MakeSlab(100*1024, 2048)

	type scored struct {
		option DropdownOption
		score  int
	}
	var matches []scored
	for _, option := range options {
		result := FuzzyMatch(option.Label, pattern, slab)
		if result.Score == 0 {
			continue
		}
		option.MatchPositions = result.Positions
		matches = append(matches, scored{option: option, score: result.Score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	ranked := make([]DropdownOption, len(matches))
	for index, match := range matches {
		ranked[index] = match.option
	}
	return ranked
}
