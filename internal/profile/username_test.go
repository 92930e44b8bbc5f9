// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package profile

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fixedSuffix pins the random suffix for deterministic assertions.
func fixedSuffix(n int) *UsernameGenerator {
	return &UsernameGenerator{intn: func(int) int { return n }}
}

/*
TestUsernameGenerator_Generate verifies folding, lowercasing, and the
numeric suffix.
*/
func TestUsernameGenerator_Generate(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		lastName  string
		suffix    int
		expected  string
	}{
		{"plain_ascii", "Ann", "Lee", 42, "annlee42"},
		{"accents_folded", "Trần", "Vũ", 7, "tranvu7"},
		{"spaces_dropped", "Mary Jane", "O'Neil", 3, "maryjaneoneil3"},
		{"digits_kept", "Player", "2000", 1, "player20001"},
		{"empty_names_fallback", "", "", 9, "player9"},
		{"symbols_only_fallback", "!!!", "???", 0, "player0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fixedSuffix(tt.suffix).Generate(tt.firstName, tt.lastName))
		})
	}
}

/*
TestUsernameGenerator_SuffixRange verifies real generation stays within the
base + 0–999 shape.
*/
func TestUsernameGenerator_SuffixRange(t *testing.T) {
	generator := NewUsernameGenerator()
	pattern := regexp.MustCompile(`^annlee\d{1,3}$`)

	for i := 0; i < 50; i++ {
		username := generator.Generate("Ann", "Lee")
		assert.True(t, pattern.MatchString(username), "unexpected username %q", username)
	}
}
