// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package profile

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// # Username Generation

// A username is the player's display handle, derived from their name at
// provisioning time: fold accents, lowercase, strip everything that is not
// a letter or digit, then append a random numeric suffix for uniqueness.
// "Ann" + "Lee" yields e.g. "annlee42"; "Trần" + "Vũ" yields "tranvu817".

// usernameSuffixBound is the exclusive upper bound of the random suffix.
const usernameSuffixBound = 1000

// usernameFallback is used when name folding leaves nothing usable.
const usernameFallback = "player"

// accentFolder strips combining marks after NFD decomposition, then
// recomposes. This turns "é" into "e" rather than dropping it.
var accentFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// UsernameGenerator builds usernames from first/last name pairs.
//
// The random source is injectable so tests can pin the suffix.
type UsernameGenerator struct {
	intn func(n int) int
}

// NewUsernameGenerator constructs a generator backed by the shared
// math/rand source.
func NewUsernameGenerator() *UsernameGenerator {
	return &UsernameGenerator{intn: rand.Intn}
}

/*
Generate derives a username from a first and last name.

Parameters:
  - firstName: string
  - lastName: string

Returns:
  - string: Lowercased alphanumeric base plus a 0–999 suffix; never empty
*/
func (generator *UsernameGenerator) Generate(firstName, lastName string) string {
	base := foldName(firstName) + foldName(lastName)
	if base == "" {
		base = usernameFallback
	}
	return fmt.Sprintf("%s%d", base, generator.intn(usernameSuffixBound))
}

// foldName normalizes one name component to lowercase ASCII-ish letters
// and digits. Characters that survive accent folding but are still not
// alphanumeric (spaces, hyphens, apostrophes) are dropped.
func foldName(name string) string {
	folded, _, err := transform.String(accentFolder, name)
	if err != nil {
		folded = name
	}

	var builder strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
