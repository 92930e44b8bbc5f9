// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package signup

import (
	"sync"

	"github.com/caovandan/caro/internal/identity"
)

// # Passcode Collection

// Collector assembles a one-time passcode from individual digit entries or
// a pasted string, firing a completion callback exactly once when the sixth
// digit lands.
//
// # Invariants
//
//   - Non-digit input is ignored, never buffered.
//   - Input beyond the sixth digit is dropped until [Collector.Reset].
//   - The completion callback fires exactly once per fill; a paste that
//     overlaps typed digits cannot double-fire it.
type Collector struct {
	mu         sync.Mutex
	digits     []rune
	fired      bool
	onComplete func(code string)
}

// NewCollector constructs a [Collector]. The callback may be nil.
func NewCollector(onComplete func(code string)) *Collector {
	return &Collector{
		digits:     make([]rune, 0, identity.OTPLength),
		onComplete: onComplete,
	}
}

/*
Digit feeds a single character into the collector.

Parameters:
  - input: rune (ignored unless it is an ASCII digit)

Returns:
  - bool: true if the code is now complete
*/
func (collector *Collector) Digit(input rune) bool {
	collector.mu.Lock()
	defer collector.mu.Unlock()

	collector.push(input)
	return collector.finish()
}

/*
Paste feeds a pasted string into the collector.

Description: Digits are extracted in order; everything else (spaces,
hyphens from "123 456" or "123-456") is discarded. Digits beyond the
remaining capacity are dropped, so pasting a full code over a half-typed
one never duplicates entries.

Parameters:
  - input: string

Returns:
  - bool: true if the code is now complete
*/
func (collector *Collector) Paste(input string) bool {
	collector.mu.Lock()
	defer collector.mu.Unlock()

	for _, r := range input {
		collector.push(r)
	}
	return collector.finish()
}

// Code returns the digits collected so far.
func (collector *Collector) Code() string {
	collector.mu.Lock()
	defer collector.mu.Unlock()

	return string(collector.digits)
}

// Complete reports whether all six digits have been collected.
func (collector *Collector) Complete() bool {
	collector.mu.Lock()
	defer collector.mu.Unlock()

	return len(collector.digits) == identity.OTPLength
}

// Reset clears the collector for a fresh entry, re-arming the callback.
func (collector *Collector) Reset() {
	collector.mu.Lock()
	defer collector.mu.Unlock()

	collector.digits = collector.digits[:0]
	collector.fired = false
}

// push buffers one rune if it is a digit and capacity remains.
// Callers must hold the mutex.
func (collector *Collector) push(input rune) {
	if input < '0' || input > '9' {
		return
	}
	if len(collector.digits) >= identity.OTPLength {
		return
	}
	collector.digits = append(collector.digits, input)
}

// finish fires the completion callback on the transition to full.
// Callers must hold the mutex.
func (collector *Collector) finish() bool {
	if len(collector.digits) < identity.OTPLength {
		return false
	}
	if !collector.fired {
		collector.fired = true
		if collector.onComplete != nil {
			collector.onComplete(string(collector.digits))
		}
	}
	return true
}
