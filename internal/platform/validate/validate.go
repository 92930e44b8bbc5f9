// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Validation is synchronous, pure, and side-effect-free. Every rule runs to
// completion and accumulates its violation — the chain never fails fast, so a
// single pass reports all offending fields at once.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/caovandan/caro/internal/platform/apperr"
)

var (
	// otpRegex matches exactly six ASCII digits.
	otpRegex = regexp.MustCompile(`^[0-9]{6}$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Email fails if the value is not a valid email address.
//
// # Strictness
//
// RFC 5322 addr-spec alone accepts host-only domains like "a@b", which no
// mail provider will deliver to. On top of [mail.ParseAddress] we require a
// dotted domain, so "a@b" is a violation while "a@b.com" passes.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	if err != nil {
		v.add(field, "Must be a valid email address")
		return v
	}

	at := strings.LastIndex(address.Address, "@")
	if at < 0 || !strings.Contains(address.Address[at+1:], ".") {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// Match fails if value does not equal other. The violation is attached to
// field (the confirmation field), never to the field being confirmed.
func (v *Validator) Match(field, value, other, message string) *Validator {
	if value != other {
		v.add(field, message)
	}
	return v
}

// OTP fails unless the value is exactly six numeric digits.
func (v *Validator) OTP(field, value string) *Validator {
	if !otpRegex.MatchString(value) {
		v.add(field, "Must be a 6-digit code")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("marker", marker != "X" && marker != "O", "Must be X or O")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Fields returns the accumulated violations as a field → message map.
// Later rules on the same field do not overwrite the first violation.
func (v *Validator) Fields() map[string]string {
	if len(v.errs) == 0 {
		return nil
	}
	out := make(map[string]string, len(v.errs))
	for _, fe := range v.errs {
		if _, seen := out[fe.Field]; !seen {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
