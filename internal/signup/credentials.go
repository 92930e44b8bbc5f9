// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

/*
Package signup owns the credentialed entry points of the application:
registration with email OTP confirmation, sign-in, and sign-out.

# Architecture

  - Credentials: Declarative validation of the registration form.
  - Flow: The registration state machine (form → submitting → awaiting
    code → verifying → authenticated).
  - Collector: One-time-passcode digit assembly with a single completion
    guarantee.
  - ChallengeStore: Redis-backed record that a sign-up awaits its code.
  - Controller: Orchestrates the identity provider, profile provisioning,
    and the challenge window.

The package never writes session cookies itself; the HTTP layer persists
sessions through the cookie store once the controller hands one back.
*/
package signup

import (
	"github.com/caovandan/caro/internal/platform/validate"
)

// # Registration Form

const (
	// PasswordMinLen is the minimum password length accepted at sign-up.
	PasswordMinLen = 8

	// NameMinLen is the minimum length of a first or last name.
	NameMinLen = 2

	// fieldMaxLen bounds every free-text field against abuse.
	fieldMaxLen = 100
)

// Credentials is the registration form payload.
type Credentials struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

/*
Validate checks every field and reports all violations at once.

Description: The chain never fails fast — a form with a bad email AND a
short password gets both messages in a single response.

Returns:
  - error: apperr VALIDATION_ERROR carrying one FieldError per violation
*/
func (credentials Credentials) Validate() error {
	v := &validate.Validator{}

	v.Required("email", credentials.Email).
		Email("email", credentials.Email).
		MaxLen("email", credentials.Email, fieldMaxLen)

	v.Required("password", credentials.Password).
		MinLen("password", credentials.Password, PasswordMinLen).
		MaxLen("password", credentials.Password, fieldMaxLen)

	v.Match("confirm_password", credentials.ConfirmPassword, credentials.Password, "Passwords do not match")

	v.Required("first_name", credentials.FirstName).
		MinLen("first_name", credentials.FirstName, NameMinLen).
		MaxLen("first_name", credentials.FirstName, fieldMaxLen)

	v.Required("last_name", credentials.LastName).
		MinLen("last_name", credentials.LastName, NameMinLen).
		MaxLen("last_name", credentials.LastName, fieldMaxLen)

	return v.Err()
}

// LoginCredentials is the sign-in form payload.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the sign-in form.
func (credentials LoginCredentials) Validate() error {
	v := &validate.Validator{}

	v.Required("email", credentials.Email).
		Email("email", credentials.Email)

	v.Required("password", credentials.Password)

	return v.Err()
}
