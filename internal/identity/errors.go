// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package identity

import (
	"encoding/json"
	"strings"

	"github.com/caovandan/caro/internal/platform/apperr"
)

// # Provider Error Classification

// The provider reports failures as loosely structured JSON with a free-text
// message. All substring matching against that text lives in this file and
// nowhere else — callers receive a tagged [apperr.AppError] and branch on
// its Code.

// duplicatePhrases are the provider message fragments that indicate the
// email is already registered. The provider has shipped both wordings.
var duplicatePhrases = []string{
	"already registered",
	"already exists",
}

// providerErrorBody covers the message field spellings seen across provider
// API versions.
type providerErrorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorField       string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// message returns the first populated message field, or a generic fallback.
func (b providerErrorBody) message() string {
	for _, candidate := range []string{b.Msg, b.Message, b.ErrorDescription, b.ErrorField} {
		if candidate != "" {
			return candidate
		}
	}
	return "Request rejected by identity provider"
}

// parseErrorMessage extracts a human-readable message from a provider error
// response body. Unparseable bodies degrade to the generic fallback.
func parseErrorMessage(body []byte) string {
	var parsed providerErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return providerErrorBody{}.message()
	}
	return parsed.message()
}

// isDuplicateMessage reports whether the provider message text indicates a
// sign-up conflict.
func isDuplicateMessage(message string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range duplicatePhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// classifySignUpError maps a sign-up rejection to DUPLICATE_USER or
// VALIDATION_ERROR. Status codes outside 4xx never reach here.
func classifySignUpError(statusCode int, body []byte) *apperr.AppError {
	message := parseErrorMessage(body)
	if isDuplicateMessage(message) {
		return apperr.DuplicateUser(message)
	}
	return apperr.ValidationError(message)
}
