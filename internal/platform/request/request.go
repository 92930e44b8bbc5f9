// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caovandan/caro/internal/identity"
	"github.com/caovandan/caro/internal/platform/apperr"
	"github.com/caovandan/caro/internal/platform/ctxutil"
	"github.com/caovandan/caro/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Identity extracts the authenticated identity from the request context.

Returns nil if the request is not authenticated.
*/
func Identity(request *http.Request) *identity.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated and returns the identity.

Returns:
  - *identity.Identity: The authenticated provider identity
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredIdentity(request *http.Request) (*identity.Identity, error) {

	// Get the identity attached by the auth gate
	user := ctxutil.GetIdentity(request.Context())

	// If the user is not authenticated, return an error
	if user == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return user, nil
}

/*
RequiredUserID returns the provider user ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {

	// Get the identity attached by the auth gate
	user, err := RequiredIdentity(request)

	// If the user is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return user.ID, nil
}
