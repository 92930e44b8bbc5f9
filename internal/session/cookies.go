// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

/*
Package session persists provider sessions as browser cookies.

It is the ONLY writer of the session cookies. The gate and the auth
handlers read through it and never touch http.Cookie directly, so the
both-or-nothing invariant has a single enforcement point.
*/
package session

import (
	"net/http"

	"github.com/caovandan/caro/internal/identity"
	"github.com/caovandan/caro/internal/platform/constants"
)

// TokenPair is the raw cookie view of a session.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// CookieStore reads and writes the two session cookies.
type CookieStore struct{}

// NewCookieStore constructs a [CookieStore].
func NewCookieStore() *CookieStore {
	return &CookieStore{}
}

/*
Persist writes the access and refresh cookies for the given session.

Description: Both cookies share one lifetime — the access token expiry in
seconds — so they always disappear together. Attributes match the original
deployment: path "/", Secure, SameSite=Lax.

Parameters:
  - writer: http.ResponseWriter
  - session: *identity.Session (must be complete)
*/
func (store *CookieStore) Persist(writer http.ResponseWriter, session *identity.Session) {
	if !session.Complete() {
		// Never write a half-set session. The caller already validated
		// this via the facade; refusing here keeps the invariant local.
		return
	}

	maxAge := int(session.ExpiresIn)

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    session.AccessToken,
		Path:     constants.SessionCookiePath,
		MaxAge:   maxAge,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.SessionCookiePath,
		MaxAge:   maxAge,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

/*
Clear removes both session cookies.
*/
func (store *CookieStore) Clear(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		http.SetCookie(writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     constants.SessionCookiePath,
			MaxAge:   -1,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

/*
Read returns the current token pair from the request cookies.

Description: Partial presence is treated as absence — a request carrying
only one of the two cookies has no session.

Parameters:
  - request: *http.Request

Returns:
  - TokenPair: Both tokens, populated only when present == true
  - bool: true if a complete pair was found
*/
func (store *CookieStore) Read(request *http.Request) (TokenPair, bool) {
	accessCookie, accessErr := request.Cookie(constants.AccessTokenCookieName)
	refreshCookie, refreshErr := request.Cookie(constants.RefreshTokenCookieName)

	if accessErr != nil || refreshErr != nil || accessCookie.Value == "" || refreshCookie.Value == "" {
		return TokenPair{}, false
	}

	return TokenPair{
		AccessToken:  accessCookie.Value,
		RefreshToken: refreshCookie.Value,
	}, true
}
