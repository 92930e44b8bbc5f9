// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caovandan/caro/internal/identity"
	"github.com/caovandan/caro/internal/platform/constants"
	"github.com/caovandan/caro/internal/session"
)

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

/*
TestCookieStore_Persist verifies both cookies are written with matching
lifetimes and the expected attributes.
*/
func TestCookieStore_Persist(t *testing.T) {
	store := session.NewCookieStore()
	recorder := httptest.NewRecorder()

	store.Persist(recorder, &identity.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresIn:    3600,
	})

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 2)

	access := cookieByName(t, cookies, constants.AccessTokenCookieName)
	require.NotNil(t, access)
	assert.Equal(t, "access-token", access.Value)
	assert.Equal(t, 3600, access.MaxAge)
	assert.Equal(t, "/", access.Path)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)

	refresh := cookieByName(t, cookies, constants.RefreshTokenCookieName)
	require.NotNil(t, refresh)
	assert.Equal(t, "refresh-token", refresh.Value)
	// Both cookies share one lifetime so they expire together.
	assert.Equal(t, access.MaxAge, refresh.MaxAge)
}

/*
TestCookieStore_Persist_RefusesIncompleteSession verifies a half-set
session never produces cookies.
*/
func TestCookieStore_Persist_RefusesIncompleteSession(t *testing.T) {
	store := session.NewCookieStore()

	for _, incomplete := range []*identity.Session{
		{AccessToken: "only-access", ExpiresIn: 3600},
		{RefreshToken: "only-refresh", ExpiresIn: 3600},
		{},
	} {
		recorder := httptest.NewRecorder()
		store.Persist(recorder, incomplete)
		assert.Empty(t, recorder.Result().Cookies())
	}
}

/*
TestCookieStore_Clear verifies both cookies are expired.
*/
func TestCookieStore_Clear(t *testing.T) {
	store := session.NewCookieStore()
	recorder := httptest.NewRecorder()

	store.Clear(recorder)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Equal(t, -1, c.MaxAge)
		assert.Empty(t, c.Value)
	}
}

/*
TestCookieStore_Read verifies the both-or-nothing read semantics: a request
carrying only one cookie has no session.
*/
func TestCookieStore_Read(t *testing.T) {
	store := session.NewCookieStore()

	tests := []struct {
		name    string
		cookies []*http.Cookie
		present bool
	}{
		{
			name: "both_present",
			cookies: []*http.Cookie{
				{Name: constants.AccessTokenCookieName, Value: "a"},
				{Name: constants.RefreshTokenCookieName, Value: "r"},
			},
			present: true,
		},
		{
			name: "access_only",
			cookies: []*http.Cookie{
				{Name: constants.AccessTokenCookieName, Value: "a"},
			},
			present: false,
		},
		{
			name: "refresh_only",
			cookies: []*http.Cookie{
				{Name: constants.RefreshTokenCookieName, Value: "r"},
			},
			present: false,
		},
		{
			name: "empty_value",
			cookies: []*http.Cookie{
				{Name: constants.AccessTokenCookieName, Value: ""},
				{Name: constants.RefreshTokenCookieName, Value: "r"},
			},
			present: false,
		},
		{
			name:    "no_cookies",
			cookies: nil,
			present: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/home", nil)
			for _, c := range tt.cookies {
				request.AddCookie(c)
			}

			pair, present := store.Read(request)
			assert.Equal(t, tt.present, present)

			if tt.present {
				assert.Equal(t, "a", pair.AccessToken)
				assert.Equal(t, "r", pair.RefreshToken)
			} else {
				assert.Empty(t, pair.AccessToken)
				assert.Empty(t, pair.RefreshToken)
			}
		})
	}
}
