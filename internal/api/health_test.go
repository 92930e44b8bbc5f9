// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package api_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caovandan/caro/internal/api"
)

func probeReadiness(t *testing.T, deps api.HealthDependencies) *httptest.ResponseRecorder {
	t.Helper()
	_, readiness := api.NewHealthHandlers(deps, slog.New(slog.NewTextHandler(io.Discard, nil)))

	recorder := httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	return recorder
}

/*
TestReadiness_AllDependenciesHealthy verifies a clean probe reports ready.
*/
func TestReadiness_AllDependenciesHealthy(t *testing.T) {
	recorder := probeReadiness(t, api.HealthDependencies{
		CheckDatabase: func() error { return nil },
		CheckCache:    func() error { return nil },
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"ready"`)
}

/*
TestReadiness_DegradedDependencyIs503 verifies a failing dependency yields
a single 503 response carrying the failing check.
*/
func TestReadiness_DegradedDependencyIs503(t *testing.T) {
	recorder := probeReadiness(t, api.HealthDependencies{
		CheckDatabase: func() error { return nil },
		CheckCache:    func() error { return errors.New("connection refused") },
	})

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var envelope struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name string `json:"name"`
				IsOK bool   `json:"ok"`
			} `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.Equal(t, "degraded", envelope.Data.Status)
	require.Len(t, envelope.Data.Checks, 2)
	assert.True(t, envelope.Data.Checks[0].IsOK)
	assert.False(t, envelope.Data.Checks[1].IsOK)
}
