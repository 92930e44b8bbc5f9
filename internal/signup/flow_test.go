// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package signup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caovandan/caro/internal/platform/apperr"
	"github.com/caovandan/caro/internal/signup"
)

/*
TestFlow_HappyPath walks the full registration: form → submitting →
awaiting_code → verifying → authenticated.
*/
func TestFlow_HappyPath(t *testing.T) {
	flow := signup.NewFlow()
	assert.Equal(t, signup.StateForm, flow.State())

	require.NoError(t, flow.Submit())
	assert.Equal(t, signup.StateSubmitting, flow.State())

	require.NoError(t, flow.SubmitSucceeded())
	assert.Equal(t, signup.StateAwaitingCode, flow.State())

	require.NoError(t, flow.CodeEntered())
	assert.Equal(t, signup.StateVerifying, flow.State())

	require.NoError(t, flow.VerifySucceeded())
	assert.Equal(t, signup.StateAuthenticated, flow.State())
	assert.Nil(t, flow.Failure())
}

/*
TestFlow_SubmitRejection verifies a rejected sign-up returns to the form
with the failure attached, and the failure clears on the next submit.
*/
func TestFlow_SubmitRejection(t *testing.T) {
	flow := signup.NewFlow()
	require.NoError(t, flow.Submit())

	rejection := apperr.DuplicateUser("User already registered")
	require.NoError(t, flow.SubmitFailed(rejection))

	assert.Equal(t, signup.StateForm, flow.State())
	assert.Equal(t, rejection, flow.Failure())

	require.NoError(t, flow.Submit())
	assert.Nil(t, flow.Failure())
}

/*
TestFlow_WrongCodeAllowsRetry verifies a rejected passcode returns to
awaiting_code, keeping the identity's challenge alive.
*/
func TestFlow_WrongCodeAllowsRetry(t *testing.T) {
	flow := signup.NewFlow()
	require.NoError(t, flow.Submit())
	require.NoError(t, flow.SubmitSucceeded())
	require.NoError(t, flow.CodeEntered())

	require.NoError(t, flow.VerifyFailed(apperr.InvalidCode("wrong code")))
	assert.Equal(t, signup.StateAwaitingCode, flow.State())

	// Retry succeeds.
	require.NoError(t, flow.CodeEntered())
	require.NoError(t, flow.VerifySucceeded())
	assert.Equal(t, signup.StateAuthenticated, flow.State())
}

/*
TestFlow_ExpiredChallengeRestarts verifies an expired challenge sends the
flow all the way back to the form.
*/
func TestFlow_ExpiredChallengeRestarts(t *testing.T) {
	flow := signup.NewFlow()
	require.NoError(t, flow.Submit())
	require.NoError(t, flow.SubmitSucceeded())
	require.NoError(t, flow.CodeEntered())

	require.NoError(t, flow.VerifyFailed(apperr.NotFound("Sign-up challenge")))
	assert.Equal(t, signup.StateForm, flow.State())
}

/*
TestFlow_IllegalTransitions verifies guarded transitions reject skips.
*/
func TestFlow_IllegalTransitions(t *testing.T) {
	flow := signup.NewFlow()

	// Cannot verify from the form.
	assert.Error(t, flow.VerifySucceeded())
	assert.Error(t, flow.CodeEntered())

	// Terminal state accepts nothing.
	require.NoError(t, flow.Submit())
	require.NoError(t, flow.SubmitSucceeded())
	require.NoError(t, flow.CodeEntered())
	require.NoError(t, flow.VerifySucceeded())
	assert.Error(t, flow.Submit())
}
