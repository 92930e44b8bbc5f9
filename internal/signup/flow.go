// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package signup

import (
	"fmt"
	"sync"

	"github.com/caovandan/caro/internal/platform/apperr"
)

// # Registration State Machine

// State is a phase of the registration flow.
type State string

const (
	// StateForm: collecting credentials; the starting state and the state
	// every failure returns to.
	StateForm State = "form"

	// StateSubmitting: credentials sent to the provider, response pending.
	StateSubmitting State = "submitting"

	// StateAwaitingCode: identity created, waiting for the emailed passcode.
	StateAwaitingCode State = "awaiting_code"

	// StateVerifying: passcode sent to the provider, response pending.
	StateVerifying State = "verifying"

	// StateAuthenticated: terminal success; a session exists.
	StateAuthenticated State = "authenticated"
)

// transitions enumerates every legal state change.
var transitions = map[State][]State{
	StateForm:         {StateSubmitting},
	StateSubmitting:   {StateAwaitingCode, StateForm},
	StateAwaitingCode: {StateVerifying},
	StateVerifying:    {StateAuthenticated, StateAwaitingCode, StateForm},
}

// Flow tracks one registration attempt through its phases.
//
// # Failure Semantics
//
//   - A rejected sign-up (duplicate email, weak password) returns to the
//     form with the failure attached.
//   - A rejected passcode returns to awaiting_code: the identity exists,
//     only the code was wrong, so re-entry is allowed.
//   - An expired challenge returns all the way to the form.
type Flow struct {
	mu      sync.Mutex
	state   State
	failure error
}

// NewFlow constructs a [Flow] in the form state.
func NewFlow() *Flow {
	return &Flow{state: StateForm}
}

// State returns the current phase.
func (flow *Flow) State() State {
	flow.mu.Lock()
	defer flow.mu.Unlock()

	return flow.state
}

// Failure returns the error that sent the flow backwards, if any.
// It is cleared on the next forward transition.
func (flow *Flow) Failure() error {
	flow.mu.Lock()
	defer flow.mu.Unlock()

	return flow.failure
}

// Submit moves form → submitting.
func (flow *Flow) Submit() error {
	return flow.advance(StateSubmitting, nil)
}

// SubmitSucceeded moves submitting → awaiting_code.
func (flow *Flow) SubmitSucceeded() error {
	return flow.advance(StateAwaitingCode, nil)
}

// SubmitFailed moves submitting → form, recording the rejection.
func (flow *Flow) SubmitFailed(cause error) error {
	return flow.advance(StateForm, cause)
}

// CodeEntered moves awaiting_code → verifying.
func (flow *Flow) CodeEntered() error {
	return flow.advance(StateVerifying, nil)
}

// VerifySucceeded moves verifying → authenticated.
func (flow *Flow) VerifySucceeded() error {
	return flow.advance(StateAuthenticated, nil)
}

// VerifyFailed moves verifying → awaiting_code for a wrong code, or all the
// way back to form when the challenge itself expired.
func (flow *Flow) VerifyFailed(cause error) error {
	if apperr.IsCode(cause, "SESSION_EXPIRED") || apperr.IsCode(cause, "NOT_FOUND") {
		return flow.advance(StateForm, cause)
	}
	return flow.advance(StateAwaitingCode, cause)
}

// advance performs one guarded transition.
func (flow *Flow) advance(next State, failure error) error {
	flow.mu.Lock()
	defer flow.mu.Unlock()

	for _, allowed := range transitions[flow.state] {
		if allowed == next {
			flow.state = next
			flow.failure = failure
			return nil
		}
	}

	return fmt.Errorf("signup_flow_illegal_transition: %s -> %s", flow.state, next)
}
