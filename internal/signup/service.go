// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package signup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caovandan/caro/internal/identity"
	"github.com/caovandan/caro/internal/platform/apperr"
	"github.com/caovandan/caro/internal/profile"
)

// # Provider Contract

// IdentityProvider is the slice of the identity facade the controller uses.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, firstName, lastName string) (*identity.Identity, error)
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	VerifyOTP(ctx context.Context, email, code string) (*identity.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ProfileProvisioner bootstraps the application profile after sign-up.
type ProfileProvisioner interface {
	// Provision creates the default profile for a new identity.
	Provision(ctx context.Context, user *identity.Identity) (*profile.Profile, error)

	// Ensure returns the existing profile or provisions a missing one.
	Ensure(ctx context.Context, user *identity.Identity) (*profile.Profile, error)
}

// # Controller

// Controller orchestrates the registration and sign-in flows across the
// identity provider, the profile store, and the challenge window.
type Controller struct {
	provider    IdentityProvider
	provisioner ProfileProvisioner
	challenges  ChallengeStore
	logger      *slog.Logger
	now         func() time.Time
}

// NewController constructs a [Controller].
func NewController(
	provider IdentityProvider,
	provisioner ProfileProvisioner,
	challenges ChallengeStore,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		provider:    provider,
		provisioner: provisioner,
		challenges:  challenges,
		logger:      logger,
		now:         time.Now,
	}
}

// SignUpResult is the outcome of a successful registration submission.
type SignUpResult struct {
	// User is the provider identity awaiting email confirmation.
	User *identity.Identity `json:"user"`

	// State is the flow phase the client should render next.
	State State `json:"state"`

	// Warning is set when the identity was created but profile
	// provisioning exhausted its retries.
	Warning string `json:"-"`
}

/*
BeginSignUp validates the form, registers the identity, provisions the
profile, and opens the challenge window for the emailed passcode.

Description: Profile provisioning is best-effort — its failure is reported
as a warning on an otherwise successful result, never as a rollback of the
created identity. The provisioner retries internally before giving up.

Parameters:
  - ctx: context.Context
  - credentials: Credentials

Returns:
  - *SignUpResult: Identity plus the awaiting_code state, nil on failure
  - error: VALIDATION_ERROR, DUPLICATE_USER, or PROVIDER_ERROR
*/
func (controller *Controller) BeginSignUp(ctx context.Context, credentials Credentials) (*SignUpResult, error) {
	flow := NewFlow()

	if err := credentials.Validate(); err != nil {
		return nil, err
	}
	if err := flow.Submit(); err != nil {
		return nil, apperr.Internal(err)
	}

	user, err := controller.provider.SignUp(ctx,
		credentials.Email,
		credentials.Password,
		credentials.FirstName,
		credentials.LastName,
	)
	if err != nil {
		// The provider error is the caller's answer; a transition failure
		// here would mean the guard table itself is wrong.
		if transitionErr := flow.SubmitFailed(err); transitionErr != nil {
			controller.logger.Error("signup_flow_guard_violated",
				slog.String("error", transitionErr.Error()),
			)
		}
		return nil, err
	}
	if err := flow.SubmitSucceeded(); err != nil {
		return nil, apperr.Internal(err)
	}

	result := &SignUpResult{User: user, State: flow.State()}

	// Best-effort bootstrap. The account stands even if this exhausts.
	if _, provisionErr := controller.provisioner.Provision(ctx, user); provisionErr != nil {
		if appError := apperr.As(provisionErr); appError != nil {
			result.Warning = appError.Message
		} else {
			result.Warning = provisionErr.Error()
		}
	}

	challenge := Challenge{
		Email:     credentials.Email,
		UserID:    user.ID,
		FirstName: credentials.FirstName,
		LastName:  credentials.LastName,
		IssuedAt:  controller.now(),
	}
	if err := controller.challenges.Put(ctx, challenge); err != nil {
		// The provider already emailed the code; losing the challenge
		// record forces a restart, so surface it.
		return nil, fmt.Errorf("signup_challenge_store_failed: %w", err)
	}

	controller.logger.Info("signup_submitted",
		slog.String("user_id", user.ID),
		slog.Bool("profile_provisioned", result.Warning == ""),
	)

	return result, nil
}

/*
CompleteSignUp verifies the emailed passcode and produces the session.

Description: Requires an open challenge for the email — a verify request
with no pending challenge (expired window, never signed up) is rejected
before the provider is consulted. On success the challenge is consumed and
profile provisioning is retried if the bootstrap at sign-up time failed.

Parameters:
  - ctx: context.Context
  - email: string
  - code: string (arbitrary input; digits are extracted)

Returns:
  - *identity.Session: Complete token pair for the cookie store
  - string: Non-fatal provisioning warning, empty on clean success
  - error: NOT_FOUND (challenge expired), INVALID_CODE, or PROVIDER_ERROR
*/
func (controller *Controller) CompleteSignUp(ctx context.Context, email, code string) (*identity.Session, string, error) {
	challenge, err := controller.challenges.Get(ctx, email)
	if err != nil {
		return nil, "", err
	}

	// The collector applies the same digit filtering the entry widget
	// does, so "123 456" verifies and "1234" is rejected without a
	// provider round-trip. The challenge stays open either way.
	collector := NewCollector(nil)
	if !collector.Paste(code) {
		return nil, "", apperr.InvalidCode("Passcode must be 6 digits")
	}

	authenticated, err := controller.provider.VerifyOTP(ctx, email, collector.Code())
	if err != nil {
		// Wrong code keeps the challenge open for another attempt.
		return nil, "", err
	}

	if deleteErr := controller.challenges.Delete(ctx, email); deleteErr != nil {
		controller.logger.Warn("signup_challenge_cleanup_failed",
			slog.String("error", deleteErr.Error()),
		)
	}

	warning := controller.ensureProfile(ctx, authenticated, challenge)

	controller.logger.Info("signup_completed", slog.String("user_id", challenge.UserID))

	return authenticated, warning, nil
}

// ensureProfile retries provisioning at verify time for accounts whose
// bootstrap failed at sign-up. Returns a warning message or "".
func (controller *Controller) ensureProfile(ctx context.Context, authenticated *identity.Session, challenge Challenge) string {
	user := authenticated.User
	if user == nil {
		user = &identity.Identity{
			ID:        challenge.UserID,
			Email:     challenge.Email,
			FirstName: challenge.FirstName,
			LastName:  challenge.LastName,
		}
	}

	if _, err := controller.provisioner.Ensure(ctx, user); err != nil {
		if appError := apperr.As(err); appError != nil {
			return appError.Message
		}
		return err.Error()
	}
	return ""
}

/*
Login validates the sign-in form and exchanges it for a session.

Parameters:
  - ctx: context.Context
  - credentials: LoginCredentials

Returns:
  - *identity.Session: Complete token pair for the cookie store
  - error: VALIDATION_ERROR, INVALID_CREDENTIALS, or PROVIDER_ERROR
*/
func (controller *Controller) Login(ctx context.Context, credentials LoginCredentials) (*identity.Session, error) {
	if err := credentials.Validate(); err != nil {
		return nil, err
	}

	authenticated, err := controller.provider.SignIn(ctx, credentials.Email, credentials.Password)
	if err != nil {
		return nil, err
	}

	return authenticated, nil
}

/*
Logout revokes the session at the provider.

Description: Idempotent — an already-dead token is a success, because the
end state (no valid session) is what the caller asked for.
*/
func (controller *Controller) Logout(ctx context.Context, accessToken string) error {
	return controller.provider.SignOut(ctx, accessToken)
}
