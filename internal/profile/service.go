// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/caovandan/caro/internal/identity"
	"github.com/caovandan/caro/internal/platform/apperr"
	"github.com/caovandan/caro/internal/platform/metrics"
	"github.com/caovandan/caro/internal/platform/retry"
)

// # Provisioning

// provisionAttempts is the total attempt budget for profile creation.
const provisionAttempts = 3

// provisionBackoffBase is the base delay of the linear backoff between
// provisioning attempts.
const provisionBackoffBase = 200 * time.Millisecond

// Provisioner bootstraps a profile row after a successful sign-up.
//
// # Failure Semantics
//
// Provisioning is best-effort: if every attempt fails, the identity stands
// and the caller receives a PROFILE_PROVISION warning, never a rollback.
// The account works; the profile is created lazily on a later request.
type Provisioner struct {
	repository Repository
	usernames  *UsernameGenerator
	policy     retry.Policy
	recorder   metrics.Recorder
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewProvisioner constructs a [Provisioner] with the default retry policy.
func NewProvisioner(repository Repository, recorder metrics.Recorder, logger *slog.Logger) *Provisioner {
	if recorder == nil {
		recorder = metrics.Noop()
	}
	return &Provisioner{
		repository: repository,
		usernames:  NewUsernameGenerator(),
		policy: retry.Policy{
			MaxAttempts: provisionAttempts,
			Backoff:     retry.Linear(provisionBackoffBase),
		},
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
		newID:    newProfileID,
	}
}

/*
Provision creates the default profile for a newly registered identity.

Description: Generates a username from the identity's name, then inserts a
profile with the light theme and a zeroed game record. Transient insert
failures are retried up to the attempt budget; a username collision gets a
fresh suffix on the next attempt.

Parameters:
  - ctx: context.Context
  - user: *identity.Identity

Returns:
  - *Profile: The created profile, nil if provisioning ultimately failed
  - error: apperr.ProfileProvision on exhaustion; callers treat it as a
    warning, not a failure of the sign-up itself
*/
func (provisioner *Provisioner) Provision(ctx context.Context, user *identity.Identity) (*Profile, error) {
	var created *Profile

	err := provisioner.policy.Do(ctx, func(ctx context.Context) error {
		candidate := &Profile{
			ID:        provisioner.newID(),
			UserID:    user.ID,
			Username:  provisioner.usernames.Generate(user.FirstName, user.LastName),
			Theme:     DefaultTheme,
			CreatedAt: provisioner.now(),
			UpdatedAt: provisioner.now(),
		}

		insertErr := provisioner.repository.Insert(ctx, candidate)
		provisioner.recorder.RecordProvisionAttempt(insertErr == nil)

		if insertErr != nil {
			provisioner.logger.Warn("profile_provision_attempt_failed",
				slog.String("user_id", user.ID),
				slog.String("error", insertErr.Error()),
			)
			return insertErr
		}

		created = candidate
		return nil
	})

	if err != nil {
		provisioner.logger.Error("profile_provision_exhausted",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, apperr.ProfileProvision(err)
	}

	provisioner.logger.Info("profile_provisioned",
		slog.String("user_id", user.ID),
		slog.String("username", created.Username),
	)

	return created, nil
}

/*
Ensure returns the player's profile, provisioning it on the spot when the
post-sign-up bootstrap never landed.

Parameters:
  - ctx: context.Context
  - user: *identity.Identity

Returns:
  - *Profile: Existing or freshly created profile
  - error: Lookup failures or apperr.ProfileProvision
*/
func (provisioner *Provisioner) Ensure(ctx context.Context, user *identity.Identity) (*Profile, error) {
	existing, err := provisioner.repository.FindByUserID(ctx, user.ID)
	if err == nil {
		return existing, nil
	}

	if !apperr.IsCode(err, "NOT_FOUND") {
		return nil, fmt.Errorf("profile_ensure_lookup_failed: %w", err)
	}

	return provisioner.Provision(ctx, user)
}

// newProfileID issues a time-ordered UUID for the profile primary key.
func newProfileID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
