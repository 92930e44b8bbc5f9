// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package signup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caovandan/caro/internal/platform/apperr"
	"github.com/caovandan/caro/internal/platform/constants"
)

// # Challenge Window

// ChallengeTTL is how long a sign-up may wait for its emailed passcode
// before the registration must be restarted. It matches the provider's
// own code validity window.
const ChallengeTTL = 10 * time.Minute

// Challenge records that an identity was created and awaits verification.
// The name fields allow provisioning to be retried at verify time if the
// post-sign-up bootstrap failed.
type Challenge struct {
	Email     string    `json:"email"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IssuedAt  time.Time `json:"issued_at"`
}

// ChallengeStore persists pending sign-up challenges.
type ChallengeStore interface {
	// Put stores the challenge under its email for the TTL window.
	Put(ctx context.Context, challenge Challenge) error

	// Get retrieves a pending challenge. Absent or expired challenges
	// surface as apperr.NotFound.
	Get(ctx context.Context, email string) (Challenge, error)

	// Delete removes a consumed challenge. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, email string) error
}

// # Redis Implementation

// RedisChallengeStore implements [ChallengeStore] on go-redis. Keys expire
// via Redis TTL, so stale challenges clean themselves up.
type RedisChallengeStore struct {
	client *redis.Client
}

// NewChallengeStore constructs a [RedisChallengeStore].
func NewChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{client: client}
}

/*
Put stores a pending challenge keyed by its normalized email.

Parameters:
  - ctx: context.Context
  - challenge: Challenge

Returns:
  - error: Serialization or connectivity errors
*/
func (store *RedisChallengeStore) Put(ctx context.Context, challenge Challenge) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("redis_challenge_marshal_failed: %w", err)
	}

	key := challengeKey(challenge.Email)
	if err := store.client.Set(ctx, key, payload, ChallengeTTL).Err(); err != nil {
		return fmt.Errorf("redis_challenge_put_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the pending challenge for an email address.

Description: Returns apperr.NotFound when the challenge is absent or its
TTL has elapsed, which callers read as "restart the sign-up".

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - Challenge: The pending registration record
  - error: apperr.NotFound or connectivity errors
*/
func (store *RedisChallengeStore) Get(ctx context.Context, email string) (Challenge, error) {
	payload, err := store.client.Get(ctx, challengeKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Challenge{}, apperr.NotFound("Sign-up challenge")
		}
		return Challenge{}, fmt.Errorf("redis_challenge_get_failed: %w", err)
	}

	var challenge Challenge
	if err := json.Unmarshal(payload, &challenge); err != nil {
		return Challenge{}, fmt.Errorf("redis_challenge_unmarshal_failed: %w", err)
	}

	return challenge, nil
}

/*
Delete removes a consumed or abandoned challenge.
*/
func (store *RedisChallengeStore) Delete(ctx context.Context, email string) error {
	if err := store.client.Del(ctx, challengeKey(email)).Err(); err != nil {
		return fmt.Errorf("redis_challenge_delete_failed: %w", err)
	}
	return nil
}

// challengeKey builds the namespaced Redis key for an email. Emails are
// case-folded so "Ann@B.com" and "ann@b.com" share one challenge.
func challengeKey(email string) string {
	return constants.RedisPrefixOTPChallenge + strings.ToLower(strings.TrimSpace(email))
}
