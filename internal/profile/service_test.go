// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caovandan/caro/internal/identity"
	"github.com/caovandan/caro/internal/platform/apperr"
)

// fakeRepository scripts Insert failures for provisioning tests.
type fakeRepository struct {
	insertErrs []error
	inserted   []*Profile
	existing   *Profile
	findErr    error
}

func (f *fakeRepository) Insert(_ context.Context, record *Profile) error {
	var err error
	if len(f.insertErrs) > 0 {
		err, f.insertErrs = f.insertErrs[0], f.insertErrs[1:]
	}
	if err == nil {
		f.inserted = append(f.inserted, record)
	}
	return err
}

func (f *fakeRepository) FindByUserID(_ context.Context, _ string) (*Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.existing, nil
}

func (f *fakeRepository) ApplyResult(_ context.Context, _ string, _ GameOutcome) error { return nil }
func (f *fakeRepository) UpdateTheme(_ context.Context, _, _ string) error             { return nil }

func newTestProvisioner(repository Repository) *Provisioner {
	provisioner := NewProvisioner(repository, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	provisioner.policy.Sleep = func(context.Context, time.Duration) {}
	return provisioner
}

var testUser = &identity.Identity{
	ID:        "user-1",
	Email:     "a@b.com",
	FirstName: "Ann",
	LastName:  "Lee",
}

/*
TestProvisioner_Provision_Defaults verifies a fresh profile starts with the
light theme and a zeroed game record.
*/
func TestProvisioner_Provision_Defaults(t *testing.T) {
	repository := &fakeRepository{}
	provisioner := newTestProvisioner(repository)

	created, err := provisioner.Provision(context.Background(), testUser)
	require.NoError(t, err)

	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, DefaultTheme, created.Theme)
	assert.Regexp(t, `^annlee\d{1,3}$`, created.Username)
	assert.Zero(t, created.GamesWon)
	assert.Zero(t, created.GamesLost)
	assert.Zero(t, created.GamesDrawn)
	assert.NotEmpty(t, created.ID)

	require.Len(t, repository.inserted, 1)
}

/*
TestProvisioner_Provision_RecoversWithinBudget verifies two failures
followed by a success yield a profile with exactly three attempts spent.
*/
func TestProvisioner_Provision_RecoversWithinBudget(t *testing.T) {
	repository := &fakeRepository{
		insertErrs: []error{
			errors.New("connection reset"),
			errors.New("connection reset"),
		},
	}
	provisioner := newTestProvisioner(repository)

	created, err := provisioner.Provision(context.Background(), testUser)
	require.NoError(t, err)
	require.NotNil(t, created)
	require.Len(t, repository.inserted, 1)
}

/*
TestProvisioner_Provision_Exhaustion verifies persistent failure yields the
non-fatal PROFILE_PROVISION error after exactly three attempts.
*/
func TestProvisioner_Provision_Exhaustion(t *testing.T) {
	attempts := 0
	failing := errors.New("storage down")
	repository := &fakeRepository{
		insertErrs: []error{failing, failing, failing, failing, failing},
	}

	provisioner := newTestProvisioner(repository)
	provisioner.newID = func() string { attempts++; return "id" }

	created, err := provisioner.Provision(context.Background(), testUser)
	require.Error(t, err)
	assert.Nil(t, created)
	assert.True(t, apperr.IsCode(err, "PROFILE_PROVISION"))
	assert.Equal(t, provisionAttempts, attempts)
	assert.Empty(t, repository.inserted)
}

/*
TestProvisioner_Ensure verifies the lazy-provisioning path.
*/
func TestProvisioner_Ensure(t *testing.T) {
	t.Run("existing_profile_returned", func(t *testing.T) {
		existing := &Profile{ID: "p-1", UserID: "user-1", Username: "annlee7"}
		repository := &fakeRepository{existing: existing}
		provisioner := newTestProvisioner(repository)

		found, err := provisioner.Ensure(context.Background(), testUser)
		require.NoError(t, err)
		assert.Equal(t, existing, found)
		assert.Empty(t, repository.inserted)
	})

	t.Run("missing_profile_provisioned", func(t *testing.T) {
		repository := &fakeRepository{findErr: apperr.NotFound("Profile")}
		provisioner := newTestProvisioner(repository)

		created, err := provisioner.Ensure(context.Background(), testUser)
		require.NoError(t, err)
		assert.Equal(t, "user-1", created.UserID)
		require.Len(t, repository.inserted, 1)
	})

	t.Run("lookup_fault_propagates", func(t *testing.T) {
		repository := &fakeRepository{findErr: apperr.Internal(errors.New("pool closed"))}
		provisioner := newTestProvisioner(repository)

		_, err := provisioner.Ensure(context.Background(), testUser)
		require.Error(t, err)
		assert.Empty(t, repository.inserted)
	})
}
