package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/driftlock/mfahub/internal/mfa/domain"
	"github.com/driftlock/mfahub/internal/mfa/store"
)

func TestViewStateEditable(t *testing.T) {
	t.Parallel()

	profiles := &fakeProfiles{rec: enabledRecord()}
	svc := &SettingsService{Profiles: profiles}
	viewer := Viewer{Username: "alice", IsSelf: true, EditMode: true}

	state, err := svc.ViewState(context.Background(), "alice", viewer)
	require.NoError(t, err)

	require.Equal(t, "alice", state.Username)
	require.Equal(t, ModeEditable, state.Mode)
	require.True(t, state.CanDisableAll)
	require.Len(t, state.Factors, len(domain.Factors))

	byFactor := map[domain.Factor]FactorView{}
	for _, fv := range state.Factors {
		byFactor[fv.Factor] = fv
	}

	totp := byFactor[domain.FactorTOTP]
	require.Equal(t, "Enabled (default)", totp.Label)
	require.NotNil(t, totp.Actions)
	require.True(t, totp.Actions.CanDisable)
	// Already the default, so not eligible again.
	require.False(t, totp.Actions.CanMakeDefault)
	// TOTP is enrolled; no register dialog to offer.
	require.Nil(t, totp.Actions.Register)

	keys := byFactor[domain.FactorSecurityKey]
	require.Equal(t, "1 security key", keys.Label)
	require.NotNil(t, keys.Actions)
	require.True(t, keys.Actions.CanMakeDefault)
	require.NotNil(t, keys.Actions.Register)
	require.Equal(t, domain.DialogSecurityKeysManage, keys.Actions.Register.ID)

	wallet := byFactor[domain.FactorWallet]
	require.Equal(t, "1 Wallet", wallet.Label)
	require.NotNil(t, wallet.Actions)
	require.True(t, wallet.Actions.CanMakeDefault)
	require.Nil(t, wallet.Actions.Register)
}

func TestViewStateReadOnly(t *testing.T) {
	t.Parallel()

	profiles := &fakeProfiles{rec: enabledRecord()}
	svc := &SettingsService{Profiles: profiles}

	viewers := []Viewer{
		{Username: "bob", IsSelf: false, EditMode: true},
		{Username: "alice", IsSelf: true, EditMode: false},
	}

	for _, viewer := range viewers {
		state, err := svc.ViewState(context.Background(), "alice", viewer)
		require.NoError(t, err)

		require.Equal(t, ModeReadOnly, state.Mode)
		require.False(t, state.CanDisableAll)
		for _, fv := range state.Factors {
			// Read-only views carry labels and statuses but no actions.
			require.Nil(t, fv.Actions, "factor %q", fv.Factor)
			require.NotEmpty(t, fv.Label)
		}
	}
}

func TestViewStateAbsentRecord(t *testing.T) {
	t.Parallel()

	profiles := &fakeProfiles{err: store.ErrNotFound}
	svc := &SettingsService{Profiles: profiles}
	viewer := Viewer{Username: "ghost", IsSelf: true, EditMode: true}

	state, err := svc.ViewState(context.Background(), "ghost", viewer)
	require.NoError(t, err)

	require.Equal(t, ModeEditable, state.Mode)
	require.False(t, state.CanDisableAll)

	byFactor := map[domain.Factor]FactorView{}
	for _, fv := range state.Factors {
		byFactor[fv.Factor] = fv
	}

	require.Equal(t, "Disabled", byFactor[domain.FactorTOTP].Label)
	require.Equal(t, "Disabled", byFactor[domain.FactorSecurityKey].Label)
	require.Equal(t, "", byFactor[domain.FactorWallet].Label)

	totp := byFactor[domain.FactorTOTP]
	require.NotNil(t, totp.Actions)
	require.False(t, totp.Actions.CanDisable)
	require.False(t, totp.Actions.CanMakeDefault)
	require.NotNil(t, totp.Actions.Register)
	require.Equal(t, domain.DialogTOTPRegister, totp.Actions.Register.ID)
}

func TestViewStatePropagatesStoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("redis down")
	profiles := &fakeProfiles{err: storeErr}
	svc := &SettingsService{Profiles: profiles}

	_, err := svc.ViewState(context.Background(), "alice", Viewer{})
	require.ErrorIs(t, err, storeErr)
}

func TestRegisterTOTPDialog(t *testing.T) {
	t.Parallel()

	svc := &SettingsService{}
	editable := Viewer{Username: "alice", IsSelf: true, EditMode: true}

	ref, err := svc.RegisterTOTP(context.Background(), "alice", editable)
	require.NoError(t, err)
	require.Equal(t, domain.DialogTOTPRegister, ref.ID)
	require.Equal(t, "alice", ref.Params["username"])

	_, err = svc.RegisterTOTP(context.Background(), "alice", Viewer{Username: "bob"})
	require.ErrorIs(t, err, ErrReadOnly)
}

func TestManageSecurityKeysDialog(t *testing.T) {
	t.Parallel()

	svc := &SettingsService{}
	editable := Viewer{Username: "alice", IsSelf: true, EditMode: true}

	ref, err := svc.ManageSecurityKeys(context.Background(), "alice", editable)
	require.NoError(t, err)
	require.Equal(t, domain.DialogSecurityKeysManage, ref.ID)
	require.Equal(t, "alice", ref.Params["username"])

	_, err = svc.ManageSecurityKeys(context.Background(), "alice", Viewer{Username: "alice", IsSelf: true})
	require.ErrorIs(t, err, ErrReadOnly)
}
