package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/driftlock/mfahub/internal/mfa/domain"
)

func TestTOTPLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  *domain.UserRecord
		want string
	}{
		{"nil record", nil, "Disabled"},
		{"disabled", &domain.UserRecord{}, "Disabled"},
		{"enabled not default", &domain.UserRecord{TOTPEnabled: true}, "Enabled"},
		{
			"enabled and default",
			&domain.UserRecord{TOTPEnabled: true, MFAMethod: domain.MethodOneTimePassword},
			"Enabled (default)",
		},
		{
			"default method set but totp off",
			&domain.UserRecord{MFAMethod: domain.MethodOneTimePassword},
			"Disabled",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, TOTPLabel(tc.rec))
		})
	}
}

func TestSecurityKeyLabel(t *testing.T) {
	t.Parallel()

	keys := func(n int) []domain.SecurityKey {
		out := make([]domain.SecurityKey, n)
		return out
	}

	tests := []struct {
		name string
		rec  *domain.UserRecord
		want string
	}{
		{"nil record", nil, "Disabled"},
		{"no keys", &domain.UserRecord{}, "Disabled"},
		{"one key", &domain.UserRecord{SecurityKeys: keys(1)}, "1 security key"},
		{"two keys", &domain.UserRecord{SecurityKeys: keys(2)}, "2 security keys"},
		{
			"one key default",
			&domain.UserRecord{SecurityKeys: keys(1), MFAMethod: domain.MethodWebAuthn},
			"1 security key (default)",
		},
		{
			"three keys default",
			&domain.UserRecord{SecurityKeys: keys(3), MFAMethod: domain.MethodWebAuthn},
			"3 security keys (default)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, SecurityKeyLabel(tc.rec))
		})
	}
}

func TestWalletLabel(t *testing.T) {
	t.Parallel()

	wallets := func(mfa, other int) []domain.Wallet {
		var out []domain.Wallet
		for range mfa {
			out = append(out, domain.Wallet{UseForMFA: true})
		}
		for range other {
			out = append(out, domain.Wallet{})
		}
		return out
	}

	tests := []struct {
		name string
		rec  *domain.UserRecord
		want string
	}{
		// A missing record renders empty, not "Disabled"; only the wallet
		// factor behaves this way.
		{"nil record", nil, ""},
		{"no wallets", &domain.UserRecord{}, "Disabled"},
		{"only non-mfa wallets", &domain.UserRecord{Wallets: wallets(0, 2)}, "Disabled"},
		{"one wallet", &domain.UserRecord{Wallets: wallets(1, 0)}, "1 Wallet"},
		{"two wallets", &domain.UserRecord{Wallets: wallets(2, 1)}, "2 Wallets"},
		{
			"one wallet default",
			&domain.UserRecord{Wallets: wallets(1, 0), MFAMethod: domain.MethodWeb3},
			"1 Wallet (default)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, WalletLabel(tc.rec))
		})
	}
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	rec := &domain.UserRecord{
		MFAEnabled:  true,
		MFAMethod:   domain.MethodWebAuthn,
		TOTPEnabled: true,
		SecurityKeys: []domain.SecurityKey{
			{ID: "k1", Name: "yubikey"},
			{ID: "k2", Name: "backup"},
		},
		Wallets: []domain.Wallet{
			{Address: "0xabc", UseForMFA: true},
			{Address: "0xdef", UseForMFA: false},
		},
	}

	require.Equal(t, FactorStatus{EnabledCount: 1, IsEnabled: true}, StatusOf(rec, domain.FactorTOTP))
	require.Equal(t, FactorStatus{EnabledCount: 2, IsDefault: true, IsEnabled: true}, StatusOf(rec, domain.FactorSecurityKey))
	require.Equal(t, FactorStatus{EnabledCount: 1, IsEnabled: true}, StatusOf(rec, domain.FactorWallet))
	require.Equal(t, FactorStatus{}, StatusOf(rec, domain.Factor("bogus")))
	require.Equal(t, FactorStatus{}, StatusOf(nil, domain.FactorSecurityKey))
}

// At most one factor can report IsDefault, whatever the record says.
func TestAtMostOneDefault(t *testing.T) {
	t.Parallel()

	methods := []domain.MFAMethod{
		domain.MethodNone,
		domain.MethodOneTimePassword,
		domain.MethodWebAuthn,
		domain.MethodWeb3,
	}

	rec := &domain.UserRecord{
		MFAEnabled:   true,
		TOTPEnabled:  true,
		SecurityKeys: []domain.SecurityKey{{ID: "k1"}},
		Wallets:      []domain.Wallet{{Address: "0xabc", UseForMFA: true}},
	}

	for _, m := range methods {
		rec.MFAMethod = m

		defaults := 0
		for _, f := range domain.Factors {
			if StatusOf(rec, f).IsDefault {
				defaults++
			}
		}
		require.LessOrEqual(t, defaults, 1, "method %q", m)
	}
}
