package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/driftlock/mfahub/internal/mfa/domain"
)

func TestCanMakeDefault(t *testing.T) {
	t.Parallel()

	fullRec := domain.UserRecord{
		MFAEnabled:   true,
		TOTPEnabled:  true,
		SecurityKeys: []domain.SecurityKey{{ID: "k1"}},
		Wallets:      []domain.Wallet{{Address: "0xabc", UseForMFA: true}},
	}

	tests := []struct {
		name   string
		rec    *domain.UserRecord
		factor domain.Factor
		want   bool
	}{
		{"nil record", nil, domain.FactorTOTP, false},
		{"invalid factor", &fullRec, domain.Factor("bogus"), false},
		{"totp disabled", &domain.UserRecord{}, domain.FactorTOTP, false},
		{"totp enabled", &fullRec, domain.FactorTOTP, true},
		{"no keys", &domain.UserRecord{}, domain.FactorSecurityKey, false},
		{"keys present", &fullRec, domain.FactorSecurityKey, true},
		{"no mfa wallets", &domain.UserRecord{Wallets: []domain.Wallet{{Address: "0xabc"}}}, domain.FactorWallet, false},
		{"mfa wallet present", &fullRec, domain.FactorWallet, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, CanMakeDefault(tc.rec, tc.factor))
		})
	}
}

// A factor that is already the default is never eligible again.
func TestCanMakeDefaultRejectsCurrentDefault(t *testing.T) {
	t.Parallel()

	for _, f := range domain.Factors {
		rec := domain.UserRecord{
			MFAEnabled:   true,
			MFAMethod:    f.Method(),
			TOTPEnabled:  true,
			SecurityKeys: []domain.SecurityKey{{ID: "k1"}},
			Wallets:      []domain.Wallet{{Address: "0xabc", UseForMFA: true}},
		}

		require.False(t, CanMakeDefault(&rec, f), "factor %q", f)
		for _, other := range domain.Factors {
			if other == f {
				continue
			}
			require.True(t, CanMakeDefault(&rec, other), "factor %q with default %q", other, f)
		}
	}
}
