package service

import (
	"fmt"

	"github.com/driftlock/mfahub/internal/mfa/domain"
)

// FactorStatus describes one factor's state as derived from the user record.
type FactorStatus struct {
	EnabledCount int  `json:"enabled_count"`
	IsDefault    bool `json:"is_default"`
	IsEnabled    bool `json:"is_enabled"`
}

// TOTPStatus derives the one-time-password factor status. A nil record means
// no snapshot is available and everything reports disabled.
func TOTPStatus(rec *domain.UserRecord) FactorStatus {
	if rec == nil {
		return FactorStatus{}
	}
	count := 0
	if rec.TOTPEnabled {
		count = 1
	}
	return FactorStatus{
		EnabledCount: count,
		IsDefault:    rec.MFAMethod == domain.MethodOneTimePassword,
		IsEnabled:    rec.TOTPEnabled,
	}
}

// SecurityKeyStatus derives the security-key factor status. The factor is
// enabled iff at least one key is registered.
func SecurityKeyStatus(rec *domain.UserRecord) FactorStatus {
	if rec == nil {
		return FactorStatus{}
	}
	count := len(rec.SecurityKeys)
	return FactorStatus{
		EnabledCount: count,
		IsDefault:    rec.MFAMethod == domain.MethodWebAuthn,
		IsEnabled:    count > 0,
	}
}

// WalletStatus derives the wallet factor status. Only wallets flagged for MFA
// count.
func WalletStatus(rec *domain.UserRecord) FactorStatus {
	if rec == nil {
		return FactorStatus{}
	}
	count := len(rec.MFAWallets())
	return FactorStatus{
		EnabledCount: count,
		IsDefault:    rec.MFAMethod == domain.MethodWeb3,
		IsEnabled:    count > 0,
	}
}

// StatusOf dispatches to the per-factor status function.
func StatusOf(rec *domain.UserRecord, f domain.Factor) FactorStatus {
	switch f {
	case domain.FactorTOTP:
		return TOTPStatus(rec)
	case domain.FactorSecurityKey:
		return SecurityKeyStatus(rec)
	case domain.FactorWallet:
		return WalletStatus(rec)
	default:
		return FactorStatus{}
	}
}

// TOTPLabel renders the one-time-password display label.
func TOTPLabel(rec *domain.UserRecord) string {
	if rec == nil || !rec.TOTPEnabled {
		return "Disabled"
	}
	return withDefaultSuffix("Enabled", rec.MFAMethod == domain.MethodOneTimePassword)
}

// SecurityKeyLabel renders the security-key display label with a pluralized
// key count.
func SecurityKeyLabel(rec *domain.UserRecord) string {
	if rec == nil || len(rec.SecurityKeys) == 0 {
		return "Disabled"
	}
	n := len(rec.SecurityKeys)
	label := fmt.Sprintf("%d security key", n)
	if n > 1 {
		label += "s"
	}
	return withDefaultSuffix(label, rec.MFAMethod == domain.MethodWebAuthn)
}

// WalletLabel renders the wallet display label. For a missing record it
// returns "" rather than "Disabled"; the other factors fall back to
// "Disabled". The asymmetry is inherited behavior kept for compatibility with
// existing clients (see DESIGN.md).
func WalletLabel(rec *domain.UserRecord) string {
	if rec == nil {
		return ""
	}
	n := len(rec.MFAWallets())
	if n == 0 {
		return "Disabled"
	}
	label := fmt.Sprintf("%d Wallet", n)
	if n > 1 {
		label += "s"
	}
	return withDefaultSuffix(label, rec.MFAMethod == domain.MethodWeb3)
}

// LabelOf dispatches to the per-factor label function.
func LabelOf(rec *domain.UserRecord, f domain.Factor) string {
	switch f {
	case domain.FactorTOTP:
		return TOTPLabel(rec)
	case domain.FactorSecurityKey:
		return SecurityKeyLabel(rec)
	case domain.FactorWallet:
		return WalletLabel(rec)
	default:
		return ""
	}
}

func withDefaultSuffix(label string, isDefault bool) string {
	if isDefault {
		return label + " (default)"
	}
	return label
}
