package domain

import "time"

// MFAMethod identifies which factor is the account's default method.
type MFAMethod string

const (
	MethodNone            MFAMethod = "none"
	MethodOneTimePassword MFAMethod = "one_time_password"
	MethodWebAuthn        MFAMethod = "web_auth_n"
	MethodWeb3            MFAMethod = "web3"
)

// SecurityKey is a registered WebAuthn credential descriptor. Registration
// itself happens in the authority's external flow; we only present these.
type SecurityKey struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

// Wallet is a linked signing wallet. Only wallets flagged UseForMFA count
// towards the wallet factor.
type Wallet struct {
	Address   string `json:"address"`
	Chain     string `json:"chain"`
	UseForMFA bool   `json:"use_for_mfa"`
}

// UserRecord is the authority-owned view of a user's MFA configuration.
// It is read-only here: mutations only happen through the authority's
// endpoints, after which the cached snapshot is invalidated and refetched.
type UserRecord struct {
	Username     string        `json:"username"`
	MFAEnabled   bool          `json:"mfa_enabled"`
	MFAMethod    MFAMethod     `json:"mfa_method"`
	TOTPEnabled  bool          `json:"totp_enabled"`
	SecurityKeys []SecurityKey `json:"security_keys"`
	Wallets      []Wallet      `json:"wallets"`
}

// Clone returns a copy of the record with its own slice backing. Command
// payloads are built from clones so the cached snapshot is never aliased.
func (u UserRecord) Clone() UserRecord {
	out := u
	if u.SecurityKeys != nil {
		out.SecurityKeys = make([]SecurityKey, len(u.SecurityKeys))
		copy(out.SecurityKeys, u.SecurityKeys)
	}
	if u.Wallets != nil {
		out.Wallets = make([]Wallet, len(u.Wallets))
		copy(out.Wallets, u.Wallets)
	}
	return out
}

// MFAWallets returns the wallets that participate in MFA.
func (u UserRecord) MFAWallets() []Wallet {
	var out []Wallet
	for _, w := range u.Wallets {
		if w.UseForMFA {
			out = append(out, w)
		}
	}
	return out
}
