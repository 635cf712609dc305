package domain

// Factor is one authentication method contributing to MFA.
type Factor string

const (
	FactorTOTP        Factor = "totp"
	FactorSecurityKey Factor = "security_key"
	FactorWallet      Factor = "wallet"
)

// Factors lists all factors in presentation order.
var Factors = []Factor{FactorTOTP, FactorSecurityKey, FactorWallet}

// Method maps a factor to the MFAMethod value that marks it as default.
func (f Factor) Method() MFAMethod {
	switch f {
	case FactorTOTP:
		return MethodOneTimePassword
	case FactorSecurityKey:
		return MethodWebAuthn
	case FactorWallet:
		return MethodWeb3
	default:
		return MethodNone
	}
}

// Valid reports whether f is one of the known factors.
func (f Factor) Valid() bool {
	switch f {
	case FactorTOTP, FactorSecurityKey, FactorWallet:
		return true
	}
	return false
}
