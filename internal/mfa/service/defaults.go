package service

import "github.com/driftlock/mfahub/internal/mfa/domain"

// CanMakeDefault reports whether f may become the account's default method:
// the factor must be enabled and must not already be the default. It only
// answers queries; the dispatcher re-derives eligibility before issuing the
// command since the caller's view may be stale.
func CanMakeDefault(rec *domain.UserRecord, f domain.Factor) bool {
	if rec == nil || !f.Valid() {
		return false
	}
	st := StatusOf(rec, f)
	return st.IsEnabled && !st.IsDefault
}
