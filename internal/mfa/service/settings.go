package service

import (
	"context"
	"errors"

	"github.com/driftlock/mfahub/internal/mfa/domain"
	"github.com/driftlock/mfahub/internal/mfa/store"
)

// ErrReadOnly is returned when a mutating view operation is requested by a
// viewer without edit rights.
var ErrReadOnly = errors.New("MFA settings are read-only for this viewer")

// Mode is the display mode of the settings view.
type Mode string

const (
	ModeEditable Mode = "editable"
	ModeReadOnly Mode = "read_only"
)

// Viewer describes who is looking at the settings. Editable requires both
// viewing one's own profile and edit mode being active.
type Viewer struct {
	Username string
	IsSelf   bool
	EditMode bool
}

func (v Viewer) Editable() bool { return v.IsSelf && v.EditMode }

// Actions are the per-factor operations offered to an editable view. They are
// the structural enforcement of the default-validity invariant: an action that
// is not offered cannot be requested from the view.
type Actions struct {
	CanDisable     bool              `json:"can_disable"`
	CanMakeDefault bool              `json:"can_make_default"`
	Register       *domain.DialogRef `json:"register,omitempty"`
}

// FactorView is one factor's presentation state.
type FactorView struct {
	Factor  domain.Factor `json:"factor"`
	Label   string        `json:"label"`
	Status  FactorStatus  `json:"status"`
	Actions *Actions      `json:"actions,omitempty"`
}

// ViewState is the full settings projection handed to the presentation layer.
type ViewState struct {
	Username      string       `json:"username"`
	Mode          Mode         `json:"mode"`
	CanDisableAll bool         `json:"can_disable_all"`
	Factors       []FactorView `json:"factors"`
}

// SettingsService projects the authoritative snapshot into view state. It has
// no state machine of its own: mode and actions are re-derived from the
// snapshot and viewer flags on every call.
type SettingsService struct {
	Profiles store.ProfileStore
}

// ViewState builds the settings view for username as seen by viewer. A user
// unknown to the authority yields an absent-record view rather than an error:
// labels degrade and no actions are offered.
func (s *SettingsService) ViewState(ctx context.Context, username string, viewer Viewer) (ViewState, error) {
	var rec *domain.UserRecord
	current, err := s.Profiles.Current(ctx, username)
	switch {
	case err == nil:
		rec = &current
	case errors.Is(err, store.ErrNotFound):
		// absent record
	default:
		return ViewState{}, err
	}

	return project(username, rec, viewer), nil
}

// RegisterTOTP requests the external TOTP enrollment dialog. The flow itself
// runs outside this service.
func (s *SettingsService) RegisterTOTP(_ context.Context, username string, viewer Viewer) (domain.DialogRef, error) {
	if !viewer.Editable() {
		return domain.DialogRef{}, ErrReadOnly
	}
	return domain.DialogRef{
		ID:     domain.DialogTOTPRegister,
		Params: map[string]string{"username": username},
	}, nil
}

// ManageSecurityKeys requests the external security-key management dialog.
func (s *SettingsService) ManageSecurityKeys(_ context.Context, username string, viewer Viewer) (domain.DialogRef, error) {
	if !viewer.Editable() {
		return domain.DialogRef{}, ErrReadOnly
	}
	return domain.DialogRef{
		ID:     domain.DialogSecurityKeysManage,
		Params: map[string]string{"username": username},
	}, nil
}

func project(username string, rec *domain.UserRecord, viewer Viewer) ViewState {
	state := ViewState{
		Username: username,
		Mode:     ModeReadOnly,
	}
	if viewer.Editable() {
		state.Mode = ModeEditable
		state.CanDisableAll = rec != nil && rec.MFAEnabled
	}

	for _, f := range domain.Factors {
		view := FactorView{
			Factor: f,
			Label:  LabelOf(rec, f),
			Status: StatusOf(rec, f),
		}
		if state.Mode == ModeEditable {
			view.Actions = actionsFor(username, rec, f)
		}
		state.Factors = append(state.Factors, view)
	}
	return state
}

func actionsFor(username string, rec *domain.UserRecord, f domain.Factor) *Actions {
	a := &Actions{
		CanMakeDefault: CanMakeDefault(rec, f),
	}

	switch f {
	case domain.FactorTOTP:
		a.CanDisable = rec != nil && rec.TOTPEnabled
		if rec == nil || !rec.TOTPEnabled {
			a.Register = &domain.DialogRef{
				ID:     domain.DialogTOTPRegister,
				Params: map[string]string{"username": username},
			}
		}
	case domain.FactorSecurityKey:
		// Keys are added and removed in their own management flow.
		a.Register = &domain.DialogRef{
			ID:     domain.DialogSecurityKeysManage,
			Params: map[string]string{"username": username},
		}
	case domain.FactorWallet:
		// Wallet linking lives in wallet settings; nothing to offer here
		// beyond make-default.
	}
	return a
}
