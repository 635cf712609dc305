package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/driftlock/mfahub/internal/mfa/domain"
	"github.com/driftlock/mfahub/internal/mfa/service"
	"github.com/driftlock/mfahub/pkg/httpx"
)

// DialogsHandler hands out directives for the authority-hosted enrollment and
// management flows. Nothing is mutated here; the client follows the directive
// and the settings view picks up the result after the flow completes.
type DialogsHandler struct {
	SettingsService *service.SettingsService
}

// HandleRegisterTOTP handles POST /v1/users/{username}/mfa/totp/register
//
//	@Summary		Request TOTP enrollment
//	@Description	Returns a directive for the external TOTP enrollment dialog.
//	@Tags			Dialogs
//	@Security		BearerAuth
//	@Produce		json
//	@Param			username	path		string	true	"Username"
//	@Success		202			{object}	domain.DialogRef
//	@Failure		401			{object}	map[string]string	"Invalid or missing access token"
//	@Failure		403			{object}	map[string]string	"View is read-only"
//	@Router			/v1/users/{username}/mfa/totp/register [post].
func (h *DialogsHandler) HandleRegisterTOTP(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.SettingsService.RegisterTOTP)
}

// HandleManageSecurityKeys handles POST /v1/users/{username}/mfa/security-keys
//
//	@Summary		Request security-key management
//	@Description	Returns a directive for the external security-key management dialog.
//	@Tags			Dialogs
//	@Security		BearerAuth
//	@Produce		json
//	@Param			username	path		string	true	"Username"
//	@Success		202			{object}	domain.DialogRef
//	@Failure		401			{object}	map[string]string	"Invalid or missing access token"
//	@Failure		403			{object}	map[string]string	"View is read-only"
//	@Router			/v1/users/{username}/mfa/security-keys [post].
func (h *DialogsHandler) HandleManageSecurityKeys(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.SettingsService.ManageSecurityKeys)
}

type dialogFunc = func(ctx context.Context, username string, viewer service.Viewer) (domain.DialogRef, error)

func (h *DialogsHandler) serve(w http.ResponseWriter, r *http.Request, fn dialogFunc) {
	ctx := r.Context()
	username := r.PathValue("username")
	caller := httpx.UsernameFromCtx(ctx)

	viewer := service.Viewer{
		Username: caller,
		IsSelf:   caller == username,
		EditMode: true, // requesting a dialog implies edit intent
	}

	ref, err := fn(ctx, username, viewer)
	if err != nil {
		if errors.Is(err, service.ErrReadOnly) {
			httpx.WriteError(w, http.StatusForbidden, "read_only", err.Error())
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "failed to open dialog")
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, ref)
}
