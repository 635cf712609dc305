package http

import (
	"errors"
	"net/http"

	"github.com/driftlock/mfahub/internal/mfa/service"
	"github.com/driftlock/mfahub/pkg/authority"
	"github.com/driftlock/mfahub/pkg/httpx"
	"github.com/driftlock/mfahub/pkg/slogx"
)

// SettingsHandler serves the per-user MFA settings view.
type SettingsHandler struct {
	SettingsService *service.SettingsService
}

// HandleGet handles GET /v1/users/{username}/mfa
//
//	@Summary		MFA settings view
//	@Description	Returns the factor settings projection for a user: labels, statuses,
//	@Description	and, when the caller requests edit mode on their own profile, the
//	@Description	actions available per factor. Other users' profiles are read-only.
//	@Tags			Settings
//	@Security		BearerAuth
//	@Produce		json
//	@Param			username	path		string	true	"Username"
//	@Param			edit		query		bool	false	"Request edit mode (self only)"
//	@Success		200			{object}	service.ViewState
//	@Failure		401			{object}	map[string]string	"Invalid or missing access token"
//	@Failure		500			{object}	map[string]string	"Internal server error"
//	@Router			/v1/users/{username}/mfa [get].
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := r.PathValue("username")
	caller := httpx.UsernameFromCtx(ctx)

	viewer := service.Viewer{
		Username: caller,
		IsSelf:   caller == username,
		EditMode: r.URL.Query().Get("edit") == "true",
	}

	state, err := h.SettingsService.ViewState(ctx, username, viewer)
	if err != nil {
		log.Error("failed to build settings view", "username", username, "err", err)
		httpx.WriteError(w, statusForUpstream(err), "server_error", "failed to load MFA settings")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, state)
}

// statusForUpstream maps upstream/store failures onto a response code.
// Authority-side errors surface as 502 so callers can distinguish our
// failures from the authority being down.
func statusForUpstream(err error) int {
	var apiErr *authority.APIError
	if errors.As(err, &apiErr) || errors.Is(err, authority.ErrNotFound) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
