package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/driftlock/mfahub/internal/mfa/domain"
	"github.com/driftlock/mfahub/internal/mfa/service"
	"github.com/driftlock/mfahub/internal/mfa/store"
	"github.com/driftlock/mfahub/pkg/httpx"
	"github.com/driftlock/mfahub/pkg/slogx"
)

// CommandsHandler dispatches MFA configuration commands. All commands are
// self-service: the authenticated caller must match the path username.
type CommandsHandler struct {
	CommandService *service.CommandService
}

// HandleDisableAll handles POST /v1/users/{username}/mfa/disable
//
//	@Summary		Disable all MFA
//	@Description	Turns off every MFA factor for the user via the account authority.
//	@Description	On success the cached snapshot is invalidated and a confirmation
//	@Description	notification is emitted.
//	@Tags			Commands
//	@Security		BearerAuth
//	@Param			username	path	string	true	"Username"
//	@Success		204			"MFA disabled"
//	@Failure		401			{object}	map[string]string	"Invalid or missing access token"
//	@Failure		403			{object}	map[string]string	"Not the caller's own profile"
//	@Failure		409			{object}	map[string]string	"MFA not enabled"
//	@Failure		502			{object}	map[string]string	"Authority error"
//	@Router			/v1/users/{username}/mfa/disable [post].
func (h *CommandsHandler) HandleDisableAll(w http.ResponseWriter, r *http.Request) {
	username, ok := h.selfOnly(w, r)
	if !ok {
		return
	}

	err := h.CommandService.DisableAllMFA(r.Context(), username)
	h.finish(w, r, username, err)
}

// HandleDisableTOTP handles POST /v1/users/{username}/mfa/totp/disable
//
//	@Summary		Disable TOTP
//	@Description	Turns off the one-time-password factor, leaving other factors intact.
//	@Tags			Commands
//	@Security		BearerAuth
//	@Param			username	path	string	true	"Username"
//	@Success		204			"TOTP disabled"
//	@Failure		401			{object}	map[string]string	"Invalid or missing access token"
//	@Failure		403			{object}	map[string]string	"Not the caller's own profile"
//	@Failure		409			{object}	map[string]string	"TOTP not enabled"
//	@Failure		502			{object}	map[string]string	"Authority error"
//	@Router			/v1/users/{username}/mfa/totp/disable [post].
func (h *CommandsHandler) HandleDisableTOTP(w http.ResponseWriter, r *http.Request) {
	username, ok := h.selfOnly(w, r)
	if !ok {
		return
	}

	err := h.CommandService.DisableTOTP(r.Context(), username)
	h.finish(w, r, username, err)
}

type setDefaultRequest struct {
	Factor domain.Factor `json:"factor"`
}

// HandleSetDefault handles PUT /v1/users/{username}/mfa/default
//
//	@Summary		Set default MFA method
//	@Description	Makes the given factor the account's default method. The factor must
//	@Description	be enabled and must not already be the default.
//	@Tags			Commands
//	@Security		BearerAuth
//	@Accept			json
//	@Param			username	path	string				true	"Username"
//	@Param			request		body	setDefaultRequest	true	"Factor to promote"
//	@Success		204			"Default method updated"
//	@Failure		400			{object}	map[string]string	"Malformed request body"
//	@Failure		401			{object}	map[string]string	"Invalid or missing access token"
//	@Failure		403			{object}	map[string]string	"Not the caller's own profile"
//	@Failure		409			{object}	map[string]string	"Factor not eligible"
//	@Failure		502			{object}	map[string]string	"Authority error"
//	@Router			/v1/users/{username}/mfa/default [put].
func (h *CommandsHandler) HandleSetDefault(w http.ResponseWriter, r *http.Request) {
	username, ok := h.selfOnly(w, r)
	if !ok {
		return
	}

	var req setDefaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if !req.Factor.Valid() {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "unknown factor")
		return
	}

	err := h.CommandService.SetDefaultMethod(r.Context(), username, req.Factor)
	h.finish(w, r, username, err)
}

// selfOnly resolves the path username and rejects commands against other
// users' profiles.
func (h *CommandsHandler) selfOnly(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := r.PathValue("username")
	if httpx.UsernameFromCtx(r.Context()) != username {
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "MFA commands are limited to your own profile")
		return "", false
	}
	return username, true
}

// finish maps a command outcome onto the HTTP response.
func (h *CommandsHandler) finish(w http.ResponseWriter, r *http.Request, username string, err error) {
	if err == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrMFANotEnabled),
		errors.Is(err, service.ErrTOTPNotEnabled),
		errors.Is(err, service.ErrNotEligible):
		httpx.WriteError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "user not found")
	default:
		log.Warn("command failed", "username", username, "err", err)
		httpx.WriteError(w, statusForUpstream(err), "command_failed", "command could not be completed")
	}
}
