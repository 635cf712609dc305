package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/driftlock/mfahub/internal/mfa/store"
	"github.com/driftlock/mfahub/pkg/httpx"
	"github.com/driftlock/mfahub/pkg/slogx"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

// JournalHandler serves the command audit trail.
type JournalHandler struct {
	Journal store.Journal
}

type journalEntryResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Factor    string    `json:"factor,omitempty"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type journalResponse struct {
	Entries []journalEntryResponse `json:"entries"`
}

// HandleRecent handles GET /v1/mfa/journal
//
//	@Summary		Recent command journal
//	@Description	Returns the most recent dispatched commands and their outcomes,
//	@Description	newest first.
//	@Tags			Journal
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int	false	"Max entries (default 50, cap 500)"
//	@Success		200		{object}	journalResponse
//	@Failure		401		{object}	map[string]string	"Invalid or missing access token"
//	@Failure		500		{object}	map[string]string	"Internal server error"
//	@Router			/v1/mfa/journal [get].
func (h *JournalHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	limit := defaultJournalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = min(n, maxJournalLimit)
	}

	entries, err := h.Journal.Recent(ctx, limit)
	if err != nil {
		log.Error("failed to read journal", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "failed to read journal")
		return
	}

	resp := journalResponse{Entries: make([]journalEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, journalEntryResponse{
			ID:        e.ID,
			Username:  e.Username,
			Command:   e.Command,
			Factor:    e.Factor,
			Outcome:   e.Outcome,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
