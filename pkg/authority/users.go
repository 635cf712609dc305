package authority

import (
	"context"
	"net/http"
	"net/url"

	"github.com/driftlock/mfahub/internal/mfa/domain"
)

// GetUser fetches the authoritative record for username.
// Returns ErrNotFound when the authority has no such user.
func (c *Client) GetUser(ctx context.Context, username string) (domain.UserRecord, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(username), nil)
	if err != nil {
		return domain.UserRecord{}, err
	}

	var rec domain.UserRecord
	if err := decodeJSON(resp, &rec, http.StatusOK); err != nil {
		return domain.UserRecord{}, err
	}
	return rec, nil
}

// EditUser replaces the user record with data and returns the stored result.
// Used by SetDefaultMethod with a clone of the current record carrying the new
// default; the authority validates the rest.
func (c *Client) EditUser(ctx context.Context, username string, data domain.UserRecord) (domain.UserRecord, error) {
	resp, err := c.do(ctx, http.MethodPut, "/v1/users/"+url.PathEscape(username), data)
	if err != nil {
		return domain.UserRecord{}, err
	}

	var rec domain.UserRecord
	if err := decodeJSON(resp, &rec, http.StatusOK); err != nil {
		return domain.UserRecord{}, err
	}
	return rec, nil
}

// DisableMFA turns off every factor for username. Repeating the call for an
// already-disabled user is a no-op on the authority side.
func (c *Client) DisableMFA(ctx context.Context, username string) error {
	resp, err := c.do(ctx, http.MethodPost, "/v1/users/"+url.PathEscape(username)+"/mfa/disable", nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusNoContent)
}

// DisableTOTP turns off the one-time-password factor for username.
func (c *Client) DisableTOTP(ctx context.Context, username string) error {
	resp, err := c.do(ctx, http.MethodPost, "/v1/users/"+url.PathEscape(username)+"/mfa/totp/disable", nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusNoContent)
}
