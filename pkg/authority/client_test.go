package authority

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/driftlock/mfahub/internal/mfa/domain"
)

func TestGetUser(t *testing.T) {
	t.Parallel()

	t.Run("decodes the record", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/v1/users/alice", r.URL.Path)
			require.Equal(t, "Bearer svc-token", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(domain.UserRecord{
				Username:    "alice",
				MFAEnabled:  true,
				MFAMethod:   domain.MethodOneTimePassword,
				TOTPEnabled: true,
			})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "svc-token")
		rec, err := client.GetUser(context.Background(), "alice")
		require.NoError(t, err)
		require.Equal(t, "alice", rec.Username)
		require.True(t, rec.TOTPEnabled)
		require.Equal(t, domain.MethodOneTimePassword, rec.MFAMethod)
	})

	t.Run("maps 404 to ErrNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "svc-token")
		_, err := client.GetUser(context.Background(), "ghost")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEditUserSendsFullRecord(t *testing.T) {
	t.Parallel()

	var got domain.UserRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/v1/users/alice", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	payload := domain.UserRecord{
		Username:   "alice",
		MFAEnabled: true,
		MFAMethod:  domain.MethodWeb3,
		Wallets:    []domain.Wallet{{Address: "0xabc", Chain: "eth", UseForMFA: true}},
	}

	client := NewClient(srv.URL, "svc-token")
	rec, err := client.EditUser(context.Background(), "alice", payload)
	require.NoError(t, err)
	require.Equal(t, payload, got)
	require.Equal(t, payload, rec)
}

func TestDisableEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("disable MFA hits the right path", func(t *testing.T) {
		var path string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "svc-token")
		require.NoError(t, client.DisableMFA(context.Background(), "alice"))
		require.Equal(t, "/v1/users/alice/mfa/disable", path)
	})

	t.Run("disable TOTP surfaces API errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "totp_not_enabled",
				"error_description": "TOTP is not enabled",
			})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "svc-token")
		err := client.DisableTOTP(context.Background(), "alice")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusConflict, apiErr.StatusCode)
		require.Equal(t, "totp_not_enabled", apiErr.Code)
	})
}
