package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/driftlock/mfahub/internal/mfa/domain"
	"github.com/driftlock/mfahub/internal/mfa/store"
	"github.com/driftlock/mfahub/pkg/idx"
	"github.com/driftlock/mfahub/pkg/notify"
)

// Journal command identifiers.
const (
	CommandDisableAllMFA    = "disable_all_mfa"
	CommandDisableTOTP      = "disable_totp"
	CommandSetDefaultMethod = "set_default_method"
)

var (
	ErrMFANotEnabled  = errors.New("MFA not enabled for this user")
	ErrTOTPNotEnabled = errors.New("TOTP not enabled for this user")
	ErrNotEligible    = errors.New("factor not eligible to become the default method")
)

// CommandService dispatches MFA configuration commands against the remote
// authority. It never mutates the cached record: a confirmed command
// invalidates the snapshot so the next read refetches server truth, and a
// failed command leaves the view in its last-known-good state.
//
// Concurrent duplicate dispatches for the same user and command are coalesced
// with singleflight; duplicates share the first call's outcome rather than
// each reaching the authority.
type CommandService struct {
	Authority Authority
	Profiles  store.ProfileStore
	Notifier  notify.Notifier
	Journal   store.Journal // optional, nil disables journaling
	Logger    *slog.Logger

	group singleflight.Group
}

// Authority is the subset of the authority client the dispatcher needs.
type Authority interface {
	DisableMFA(ctx context.Context, username string) error
	DisableTOTP(ctx context.Context, username string) error
	EditUser(ctx context.Context, username string, data domain.UserRecord) (domain.UserRecord, error)
}

// DisableAllMFA turns off every factor. Requires MFA to be enabled.
func (s *CommandService) DisableAllMFA(ctx context.Context, username string) error {
	_, err, _ := s.group.Do(username+"/"+CommandDisableAllMFA, func() (any, error) {
		return nil, s.disableAllMFA(ctx, username)
	})
	return err
}

func (s *CommandService) disableAllMFA(ctx context.Context, username string) error {
	rec, err := s.Profiles.Current(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to load user record: %w", err)
	}
	if !rec.MFAEnabled {
		return ErrMFANotEnabled
	}

	if err := s.Authority.DisableMFA(ctx, username); err != nil {
		s.Logger.Error("failed to disable MFA", "username", username, "err", err)
		s.Notifier.Error(ctx, username, "Disabling MFA failed")
		s.journal(ctx, username, CommandDisableAllMFA, "", err)
		return err
	}

	s.confirm(ctx, username, CommandDisableAllMFA, "", "MFA disabled")
	return nil
}

// DisableTOTP turns off the one-time-password factor. Requires TOTP to be
// enabled.
func (s *CommandService) DisableTOTP(ctx context.Context, username string) error {
	_, err, _ := s.group.Do(username+"/"+CommandDisableTOTP, func() (any, error) {
		return nil, s.disableTOTP(ctx, username)
	})
	return err
}

func (s *CommandService) disableTOTP(ctx context.Context, username string) error {
	rec, err := s.Profiles.Current(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to load user record: %w", err)
	}
	if !rec.TOTPEnabled {
		return ErrTOTPNotEnabled
	}

	if err := s.Authority.DisableTOTP(ctx, username); err != nil {
		s.Logger.Error("failed to disable TOTP", "username", username, "err", err)
		s.Notifier.Error(ctx, username, "Disabling one time password failed")
		s.journal(ctx, username, CommandDisableTOTP, "", err)
		return err
	}

	s.confirm(ctx, username, CommandDisableTOTP, "", "One time password disabled")
	return nil
}

// SetDefaultMethod makes f the account's default method. Eligibility is
// re-derived here rather than trusted from the caller; the payload is a clone
// of the current record with only the default method replaced.
func (s *CommandService) SetDefaultMethod(ctx context.Context, username string, f domain.Factor) error {
	_, err, _ := s.group.Do(username+"/"+CommandSetDefaultMethod+"/"+string(f), func() (any, error) {
		return nil, s.setDefaultMethod(ctx, username, f)
	})
	return err
}

func (s *CommandService) setDefaultMethod(ctx context.Context, username string, f domain.Factor) error {
	rec, err := s.Profiles.Current(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to load user record: %w", err)
	}
	if !CanMakeDefault(&rec, f) {
		return ErrNotEligible
	}

	payload := rec.Clone()
	payload.MFAMethod = f.Method()

	if _, err := s.Authority.EditUser(ctx, username, payload); err != nil {
		// Unlike the disable commands this one reports only the outcome,
		// not the error detail.
		s.Notifier.Error(ctx, username, "User update failed")
		s.journal(ctx, username, CommandSetDefaultMethod, string(f), err)
		return err
	}

	s.confirm(ctx, username, CommandSetDefaultMethod, string(f), "User updated")
	return nil
}

// confirm runs the shared success path: invalidate the snapshot, notify, and
// journal the outcome.
func (s *CommandService) confirm(ctx context.Context, username, command, factor, message string) {
	if err := s.Profiles.Invalidate(ctx, username); err != nil {
		s.Logger.Warn("failed to invalidate user record", "username", username, "err", err)
	}
	s.Notifier.Success(ctx, username, message)
	s.journal(ctx, username, command, factor, nil)
}

// journal appends a best-effort audit entry; failures are logged and never
// fail the command.
func (s *CommandService) journal(ctx context.Context, username, command, factor string, cmdErr error) {
	if s.Journal == nil {
		return
	}

	entry := store.JournalEntry{
		ID:        idx.New().String(),
		Username:  username,
		Command:   command,
		Factor:    factor,
		Outcome:   "ok",
		CreatedAt: time.Now().UTC(),
	}
	if cmdErr != nil {
		entry.Outcome = "error"
		entry.Detail = cmdErr.Error()
	}

	if err := s.Journal.Append(ctx, entry); err != nil {
		s.Logger.Warn("failed to journal command", "command", command, "err", err)
	}
}
