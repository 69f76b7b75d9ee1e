package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/verify-bot/internal/domain"
	"github.com/verify-bot/internal/pkg/code"
)

// CodeStore is the durable key-value store shared by all handler
// invocations. A value written with a TTL reads as absent once the TTL
// elapses; enforcement belongs to the store, not the caller. Only per-key
// atomicity is guaranteed.
type CodeStore interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns an error wrapping domain.ErrNotFound when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// RoleGranter attaches the verified role to an account. The call is
// assumed idempotent on the platform side.
type RoleGranter interface {
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
}

// Notifier delivers a best-effort direct message to an account.
type Notifier interface {
	SendDirectMessage(ctx context.Context, userID, content string) error
}

// Service orchestrates the verification code lifecycle:
// issue -> store -> match -> consume -> grant.
type Service interface {
	// IssueCode generates a one-time code for userID and stores it with
	// the configured TTL. The caller presents the code to the account.
	IssueCode(ctx context.Context, userID string) (string, error)
	// SubmitCode matches a submitted code against the store, grants the
	// verified role on success and consumes the code. Failures map to the
	// domain sentinel errors.
	SubmitCode(ctx context.Context, userID, username, submitted string) error
}

type service struct {
	store    CodeStore
	granter  RoleGranter
	notifier Notifier
	guildID  string
	roleID   string
	codeTTL  time.Duration
}

func NewService(store CodeStore, granter RoleGranter, notifier Notifier, guildID, roleID string, codeTTL time.Duration) Service {
	return &service{
		store:    store,
		granter:  granter,
		notifier: notifier,
		guildID:  guildID,
		roleID:   roleID,
		codeTTL:  codeTTL,
	}
}

func (s *service) IssueCode(ctx context.Context, userID string) (string, error) {
	c, err := code.Generate()
	if err != nil {
		return "", err
	}
	// The code:<C> mapping is the primary invariant: one live code, one
	// account. A same-key collision with a live code is astronomically
	// rare and simply overwrites.
	if err := s.store.Put(ctx, domain.CodeKey(c), userID, s.codeTTL); err != nil {
		return "", fmt.Errorf("store verification code: %w", err)
	}
	s.appendToIndex(ctx, userID, c)
	return c, nil
}

func (s *service) SubmitCode(ctx context.Context, userID, username, submitted string) error {
	owner, err := s.store.Get(ctx, domain.CodeKey(submitted))
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("code lookup: %w", domain.ErrInvalidOrExpiredCode)
	}
	if err != nil {
		return fmt.Errorf("code lookup: %w", err)
	}
	if owner != userID {
		return fmt.Errorf("code belongs to %s: %w", owner, domain.ErrCodeOwnershipMismatch)
	}
	if err := s.granter.GrantRole(ctx, s.guildID, userID, s.roleID); err != nil {
		// The code stays valid so the same account can retry after a
		// transient platform failure.
		return fmt.Errorf("grant role: %v: %w", err, domain.ErrGrantFailed)
	}
	// Deleting the key is the consume signal; it strictly follows a
	// confirmed grant. Two near-simultaneous submissions may both pass the
	// lookup before either delete lands — harmless, since the grant is
	// idempotent.
	if err := s.store.Delete(ctx, domain.CodeKey(submitted)); err != nil {
		slog.Warn("could not delete consumed code", "user_id", userID, "err", err)
	}
	s.removeFromIndex(ctx, userID, submitted)
	if err := s.notifier.SendDirectMessage(ctx, userID, welcomeMessage(username)); err != nil {
		slog.Warn("could not send welcome message", "user_id", userID, "err", err)
	}
	return nil
}

// appendToIndex records c under the account's cleanup index. The index is
// advisory bookkeeping only: the read-modify-write is not atomic and a lost
// update or failed write here never touches the code->account mapping.
func (s *service) appendToIndex(ctx context.Context, userID, c string) {
	codes, err := s.readIndex(ctx, userID)
	if err != nil {
		slog.Warn("could not read account code index", "user_id", userID, "err", err)
		codes = nil
	}
	s.writeIndex(ctx, userID, append(codes, c))
}

// removeFromIndex drops c from the account's cleanup index, best-effort.
func (s *service) removeFromIndex(ctx context.Context, userID, c string) {
	codes, err := s.readIndex(ctx, userID)
	if err != nil {
		slog.Warn("could not read account code index", "user_id", userID, "err", err)
		return
	}
	kept := codes[:0]
	for _, v := range codes {
		if v != c {
			kept = append(kept, v)
		}
	}
	s.writeIndex(ctx, userID, kept)
}

func (s *service) readIndex(ctx context.Context, userID string) ([]string, error) {
	raw, err := s.store.Get(ctx, domain.AccountKey(userID))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var codes []string
	if err := json.Unmarshal([]byte(raw), &codes); err != nil {
		return nil, fmt.Errorf("decode account code index: %w", err)
	}
	return codes, nil
}

func (s *service) writeIndex(ctx context.Context, userID string, codes []string) {
	raw, err := json.Marshal(codes)
	if err != nil {
		slog.Warn("could not encode account code index", "user_id", userID, "err", err)
		return
	}
	if err := s.store.Put(ctx, domain.AccountKey(userID), string(raw), s.codeTTL); err != nil {
		slog.Warn("could not update account code index", "user_id", userID, "err", err)
	}
}

func welcomeMessage(username string) string {
	return fmt.Sprintf("🎉 **Welcome to the server, %s!**\n\n"+
		"Your verification was successful! You now have full access to the server. "+
		"Feel free to explore and introduce yourself!", username)
}
