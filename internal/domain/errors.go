package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so the transport layer can map failures to
// user-facing responses without leaking infrastructure details.
var (
	ErrNotFound = errors.New("not found")

	// ErrInvalidOrExpiredCode covers both a code that was never issued and
	// one whose TTL elapsed; the store does not distinguish the two.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")

	// ErrCodeOwnershipMismatch means the code exists but was issued to a
	// different account. The code stays valid for its owner.
	ErrCodeOwnershipMismatch = errors.New("code issued to another account")

	// ErrGrantFailed means the platform refused the role assignment. The
	// code is left intact so the same account can retry.
	ErrGrantFailed = errors.New("role grant failed")
)
