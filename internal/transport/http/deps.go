package http

import (
	"crypto/ed25519"

	"github.com/verify-bot/internal/application/verification"
)

// Deps holds all infrastructure dependencies for the router. The
// collaborator interfaces live in the verification package so the router
// can be exercised with in-memory fakes.
type Deps struct {
	CodeStore verification.CodeStore
	Granter   verification.RoleGranter
	Notifier  verification.Notifier

	// PublicKey verifies inbound interaction signatures.
	PublicKey ed25519.PublicKey
}
