package middleware

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"io"
	"net/http"
)

// Headers carrying the interaction signature.
const (
	SignatureHeader = "X-Signature-Ed25519"
	TimestampHeader = "X-Signature-Timestamp"
)

// VerifySignature authenticates every request by checking the Ed25519
// signature over timestamp||body against the platform public key. Requests
// that fail the check are rejected with 401 before any handler logic runs.
// The body is re-buffered for downstream handlers.
func VerifySignature(publicKey ed25519.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sigHex := r.Header.Get(SignatureHeader)
			timestamp := r.Header.Get(TimestampHeader)
			if sigHex == "" || timestamp == "" {
				unauthorized(w)
				return
			}
			sig, err := hex.DecodeString(sigHex)
			if err != nil || len(sig) != ed25519.SignatureSize {
				unauthorized(w)
				return
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, `{"error":"could not read body"}`, http.StatusBadRequest)
				return
			}
			r.Body.Close()

			msg := make([]byte, 0, len(timestamp)+len(body))
			msg = append(msg, timestamp...)
			msg = append(msg, body...)
			if !ed25519.Verify(publicKey, msg, sig) {
				unauthorized(w)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, `{"error":"invalid request signature"}`, http.StatusUnauthorized)
}
