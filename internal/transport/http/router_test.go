package http

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verify-bot/internal/config"
	"github.com/verify-bot/internal/domain"
)

// countingStore is an in-memory code store that records every access, so
// tests can assert the store was never touched on rejected requests.
type countingStore struct {
	mu       sync.Mutex
	items    map[string]storeEntry
	accesses int
}

type storeEntry struct {
	value     string
	expiresAt time.Time
}

func newCountingStore() *countingStore {
	return &countingStore{items: make(map[string]storeEntry)}
}

func (s *countingStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accesses++
	s.items[key] = storeEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *countingStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accesses++
	e, ok := s.items[key]
	if !ok || !e.expiresAt.After(time.Now()) {
		return "", domain.ErrNotFound
	}
	return e.value, nil
}

func (s *countingStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accesses++
	delete(s.items, key)
	return nil
}

func (s *countingStore) accessCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accesses
}

func (s *countingStore) lookup(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[key]
	return e.value, ok
}

type recordingGranter struct {
	mu     sync.Mutex
	grants []string
	err    error
}

func (g *recordingGranter) GrantRole(_ context.Context, guildID, userID, roleID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.grants = append(g.grants, guildID+"/"+userID+"/"+roleID)
	return nil
}

type silentNotifier struct{}

func (silentNotifier) SendDirectMessage(context.Context, string, string) error { return nil }

// --- fixture ---

type fixture struct {
	router  nethttp.Handler
	store   *countingStore
	granter *recordingGranter
	priv    ed25519.PrivateKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	cfg := &config.Config{
		GuildID:        "g1",
		VerifiedRoleID: "r1",
		CodeTTLSeconds: 600,
		AllowedOrigins: []string{"*"},
	}
	store := newCountingStore()
	granter := &recordingGranter{}
	router := NewRouter(cfg, &Deps{
		CodeStore: store,
		Granter:   granter,
		Notifier:  silentNotifier{},
		PublicKey: pub,
	})
	return &fixture{router: router, store: store, granter: granter, priv: priv}
}

func (f *fixture) signedPost(t *testing.T, in domain.Interaction) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(in)
	require.NoError(t, err)

	timestamp := "1700000000"
	sig := ed25519.Sign(f.priv, append([]byte(timestamp), body...))

	req := httptest.NewRequest(nethttp.MethodPost, "/interactions", bytes.NewReader(body))
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(sig))
	req.Header.Set("X-Signature-Timestamp", timestamp)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) domain.InteractionResponse {
	t.Helper()
	var resp domain.InteractionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func verifyInteraction(userID string) domain.Interaction {
	return domain.Interaction{
		Type:    domain.InteractionApplicationCommand,
		GuildID: "g1",
		Member:  &domain.Member{User: domain.User{ID: userID, Username: "user-" + userID}},
		Data:    &domain.InteractionData{Name: "verify"},
	}
}

func submitInteraction(userID, code string) domain.Interaction {
	return domain.Interaction{
		Type:    domain.InteractionModalSubmit,
		GuildID: "g1",
		Member:  &domain.Member{User: domain.User{ID: userID, Username: "user-" + userID}},
		Data: &domain.InteractionData{
			CustomID: "verify_modal",
			Components: []domain.ActionRow{{
				Type: domain.ComponentActionRow,
				Components: []domain.Component{{
					Type:     domain.ComponentTextInput,
					CustomID: "verification_code",
					Value:    code,
				}},
			}},
		},
	}
}

var codeRe = regexp.MustCompile(`[1-9][0-9]{5}`)

// --- scenarios ---

func TestRouter_Ping(t *testing.T) {
	f := newFixture(t)
	rec := f.signedPost(t, domain.Interaction{Type: domain.InteractionPing})

	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, domain.ResponsePong, decodeResponse(t, rec).Type)
}

func TestRouter_InvalidSignature_RejectedBeforeStoreAccess(t *testing.T) {
	f := newFixture(t)

	body, err := json.Marshal(verifyInteraction("u1"))
	require.NoError(t, err)
	req := httptest.NewRequest(nethttp.MethodPost, "/interactions", bytes.NewReader(body))
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(make([]byte, ed25519.SignatureSize)))
	req.Header.Set("X-Signature-Timestamp", "1700000000")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.store.accessCount())
	assert.Empty(t, f.granter.grants)
}

func TestRouter_IssueThenSubmit_EndToEnd(t *testing.T) {
	f := newFixture(t)

	rec := f.signedPost(t, verifyInteraction("u1"))
	require.Equal(t, nethttp.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	code := codeRe.FindString(resp.Data.Content)
	require.NotEmpty(t, code, "issue response should contain a 6-digit code")

	owner, ok := f.store.lookup("code:" + code)
	require.True(t, ok)
	assert.Equal(t, "u1", owner)

	rec = f.signedPost(t, submitInteraction("u1", code))
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, decodeResponse(t, rec).Data.Content, "Verification Successful")
	assert.Equal(t, []string{"g1/u1/r1"}, f.granter.grants)

	// Consumed: the code key is gone and a resubmit fails.
	_, ok = f.store.lookup("code:" + code)
	assert.False(t, ok)

	rec = f.signedPost(t, submitInteraction("u1", code))
	assert.Contains(t, decodeResponse(t, rec).Data.Content, "Invalid or expired")
}

func TestRouter_CrossAccountSubmit_MappingIntact(t *testing.T) {
	f := newFixture(t)

	rec := f.signedPost(t, verifyInteraction("u1"))
	code := codeRe.FindString(decodeResponse(t, rec).Data.Content)
	require.NotEmpty(t, code)

	rec = f.signedPost(t, submitInteraction("u2", code))
	assert.Contains(t, decodeResponse(t, rec).Data.Content, "not generated for your account")
	assert.Empty(t, f.granter.grants)

	owner, ok := f.store.lookup("code:" + code)
	require.True(t, ok)
	assert.Equal(t, "u1", owner)
}

func TestRouter_GrantFailure_CodeSurvivesForRetry(t *testing.T) {
	f := newFixture(t)

	rec := f.signedPost(t, verifyInteraction("u1"))
	code := codeRe.FindString(decodeResponse(t, rec).Data.Content)
	require.NotEmpty(t, code)

	f.granter.err = errors.New("discord returned 502 Bad Gateway")
	rec = f.signedPost(t, submitInteraction("u1", code))
	assert.Contains(t, decodeResponse(t, rec).Data.Content, "still valid")

	f.granter.err = nil
	rec = f.signedPost(t, submitInteraction("u1", code))
	assert.Contains(t, decodeResponse(t, rec).Data.Content, "Verification Successful")
}

func TestRouter_NeverIssuedCode_Invalid(t *testing.T) {
	f := newFixture(t)
	rec := f.signedPost(t, submitInteraction("u1", "999999"))
	assert.Contains(t, decodeResponse(t, rec).Data.Content, "Invalid or expired")
}

func TestRouter_HealthEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/", nil))
	assert.Equal(t, nethttp.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/v1/health-check/ping", nil))
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
}
