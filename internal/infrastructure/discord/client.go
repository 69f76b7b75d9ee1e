package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/verify-bot/internal/config"
)

// Client is a minimal Discord REST client covering the surfaces the bot
// needs: role assignment, direct messages, and command registration. Calls
// are best-effort and bounded by the HTTP client timeout; no retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(cfg.DiscordAPIBaseURL, "/"),
		botToken:   cfg.DiscordBotToken,
	}
}

// GrantRole attaches roleID to userID in guildID. The platform treats
// granting an already-held role as a no-op success, so the call is
// idempotent.
func (c *Client) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s", guildID, userID, roleID)
	resp, err := c.do(ctx, http.MethodPut, path, nil)
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	defer resp.Body.Close()
	if !success(resp) {
		return fmt.Errorf("grant role: discord returned %s", resp.Status)
	}
	return nil
}

// SendDirectMessage delivers content to userID over a DM channel, creating
// the channel first. Fails when the user has DMs disabled; callers treat
// this as best-effort.
func (c *Client) SendDirectMessage(ctx context.Context, userID, content string) error {
	resp, err := c.do(ctx, http.MethodPost, "/users/@me/channels", map[string]string{
		"recipient_id": userID,
	})
	if err != nil {
		return fmt.Errorf("create dm channel: %w", err)
	}
	defer resp.Body.Close()
	if !success(resp) {
		return fmt.Errorf("create dm channel: discord returned %s", resp.Status)
	}
	var channel struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&channel); err != nil {
		return fmt.Errorf("decode dm channel: %w", err)
	}

	msgResp, err := c.do(ctx, http.MethodPost, "/channels/"+channel.ID+"/messages", map[string]string{
		"content": content,
	})
	if err != nil {
		return fmt.Errorf("send dm: %w", err)
	}
	defer msgResp.Body.Close()
	if !success(msgResp) {
		return fmt.Errorf("send dm: discord returned %s", msgResp.Status)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func success(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
