package discord

import (
	"context"
	"fmt"
	"net/http"
)

// Command describes one application command for registration.
type Command struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RegisterGlobalCommands overwrites the application's global command set
// with cmds. The bulk PUT is an idempotent upsert: repeated runs converge
// on the same registered set.
func (c *Client) RegisterGlobalCommands(ctx context.Context, appID string, cmds []Command) error {
	path := fmt.Sprintf("/applications/%s/commands", appID)
	return c.putCommands(ctx, path, cmds)
}

// RegisterGuildCommands overwrites the command set scoped to a single
// guild. Guild commands propagate immediately, unlike global ones.
func (c *Client) RegisterGuildCommands(ctx context.Context, appID, guildID string, cmds []Command) error {
	path := fmt.Sprintf("/applications/%s/guilds/%s/commands", appID, guildID)
	return c.putCommands(ctx, path, cmds)
}

func (c *Client) putCommands(ctx context.Context, path string, cmds []Command) error {
	resp, err := c.do(ctx, http.MethodPut, path, cmds)
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	defer resp.Body.Close()
	if !success(resp) {
		return fmt.Errorf("register commands: discord returned %s", resp.Status)
	}
	return nil
}
