package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/verify-bot/internal/config"
	"github.com/verify-bot/internal/infrastructure/discord"
)

// globalCommands are available in every server the bot is in.
var globalCommands = []discord.Command{
	{Name: "verify", Description: "Start the verification process to get server access"},
}

// guildCommands are scoped to the deployment's target guild.
var guildCommands = []discord.Command{
	{Name: "setup", Description: "Setup verification system (Admin only)"},
	{Name: "verify_modal", Description: "Open verification modal (for testing)"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if cfg.DiscordBotToken == "" {
		log.Fatal("DISCORD_BOT_TOKEN environment variable is required")
	}
	if cfg.DiscordAppID == "" {
		log.Fatal("DISCORD_APPLICATION_ID environment variable is required")
	}

	client := discord.NewClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.RegisterGlobalCommands(ctx, cfg.DiscordAppID, globalCommands); err != nil {
		log.Fatalf("registering global commands: %v", err)
	}
	log.Printf("registered %d global commands", len(globalCommands))

	if cfg.GuildID == "" {
		log.Println("GUILD_ID not set, skipping guild commands")
		return
	}
	if err := client.RegisterGuildCommands(ctx, cfg.DiscordAppID, cfg.GuildID, guildCommands); err != nil {
		log.Fatalf("registering guild commands: %v", err)
	}
	log.Printf("registered %d guild commands for guild %s", len(guildCommands), cfg.GuildID)
}
