package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/verify-bot/internal/config"
	"github.com/verify-bot/internal/infrastructure/discord"
	"github.com/verify-bot/internal/infrastructure/dynamo"
	transporthttp "github.com/verify-bot/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	pub, err := hex.DecodeString(cfg.DiscordPublicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		log.Fatalf("DISCORD_PUBLIC_KEY must be %d hex-encoded bytes", ed25519.PublicKeySize)
	}

	// Bootstrap the DynamoDB code table (creates it if it doesn't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTableCodes)

	discordClient := discord.NewClient(cfg)

	deps := &transporthttp.Deps{
		CodeStore: dynamo.NewCodeRepo(dynamoClient, cfg.DynamoTableCodes),
		Granter:   discordClient,
		Notifier:  discordClient,
		PublicKey: ed25519.PublicKey(pub),
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
