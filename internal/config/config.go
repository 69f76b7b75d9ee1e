package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTableCodes string
	CodeTTLSeconds   int

	DiscordPublicKey  string // hex-encoded Ed25519 public key from the developer portal
	DiscordBotToken   string
	DiscordAppID      string
	DiscordAPIBaseURL string
	GuildID           string
	VerifiedRoleID    string

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTableCodes: getEnv("DYNAMO_TABLE_CODES", "verification_codes"),
		CodeTTLSeconds:   getEnvInt("CODE_TTL_SECONDS", 600),

		DiscordPublicKey:  getEnv("DISCORD_PUBLIC_KEY", ""),
		DiscordBotToken:   getEnv("DISCORD_BOT_TOKEN", ""),
		DiscordAppID:      getEnv("DISCORD_APPLICATION_ID", ""),
		DiscordAPIBaseURL: getEnv("DISCORD_API_BASE_URL", "https://discord.com/api/v10"),
		GuildID:           getEnv("GUILD_ID", ""),
		VerifiedRoleID:    getEnv("VERIFIED_ROLE_ID", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
