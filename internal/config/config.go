// Package config reads the service configuration from the environment.
package config

import "os"

// Config holds every externally supplied setting. Gateway credentials never
// reach client-visible code paths; only the tokenization key is public.
type Config struct {
	Port               string
	GatewayURL         string
	GatewayAccessToken string
	GatewayLocationID  string
	AuditWebhookURL    string
}

// FromEnv loads the configuration with defaults suitable for local runs.
func FromEnv() Config {
	return Config{
		Port:               envOr("PORT", "8080"),
		GatewayURL:         os.Getenv("GATEWAY_URL"),
		GatewayAccessToken: os.Getenv("GATEWAY_ACCESS_TOKEN"),
		GatewayLocationID:  os.Getenv("GATEWAY_LOCATION_ID"),
		AuditWebhookURL:    os.Getenv("AUDIT_WEBHOOK_URL"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
