package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&cfg.APIURL, "TADA_API_URL")
	setString(&cfg.Theme, "TADA_THEME")
	if v := os.Getenv("TADA_GROUP"); v != "" {
		cfg.Group = boolFromString(v)
	}

	setString(&cfg.Server.Addr, "TADA_ADDR")
	if os.Getenv("TADA_ADDR") == "" {
		// PORT is the usual container convention; it carries no host.
		if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
			cfg.Server.Addr = ":" + port
		}
	}
	setString(&cfg.Server.Store, "TADA_STORE")
	setString(&cfg.Server.JSONPath, "TADA_JSON_PATH")
	setString(&cfg.Server.SQLitePath, "TADA_SQLITE_PATH")
	setString(&cfg.Server.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Server.FirestoreProject, "TADA_FIRESTORE_PROJECT", "GOOGLE_CLOUD_PROJECT")

	setString(&cfg.Log.Level, "TADA_LOG_LEVEL")
	setString(&cfg.Log.Format, "TADA_LOG_FORMAT")
	setString(&cfg.Log.File, "TADA_LOG_FILE")

	setString(&cfg.AI.APIKey, "CONNECTION_AI_APIKEY")
	setString(&cfg.AI.APIVersion, "CONNECTION_AI_APIVERSION")
	setString(&cfg.AI.Deployment, "CONNECTION_AI_DEPLOYMENT")
	setString(&cfg.AI.Endpoint, "CONNECTION_AI_ENDPOINT")
}

func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
