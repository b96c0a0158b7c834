package config

import (
	"os"
	"strings"
)

const defaultPort = ":8080"

func BasePath() string {
	return strings.TrimSuffix(os.Getenv("APP_BASE_PATH"), "/")
}

// Port returns the listen address, accepting both "8080" and ":8080".
func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return defaultPort
	}
	if !strings.Contains(port, ":") {
		port = ":" + port
	}
	return port
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// AllowedOrigins lists CORS origins from CORS_ALLOWED_ORIGINS. Empty means any.
func AllowedOrigins() []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
