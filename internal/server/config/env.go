package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variables understood by parseEnv.
const (
	EnvPort               = "PORT"
	EnvAddr               = "DEVCONNECTOR_ADDR"
	EnvDatabaseDSN        = "DEVCONNECTOR_DATABASE_DSN"
	EnvSecretKey          = "DEVCONNECTOR_SECRET_KEY"
	EnvTokenValidity      = "DEVCONNECTOR_TOKEN_VALIDITY"
	EnvGitHubToken        = "DEVCONNECTOR_GITHUB_TOKEN"
	EnvGitHubClientID     = "DEVCONNECTOR_GITHUB_CLIENT_ID"
	EnvGitHubClientSecret = "DEVCONNECTOR_GITHUB_CLIENT_SECRET"
	EnvCORSOrigins        = "DEVCONNECTOR_CORS_ORIGINS"
	EnvLogFormat          = "DEVCONNECTOR_LOG_FORMAT"
	EnvDebug              = "DEVCONNECTOR_DEBUG"
)

const defaultEnvFile = ".env"

// parseEnv loads a dotenv file into the process environment and then
// overlays environment variables onto config. The file is the one named by
// -env, or ./.env when it exists. Variables already set in the environment
// win over the file. PORT is honoured for platforms that inject it, but
// DEVCONNECTOR_ADDR takes precedence.
func parseEnv(config *Config) {
	loadEnvFile()

	if port := os.Getenv(EnvPort); port != "" {
		config.EndpointAddrHTTP = ":" + port
	}
	setString(&config.EndpointAddrHTTP, os.Getenv(EnvAddr))
	setString(&config.DatabaseDSN, os.Getenv(EnvDatabaseDSN))
	setString(&config.SecretKey, os.Getenv(EnvSecretKey))
	setString(&config.GitHubToken, os.Getenv(EnvGitHubToken))
	setString(&config.GitHubClientID, os.Getenv(EnvGitHubClientID))
	setString(&config.GitHubClientSecret, os.Getenv(EnvGitHubClientSecret))
	setString(&config.LogFormat, os.Getenv(EnvLogFormat))

	if v := os.Getenv(EnvTokenValidity); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = d
	}

	if v := os.Getenv(EnvCORSOrigins); v != "" {
		config.CORSAllowedOrigins = splitList(v)
	}

	if v := os.Getenv(EnvDebug); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.Debug = b
	}
}

func loadEnvFile() {
	path := flagx.EnvFileFlag()
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); errors.Is(err, fs.ErrNotExist) {
			return
		}
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		panic(err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
