package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5001")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, hours
//	-g string   GitHub OAuth2 token
//	-i string   GitHub client id
//	-k string   GitHub client secret
//	-o string   comma-separated CORS origins
//	-l string   log format: slog or zap
//	-v          debug logging
//
// Only these flags are picked out of os.Args via flagx.FilterArgs, so -c and
// -env handled elsewhere do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-g", "-i", "-k", "-o", "-l", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token validity duration (in hours)")

	fs.StringVar(&config.GitHubToken, "g", config.GitHubToken, "GitHub OAuth2 token")
	fs.StringVar(&config.GitHubClientID, "i", config.GitHubClientID, "GitHub client id")
	fs.StringVar(&config.GitHubClientSecret, "k", config.GitHubClientSecret, "GitHub client secret")

	origins := fs.String("o", strings.Join(config.CORSAllowedOrigins, ","), "CORS allowed origins")

	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format (slog|zap)")
	fs.BoolVar(&config.Debug, "v", config.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Converted values only replace earlier layers when explicitly given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
		case "o":
			config.CORSAllowedOrigins = splitList(*origins)
		}
	})
}
