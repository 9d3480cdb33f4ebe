package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/revisions/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-r string   Redis address for the revision cache ("" disables it)
//	-t int      revision cache TTL, seconds
//	-l string   log level
//
// Only the flags above are read from os.Args (see flagx.ParseOwn) so flags
// owned by other components, such as -c, do not collide.
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address for the revision cache")

	cacheTTL := fs.Int("t", int(config.RevisionCacheTTL.Seconds()), "revision cache ttl (in seconds)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")

	if err := flagx.ParseOwn(fs, os.Args[1:]); err != nil {
		panic(err)
	}

	// -t only overrides when given, so sub-second values from JSON or env survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.RevisionCacheTTL = time.Duration(*cacheTTL) * time.Second
		}
	})
}
