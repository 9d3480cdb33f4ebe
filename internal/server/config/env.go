package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces the environment variables read by parseEnv, e.g.
// REVISIONS_DATABASE_DSN.
const EnvPrefix = "REVISIONS"

// dotEnvFile is loaded before the environment is read. Variables already
// set in the process environment win over the file.
var dotEnvFile = ".env"

// EnvConfig mirrors Config for envconfig. Unset variables keep the value
// copied in from the current Config.
type EnvConfig struct {
	EndpointAddrGRPC string        `envconfig:"GRPC_ADDR"`
	DatabaseDSN      string        `envconfig:"DATABASE_DSN"`
	SecretKey        string        `envconfig:"SECRET_KEY"`
	RedisAddr        string        `envconfig:"REDIS_ADDR"`
	RevisionCacheTTL time.Duration `envconfig:"REVISION_CACHE_TTL"`
	LogLevel         string        `envconfig:"LOG_LEVEL"`
}

func parseEnv(config *Config) error {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotEnvFile, err)
	}

	e := EnvConfig{
		EndpointAddrGRPC: config.EndpointAddrGRPC,
		DatabaseDSN:      config.DatabaseDSN,
		SecretKey:        config.SecretKey,
		RedisAddr:        config.RedisAddr,
		RevisionCacheTTL: config.RevisionCacheTTL,
		LogLevel:         config.LogLevel,
	}
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("env config: %w", err)
	}

	config.EndpointAddrGRPC = e.EndpointAddrGRPC
	config.DatabaseDSN = e.DatabaseDSN
	config.SecretKey = e.SecretKey
	config.RedisAddr = e.RedisAddr
	config.RevisionCacheTTL = e.RevisionCacheTTL
	config.LogLevel = e.LogLevel
	return nil
}
