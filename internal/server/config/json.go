package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/revisions/internal/flagx"
	"github.com/dmitrijs2005/revisions/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "5m" strings and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	DatabaseDSN      string         `json:"database_dsn"`
	SecretKey        string         `json:"secret_key"`
	RedisAddr        string         `json:"redis_addr"`
	RevisionCacheTTL timex.Duration `json:"revision_cache_ttl"`
	LogLevel         string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flag. Without the flag nothing is loaded. Keys absent from the
// file leave the current values untouched. An unreadable file or invalid
// JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setIfNotEmpty(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIfNotEmpty(&config.DatabaseDSN, c.DatabaseDSN)
	setIfNotEmpty(&config.SecretKey, c.SecretKey)
	setIfNotEmpty(&config.RedisAddr, c.RedisAddr)
	setIfNotEmpty(&config.LogLevel, c.LogLevel)
	if c.RevisionCacheTTL.Duration != 0 {
		config.RevisionCacheTTL = c.RevisionCacheTTL.Duration
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
