package config

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	envPwdKey        = "SERVICE_PWD_KEY"
	envTokenKey      = "SERVICE_TOKEN_KEY"
	envTokenDuration = "SERVICE_TOKEN_DURATION_SECS"
	envDBURL         = "SERVICE_DB_URL"
	envWebFolder     = "SERVICE_WEB_FOLDER"
	envHTTPAddr      = "SERVICE_HTTP_ADDR"
	envGRPCAddr      = "SERVICE_GRPC_ADDR"
	envLogLevel      = "SERVICE_LOG_LEVEL"
	envDevSeed       = "SERVICE_DEV_SEED"
)

// parseEnv overlays SERVICE_* variables. Unlike the other sources a set but
// malformed variable is an error, not a silent fallback.
func parseEnv(c *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(envPwdKey); ok {
		k, err := decodeKey(envPwdKey, v)
		if err != nil {
			return err
		}
		c.PwdKey = k
	}
	if v, ok := get(envTokenKey); ok {
		k, err := decodeKey(envTokenKey, v)
		if err != nil {
			return err
		}
		c.TokenKey = k
	}
	if v, ok := get(envTokenDuration); ok {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrMalformed, envTokenDuration, v)
		}
		c.TokenDurationSecs = d
	}
	if v, ok := get(envDevSeed); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrMalformed, envDevSeed, v)
		}
		c.DevSeed = b
	}

	for key, dst := range map[string]*string{
		envDBURL:     &c.DatabaseDSN,
		envWebFolder: &c.WebFolder,
		envHTTPAddr:  &c.EndpointAddrHTTP,
		envGRPCAddr:  &c.EndpointAddrGRPC,
		envLogLevel:  &c.LogLevel,
	} {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	return nil
}
