package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Mal-back/cal-tracker/internal/flagx"
)

// JsonConfig is the on-disk shape of the optional config file. Keys are
// base64url strings; empty fields leave the current value alone.
type JsonConfig struct {
	EndpointAddrHTTP  string   `json:"endpoint_addr_http"`
	EndpointAddrGRPC  string   `json:"endpoint_addr_grpc"`
	DatabaseDSN       string   `json:"database_dsn"`
	WebFolder         string   `json:"web_folder"`
	LogLevel          string   `json:"log_level"`
	PwdKey            string   `json:"pwd_key"`
	TokenKey          string   `json:"token_key"`
	TokenDurationSecs *float64 `json:"token_duration_secs"`
	DevSeed           *bool    `json:"dev_seed"`
}

// parseJson loads the file named by -c / -config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("%w: config file %s: %v", ErrMalformed, path, err)
	}

	setIfNotEmpty(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIfNotEmpty(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIfNotEmpty(&config.DatabaseDSN, c.DatabaseDSN)
	setIfNotEmpty(&config.WebFolder, c.WebFolder)
	setIfNotEmpty(&config.LogLevel, c.LogLevel)

	if c.PwdKey != "" {
		if config.PwdKey, err = decodeKey("pwd_key", c.PwdKey); err != nil {
			return err
		}
	}
	if c.TokenKey != "" {
		if config.TokenKey, err = decodeKey("token_key", c.TokenKey); err != nil {
			return err
		}
	}
	if c.TokenDurationSecs != nil {
		config.TokenDurationSecs = *c.TokenDurationSecs
	}
	if c.DevSeed != nil {
		config.DevSeed = *c.DevSeed
	}

	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
