package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/bookworm/internal/flagx"
	"github.com/dmitrijs2005/bookworm/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its non-empty fields are copied
// into the runtime Config.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	CatalogAPIKey                string         `json:"catalog_api_key"`
	CatalogBaseURL               string         `json:"catalog_base_url"`
	CatalogTimeout               timex.Duration `json:"catalog_timeout"`
	DBCheckoutTimeout            timex.Duration `json:"db_checkout_timeout"`
	StatementTimeout             timex.Duration `json:"statement_timeout"`
	SessionTimeZone              string         `json:"session_time_zone"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path comes from the -c or -config command-line flags; if
// neither is set, no file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics — a broken config file should stop the
// process before it serves traffic.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.CatalogAPIKey != "" {
		config.CatalogAPIKey = c.CatalogAPIKey
	}
	if c.CatalogBaseURL != "" {
		config.CatalogBaseURL = c.CatalogBaseURL
	}
	if c.CatalogTimeout.Duration != 0 {
		config.CatalogTimeout = c.CatalogTimeout.Duration
	}
	if c.DBCheckoutTimeout.Duration != 0 {
		config.DBCheckoutTimeout = c.DBCheckoutTimeout.Duration
	}
	if c.StatementTimeout.Duration != 0 {
		config.StatementTimeout = c.StatementTimeout.Duration
	}
	if c.SessionTimeZone != "" {
		config.SessionTimeZone = c.SessionTimeZone
	}
}
