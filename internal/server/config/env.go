package config

import (
	"os"
	"time"
)

// parseEnv overlays Config fields from environment variables. Only variables
// that are actually set override the current values.
//
// Recognized variables:
//
//	ADDRESS                  HTTP bind address (e.g. ":3000")
//	DATABASE_DSN             PostgreSQL DSN
//	SECRET_KEY               JWT HMAC secret
//	ACCESS_TOKEN_VALIDITY    access token lifetime (Go duration, e.g. "15m")
//	REFRESH_TOKEN_VALIDITY   refresh token lifetime (Go duration)
//	CATALOG_API_KEY          Google Books API key
//	CATALOG_BASE_URL         catalog endpoint override (tests, proxies)
//	CATALOG_TIMEOUT          outbound catalog call timeout (Go duration)
//	DB_CHECKOUT_TIMEOUT      connection checkout timeout (Go duration)
//	STATEMENT_TIMEOUT        per-session statement timeout (Go duration)
//	SESSION_TIME_ZONE        fixed session time zone name
func parseEnv(config *Config) {
	setString := func(name string, target *string) {
		if v, ok := os.LookupEnv(name); ok {
			*target = v
		}
	}
	setDuration := func(name string, target *time.Duration) {
		if v, ok := os.LookupEnv(name); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*target = d
			}
		}
	}

	setString("ADDRESS", &config.EndpointAddr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("SECRET_KEY", &config.SecretKey)
	setDuration("ACCESS_TOKEN_VALIDITY", &config.AccessTokenValidityDuration)
	setDuration("REFRESH_TOKEN_VALIDITY", &config.RefreshTokenValidityDuration)
	setString("CATALOG_API_KEY", &config.CatalogAPIKey)
	setString("CATALOG_BASE_URL", &config.CatalogBaseURL)
	setDuration("CATALOG_TIMEOUT", &config.CatalogTimeout)
	setDuration("DB_CHECKOUT_TIMEOUT", &config.DBCheckoutTimeout)
	setDuration("STATEMENT_TIMEOUT", &config.StatementTimeout)
	setString("SESSION_TIME_ZONE", &config.SessionTimeZone)
}
