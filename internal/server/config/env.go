package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. LINKFOLIO_DATABASE_DSN.
const EnvPrefix = "LINKFOLIO"

// parseEnv overlays values found in LINKFOLIO_* environment variables.
// Unset variables leave the current value untouched. Durations use Go
// syntax ("15m"); CORS origins are comma separated.
func parseEnv(config *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	keys := []string{
		"endpoint_addr_http", "endpoint_addr_grpc", "database_dsn", "secret_key",
		"access_token_validity_duration", "refresh_token_validity_duration",
		"s3_root_user", "s3_root_password", "s3_bucket", "s3_region",
		"s3_base_endpoint", "s3_public_base_url", "redis_dsn",
		"rate_limit_per_minute", "cors_origins", "log_level", "request_timeout",
		"serialize_link_writes", "dedup_search_total",
	}
	for _, k := range keys {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(k)
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	str("endpoint_addr_http", &config.EndpointAddrHTTP)
	str("endpoint_addr_grpc", &config.EndpointAddrGRPC)
	str("database_dsn", &config.DatabaseDSN)
	str("secret_key", &config.SecretKey)
	str("s3_root_user", &config.S3RootUser)
	str("s3_root_password", &config.S3RootPassword)
	str("s3_bucket", &config.S3Bucket)
	str("s3_region", &config.S3Region)
	str("s3_base_endpoint", &config.S3BaseEndpoint)
	str("s3_public_base_url", &config.S3PublicBaseURL)
	str("redis_dsn", &config.RedisDSN)
	str("log_level", &config.LogLevel)

	if v.IsSet("access_token_validity_duration") {
		config.AccessTokenValidityDuration = v.GetDuration("access_token_validity_duration")
	}
	if v.IsSet("refresh_token_validity_duration") {
		config.RefreshTokenValidityDuration = v.GetDuration("refresh_token_validity_duration")
	}
	if v.IsSet("request_timeout") {
		config.RequestTimeout = v.GetDuration("request_timeout")
	}
	if v.IsSet("rate_limit_per_minute") {
		config.RateLimitPerMinute = v.GetInt("rate_limit_per_minute")
	}
	if v.IsSet("serialize_link_writes") {
		config.SerializeLinkWrites = v.GetBool("serialize_link_writes")
	}
	if v.IsSet("dedup_search_total") {
		config.DedupSearchTotal = v.GetBool("dedup_search_total")
	}
	if v.IsSet("cors_origins") {
		config.CORSOrigins = splitList(v.GetString("cors_origins"))
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
