package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("LINKFOLIO_ENDPOINT_ADDR_HTTP", ":9999")
	t.Setenv("LINKFOLIO_DATABASE_DSN", "postgres://env")
	t.Setenv("LINKFOLIO_ACCESS_TOKEN_VALIDITY_DURATION", "90s")
	t.Setenv("LINKFOLIO_RATE_LIMIT_PER_MINUTE", "7")
	t.Setenv("LINKFOLIO_CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LINKFOLIO_SERIALIZE_LINK_WRITES", "true")
	t.Setenv("LINKFOLIO_DEDUP_SEARCH_TOTAL", "1")
	t.Setenv("LINKFOLIO_REDIS_DSN", "redis://localhost:6379/0")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://env", c.DatabaseDSN)
	assert.Equal(t, 90*time.Second, c.AccessTokenValidityDuration)
	assert.Equal(t, 7, c.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins)
	assert.True(t, c.SerializeLinkWrites)
	assert.True(t, c.DedupSearchTotal)
	assert.Equal(t, "redis://localhost:6379/0", c.RedisDSN)

	// untouched
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "secretKey", c.SecretKey)
}

func TestParseEnv_NothingSet(t *testing.T) {
	var c, want Config
	c.LoadDefaults()
	want.LoadDefaults()

	parseEnv(&c)
	assert.Equal(t, want, c)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList(" a "))
	assert.Equal(t, []string{"a", "b"}, splitList("a,,b"))
}
