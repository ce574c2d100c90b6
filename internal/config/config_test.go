package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ENV", "MONGODB_URI", "MONGO_URI", "REDIS_URI", "JWT_SECRET",
		"PORT", "FRONTEND_URL", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "mongodb://localhost:27017/triporia", cfg.MongoURI)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURI)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", " Production ")
	t.Setenv("MONGODB_URI", "mongodb://db:27017/app")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com,")
	t.Setenv("FRONTEND_URL", "https://app.example.com")

	cfg := Load()
	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mongodb://db:27017/app", cfg.MongoURI)
	assert.Equal(t,
		[]string{"https://app.example.com", "https://admin.example.com"},
		cfg.AllowedOrigins)
}
