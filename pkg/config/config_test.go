package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 15*time.Minute, cfg.Lifecycle.CheckinGracePeriod)
	assert.Equal(t, 256, cfg.QR.Size)
	assert.Equal(t, time.Hour, cfg.Exports.SignedURLTTL)
	assert.False(t, cfg.JWT.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("CHECKIN_GRACE_PERIOD", "5m")
	v.Set("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	v.Set("EXPORT_URL_TTL", "not-a-duration")
	v.Set("QR_SIZE", -1)

	cfg := fromViper(v)

	assert.Equal(t, 5*time.Minute, cfg.Lifecycle.CheckinGracePeriod)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.Exports.SignedURLTTL)
	assert.Equal(t, 256, cfg.QR.Size)
}
