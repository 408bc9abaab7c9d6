package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithPath(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "dfw-booking", cfg.App.Name)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
	assert.InDelta(t, 0.01, cfg.Booking.PaymentTolerance, 1e-9)
	assert.Greater(t, cfg.Pricing.DailyRate, cfg.Pricing.HourlyRate)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 9090
pricing:
  hourly_rate: 4
  daily_rate: 20
booking:
  payment_tolerance: 0.05
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := LoadWithPath(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 4.0, cfg.Pricing.HourlyRate)
	assert.Equal(t, 20.0, cfg.Pricing.DailyRate)
	assert.Equal(t, 0.05, cfg.Booking.PaymentTolerance)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DFW_SERVER_PORT", "7070")
	t.Setenv("DFW_DATABASE_HOST", "db.internal")

	cfg, err := LoadWithPath(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"tax rate above 1", func(c *Config) { c.Pricing.TaxRate = 1.5 }, true},
		{"negative tolerance", func(c *Config) { c.Booking.PaymentTolerance = -0.01 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWithPath(t.TempDir())
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConnectionHelpers(t *testing.T) {
	db := DatabaseConfig{
		Host: "localhost", Port: 5432,
		User: "postgres", Password: "secret",
		DBName: "dfw_booking", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=dfw_booking sslmode=disable",
		db.DSN())

	r := RedisConfig{Host: "localhost", Port: 6379}
	assert.Equal(t, "localhost:6379", r.Addr())

	s := ServerConfig{Host: "0.0.0.0", Port: 8080}
	assert.Equal(t, "0.0.0.0:8080", s.Addr())
}
