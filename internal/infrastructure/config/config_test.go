package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "ordersync-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "ordersync", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.RunTimeout)
	assert.Equal(t, "https://api.moysklad.ru", cfg.Source.BaseURL)
	assert.Equal(t, "https://api.moysklad.ru", cfg.Destination.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.App.Port = "9090"
	cfg.Scheduler.Interval = 2 * time.Hour
	cfg.Source.BaseURL = "https://source.example.com"
	applyDefaults(cfg)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 2*time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, "https://source.example.com", cfg.Source.BaseURL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, valid().validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := valid()
		cfg.Database.MaxIdleConns = 50
		cfg.Database.MaxOpenConns = 10
		assert.Error(t, cfg.validate())
	})

	t.Run("interval below one minute rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Scheduler.Interval = 10 * time.Second
		assert.Error(t, cfg.validate())
	})

	t.Run("start moment format checked", func(t *testing.T) {
		cfg := valid()
		cfg.Sync.StartMoment = "2025-02-20 23:00:00"
		assert.NoError(t, cfg.validate())

		cfg.Sync.StartMoment = "20.02.2025"
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires tokens", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		assert.Error(t, cfg.validate())

		cfg.Source.Token = "a"
		cfg.Destination.Token = "b"
		assert.NoError(t, cfg.validate())
	})

	t.Run("production rejects wildcard CORS", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.Source.Token = "a"
		cfg.Destination.Token = "b"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "sync",
		Password: "p@ss/word",
		DBName:   "ordersync",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	require.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5433")
	assert.Contains(t, dsn, "sslmode=require")
	// Password must be escaped, not embedded raw
	assert.NotContains(t, dsn, "p@ss/word")
}
