package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "comercial-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "principal", cfg.Cash.DefaultRegister)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.Empty(t, cfg.Seed.AdminEmail)
	assert.Equal(t, "Administrador", cfg.Seed.AdminName)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("IDEMPOTENCY_TTL_MINUTES", "30")
	t.Setenv("CASH_DEFAULT_REGISTER", "caja-2")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("SEED_ADMIN_EMAIL", "admin@local")
	t.Setenv("SEED_ADMIN_PASSWORD", "secreto123")
	t.Setenv("SEED_CATALOG", "productos.csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "caja-2", cfg.Cash.DefaultRegister)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "admin@local", cfg.Seed.AdminEmail)
	assert.Equal(t, "secreto123", cfg.Seed.AdminPassword)
	assert.Equal(t, "productos.csv", cfg.Seed.CatalogPath)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "comercial", SSLMode: "disable"}
	dsn := c.DSN()
	assert.Contains(t, dsn, "p%40ss%3Aword")
	assert.Equal(t, dsn, c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
