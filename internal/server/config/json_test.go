package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_Full(t *testing.T) {
	path := writeTempJSON(t, t.TempDir(), "full.json", map[string]any{
		"endpoint_addr_http": "0.0.0.0:9000",
		"debug":              true,
		"log_level":          "debug",
		"database": map[string]any{
			"dsn":               "postgres://a:b@db:5432/ident",
			"pool_size":         2,
			"max_overflow":      0,
			"conn_max_lifetime": "5m",
		},
		"jwt": map[string]any{
			"private_key":       "/keys/priv.pem",
			"public_key":        "/keys/pub.pem",
			"algorithm":         "RS512",
			"access_token_ttl":  "15m",
			"refresh_token_ttl": 3600000000000,
		},
		"password": map[string]any{
			"algorithm":   "argon2id",
			"bcrypt_cost": 10,
		},
		"cors": map[string]any{
			"origins":     []string{"https://app.example"},
			"methods":     []string{"GET", "POST"},
			"headers":     []string{"Authorization"},
			"credentials": false,
		},
	})

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseJson(&cfg, []string{"-config", path}))

	assert.Equal(t, "0.0.0.0:9000", cfg.EndpointAddrHTTP)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres://a:b@db:5432/ident", cfg.Database.DSN)
	assert.Equal(t, 2, cfg.Database.PoolSize)
	assert.Equal(t, 0, cfg.Database.MaxOverflow)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "/keys/priv.pem", cfg.JWT.PrivateKeyPath)
	assert.Equal(t, "/keys/pub.pem", cfg.JWT.PublicKeyPath)
	assert.Equal(t, "RS512", cfg.JWT.Algorithm)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, "argon2id", cfg.Password.Algorithm)
	assert.Equal(t, 10, cfg.Password.BcryptCost)
	assert.Equal(t, []string{"https://app.example"}, cfg.CORS.Origins)
	assert.Equal(t, []string{"GET", "POST"}, cfg.CORS.Methods)
	assert.Equal(t, []string{"Authorization"}, cfg.CORS.Headers)
	assert.False(t, cfg.CORS.Credentials)
}

func Test_parseJson_PartialKeepsDefaults(t *testing.T) {
	path := writeTempJSON(t, t.TempDir(), "partial.json", map[string]any{
		"jwt": map[string]any{"algorithm": "RS384"},
	})

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseJson(&cfg, []string{"-c", path}))

	assert.Equal(t, "RS384", cfg.JWT.Algorithm)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, ":8000", cfg.EndpointAddrHTTP)
	assert.Equal(t, 10, cfg.Database.MaxOverflow)
}

func Test_parseJson_NoFlag(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseJson(&cfg, []string{"-a", ":1"}))
	assert.Equal(t, ":8000", cfg.EndpointAddrHTTP)
}

func Test_parseJson_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))

	badTTL := writeTempJSON(t, dir, "ttl.json", map[string]any{
		"jwt": map[string]any{"access_token_ttl": "forever"},
	})

	var cfg Config
	assert.Error(t, parseJson(&cfg, []string{"-c", bad}))
	assert.Error(t, parseJson(&cfg, []string{"-c", badTTL}))
	assert.Error(t, parseJson(&cfg, []string{"-c", filepath.Join(dir, "missing.json")}))
}
