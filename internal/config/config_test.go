package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(envOf(map[string]string{"ORDER_SERVICE_URL": "http://orders"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.OrderService.Timeout)
	assert.Equal(t, 10*time.Second, cfg.SnapshotTTL)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Timezone)
	assert.False(t, cfg.MySQL.Enabled())
	assert.Empty(t, cfg.RedisAddr())
}

func TestLoadFromFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
order_service:
  url: http://from-file
  timeout: 3s
redis_host: cache
mysql:
  host: db
  user: console
  password: secret
  database: exports
snapshot_ttl: 30s
`), 0o600))

	cfg, err := LoadFrom(envOf(map[string]string{
		"CONFIG_FILE":   path,
		"PORT":          "9100",
		"SNAPSHOT_TTL":  "1m",
		"LOGIN_URL":     "https://shop/login",
		"PDF_FONT_PATH": "/fonts/NotoSans.ttf",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "http://from-file", cfg.OrderService.URL)
	assert.Equal(t, 3*time.Second, cfg.OrderService.Timeout)
	assert.Equal(t, time.Minute, cfg.SnapshotTTL)
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
	assert.True(t, cfg.MySQL.Enabled())
	assert.Equal(t, "console:secret@tcp(db:3306)/exports?charset=utf8mb4&parseTime=True&loc=UTC", cfg.MySQL.DSN())
	assert.Equal(t, "https://shop/login", cfg.LoginURL)
	assert.Equal(t, "/fonts/NotoSans.ttf", cfg.PDFFontPath)
}

func TestLoadFromValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing order service", env: map[string]string{}},
		{name: "non numeric port", env: map[string]string{"ORDER_SERVICE_URL": "http://o", "PORT": "http"}},
		{name: "bad timezone", env: map[string]string{"ORDER_SERVICE_URL": "http://o", "CONSOLE_TIMEZONE": "Mars/Olympus"}},
		{name: "bad duration", env: map[string]string{"ORDER_SERVICE_URL": "http://o", "SNAPSHOT_TTL": "soon"}},
		{name: "missing file", env: map[string]string{"ORDER_SERVICE_URL": "http://o", "CONFIG_FILE": "/nonexistent/console.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(envOf(tt.env))
			assert.Error(t, err)
		})
	}
}
