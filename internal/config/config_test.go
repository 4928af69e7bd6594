package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "https://api.chatwork.com/v2", cfg.Chatwork.APIURL)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aicoconsole.toml")
	content := `
[server]
port = 4000

[database]
url = "postgres://localhost/console"

[auth]
jwt_secret = "sekrit"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/console", cfg.Database.URL)
	assert.Equal(t, "sekrit", cfg.Auth.JWTSecret)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("AICOCONSOLE_SERVER_PORT", "5000")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 3000
	cfg.Database.URL = "postgres://x"
	cfg.Auth.JWTSecret = "y"
	assert.NoError(t, Validate(cfg))

	missing := &Config{}
	missing.Server.Port = 3000
	assert.Error(t, Validate(missing))
}

func TestInitConfigRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aicoconsole.toml")
	require.NoError(t, InitConfig(path))
	assert.Error(t, InitConfig(path))
}
