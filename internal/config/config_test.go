package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := New("")
	require.NoError(t, err)

	decoded, err := Decode(cfg)
	require.NoError(t, err)
	assert.Equal(t, DriverFile, decoded.Ledger.Driver)
	assert.Equal(t, "users_database.txt", decoded.Ledger.Path)
	assert.Equal(t, 256, decoded.Ledger.CompactEvery)
	assert.Equal(t, Quota{FreeLimit: 2, CostPerUse: 2}, decoded.Quota)
	assert.Equal(t, 10*time.Second, decoded.Telegram.RequestTimeout)
	assert.Equal(t, 15*time.Second, decoded.Generator.Timeout)
	assert.Equal(t, 80, decoded.Generator.MaxNewTokens)
	assert.InDelta(t, 1.2, decoded.Generator.RepetitionPenalty, 1e-9)
	assert.Equal(t, ":8080", decoded.Server.Listen)
	assert.Empty(t, decoded.Server.APIToken)
	assert.Equal(t, Log{Level: "info", Format: "text"}, decoded.Log)
	assert.Equal(t, Secrets{
		Dir:        filepath.Join(home, ".incognitobot", "secrets"),
		UsePass:    true,
		PassPrefix: "incognitobot",
	}, decoded.Secrets)
}

func TestNewReadsConfigFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "incognitobot.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[ledger]
driver = "sqlite"
path = "/var/lib/incognitobot/ledger.sqlite3"

[quota]
free_limit = 5

[admin]
ids = [11, 22]

[generator]
timeout = "3s"
`), 0o600))

	t.Setenv("INCOGNITOBOT_QUOTA_COST_PER_USE", "4")
	t.Setenv("INCOGNITOBOT_LOG_FORMAT", "json")

	cfg, err := New(path)
	require.NoError(t, err)

	decoded, err := Decode(cfg)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, decoded.Ledger.Driver)
	assert.Equal(t, "/var/lib/incognitobot/ledger.sqlite3", decoded.Ledger.Path)
	assert.Equal(t, Quota{FreeLimit: 5, CostPerUse: 4}, decoded.Quota)
	assert.Equal(t, []int64{11, 22}, decoded.Admin.IDs)
	assert.Equal(t, 3*time.Second, decoded.Generator.Timeout)
	assert.Equal(t, "json", decoded.Log.Format)
}

func TestNewFindsConfigInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "incognitobot.toml"), []byte("[server]\nlisten = \":9090\"\n"), 0o600))

	cfg, err := New("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.GetString("server.listen"))
}

func TestNewRejectsMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidateCollectsErrors(t *testing.T) {
	t.Parallel()

	err := Config{
		Ledger:   Ledger{Driver: "mongo"},
		Quota:    Quota{FreeLimit: -1, CostPerUse: 0},
		Telegram: Telegram{Token: "t"},
		Log:      Log{Format: "xml"},
	}.Validate()

	require.Error(t, err)
	for _, want := range []string{"ledger.driver", "quota.free_limit", "quota.cost_per_use", "telegram.channel_id", "server.webhook_secret", "log.format"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateTelegramNeedsWebhookSecret(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Ledger:   Ledger{Driver: DriverFile, Path: "users.txt"},
		Quota:    Quota{FreeLimit: 2, CostPerUse: 2},
		Telegram: Telegram{Token: "123:abc", ChannelID: -100200},
		Secrets:  Secrets{Dir: "secrets"},
		Log:      Log{Format: "text"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.webhook_secret")
	assert.NotContains(t, err.Error(), "telegram.channel_id")

	cfg.Server.WebhookSecret = "s3cret"
	require.NoError(t, cfg.Validate())

	cfg.Telegram.Token = ""
	cfg.Server.WebhookSecret = ""
	require.NoError(t, cfg.ValidateTelegram())
}

func TestValidatePostgresNeedsDSN(t *testing.T) {
	t.Parallel()

	err := Config{
		Ledger: Ledger{Driver: DriverPostgres},
		Quota:  Quota{FreeLimit: 2, CostPerUse: 2},
		Log:    Log{Format: "text"},
	}.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger.dsn")
}
