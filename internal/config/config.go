// Package config loads the bot configuration from incognitobot.toml and
// INCOGNITOBOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "incognitobot"
	configType = "toml"
	configDir  = ".incognitobot"
	envPrefix  = "INCOGNITOBOT"
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Ledger     Ledger     `mapstructure:"ledger"`
	Quota      Quota      `mapstructure:"quota"`
	Admin      Admin      `mapstructure:"admin"`
	Telegram   Telegram   `mapstructure:"telegram"`
	Membership Membership `mapstructure:"membership"`
	Generator  Generator  `mapstructure:"generator"`
	Personas   Personas   `mapstructure:"personas"`
	Server     Server     `mapstructure:"server"`
	Secrets    Secrets    `mapstructure:"secrets"`
	Log        Log        `mapstructure:"log"`
}

type Ledger struct {
	Driver       string `mapstructure:"driver"`
	Path         string `mapstructure:"path"`
	DSN          string `mapstructure:"dsn"`
	CompactEvery int    `mapstructure:"compact_every"`
}

type Quota struct {
	FreeLimit  int64 `mapstructure:"free_limit"`
	CostPerUse int64 `mapstructure:"cost_per_use"`
}

type Admin struct {
	IDs []int64 `mapstructure:"ids"`
}

type Telegram struct {
	APIURL         string        `mapstructure:"api_url"`
	Token          string        `mapstructure:"token"`
	ChannelID      int64         `mapstructure:"channel_id"`
	ChannelURL     string        `mapstructure:"channel_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type Membership struct {
	StaticMembers []int64 `mapstructure:"static_members"`
}

type Generator struct {
	URL               string        `mapstructure:"url"`
	Token             string        `mapstructure:"token"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxNewTokens      int           `mapstructure:"max_new_tokens"`
	Temperature       float64       `mapstructure:"temperature"`
	TopP              float64       `mapstructure:"top_p"`
	RepetitionPenalty float64       `mapstructure:"repetition_penalty"`
}

type Personas struct {
	Path string `mapstructure:"path"`
}

type Server struct {
	Listen          string        `mapstructure:"listen"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	WebhookSecret   string        `mapstructure:"webhook_secret"`
	APIToken        string        `mapstructure:"api_token"`
	CompactInterval time.Duration `mapstructure:"compact_interval"`
}

// Secrets locates the credential store used when telegram.token or
// generator.token is left empty.
type Secrets struct {
	Dir        string `mapstructure:"dir"`
	UsePass    bool   `mapstructure:"use_pass"`
	PassPrefix string `mapstructure:"pass_prefix"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every key, which also makes each one reachable
// through its environment variable.
func SetDefaults(cfg *viper.Viper) {
	cfg.SetDefault("ledger.driver", DriverFile)
	cfg.SetDefault("ledger.path", "users_database.txt")
	cfg.SetDefault("ledger.dsn", "")
	cfg.SetDefault("ledger.compact_every", 256)

	cfg.SetDefault("quota.free_limit", 2)
	cfg.SetDefault("quota.cost_per_use", 2)

	cfg.SetDefault("admin.ids", []int64{})

	cfg.SetDefault("telegram.api_url", "https://api.telegram.org")
	cfg.SetDefault("telegram.token", "")
	cfg.SetDefault("telegram.channel_id", 0)
	cfg.SetDefault("telegram.channel_url", "")
	cfg.SetDefault("telegram.request_timeout", 10*time.Second)

	cfg.SetDefault("membership.static_members", []int64{})

	cfg.SetDefault("generator.url", "")
	cfg.SetDefault("generator.token", "")
	cfg.SetDefault("generator.timeout", 15*time.Second)
	cfg.SetDefault("generator.max_new_tokens", 80)
	cfg.SetDefault("generator.temperature", 0.9)
	cfg.SetDefault("generator.top_p", 0.9)
	cfg.SetDefault("generator.repetition_penalty", 1.2)

	cfg.SetDefault("personas.path", "")

	cfg.SetDefault("server.listen", ":8080")
	cfg.SetDefault("server.shutdown_timeout", 10*time.Second)
	cfg.SetDefault("server.webhook_secret", "")
	cfg.SetDefault("server.api_token", "")
	cfg.SetDefault("server.compact_interval", time.Minute)

	cfg.SetDefault("secrets.dir", defaultSecretsDir())
	cfg.SetDefault("secrets.use_pass", true)
	cfg.SetDefault("secrets.pass_prefix", "incognitobot")

	cfg.SetDefault("log.level", "info")
	cfg.SetDefault("log.format", "text")
}

func defaultSecretsDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(configDir, "secrets")
	}
	return filepath.Join(homeDir, configDir, "secrets")
}

// New builds the viper instance. An explicit configFile must exist; otherwise
// incognitobot.toml is looked up in the working directory and in
// $HOME/.incognitobot, and its absence is not an error.
func New(configFile string) (*viper.Viper, error) {
	cfg := viper.New()
	SetDefaults(cfg)

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	if configFile != "" {
		cfg.SetConfigFile(configFile)
		if err := cfg.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		return cfg, nil
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	}

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

// Decode unmarshals cfg into a validated Config.
func Decode(cfg *viper.Viper) (Config, error) {
	var decoded Config
	if err := cfg.Unmarshal(&decoded); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := decoded.Validate(); err != nil {
		return Config{}, err
	}

	return decoded, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.Ledger.Driver {
	case DriverFile, DriverSQLite:
		if strings.TrimSpace(c.Ledger.Path) == "" {
			errs = append(errs, errors.New("ledger.path is required"))
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Ledger.DSN) == "" {
			errs = append(errs, errors.New("ledger.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("ledger.driver %q is not one of file, sqlite, postgres", c.Ledger.Driver))
	}

	if c.Quota.FreeLimit < 0 {
		errs = append(errs, errors.New("quota.free_limit must not be negative"))
	}
	if c.Quota.CostPerUse <= 0 {
		errs = append(errs, errors.New("quota.cost_per_use must be positive"))
	}
	if err := c.ValidateTelegram(); err != nil {
		errs = append(errs, err)
	}

	if strings.TrimSpace(c.Secrets.Dir) == "" {
		errs = append(errs, errors.New("secrets.dir is required"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", c.Log.Format))
	}

	return errors.Join(errs...)
}

// ValidateTelegram checks the settings a telegram token depends on. It runs
// again once tokens have been resolved from the secret store.
func (c Config) ValidateTelegram() error {
	if c.Telegram.Token == "" {
		return nil
	}

	var errs []error
	if c.Telegram.ChannelID == 0 {
		errs = append(errs, errors.New("telegram.channel_id is required when telegram.token is set"))
	}
	if strings.TrimSpace(c.Server.WebhookSecret) == "" {
		errs = append(errs, errors.New("server.webhook_secret is required when telegram.token is set"))
	}
	return errors.Join(errs...)
}
