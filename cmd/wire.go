package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/LOLLOVANDEV/incognitobot/internal/adapters/generator/huggingface"
	"github.com/LOLLOVANDEV/incognitobot/internal/adapters/httpapi"
	"github.com/LOLLOVANDEV/incognitobot/internal/adapters/membership"
	accountrender "github.com/LOLLOVANDEV/incognitobot/internal/adapters/render/account"
	"github.com/LOLLOVANDEV/incognitobot/internal/adapters/repo/flatfile"
	"github.com/LOLLOVANDEV/incognitobot/internal/adapters/repo/postgres"
	"github.com/LOLLOVANDEV/incognitobot/internal/adapters/repo/sqlite"
	tomlrepo "github.com/LOLLOVANDEV/incognitobot/internal/adapters/repo/toml"
	"github.com/LOLLOVANDEV/incognitobot/internal/adapters/secrets/chain"
	filestore "github.com/LOLLOVANDEV/incognitobot/internal/adapters/secrets/file"
	"github.com/LOLLOVANDEV/incognitobot/internal/adapters/telegram"
	"github.com/LOLLOVANDEV/incognitobot/internal/application"
	"github.com/LOLLOVANDEV/incognitobot/internal/config"
	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/LOLLOVANDEV/incognitobot/internal/logging"
	"github.com/LOLLOVANDEV/incognitobot/internal/ports"
	"github.com/spf13/viper"
)

type ledgerStore interface {
	ports.LedgerRepository
	Close() error
}

type compactor interface {
	Compact(ctx context.Context) error
}

type app struct {
	cfg             config.Config
	logger          *slog.Logger
	store           ledgerStore
	ledger          *application.LedgerService
	quota           *application.QuotaEngine
	admin           *application.AdminService
	sessions        *application.SessionMachine
	router          *application.Router
	deliverer       httpapi.ReplyDeliverer
	accountRenderer func([]domain.AccountRecord, accountrender.RenderOptions) (string, error)
}

func loadConfig(configFile string) (*viper.Viper, config.Config, error) {
	v, err := config.New(configFile)
	if err != nil {
		return nil, config.Config{}, err
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return nil, config.Config{}, err
	}
	return v, cfg, nil
}

func wireCredentials(cfg config.Secrets) (*application.CredentialService, error) {
	if !cfg.UsePass {
		return application.NewCredentialService(filestore.NewStore(cfg.Dir)), nil
	}

	store, err := chain.NewPassFirstWithFileFallback(cfg.PassPrefix, cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}
	return application.NewCredentialService(store), nil
}

// resolveTokens fills empty token settings from the secret store.
func resolveTokens(ctx context.Context, cfg *config.Config) error {
	credentials, err := wireCredentials(cfg.Secrets)
	if err != nil {
		return err
	}

	resolved := []struct {
		name  string
		value *string
	}{
		{name: application.CredentialTelegramToken, value: &cfg.Telegram.Token},
		{name: application.CredentialGeneratorToken, value: &cfg.Generator.Token},
		{name: application.CredentialAPIToken, value: &cfg.Server.APIToken},
		{name: application.CredentialWebhookSecret, value: &cfg.Server.WebhookSecret},
	}
	for _, credential := range resolved {
		value, err := credentials.Resolve(ctx, credential.name, *credential.value)
		if err != nil {
			return err
		}
		*credential.value = value
	}

	return cfg.ValidateTelegram()
}

func wireApp(ctx context.Context, configFile string, logOutput io.Writer) (*app, error) {
	v, cfg, err := loadConfig(configFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, logOutput)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	if err := resolveTokens(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("resolve credentials: %w", err)
	}

	store, err := openLedger(ctx, v, cfg.Ledger.Driver)
	if err != nil {
		return nil, fmt.Errorf("wire ledger repository: %w", err)
	}

	personas, err := tomlrepo.NewPersonaCatalog(v)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("wire persona catalog: %w", err)
	}

	labels := application.DefaultButtonLabels()
	random := ports.SystemRandom{}
	policy := domain.QuotaPolicy{FreeLimit: cfg.Quota.FreeLimit, CostPerUse: cfg.Quota.CostPerUse}

	var (
		oracle    ports.MembershipOracle
		notifier  ports.Notifier
		deliverer httpapi.ReplyDeliverer
	)
	if cfg.Telegram.Token != "" {
		client := telegram.Client{
			API:       telegram.API{BaseURL: cfg.Telegram.APIURL, Token: cfg.Telegram.Token},
			ChannelID: cfg.Telegram.ChannelID,
			Keyboards: telegram.Keyboards{
				Labels:     labels.ByButton(),
				ChannelURL: cfg.Telegram.ChannelURL,
			},
			HTTPClient:     http.DefaultClient,
			RequestTimeout: cfg.Telegram.RequestTimeout,
		}
		oracle, notifier, deliverer = client, client, client
	} else {
		logger.Debug("no telegram token configured, using static membership", "members", len(cfg.Membership.StaticMembers))
		oracle = membership.NewStaticOracle(toIdentities(cfg.Membership.StaticMembers))
	}

	var generator ports.Generator
	if cfg.Generator.URL != "" {
		generator = huggingface.Client{
			URL:   cfg.Generator.URL,
			Token: cfg.Generator.Token,
			Parameters: huggingface.Parameters{
				MaxNewTokens:      cfg.Generator.MaxNewTokens,
				Temperature:       cfg.Generator.Temperature,
				DoSample:          true,
				TopP:              cfg.Generator.TopP,
				RepetitionPenalty: cfg.Generator.RepetitionPenalty,
			},
			HTTPClient:     http.DefaultClient,
			RequestTimeout: cfg.Generator.Timeout,
		}
	}

	ledger := application.NewLedgerService(store, random, logger)
	quota := application.NewQuotaEngine(store, policy, logger)
	admin := application.NewAdminService(toIdentities(cfg.Admin.IDs), store, notifier, logger)
	responses := application.NewResponseEngine(generator, random, logger, application.WithGeneratorTimeout(cfg.Generator.Timeout))
	sessions := application.NewSessionMachine(application.NewSessionStore(), ledger, quota, responses, personas, random, ports.SystemClock{}, logger)
	router := application.NewRouter(
		application.NewClassifier(labels),
		application.NewAccessGate(oracle, logger),
		sessions,
		ledger,
		quota,
		admin,
		logger,
	)

	return &app{
		cfg:             cfg,
		logger:          logger,
		store:           store,
		ledger:          ledger,
		quota:           quota,
		admin:           admin,
		sessions:        sessions,
		router:          router,
		deliverer:       deliverer,
		accountRenderer: accountrender.Render,
	}, nil
}

func (a *app) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

func openLedger(ctx context.Context, v *viper.Viper, driver string) (ledgerStore, error) {
	switch driver {
	case config.DriverFile:
		return flatfile.NewRepository(v)
	case config.DriverSQLite:
		return sqlite.NewRepository(v)
	case config.DriverPostgres:
		return postgres.NewRepository(ctx, v)
	default:
		return nil, errors.New("unknown ledger driver " + driver)
	}
}

func toIdentities(ids []int64) []domain.Identity {
	identities := make([]domain.Identity, 0, len(ids))
	for _, id := range ids {
		identities = append(identities, domain.Identity(id))
	}
	return identities
}
