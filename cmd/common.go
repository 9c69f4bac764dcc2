package cmd

import (
	"context"
	"fmt"

	"github.com/parley-chat/parley-services/db"
	awsclient "github.com/parley-chat/parley-services/internal/aws"
	"github.com/parley-chat/parley-services/internal/app"
	"github.com/parley-chat/parley-services/internal/appconfig"
	"github.com/parley-chat/parley-services/internal/authn"
	"github.com/parley-chat/parley-services/internal/secrets"
	"github.com/rs/zerolog/log"
)

var (
	appCfg *appconfig.Config
	store  db.Store
)

// commonSetUp sets the log level, loads the config and opens the store.
func commonSetUp() {
	setLogging(logLevel)

	var err error
	if configPath == "" {
		appCfg = appconfig.Default()
	} else if appCfg, err = appconfig.LoadConfig(configPath); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	store, err = openStore(appCfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", appCfg.Database.Driver).Msg("Failed to initialize store")
	}
}

func openStore(cfg appconfig.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case "memory":
		log.Warn().Msg("Using the in-memory store; data is lost on exit")
		return db.NewMemoryDB(), nil
	case "postgres":
		return db.NewChatDB(cfg.Source, &log.Logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// newSigner builds the token signer, reading the key from Secrets Manager
// when a secret name is configured.
func newSigner(ctx context.Context) (*authn.Signer, error) {
	key := appCfg.Auth.SigningKey
	if appCfg.Auth.SigningKeySecret != "" {
		clients, err := awsclient.Load(ctx, appCfg.AWS)
		if err != nil {
			return nil, err
		}
		key, err = secrets.SigningKey(ctx, clients.SecretsManager(), appCfg.Auth.SigningKeySecret)
		if err != nil {
			return nil, err
		}
	}
	return authn.NewSigner(key, appCfg.Auth.TokenTTL)
}

func newApp(ctx context.Context) *app.App {
	signer, err := newSigner(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token signer")
	}
	a, err := app.New(appCfg, store, signer, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	return a
}
