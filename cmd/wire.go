package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	tomlrepo "github.com/bnema/suno-artist-bot/internal/adapters/repo/toml"
	"github.com/bnema/suno-artist-bot/internal/adapters/suno"
	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/bnema/suno-artist-bot/internal/lang"
	"github.com/bnema/suno-artist-bot/internal/logging"
	"github.com/bnema/suno-artist-bot/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	store     *tomlrepo.Store
	config    domain.Config
	localizer ports.Localizer
	factory   ports.ClientFactory
}

func wireApp() (*app, error) {
	logging.Setup(envOrDefault("ARTISTBOT_LOG_LEVEL", "info"))

	store, err := tomlrepo.NewStore(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire settings store: %w", err)
	}

	config, err := store.Load(context.Background())
	if err != nil {
		if errors.Is(err, tomlrepo.ErrDefaultCreated) {
			return nil, fmt.Errorf("%w; fill it in and start again", err)
		}
		return nil, fmt.Errorf("load config: %w", err)
	}

	localizer, err := loadLocalizer(config)
	if err != nil {
		return nil, err
	}

	return &app{
		store:     store,
		config:    config,
		localizer: localizer,
		factory: suno.NewFactory(suno.Config{
			Logger: logging.Component("suno"),
		}),
	}, nil
}

func loadLocalizer(config domain.Config) (ports.Localizer, error) {
	if _, err := os.Stat(config.TranslationsDir); err != nil {
		if os.IsNotExist(err) {
			return lang.NewPassthrough(), nil
		}
		return nil, fmt.Errorf("stat translations directory: %w", err)
	}

	localizer, err := lang.Load(config.TranslationsDir, config.Locale, logging.Component("lang"))
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	return localizer, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
