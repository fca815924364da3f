package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/bnema/suno-artist-bot/internal/adapters/discord"
	"github.com/bnema/suno-artist-bot/internal/application"
	"github.com/bnema/suno-artist-bot/internal/logging"
	"github.com/spf13/cobra"
)

func newRunCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the Discord bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.config.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			if app.config.DiscordToken == "" {
				return fmt.Errorf("invalid config: discord token is required")
			}

			pool := application.NewSessionPool(app.config.Clients, app.factory, application.PoolConfig{
				Logger: logging.Component("pool"),
			})
			pipeline := application.NewCommissionPipeline(app.localizer, logging.Component("pipeline"))
			artist := application.NewArtist(app.config.Artist, pool, pipeline, app.store, app.localizer, logging.Component("artist"))

			bot, err := discord.NewBot(app.config.DiscordToken, artist, app.localizer, logging.Component("discord"))
			if err != nil {
				return err
			}

			pool.StartReaper()
			defer pool.StopReaper()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return bot.Start(ctx)
		},
	}
}
