package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/suno-artist-bot/internal/adapters/render/credits"
	"github.com/spf13/cobra"
)

func newCreditsCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "credits",
		Short: "Check remaining generation credits for every configured client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(app.config.Clients) == 0 {
				return fmt.Errorf("no client credentials configured")
			}

			snapshots := make([]credits.Snapshot, 0, len(app.config.Clients))

			fetch := func(ctx context.Context, checked func()) error {
				for i, credential := range app.config.Clients {
					snapshot := credits.Snapshot{ClientID: i}

					client, err := app.factory(ctx, credential)
					if err != nil {
						snapshot.Err = err
						snapshots = append(snapshots, snapshot)
						checked()
						continue
					}

					snapshot.Billing, snapshot.Err = client.CheckBilling(ctx)
					client.Close()
					snapshots = append(snapshots, snapshot)
					checked()
				}
				return nil
			}

			if err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Checking client credits...", len(app.config.Clients), fetch); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), credits.Render(snapshots))
			return err
		},
	}
}
