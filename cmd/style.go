package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStyleCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "style [tags]",
		Short: "Show or set the default style tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), app.config.Artist.Style)
				return err
			}

			settings := app.config.Artist
			settings.Style = args[0]
			if err := app.store.SaveArtist(cmd.Context(), settings); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "style set to: %s\n", args[0])
			return err
		},
	}
}
