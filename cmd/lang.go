package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLangCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "language [language]",
		Short: "Show or set the default lyric language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), app.config.Artist.Language)
				return err
			}

			settings := app.config.Artist
			settings.Language = args[0]
			if err := app.store.SaveArtist(cmd.Context(), settings); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "language set to: %s\n", args[0])
			return err
		},
	}
}
