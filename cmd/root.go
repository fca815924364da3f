package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "artistbot",
		Short:         "AI artist bot: commission songs from a remote generation service",
		Long:          "artistbot runs a Discord bot that commissions song generation jobs against a pool of authenticated sessions, and offers maintenance commands for credits and generation defaults.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(app),
		newCreditsCmd(app),
		newStyleCmd(app),
		newLangCmd(app),
	)

	return rootCmd
}
