package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/kaneo-sync/internal/model"
)

func newRootCmd(cfg *model.AppConfig, configPath string) *cobra.Command {
	var (
		logLevel   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:           "kaneo-sync",
		Short:         "Mirror Kaneo tasks onto GitHub issues",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := setupLogging(cmd.ErrOrStderr(), logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(
		newConnectCmd(cfg),
		newDisconnectCmd(cfg),
		newTaskCmd(cfg, &jsonOutput),
		newEmitCmd(cfg, &jsonOutput),
		newKeyCmd(),
		newConfigCmd(cfg, configPath),
	)

	return cmd
}
