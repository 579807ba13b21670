package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/kaneo-sync/internal/model"
)

const tokenEnvKey = "KANEO_SYNC_GITHUB_TOKEN"

func newConnectCmd(cfg *model.AppConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect a project to a GitHub repository",
	}

	cmd.AddCommand(newConnectPATCmd(cfg), newConnectAppCmd(cfg))
	return cmd
}

func newConnectPATCmd(cfg *model.AppConfig) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "pat <project-id> <repository-url>",
		Short: "Connect using a personal access token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv(tokenEnvKey)
			}
			if token == "" {
				return fmt.Errorf("a token is required: pass --token or set %s", tokenEnvKey)
			}

			e, err := openEngine(cfg)
			if err != nil {
				return err
			}
			defer e.close()

			integration, err := e.connector.ConnectPAT(cmd.Context(), args[0], args[1], token)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "connected %s to %s (token)\n", args[0], integration.Repository())
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "personal access token (default $"+tokenEnvKey+")")
	return cmd
}

func newConnectAppCmd(cfg *model.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "app <project-id> <repository-url> <installation-id>",
		Short: "Connect using a GitHub App installation",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			installationID, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil || installationID <= 0 {
				return fmt.Errorf("invalid installation id %q", args[2])
			}

			e, err := openEngine(cfg)
			if err != nil {
				return err
			}
			defer e.close()

			integration, err := e.connector.ConnectApp(cmd.Context(), args[0], args[1], installationID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "connected %s to %s (installation %d)\n",
				args[0], integration.Repository(), installationID)
			return nil
		},
	}
}

func newDisconnectCmd(cfg *model.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <project-id>",
		Short: "Stop synchronizing a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine(cfg)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.connector.Disconnect(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "disconnected %s\n", args[0])
			return nil
		},
	}
}
