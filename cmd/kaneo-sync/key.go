package main

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/kaneo-sync/internal/credential"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the token encryption key",
	}

	cmd.AddCommand(newKeySetCmd(), newKeyDeleteCmd())
	return cmd
}

func newKeySetCmd() *cobra.Command {
	var generate bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the token encryption key in the system keyring",
		Long: fmt.Sprintf("Read a %d-byte key from stdin (or generate one) and store it in the "+
			"system keyring. %s takes precedence when set.", credential.KeySize, credential.EncryptionKeyEnv),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if generate {
				raw := make([]byte, credential.KeySize/2)
				if _, err := rand.Read(raw); err != nil {
					return fmt.Errorf("generating key: %w", err)
				}
				key = hex.EncodeToString(raw)
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading key from stdin: %w", err)
				}
				key = strings.TrimRight(line, "\r\n")
			}

			if len(key) != credential.KeySize {
				return fmt.Errorf("key must be exactly %d bytes, got %d", credential.KeySize, len(key))
			}
			if err := credential.NewSecretStore().Set(credential.EncryptionKeyName, key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "stored encryption key in keyring")
			return nil
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "generate a random key")
	return cmd
}

func newKeyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the token encryption key from the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return credential.NewSecretStore().Delete(credential.EncryptionKeyName)
		},
	}
}
