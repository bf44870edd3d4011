package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/LOLLOVANDEV/incognitobot/internal/application"
	"github.com/spf13/cobra"
)

func newSecretCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Store bot tokens outside the config file",
		Long: "Tokens are kept in pass(1) when it is available and in the secrets directory otherwise.\n" +
			"Known names: " + strings.Join(application.CredentialNames(), ", "),
	}

	cmd.AddCommand(
		newSecretSetCmd(root),
		newSecretDeleteCmd(root),
	)

	return cmd
}

func newSecretSetCmd(root *rootOptions) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Store a token; reads the first stdin line when --value is omitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			credentials, err := root.credentials()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("value") {
				value, err = readFirstLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			if err := credentials.Set(cmd.Context(), args[0], value); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Stored %s\n", args[0])
			return err
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "token value")

	return cmd
}

func newSecretDeleteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a stored token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			credentials, err := root.credentials()
			if err != nil {
				return err
			}

			if err := credentials.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return err
		},
	}
}

func readFirstLine(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
