package cmd

import (
	"github.com/LOLLOVANDEV/incognitobot/internal/application"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "incognitobot",
		Short:         "Incognito chat bot: membership-gated AI persona chats with metered credits",
		Long:          "incognitobot serves the chat bot webhook, replays events locally and lets operators inspect and recharge user accounts.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to incognitobot.toml")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(opts),
		newSimulateCmd(opts),
		newAccountCmd(opts),
		newSecretCmd(opts),
	)

	return rootCmd
}

// wire builds the application for one command run. Logs go to stderr so
// command output stays parseable.
func (o *rootOptions) wire(cmd *cobra.Command) (*app, error) {
	return wireApp(cmd.Context(), o.configFile, cmd.ErrOrStderr())
}

func (o *rootOptions) credentials() (*application.CredentialService, error) {
	_, cfg, err := loadConfig(o.configFile)
	if err != nil {
		return nil, err
	}
	return wireCredentials(cfg.Secrets)
}
