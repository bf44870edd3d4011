package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	accountrender "github.com/LOLLOVANDEV/incognitobot/internal/adapters/render/account"
	"github.com/LOLLOVANDEV/incognitobot/internal/application"
	"github.com/LOLLOVANDEV/incognitobot/internal/domain"
	"github.com/spf13/cobra"
)

type accountOutput struct {
	Identity         int64  `json:"identity"`
	PublicCode       string `json:"public_code"`
	CreditBalance    int64  `json:"credit_balance"`
	City             string `json:"city"`
	FreeUsesConsumed int64  `json:"free_uses_consumed"`
	FreeUsesLeft     int64  `json:"free_uses_left"`
}

type rechargeOutput struct {
	Account         accountOutput `json:"account"`
	PreviousBalance int64         `json:"previous_balance"`
	NotifyAttempted bool          `json:"notify_attempted"`
	Notified        bool          `json:"notified"`
}

func newAccountCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Inspect and recharge user accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(root),
		newAccountInfoCmd(root),
		newAccountRechargeCmd(root),
	)

	return cmd
}

func newAccountListCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every account in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := root.wire(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			records, err := app.ledger.List(cmd.Context())
			if err != nil {
				return err
			}

			return writeAccounts(cmd, app, records, asJSON, true)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON output")

	return cmd
}

func newAccountInfoCmd(root *rootOptions) *cobra.Command {
	var (
		operator int64
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "info <code>",
		Short: "Show one account by its public code",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := application.ParseInfoArgs(args)
			if err != nil {
				return usageError(cmd, err)
			}

			app, err := root.wire(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			record, err := app.admin.Lookup(cmd.Context(), domain.Identity(operator), code)
			if err != nil {
				return describeAdminError(code, err)
			}

			return writeAccounts(cmd, app, []domain.AccountRecord{record}, asJSON, false)
		},
	}

	cmd.Flags().Int64Var(&operator, "operator", 0, "operator identity from the admin allow-list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON output")
	_ = cmd.MarkFlagRequired("operator")

	return cmd
}

func newAccountRechargeCmd(root *rootOptions) *cobra.Command {
	var (
		operator int64
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "recharge <amount> <code>",
		Short: "Set the credit balance of an account",
		Long:  "recharge replaces the credit balance of the account with the given amount and notifies the user when a bot token is configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, code, err := application.ParseRechargeArgs(args)
			if err != nil {
				return usageError(cmd, err)
			}

			app, err := root.wire(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			result, err := app.admin.SetCredits(cmd.Context(), domain.Identity(operator), code, amount)
			if err != nil {
				return describeAdminError(code, err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rechargeOutput{
					Account:         toAccountOutput(result.Account, app.cfg.Quota.FreeLimit),
					PreviousBalance: result.PreviousBalance,
					NotifyAttempted: result.NotifyAttempted,
					Notified:        result.Notified,
				})
			}

			notice := "no notifier configured"
			if result.NotifyAttempted {
				notice = fmt.Sprintf("notified: %t", result.Notified)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Credits of %s set to %d (previous %d, %s)\n",
				result.Account.PublicCode, result.Account.CreditBalance, result.PreviousBalance, notice)
			return err
		},
	}

	cmd.Flags().Int64Var(&operator, "operator", 0, "operator identity from the admin allow-list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON output")
	_ = cmd.MarkFlagRequired("operator")

	return cmd
}

func writeAccounts(cmd *cobra.Command, app *app, records []domain.AccountRecord, asJSON bool, showIdentity bool) error {
	if asJSON {
		out := make([]accountOutput, 0, len(records))
		for _, record := range records {
			out = append(out, toAccountOutput(record, app.cfg.Quota.FreeLimit))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	rendered, err := app.accountRenderer(records, accountrender.RenderOptions{
		FreeLimit:    app.cfg.Quota.FreeLimit,
		CostPerUse:   app.cfg.Quota.CostPerUse,
		ShowIdentity: showIdentity,
	})
	if err != nil {
		return fmt.Errorf("render accounts: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func toAccountOutput(record domain.AccountRecord, freeLimit int64) accountOutput {
	return accountOutput{
		Identity:         int64(record.Identity),
		PublicCode:       string(record.PublicCode),
		CreditBalance:    record.CreditBalance,
		City:             record.City,
		FreeUsesConsumed: record.FreeUsesConsumed,
		FreeUsesLeft:     record.FreeUsesLeft(freeLimit),
	}
}

func usageError(cmd *cobra.Command, err error) error {
	return fmt.Errorf("%w\nusage: %s", err, cmd.UseLine())
}

func describeAdminError(code domain.PublicCode, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return fmt.Errorf("operator is not on the admin allow-list: %w", err)
	case errors.Is(err, domain.ErrAccountNotFound):
		return fmt.Errorf("no account with code %s: %w", code, err)
	default:
		return err
	}
}
