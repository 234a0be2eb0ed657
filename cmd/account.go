package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shoecreatify/shoecreatify-api/account"
	"github.com/shoecreatify/shoecreatify-api/db"
	"github.com/spf13/cobra"
)

var accountCommand = cobra.Command{
	Use:   "account",
	Short: "account commands",
	Long:  `this section harbors the account administration commands`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func requireEmail(usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || args[0] == "" {
			return errors.New(usage + " - requires a email")
		}
		return nil
	}
}

func mustFindAccount(ctx context.Context, dataStore *db.DataStore, email string) *db.Account {
	acc, err := dataStore.AccountByEmail(ctx, account.NormalizeEmail(email))
	if err != nil {
		fmt.Printf("Unable to find account %s: %s\r\n", email, err)
		os.Exit(1)
	}
	return acc
}
