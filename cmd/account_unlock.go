package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var unlockAccountCommand = cobra.Command{
	Use:   "unlock",
	Short: "clears the login lockout of an account",
	Long:  `This command resets the failed login counter and removes an active lockout`,
	Args:  requireEmail("account unlock (email)"),
	Run: func(cmd *cobra.Command, args []string) {
		stack := mustResolveAccountStack(nil)
		defer stack.close(context.Background())
		acc := mustFindAccount(cmd.Context(), stack.store, args[0])
		ok, err := stack.service.Unlock(cmd.Context(), acc.ID)
		if err != nil {
			fmt.Printf("Unable to unlock account %s: %s\r\n", args[0], err)
			os.Exit(1)
			return
		}
		if !ok {
			fmt.Printf("Account %s was not locked\r\n", args[0])
			return
		}
		fmt.Printf("Account %s has been unlocked\r\n", args[0])
	},
}
