package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var confirmAccountCommand = cobra.Command{
	Use:   "confirm",
	Short: "sets an account to verified",
	Long:  `This command completes a pending registration without the emailed otp`,
	Args:  requireEmail("account confirm (email)"),
	Run: func(cmd *cobra.Command, args []string) {
		stack := mustResolveAccountStack(nil)
		defer stack.close(context.Background())
		acc := mustFindAccount(cmd.Context(), stack.store, args[0])
		ok, err := stack.service.Confirm(cmd.Context(), acc.ID)
		if err != nil {
			fmt.Printf("Unable to confirm account %s: %s\r\n", args[0], err)
			os.Exit(1)
			return
		}
		if !ok {
			fmt.Printf("Account %s was already verified\r\n", args[0])
			return
		}
		fmt.Printf("Account %s has been confirmed\r\n", args[0])
	},
}
