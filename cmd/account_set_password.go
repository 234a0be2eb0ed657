package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var setPasswordCommand = cobra.Command{
	Use:   "set-password",
	Short: "sets the password of a local account",
	Long: `this command replaces the password of a local account after prompting for it,
	all sessions of the account are ended`,
	Args: requireEmail("account set-password (email)"),
	Run: func(cmd *cobra.Command, args []string) {
		stack := mustResolveAccountStack(nil)
		defer stack.close(context.Background())
		acc := mustFindAccount(cmd.Context(), stack.store, args[0])

		fmt.Println("password?")
		pwd, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			fmt.Printf("Unable to read password: %s\r\n", err)
			os.Exit(1)
			return
		}
		fmt.Println("repeat password?")
		repeated, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			fmt.Printf("Unable to read password: %s\r\n", err)
			os.Exit(1)
			return
		}
		if string(pwd) != string(repeated) {
			fmt.Println("passwords do not match")
			os.Exit(1)
			return
		}
		if err := stack.service.SetPassword(cmd.Context(), acc.ID, string(pwd)); err != nil {
			fmt.Printf("Unable to set password for %s: %s\r\n", args[0], err)
			os.Exit(1)
			return
		}
		fmt.Printf("Password of %s has been changed\r\n", args[0])
	},
}
