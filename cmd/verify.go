package cmd

import (
	"github.com/spf13/cobra"
)

var verifyCommand = cobra.Command{
	Use:   "verify",
	Short: "verification commands",
	Long:  `this section harbors commands to verify the runtime setup`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
