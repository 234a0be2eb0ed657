package cmd

import (
	"fmt"
	"os"

	"github.com/shoecreatify/shoecreatify-api/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ConfigFileLocation is of the config to load
var ConfigFileLocation string

// TopLevelLogger is the logger all loggers come from
var TopLevelLogger *zap.Logger

// LoadedConfig is the currently loaded configuration after initial bootstrapping
var LoadedConfig *config.Configuration

// FileSystemsConfig consists of the filesystems to use (either local or embed)
var FileSystemsConfig *config.FileSystems

var rootCommand = cobra.Command{
	Use:   "shoecreatify",
	Short: "shoecreatify identity api",
	Long: `shoecreatify serves the account and session api of the shoecreatify shop,
	run without a sub command to start the http server`,
	Run: func(cmd *cobra.Command, args []string) {
		serveCommand.Run(cmd, args)
	},
}

func Execute() {
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {

	rootCommand.PersistentFlags().
		StringVar(&ConfigFileLocation, "config", "", "config file to be used")

	verifyCommand.AddCommand(&sendTestMailCommand)

	accountCommand.AddCommand(&listAccountsCommand)
	accountCommand.AddCommand(&unlockAccountCommand)
	accountCommand.AddCommand(&confirmAccountCommand)
	accountCommand.AddCommand(&setPasswordCommand)

	rootCommand.AddCommand(&verifyCommand)
	rootCommand.AddCommand(&accountCommand)
	rootCommand.AddCommand(&serveCommand)
}
