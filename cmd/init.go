package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shopassist/shopassist/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a shopassist config file with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the embedding backend, LINE credentials and rewrite model, and writes the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
