package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "shopassist",
	Short: "LINE shopping assistant for the Converse Thailand catalog",
	Long: `shopassist answers LINE chat messages: it recognises greetings by
sentence-embedding similarity, walks the user through a category, style
and gender menu, and replies with matching products scraped from the
Converse Thailand catalog.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "shopassist.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
