package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio site server with a sanitizing chat relay",
	Long: `portfolio serves a static portfolio site and relays visitor chat
messages to an LLM. Assistant replies are rendered from Markdown and
sanitized to a small allow-list of tags before they reach the page.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "portfolio.yml", "config file path")
}
