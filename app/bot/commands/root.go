// Package commands implements the chatrelay CLI.
package commands

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chatrelay",
		Short: "chatrelay - chat platform to OpenAI relay",
		Long: `chatrelay forwards chat messages, together with a short per-user
history, to the OpenAI chat completions API and sends the reply back.

Examples:
  chatrelay serve
  chatrelay serve --platform line
  chatrelay serve --env-file ./prod.env`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
	)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logs")

	return rootCmd
}
