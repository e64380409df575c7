package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/display"
)

// ConfigCmd groups configuration commands
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets redacted",
	Long: `Print the configuration after defaults, the config file, .env and the
environment are merged. The GitHub token is never printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := current()
		if err != nil {
			return err
		}
		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(a.Config.Redacted())
		}
		format, _ := cmd.Flags().GetString("format")
		out, err := a.Config.RenderAs(format)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	configShowCmd.Flags().String("format", "yaml", "Output format (yaml, toml)")
}
