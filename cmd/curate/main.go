package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/cmd/curate/commands"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/logger"
)

var rootCmd = &cobra.Command{
	Use:   "curate",
	Short: "curate - build bug-fix training pairs from GitHub repositories",
	Long: `curate - bug-fix pair curation pipeline.

Finds Python repositories on GitHub, mines their bug-fix commits and turns
the diffs into cleaned, deduplicated (buggy, fixed) pairs with an
instruction, then checks the resulting JSON Lines dataset.

Pipeline stages:
  collect   - Search GitHub for candidate repositories
  extract   - Clone repositories and extract bug-fix diffs
  clean     - Convert diffs to (buggy, fixed) pairs and filter them
  annotate  - Add a debugging instruction to every pair
  validate  - Check the structure of a dataset file

Supporting commands:
  download  - Clone repositories into the raw data directory
  license   - Quarantine downloaded repositories with disallowed licenses
  snippets  - Mine and curate files with debugging code
  run       - Run collect through validate in order

Examples:
  curate run                          # Full pipeline with configs/tiny.yaml
  curate run --from extract           # Reuse the collected repository list
  curate validate data/curated/x.jsonl
  curate config show`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return commands.Prepare(cmd)
	},
}

func init() {
	commands.AddPersistentFlags(rootCmd)

	rootCmd.AddCommand(commands.CollectCmd)
	rootCmd.AddCommand(commands.DownloadCmd)
	rootCmd.AddCommand(commands.ExtractCmd)
	rootCmd.AddCommand(commands.CleanCmd)
	rootCmd.AddCommand(commands.AnnotateCmd)
	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.LicenseCmd)
	rootCmd.AddCommand(commands.SnippetsCmd)
	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Cleanup()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
