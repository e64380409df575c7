package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/display"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/snippets"
)

// SnippetsCmd mines and curates files containing debugging code
var SnippetsCmd = &cobra.Command{
	Use:   "snippets",
	Short: "Mine and curate source files with debugging code",
	Long: `Shallow-clone every collected repository and keep the source files that
contain a debugging keyword (paths.snippets). Then turn each file into a
debugging example whose input is its debug lines and whose output is the
whole file (paths.debug_examples).

Examples:
  curate snippets
  curate snippets --curate-only    # Rebuild examples from existing snippets`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := current()
		if err != nil {
			return err
		}
		p := a.Config.Paths
		sc := a.Config.Snippets
		var results []StageResult

		if only, _ := cmd.Flags().GetBool("curate-only"); !only {
			start := time.Now()
			miner := snippets.NewMiner(a.fetcher(1), snippets.Options{
				Include:  sc.Include,
				Keywords: sc.Keywords,
			}, a.component("snippets"))
			tally, err := miner.RunFile(cmd.Context(), p.Repos, p.Snippets)
			if err != nil {
				return err
			}
			results = append(results, a.result("snippets", p.Repos, p.Snippets, tally, start))
		}

		start := time.Now()
		tally, err := snippets.CurateFile(p.Snippets, p.DebugExamples, sc.Keywords, a.Config.Clean.Language)
		if err != nil {
			return err
		}
		results = append(results, a.result("curate", p.Snippets, p.DebugExamples, tally, start))

		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(results)
		}
		for _, res := range results {
			if err := a.printHuman(res); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	SnippetsCmd.Flags().Bool("curate-only", false, "Skip mining and curate the existing snippet file")
}
