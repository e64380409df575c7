package commands

import (
	"github.com/spf13/cobra"
)

// CollectCmd searches GitHub for repositories
var CollectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Search GitHub for candidate repositories",
	Long: `Run one repository search per configured keyword and write the unique
results as JSON Lines. Requires GITHUB_TOKEN (environment or .env).

Examples:
  curate collect
  curate collect --out /tmp/repos.jsonl`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := current()
		if err != nil {
			return err
		}
		out := pathFlag(cmd, "out", a.Config.Paths.Repos)
		res, err := a.collect(cmd.Context(), out)
		if err != nil {
			return err
		}
		return a.print(cmd, res)
	},
}

// DownloadCmd clones collected repositories into the raw directory
var DownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Clone collected repositories into the raw data directory",
	Long: `Clone every repository of the collected list into paths.raw_dir so the
license gate can inspect it. Existing clones are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := current()
		if err != nil {
			return err
		}
		in := pathFlag(cmd, "in", a.Config.Paths.Repos)
		dest := pathFlag(cmd, "dest", a.Config.Paths.RawDir)
		res, err := a.download(cmd.Context(), in, dest)
		if err != nil {
			return err
		}
		return a.print(cmd, res)
	},
}

// ExtractCmd turns bug-fix commits into diffs
var ExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Clone repositories and extract bug-fix diffs",
	Long: `For every collected repository, walk the history from HEAD, keep commits
whose subject mentions a bug-fix keyword and write the diff against the
first parent, restricted to the configured source files.

Entries may be GitHub URLs, git URLs or local repository paths.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := current()
		if err != nil {
			return err
		}
		in := pathFlag(cmd, "in", a.Config.Paths.Repos)
		out := pathFlag(cmd, "out", a.Config.Paths.Diffs)
		res, err := a.extract(cmd.Context(), in, out)
		if err != nil {
			return err
		}
		return a.print(cmd, res)
	},
}

// CleanCmd converts diffs into filtered pairs
var CleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Convert diffs into cleaned, deduplicated (buggy, fixed) pairs",
	Long: `Rebuild the pre-image and post-image of every diff, strip blank lines and
trailing whitespace, and drop empty, identical and duplicate pairs.

With paths.seen_db set, duplicates are remembered across runs in SQLite.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := current()
		if err != nil {
			return err
		}
		in := pathFlag(cmd, "in", a.Config.Paths.Diffs)
		out := pathFlag(cmd, "out", a.Config.Paths.Pairs)
		res, err := a.clean(cmd.Context(), in, out)
		if err != nil {
			return err
		}
		return a.print(cmd, res)
	},
}

// AnnotateCmd adds instructions to pairs
var AnnotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Add a debugging instruction to every pair",
	Long: `Prepend an "instruction" field chosen at random from a fixed catalog to
every record. Use --seed (or annotate.seed) for reproducible output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := current()
		if err != nil {
			return err
		}
		in := pathFlag(cmd, "in", a.Config.Paths.Pairs)
		out := pathFlag(cmd, "out", a.Config.Paths.Annotated)
		seed := a.Config.Annotate.Seed
		if cmd.Flags().Changed("seed") {
			seed, _ = cmd.Flags().GetUint64("seed")
		}
		res, err := a.annotate(cmd.Context(), in, out, seed)
		if err != nil {
			return err
		}
		return a.print(cmd, res)
	},
}

func init() {
	CollectCmd.Flags().String("out", "", "Output file (default paths.repos)")

	DownloadCmd.Flags().String("in", "", "Repository list (default paths.repos)")
	DownloadCmd.Flags().String("dest", "", "Destination directory (default paths.raw_dir)")

	ExtractCmd.Flags().String("in", "", "Repository list (default paths.repos)")
	ExtractCmd.Flags().String("out", "", "Output file (default paths.diffs)")

	CleanCmd.Flags().String("in", "", "Diff file (default paths.diffs)")
	CleanCmd.Flags().String("out", "", "Output file (default paths.pairs)")

	AnnotateCmd.Flags().String("in", "", "Pair file (default paths.pairs)")
	AnnotateCmd.Flags().String("out", "", "Output file (default paths.annotated)")
	AnnotateCmd.Flags().Uint64("seed", 0, "Random seed (0 = clock)")
}
