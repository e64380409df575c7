package commands

import (
	"context"
	"slices"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/display"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/logger"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/validate"
)

// RunCmd runs the pipeline stages in order
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run collect, extract, clean, annotate and validate in order",
	Long: `Run the pipeline stages in order, each reading the file the previous one
wrote. --from and --to select a contiguous range of stages; earlier stage
files must already exist.

Examples:
  curate run
  curate run --from clean --to annotate
  curate run --seed 42 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := current()
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		stages, err := StageRange(from, to)
		if err != nil {
			return err
		}
		seed := a.Config.Annotate.Seed
		if cmd.Flags().Changed("seed") {
			seed, _ = cmd.Flags().GetUint64("seed")
		}

		jsonOut := display.ShouldOutputJSON(cmd)
		if !jsonOut {
			pterm.DefaultHeader.WithFullWidth().Printfln("curate run %s", a.RunID)
		}
		a.Log.Infow("Pipeline started", "stages", strings.Join(stages, ","))

		summary := runSummary{RunID: a.RunID}
		for _, stage := range stages {
			if stage == StageValidate {
				rep, err := validate.CheckFile(a.Config.Paths.Annotated)
				if err != nil {
					return err
				}
				summary.Validation = rep
				if !jsonOut {
					if err := printReport(rep); err != nil {
						return err
					}
				}
				continue
			}

			res, err := a.runStage(cmd.Context(), stage, seed)
			if err != nil {
				return errors.Wrapf(err, "stage %s", stage)
			}
			summary.Stages = append(summary.Stages, res)
			if !jsonOut {
				if err := a.printHuman(res); err != nil {
					return err
				}
			}
		}

		a.Log.Infow("Pipeline finished", logger.FieldCount, len(stages))
		if jsonOut {
			return display.OutputJSON(summary)
		}
		return nil
	},
}

type runSummary struct {
	RunID      string           `json:"run_id"`
	Stages     []StageResult    `json:"stages"`
	Validation *validate.Report `json:"validation,omitempty"`
}

func (a *App) runStage(ctx context.Context, stage string, seed uint64) (StageResult, error) {
	p := a.Config.Paths
	switch stage {
	case StageCollect:
		return a.collect(ctx, p.Repos)
	case StageExtract:
		return a.extract(ctx, p.Repos, p.Diffs)
	case StageClean:
		return a.clean(ctx, p.Diffs, p.Pairs)
	case StageAnnotate:
		return a.annotate(ctx, p.Pairs, p.Annotated, seed)
	default:
		return StageResult{}, errors.Newf("unknown stage %q", stage)
	}
}

// StageRange returns the pipeline stages from..to inclusive. Empty bounds
// mean the first and last stage.
func StageRange(from, to string) ([]string, error) {
	start, end := 0, len(Pipeline)-1
	if from != "" {
		if start = slices.Index(Pipeline, from); start < 0 {
			return nil, unknownStage(from)
		}
	}
	if to != "" {
		if end = slices.Index(Pipeline, to); end < 0 {
			return nil, unknownStage(to)
		}
	}
	if start > end {
		return nil, errors.Newf("--from %s comes after --to %s", Pipeline[start], Pipeline[end])
	}
	return Pipeline[start : end+1], nil
}

func unknownStage(name string) error {
	return errors.WithHint(errors.Newf("unknown stage %q", name),
		"stages are: "+strings.Join(Pipeline, ", "))
}

func init() {
	RunCmd.Flags().String("from", "", "First stage to run ("+strings.Join(Pipeline, ", ")+")")
	RunCmd.Flags().String("to", "", "Last stage to run")
	RunCmd.Flags().Uint64("seed", 0, "Annotator random seed (0 = clock)")
}
