package commands

import (
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/display"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/validate"
)

// ValidateCmd reports on the structure of a dataset file
var ValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check the structure of a JSON Lines dataset",
	Long: `Count total, valid and invalid lines and records with an empty input or
output, list the invalid line numbers and print the first record.

The file is never modified. With --strict the command fails when any line
is invalid or empty.

Examples:
  curate validate                                  # paths.annotated
  curate validate data/curated/debugging_clean.jsonl
  curate validate --json out.jsonl | jq .invalid_lines`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := current()
		if err != nil {
			return err
		}
		path := a.Config.Paths.Annotated
		if len(args) == 1 {
			path = args[0]
		}
		rep, err := validate.CheckFile(path)
		if err != nil {
			return err
		}
		if display.ShouldOutputJSON(cmd) {
			if err := display.OutputJSON(rep); err != nil {
				return err
			}
		} else if err := printReport(rep); err != nil {
			return err
		}

		if strict, _ := cmd.Flags().GetBool("strict"); strict && !rep.Clean() {
			return errors.Newf("%s: %d invalid lines, %d empty inputs, %d empty outputs",
				path, rep.Invalid(), rep.EmptyInputs, rep.EmptyOutputs)
		}
		return nil
	},
}

func init() {
	ValidateCmd.Flags().Bool("strict", false, "Fail when the dataset has invalid or empty records")
}

// maxInvalidShown caps the invalid line numbers printed for humans
const maxInvalidShown = 50

func printReport(rep *validate.Report) error {
	pterm.DefaultSection.Printfln("Validation report: %s", rep.Path)
	data := pterm.TableData{
		{"Check", "Count"},
		{"Total lines", strconv.Itoa(rep.Total)},
		{"Valid JSON lines", strconv.Itoa(rep.Valid)},
		{"Empty inputs", strconv.Itoa(rep.EmptyInputs)},
		{"Empty outputs", strconv.Itoa(rep.EmptyOutputs)},
		{"Invalid JSON lines", strconv.Itoa(rep.Invalid())},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	if rep.Invalid() == 0 {
		pterm.Success.Println("All lines are valid JSON objects")
	} else {
		shown := rep.InvalidLines
		if len(shown) > maxInvalidShown {
			shown = shown[:maxInvalidShown]
		}
		nums := make([]string, len(shown))
		for i, n := range shown {
			nums[i] = strconv.Itoa(n)
		}
		more := ""
		if rest := rep.Invalid() - len(shown); rest > 0 {
			more = " and " + strconv.Itoa(rest) + " more"
		}
		pterm.Warning.Printfln("Invalid lines: %s%s", strings.Join(nums, ", "), more)
	}

	switch {
	case rep.Example != nil:
		pterm.Info.Println("Example record:")
		pterm.Println(string(rep.Example))
	case rep.ExampleError != "":
		pterm.Warning.Printfln("Example record unavailable: %s", rep.ExampleError)
	}
	return nil
}
