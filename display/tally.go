package display

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
)

// maxProblems is how many skipped or failed records PrintTally lists
const maxProblems = 10

// TallyRows is the table PrintTally renders
func TallyRows(t dataset.Tally) pterm.TableData {
	rows := pterm.TableData{
		{"Outcome", "Count"},
		{"parsed", strconv.Itoa(t.Parsed)},
		{"skipped", strconv.Itoa(t.Skipped)},
		{"failed", strconv.Itoa(t.Failed)},
	}
	for _, r := range t.SortedReasons() {
		rows = append(rows, []string{"  " + string(r), strconv.Itoa(t.Count(r))})
	}
	return rows
}

// PrintTally renders a stage summary with the first few problems
func PrintTally(stage string, t dataset.Tally, verbose bool) error {
	pterm.Info.Printfln("%s: %d records (%d accepted)", stage, t.Total(), t.Parsed)
	if err := pterm.DefaultTable.WithHasHeader().WithData(TallyRows(t)).Render(); err != nil {
		return err
	}
	if !verbose || len(t.Problems) == 0 {
		return nil
	}
	shown := t.Problems
	if len(shown) > maxProblems {
		shown = shown[:maxProblems]
	}
	for _, o := range shown {
		ref := ""
		if o.Ref != "" {
			ref = " [" + o.Ref + "]"
		}
		pterm.Printfln("  %s%s", o, ref)
	}
	if rest := len(t.Problems) - len(shown); rest > 0 {
		pterm.Println(fmt.Sprintf("  ... and %d more", rest))
	}
	return nil
}
