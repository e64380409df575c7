package commands

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/display"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/license"
)

// LicenseCmd quarantines downloaded repositories with disallowed licenses
var LicenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Quarantine downloaded repositories with disallowed licenses",
	Long: `Detect the license of every repository in paths.raw_dir that is not yet in
the report. Repositories whose license is not in compliance.license_allow
are moved to paths.quarantine_dir. Decisions are appended to the CSV report
at paths.license_report.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := current()
		if err != nil {
			return err
		}
		start := time.Now()
		p := a.Config.Paths
		gate := license.NewGate(license.Options{
			RawDir:        p.RawDir,
			QuarantineDir: p.QuarantineDir,
			ReportPath:    p.LicenseReport,
			Allow:         a.Config.Compliance.LicenseAllow,
		}, a.component("license"))

		decisions, tally, err := gate.Run(cmd.Context())
		if err != nil {
			return err
		}
		res := a.result("license", p.RawDir, p.LicenseReport, tally, start)
		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(struct {
				StageResult
				Decisions []dataset.LicenseDecision `json:"decisions"`
			}{res, decisions})
		}
		if len(decisions) > 0 {
			data := pterm.TableData{{"Repository", "License", "Decision"}}
			for _, d := range decisions {
				lic := d.License
				if lic == "" {
					lic = "(none)"
				}
				data = append(data, []string{d.Repo, lic, d.Decision})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}
		}
		return a.printHuman(res)
	},
}
