package license

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/harvest"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/logger"
)

// Options configure a Gate
type Options struct {
	RawDir        string
	QuarantineDir string
	ReportPath    string
	Allow         []string
}

// Gate sorts the repositories of RawDir into kept and quarantined
type Gate struct {
	opts Options
	log  *zap.SugaredLogger
}

// NewGate returns a Gate
func NewGate(opts Options, log *zap.SugaredLogger) *Gate {
	return &Gate{opts: opts, log: logger.OrNop(log)}
}

// Decide returns the decision for a detected license. No license is never
// allowed.
func (g *Gate) Decide(license string) string {
	if license != "" && slices.Contains(g.opts.Allow, license) {
		return dataset.DecisionKeep
	}
	return dataset.DecisionQuarantine
}

// Run classifies every repository directory not yet in the report, moves
// the disallowed ones to QuarantineDir and appends the new decisions to the
// report. It returns only the new decisions.
func (g *Gate) Run(ctx context.Context) ([]dataset.LicenseDecision, dataset.Tally, error) {
	var tally dataset.Tally

	existing, err := ReadReport(g.opts.ReportPath)
	if err != nil {
		return nil, tally, err
	}
	decided := make(map[string]bool, len(existing))
	for _, row := range existing {
		decided[row.Repo] = true
	}

	entries, err := os.ReadDir(g.opts.RawDir)
	if err != nil {
		return nil, tally, errors.Wrapf(err, "read %s", g.opts.RawDir)
	}

	var added []dataset.LicenseDecision
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return added, tally, err
		}
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(g.opts.RawDir, name)
		if decided[name] {
			g.log.Debugw("Already decided", logger.FieldRepo, name)
			tally.Add(dataset.SkippedAt(0, dataset.ReasonAlreadyDecided).WithRef(name))
			continue
		}
		if !harvest.IsGitRepository(path) {
			tally.Add(dataset.SkippedAt(0, dataset.ReasonNotRepository).WithRef(name))
			continue
		}

		row, err := g.decide(name, path)
		if err != nil {
			g.log.Warnw("License check failed", logger.FieldRepo, name, logger.FieldError, err)
			tally.Add(dataset.FailedAt(0, err).WithRef(name))
			continue
		}
		added = append(added, row)
		if row.Decision == dataset.DecisionQuarantine {
			tally.Add(dataset.SkippedAt(0, dataset.ReasonQuarantined).WithRef(name))
		} else {
			tally.Add(dataset.ParsedAt(0).WithRef(name))
		}
	}

	if len(added) > 0 || len(existing) == 0 {
		if err := WriteReport(g.opts.ReportPath, append(existing, added...)); err != nil {
			return added, tally, err
		}
	}
	return added, tally, nil
}

func (g *Gate) decide(name, path string) (dataset.LicenseDecision, error) {
	lic, err := Detect(path)
	if err != nil {
		return dataset.LicenseDecision{}, err
	}
	row := dataset.LicenseDecision{Repo: name, License: lic, Decision: g.Decide(lic)}
	if row.Decision == dataset.DecisionKeep {
		g.log.Infow("Kept", logger.FieldRepo, name, "license", lic)
		return row, nil
	}

	if err := os.MkdirAll(g.opts.QuarantineDir, 0o755); err != nil {
		return row, errors.Wrapf(err, "create %s", g.opts.QuarantineDir)
	}
	dest := filepath.Join(g.opts.QuarantineDir, name)
	if err := os.Rename(path, dest); err != nil {
		return row, errors.Wrapf(err, "move %s to quarantine", name)
	}
	g.log.Infow("Quarantined", logger.FieldRepo, name, "license", lic, logger.FieldPath, dest)
	return row, nil
}
