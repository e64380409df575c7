// Package commands implements the curate subcommands. Every command loads
// the configuration once in Prepare and hands explicit options to the stage
// packages.
package commands

import (
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/config"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/display"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/harvest"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/logger"
)

// App is the state shared by one CLI invocation
type App struct {
	Config    *config.Config
	Log       *zap.SugaredLogger
	RunID     string
	Verbosity int
}

var app *App

// AddPersistentFlags registers the flags every subcommand inherits
func AddPersistentFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.String("config", "", "Config file (default "+config.DefaultPath+")")
	f.CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	f.Bool("log-json", false, "Write logs as JSON lines on stderr")
	f.Bool("json", false, "Print results as JSON on stdout")
}

// Prepare initializes logging and loads the configuration for cmd
func Prepare(cmd *cobra.Command) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	logJSON, _ := cmd.Flags().GetBool("log-json")
	if err := logger.Initialize(logJSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	runID := uuid.NewString()
	a := &App{
		Log:       logger.Logger.With(logger.FieldRunID, runID),
		RunID:     runID,
		Verbosity: verbosity,
	}
	if cmd.Name() == VersionCmd.Name() {
		app = a
		return nil
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{Path: path})
	if err != nil {
		return err
	}
	a.Config = cfg
	a.Log.Debugw("Configuration loaded",
		logger.FieldPath, path,
		logger.FieldStage, cmd.Name(),
		"verbosity", logger.LevelName(verbosity))
	app = a
	return nil
}

func current() (*App, error) {
	if app == nil || app.Config == nil {
		return nil, errors.New("configuration not loaded")
	}
	return app, nil
}

// component returns the run logger named for a stage
func (a *App) component(name string) *zap.SugaredLogger {
	return a.Log.Named(name).With(logger.FieldComponent, name)
}

func (a *App) fetcher(depth int) *harvest.Fetcher {
	return harvest.NewFetcher(harvest.FetchOptions{
		CloneDepth: depth,
		Token:      a.Config.Sources.GitHub.Token,
	}, a.component("fetch"))
}

// StageResult is what a stage command reports
type StageResult struct {
	Stage    string        `json:"stage"`
	RunID    string        `json:"run_id"`
	Input    string        `json:"input,omitempty"`
	Output   string        `json:"output,omitempty"`
	Tally    dataset.Tally `json:"tally"`
	Duration string        `json:"duration"`
}

func (a *App) result(stage, in, out string, tally dataset.Tally, start time.Time) StageResult {
	d := time.Since(start).Round(time.Millisecond)
	a.Log.Infow("Stage finished",
		logger.FieldStage, stage,
		logger.FieldAccepted, tally.Parsed,
		logger.FieldSkipped, tally.Skipped,
		logger.FieldFailed, tally.Failed,
		logger.FieldDurationMS, d.Milliseconds())
	return StageResult{Stage: stage, RunID: a.RunID, Input: in, Output: out, Tally: tally, Duration: d.String()}
}

func (a *App) print(cmd *cobra.Command, res StageResult) error {
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(res)
	}
	return a.printHuman(res)
}

func (a *App) printHuman(res StageResult) error {
	if err := display.PrintTally(res.Stage, res.Tally, a.Verbosity > 0); err != nil {
		return err
	}
	if res.Output != "" {
		pterm.Success.Printfln("Wrote %s in %s", res.Output, res.Duration)
	}
	return nil
}

// pathFlag returns the flag value when set, otherwise fallback
func pathFlag(cmd *cobra.Command, name, fallback string) string {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v
	}
	return fallback
}
