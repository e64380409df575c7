package commands

import (
	"context"
	"time"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/annotate"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/db"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/harvest"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/locate"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/pairs"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/version"
)

// Stage names, in pipeline order
const (
	StageCollect  = "collect"
	StageExtract  = "extract"
	StageClean    = "clean"
	StageAnnotate = "annotate"
	StageValidate = "validate"
)

// Pipeline is the order run executes stages in
var Pipeline = []string{StageCollect, StageExtract, StageClean, StageAnnotate, StageValidate}

func (a *App) collect(ctx context.Context, out string) (StageResult, error) {
	start := time.Now()
	gh := a.Config.Sources.GitHub
	if err := a.Config.RequireToken(); err != nil {
		return StageResult{}, err
	}
	client, err := locate.NewClient(ctx, gh.Token, gh.APIURL, version.Get().UserAgent())
	if err != nil {
		return StageResult{}, err
	}
	loc := locate.New(client, locate.Options{
		Query:             gh.Query,
		Keywords:          gh.Keywords,
		MaxRepos:          gh.MaxRepos,
		RequestsPerMinute: gh.RequestsPerMinute,
	}, a.component("locate"))

	tally, err := loc.CollectFile(ctx, out)
	return a.result(StageCollect, "", out, tally, start), err
}

func (a *App) extract(ctx context.Context, in, out string) (StageResult, error) {
	start := time.Now()
	ex := a.Config.Extract
	extractor := harvest.NewExtractor(a.fetcher(ex.CloneDepth), harvest.ExtractOptions{
		Keywords:   ex.Keywords,
		Include:    ex.Include,
		MaxCommits: ex.MaxCommits,
	}, a.component("harvest"))

	tally, err := extractor.RunFile(ctx, in, out)
	return a.result(StageExtract, in, out, tally, start), err
}

func (a *App) clean(ctx context.Context, in, out string) (StageResult, error) {
	start := time.Now()
	opts := a.Config.Clean
	var seen pairs.Seen
	if opts.Dedupe && a.Config.Paths.SeenDB != "" {
		conn, err := db.OpenWithMigrations(a.Config.Paths.SeenDB, a.component("db"))
		if err != nil {
			return StageResult{}, err
		}
		defer conn.Close()
		seen = pairs.NewSQLSeen(conn)
	}
	cleaner := pairs.NewCleaner(pairs.Options{
		SplitFiles:      opts.SplitFiles,
		Dedupe:          opts.Dedupe,
		MaxChangedLines: opts.MaxChangedLines,
		Language:        opts.Language,
	}, seen, a.component("clean"))

	tally, err := cleaner.RunFile(ctx, in, out)
	return a.result(StageClean, in, out, tally, start), err
}

func (a *App) annotate(ctx context.Context, in, out string, seed uint64) (StageResult, error) {
	start := time.Now()
	tally, err := annotate.New(seed, a.component("annotate")).RunFile(ctx, in, out)
	return a.result(StageAnnotate, in, out, tally, start), err
}

// download clones every collected repository into the raw directory
func (a *App) download(ctx context.Context, in, dest string) (StageResult, error) {
	start := time.Now()
	repos, readTally, err := dataset.ReadAll[dataset.RepositoryRecord](in)
	if err != nil {
		return StageResult{}, err
	}
	tally, err := a.fetcher(a.Config.Extract.CloneDepth).DownloadAll(ctx, repos, dest)
	for _, o := range readTally.Problems {
		tally.Add(o)
	}
	return a.result("download", in, dest, tally, start), err
}
