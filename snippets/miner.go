package snippets

import (
	"context"

	"go.uber.org/zap"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/harvest"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/logger"
)

// Options configure a Miner
type Options struct {
	Include  []string
	Keywords []string
	Language string
}

// Miner fetches repositories and scans them for debug snippets
type Miner struct {
	fetcher *harvest.Fetcher
	opts    Options
	log     *zap.SugaredLogger
}

// NewMiner returns a Miner that obtains repositories from fetcher
func NewMiner(fetcher *harvest.Fetcher, opts Options, log *zap.SugaredLogger) *Miner {
	return &Miner{fetcher: fetcher, opts: opts, log: logger.OrNop(log)}
}

// Repository scans one repository. Its working copy is removed before
// returning.
func (m *Miner) Repository(ctx context.Context, rec dataset.RepositoryRecord, emit func(dataset.DebugSnippet) error) (int, error) {
	input := rec.URL
	if input == "" {
		input = rec.Name
	}
	src, err := m.fetcher.Resolve(ctx, input)
	if err != nil {
		return 0, err
	}
	defer src.Cleanup()

	n := 0
	err = Scan(ctx, src.LocalPath, rec.Name, m.opts.Include, m.opts.Keywords, func(s dataset.DebugSnippet) error {
		n++
		return emit(s)
	})
	return n, err
}

// Run scans every repository in turn. A repository that fails is recorded
// and the batch continues; cancellation and emit errors stop the run.
func (m *Miner) Run(ctx context.Context, repos []dataset.RepositoryRecord, emit func(dataset.DebugSnippet) error) (dataset.Tally, error) {
	var tally dataset.Tally
	for _, rec := range repos {
		if err := ctx.Err(); err != nil {
			return tally, err
		}
		var emitErr error
		n, err := m.Repository(ctx, rec, func(s dataset.DebugSnippet) error {
			emitErr = emit(s)
			return emitErr
		})
		if emitErr != nil {
			return tally, emitErr
		}
		if err != nil {
			if ctx.Err() != nil {
				return tally, ctx.Err()
			}
			m.log.Warnw("Failed to scan repository", logger.FieldRepo, rec.Name, logger.FieldError, err)
			tally.Add(dataset.FailedAt(0, err).WithRef(rec.Name))
			continue
		}
		for range n {
			tally.Add(dataset.ParsedAt(0).WithRef(rec.Name))
		}
		m.log.Infow("Repository scanned", logger.FieldRepo, rec.Name, logger.FieldCount, n)
	}
	return tally, nil
}

// RunFile reads RepositoryRecords from in and writes DebugSnippets to out
func (m *Miner) RunFile(ctx context.Context, in, out string) (dataset.Tally, error) {
	repos, readTally, err := dataset.ReadAll[dataset.RepositoryRecord](in)
	if err != nil {
		return readTally, err
	}
	for _, o := range readTally.Problems {
		m.log.Warnw("Unreadable repository record", logger.FieldLine, o.Line, logger.FieldReason, o.Reason)
	}

	w, err := dataset.Create(out)
	if err != nil {
		return dataset.Tally{}, err
	}
	defer w.Abort()

	tally, err := m.Run(ctx, repos, func(s dataset.DebugSnippet) error { return w.Write(s) })
	if err != nil {
		return tally, err
	}
	return tally, w.Commit()
}

// CurateFile reads DebugSnippets from in and writes DebugExamples to out
func CurateFile(in, out string, keywords []string, language string) (dataset.Tally, error) {
	var tally dataset.Tally
	w, err := dataset.Create(out)
	if err != nil {
		return tally, err
	}
	defer w.Abort()

	err = dataset.EachFile(in, &tally, func(line int, s dataset.DebugSnippet) error {
		ex, ok := Curate(s, keywords, language)
		if !ok {
			tally.Add(dataset.SkippedAt(line, dataset.ReasonNoDebugLines).WithRef(s.File))
			return nil
		}
		if err := w.Write(ex); err != nil {
			return err
		}
		tally.Add(dataset.ParsedAt(line))
		return nil
	})
	if err != nil {
		return tally, err
	}
	return tally, w.Commit()
}
