package harvest

import (
	"context"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/logger"
)

// ExtractOptions configure an Extractor
type ExtractOptions struct {
	Keywords   []string
	Include    []string
	MaxCommits int
}

// Extractor turns the bug-fix commits of repositories into DiffRecords
type Extractor struct {
	fetcher *Fetcher
	opts    ExtractOptions
	log     *zap.SugaredLogger
}

// NewExtractor returns an Extractor that obtains repositories from fetcher
func NewExtractor(fetcher *Fetcher, opts ExtractOptions, log *zap.SugaredLogger) *Extractor {
	return &Extractor{fetcher: fetcher, opts: opts, log: logger.OrNop(log)}
}

// Repository extracts one repository. Commit outcomes go to tally; the
// returned error means the repository as a whole could not be processed.
// The working copy is removed before returning, whatever the outcome.
func (e *Extractor) Repository(ctx context.Context, rec dataset.RepositoryRecord, tally *dataset.Tally, emit func(dataset.DiffRecord) error) error {
	input := rec.URL
	if input == "" {
		input = rec.Name
	}
	src, err := e.fetcher.Resolve(ctx, input)
	if err != nil {
		return err
	}
	defer src.Cleanup()

	repo, err := git.PlainOpen(src.LocalPath)
	if err != nil {
		return errors.Wrapf(err, "open %s", src.LocalPath)
	}
	candidates, err := FilterCommits(repo, e.opts.Keywords, e.opts.MaxCommits)
	if err != nil {
		return err
	}
	e.log.Infow("Scanning repository",
		logger.FieldRepo, rec.Name,
		logger.FieldCount, len(candidates))

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		commit, err := repo.CommitObject(plumbing.NewHash(c.Hash))
		if err != nil {
			return errors.Wrapf(err, "load commit %s", c.Hash)
		}
		diff, reason, err := CommitDiff(ctx, commit, e.opts.Include)
		if err != nil {
			return err
		}
		if reason != "" {
			e.log.Debugw("Commit skipped",
				logger.FieldRepo, rec.Name,
				logger.FieldCommit, c.Hash,
				logger.FieldReason, reason)
			tally.Add(dataset.SkippedAt(0, reason).WithRef(c.Hash))
			continue
		}
		if err := emit(dataset.DiffRecord{Repo: rec.Name, Commit: c.Hash, Diff: diff}); err != nil {
			return err
		}
		tally.Add(dataset.ParsedAt(0).WithRef(c.Hash))
	}
	return nil
}

// Run extracts every repository in turn. A repository that fails is logged
// and recorded as failed; the batch continues. Only cancellation and emit
// errors stop the run.
func (e *Extractor) Run(ctx context.Context, repos []dataset.RepositoryRecord, emit func(dataset.DiffRecord) error) (dataset.Tally, error) {
	var tally dataset.Tally
	for _, rec := range repos {
		if err := ctx.Err(); err != nil {
			return tally, err
		}
		start := time.Now()
		var repoTally dataset.Tally
		var emitErr error
		err := e.Repository(ctx, rec, &repoTally, func(d dataset.DiffRecord) error {
			emitErr = emit(d)
			return emitErr
		})
		tally.Merge(repoTally)
		if emitErr != nil {
			return tally, emitErr
		}
		if err != nil {
			if ctx.Err() != nil {
				return tally, ctx.Err()
			}
			e.log.Warnw("Failed to process repository",
				logger.FieldRepo, rec.Name,
				logger.FieldError, err)
			tally.Add(dataset.FailedAt(0, err).WithRef(rec.Name))
			continue
		}
		e.log.Infow("Repository done",
			logger.FieldRepo, rec.Name,
			logger.FieldAccepted, repoTally.Parsed,
			logger.FieldSkipped, repoTally.Skipped,
			logger.FieldDurationMS, time.Since(start).Milliseconds())
	}
	return tally, nil
}

// RunFile reads RepositoryRecords from in and writes DiffRecords to out
func (e *Extractor) RunFile(ctx context.Context, in, out string) (dataset.Tally, error) {
	repos, readTally, err := dataset.ReadAll[dataset.RepositoryRecord](in)
	if err != nil {
		return readTally, err
	}
	for _, o := range readTally.Problems {
		e.log.Warnw("Unreadable repository record", logger.FieldLine, o.Line, logger.FieldReason, o.Reason)
	}

	w, err := dataset.Create(out)
	if err != nil {
		return dataset.Tally{}, err
	}
	defer w.Abort()

	tally, err := e.Run(ctx, repos, func(d dataset.DiffRecord) error { return w.Write(d) })
	if err != nil {
		return tally, err
	}
	if err := w.Commit(); err != nil {
		return tally, err
	}
	e.log.Infow("Extracted diffs",
		logger.FieldInput, in,
		logger.FieldOutput, out,
		logger.FieldCount, w.Count(),
		logger.FieldFailed, tally.Failed)
	return tally, nil
}
