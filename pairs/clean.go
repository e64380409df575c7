package pairs

import (
	"context"
	"io"
	"os"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/logger"
)

// Clean removes whitespace-only lines and trailing whitespace from every
// remaining line. Clean(Clean(x)) == Clean(x).
func Clean(code string) string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = strings.ReplaceAll(code, "\r", "\n")
	lines := strings.Split(code, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// Options configure a Cleaner
type Options struct {
	// SplitFiles emits one pair per file instead of one per commit
	SplitFiles bool
	// Dedupe drops pairs whose cleaned input and output were already seen
	Dedupe bool
	// MaxChangedLines drops pairs whose line diff is larger; 0 disables
	MaxChangedLines int
	// Language is written into every record
	Language string
}

// Cleaner filters converted pairs into BugfixPair records
type Cleaner struct {
	opts     Options
	seen     Seen
	log      *zap.SugaredLogger
	accepted int
}

// NewCleaner returns a Cleaner. When opts.Dedupe is set and seen is nil an
// in-memory set is used.
func NewCleaner(opts Options, seen Seen, log *zap.SugaredLogger) *Cleaner {
	if opts.Dedupe && seen == nil {
		seen = NewMemorySeen()
	}
	return &Cleaner{opts: opts, seen: seen, log: logger.OrNop(log)}
}

// Accepted is the running count of emitted pairs
func (c *Cleaner) Accepted() int {
	return c.accepted
}

// Check cleans both sides of p and reports why the pair must be dropped.
// An empty reason means the cleaned pair is accepted.
func (c *Cleaner) Check(ctx context.Context, p Pair) (Pair, dataset.Reason, error) {
	cleaned := Pair{Buggy: Clean(p.Buggy), Fixed: Clean(p.Fixed)}
	switch {
	case cleaned.Buggy == "":
		return cleaned, dataset.ReasonEmptyInput, nil
	case cleaned.Fixed == "":
		return cleaned, dataset.ReasonEmptyOutput, nil
	case cleaned.Buggy == cleaned.Fixed:
		return cleaned, dataset.ReasonIdentical, nil
	}
	if c.opts.MaxChangedLines > 0 && ChangedLines(cleaned.Buggy, cleaned.Fixed) > c.opts.MaxChangedLines {
		return cleaned, dataset.ReasonTooManyChanges, nil
	}
	if c.opts.Dedupe {
		fresh, err := c.seen.Add(ctx, Key(cleaned))
		if err != nil {
			return cleaned, "", err
		}
		if !fresh {
			return cleaned, dataset.ReasonDuplicate, nil
		}
	}
	return cleaned, "", nil
}

// Process converts one DiffRecord into zero or more BugfixPairs, recording
// an outcome per candidate pair in tally and handing accepted records to
// emit.
func (c *Cleaner) Process(ctx context.Context, line int, rec dataset.DiffRecord, tally *dataset.Tally, emit func(dataset.BugfixPair) error) error {
	if strings.TrimSpace(rec.Diff) == "" {
		tally.Add(dataset.SkippedAt(line, dataset.ReasonEmptyDiff).WithRef(rec.Commit))
		return nil
	}

	var candidates []FilePair
	if c.opts.SplitFiles {
		candidates = ExtractFiles(rec.Diff)
	} else {
		candidates = []FilePair{{Pair: Extract(rec.Diff)}}
	}

	for _, fp := range candidates {
		cleaned, reason, err := c.Check(ctx, fp.Pair)
		if err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
		if reason != "" {
			c.log.Debugw("Pair skipped",
				logger.FieldLine, line,
				logger.FieldRepo, rec.Repo,
				logger.FieldCommit, rec.Commit,
				logger.FieldPath, fp.Path,
				logger.FieldReason, reason)
			tally.Add(dataset.SkippedAt(line, reason).WithRef(fp.Path))
			continue
		}
		out := dataset.BugfixPair{
			Repo:     rec.Repo,
			Task:     dataset.TaskCodeDebugging,
			Language: c.opts.Language,
			Input:    cleaned.Buggy,
			Output:   cleaned.Fixed,
			Commit:   rec.Commit,
			File:     fp.Path,
		}
		if err := emit(out); err != nil {
			return err
		}
		c.accepted++
		tally.Add(dataset.ParsedAt(line).WithRef(fp.Path))
	}
	return nil
}

// Run streams DiffRecords from r and emits accepted pairs
func (c *Cleaner) Run(ctx context.Context, r io.Reader, emit func(dataset.BugfixPair) error) (dataset.Tally, error) {
	var tally dataset.Tally
	err := dataset.Each(r, &tally, func(line int, rec dataset.DiffRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return c.Process(ctx, line, rec, &tally, emit)
	})
	return tally, err
}

// RunFile cleans the DiffRecords at in and writes BugfixPairs to out. The
// output file is replaced only when the whole input was processed.
func (c *Cleaner) RunFile(ctx context.Context, in, out string) (dataset.Tally, error) {
	f, err := os.Open(in)
	if err != nil {
		return dataset.Tally{}, errors.Wrapf(err, "open %s", in)
	}
	defer f.Close()

	w, err := dataset.Create(out)
	if err != nil {
		return dataset.Tally{}, err
	}
	defer w.Abort()

	tally, err := c.Run(ctx, f, func(p dataset.BugfixPair) error { return w.Write(p) })
	if err != nil {
		return tally, err
	}
	if err := w.Commit(); err != nil {
		return tally, err
	}
	c.log.Infow("Cleaned pairs",
		logger.FieldInput, in,
		logger.FieldOutput, out,
		logger.FieldAccepted, tally.Parsed,
		logger.FieldSkipped, tally.Skipped)
	return tally, nil
}
