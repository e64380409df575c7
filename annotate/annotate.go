// Package annotate prefixes curated records with a natural-language
// instruction.
package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"os"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/logger"
)

// InstructionKey is the key inserted first into every record
const InstructionKey = "instruction"

// Record is a JSON object with its key order preserved
type Record = orderedmap.OrderedMap[string, json.RawMessage]

// Annotator draws instructions uniformly from a catalog
type Annotator struct {
	rng     *rand.Rand
	catalog []string
	log     *zap.SugaredLogger
}

// New returns an Annotator over Instructions. A zero seed seeds from the
// clock; any other seed makes the choices reproducible.
func New(seed uint64, log *zap.SugaredLogger) *Annotator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return NewWithSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15), Instructions, log)
}

// NewWithSource returns an Annotator drawing from catalog with src
func NewWithSource(src rand.Source, catalog []string, log *zap.SugaredLogger) *Annotator {
	return &Annotator{rng: rand.New(src), catalog: catalog, log: logger.OrNop(log)}
}

// Pick returns one instruction
func (a *Annotator) Pick() string {
	return a.catalog[a.rng.IntN(len(a.catalog))]
}

// Annotate decodes one JSON object line and returns it with an instruction
// as its first key. Every other key keeps its position and value. A record
// that already carries an instruction keeps it, moved to the front. The
// reason is non-empty when the line cannot be annotated.
func (a *Annotator) Annotate(raw []byte) (*Record, dataset.Reason) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, dataset.ReasonBlankLine
	}
	if !json.Valid(trimmed) {
		return nil, dataset.ReasonMalformedJSON
	}
	if trimmed[0] != '{' {
		return nil, dataset.ReasonNotObject
	}

	rec := orderedmap.New[string, json.RawMessage]()
	if err := rec.UnmarshalJSON(trimmed); err != nil {
		return nil, dataset.ReasonMalformedJSON
	}
	if _, ok := rec.Get(InstructionKey); !ok {
		instruction, _ := json.Marshal(a.Pick())
		rec.Set(InstructionKey, instruction)
	}
	_ = rec.MoveToFront(InstructionKey)
	return rec, ""
}

// Run annotates every line of r, handing annotated records to emit
func (a *Annotator) Run(ctx context.Context, r io.Reader, emit func(*Record) error) (dataset.Tally, error) {
	var tally dataset.Tally
	err := dataset.Lines(r, func(line int, raw []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, reason := a.Annotate(raw)
		if reason != "" {
			a.log.Debugw("Record skipped", logger.FieldLine, line, logger.FieldReason, reason)
			tally.Add(dataset.SkippedAt(line, reason))
			return nil
		}
		if err := emit(rec); err != nil {
			return err
		}
		tally.Add(dataset.ParsedAt(line))
		return nil
	})
	return tally, err
}

// RunFile annotates the records at in and writes them to out
func (a *Annotator) RunFile(ctx context.Context, in, out string) (dataset.Tally, error) {
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

	tally, err := a.Run(ctx, f, func(rec *Record) error { return w.Write(rec) })
	if err != nil {
		return tally, err
	}
	if err := w.Commit(); err != nil {
		return tally, err
	}
	a.log.Infow("Added instructions",
		logger.FieldInput, in,
		logger.FieldOutput, out,
		logger.FieldAccepted, tally.Parsed,
		logger.FieldSkipped, tally.Skipped)
	return tally, nil
}
