package dataset

import (
	"fmt"
	"sort"
)

// Kind classifies what happened to one input record
type Kind int

const (
	Parsed Kind = iota
	Skipped
	Failed
)

func (k Kind) String() string {
	switch k {
	case Parsed:
		return "parsed"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Reason names why a record was skipped
type Reason string

const (
	ReasonBlankLine       Reason = "blank_line"
	ReasonMalformedJSON   Reason = "malformed_json"
	ReasonNotObject       Reason = "not_object"
	ReasonEmptyDiff       Reason = "empty_diff"
	ReasonEmptyInput      Reason = "empty_input"
	ReasonEmptyOutput     Reason = "empty_output"
	ReasonIdentical       Reason = "identical"
	ReasonDuplicate       Reason = "duplicate"
	ReasonTooManyChanges  Reason = "too_many_changes"
	ReasonRootCommit      Reason = "root_commit"
	ReasonNoSourceChanges Reason = "no_source_changes"
	ReasonNoDebugLines    Reason = "no_debug_lines"
	ReasonNotRepository   Reason = "not_repository"
	ReasonAlreadyDecided  Reason = "already_decided"
	ReasonQuarantined     Reason = "quarantined"
	ReasonAlreadyPresent  Reason = "already_present"
)

// Outcome is the result of handling one record. Line is 1-based; zero means
// the record did not come from a file (a commit, a repository).
type Outcome struct {
	Line   int
	Kind   Kind
	Reason Reason
	Ref    string // commit hash, repository name or file path
	Err    error
}

// ParsedAt records a successfully handled record
func ParsedAt(line int) Outcome {
	return Outcome{Line: line, Kind: Parsed}
}

// SkippedAt records a record dropped for reason
func SkippedAt(line int, reason Reason) Outcome {
	return Outcome{Line: line, Kind: Skipped, Reason: reason}
}

// FailedAt records a record whose handling errored
func FailedAt(line int, err error) Outcome {
	return Outcome{Line: line, Kind: Failed, Err: err}
}

// WithRef attaches a reference to the outcome
func (o Outcome) WithRef(ref string) Outcome {
	o.Ref = ref
	return o
}

func (o Outcome) String() string {
	switch o.Kind {
	case Skipped:
		return fmt.Sprintf("line %d: skipped (%s)", o.Line, o.Reason)
	case Failed:
		return fmt.Sprintf("line %d: failed: %v", o.Line, o.Err)
	default:
		return fmt.Sprintf("line %d: parsed", o.Line)
	}
}

// Tally aggregates outcomes. Problems keeps every non-parsed outcome in
// arrival order.
type Tally struct {
	Parsed   int            `json:"parsed"`
	Skipped  int            `json:"skipped"`
	Failed   int            `json:"failed"`
	Reasons  map[Reason]int `json:"reasons,omitempty"`
	Problems []Outcome      `json:"-"`
}

// Add records one outcome
func (t *Tally) Add(o Outcome) {
	switch o.Kind {
	case Parsed:
		t.Parsed++
		return
	case Skipped:
		t.Skipped++
		if t.Reasons == nil {
			t.Reasons = make(map[Reason]int)
		}
		t.Reasons[o.Reason]++
	case Failed:
		t.Failed++
	}
	t.Problems = append(t.Problems, o)
}

// Merge adds every count of other into t
func (t *Tally) Merge(other Tally) {
	t.Parsed += other.Parsed
	t.Skipped += other.Skipped
	t.Failed += other.Failed
	for r, n := range other.Reasons {
		if t.Reasons == nil {
			t.Reasons = make(map[Reason]int)
		}
		t.Reasons[r] += n
	}
	t.Problems = append(t.Problems, other.Problems...)
}

// Total is the number of outcomes recorded
func (t *Tally) Total() int {
	return t.Parsed + t.Skipped + t.Failed
}

// Count returns how many records were skipped for reason
func (t *Tally) Count(reason Reason) int {
	return t.Reasons[reason]
}

// SortedReasons returns the skip reasons in name order
func (t *Tally) SortedReasons() []Reason {
	out := make([]Reason, 0, len(t.Reasons))
	for r := range t.Reasons {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
