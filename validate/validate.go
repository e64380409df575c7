// Package validate reports on the structure of a JSON Lines dataset without
// changing it.
package validate

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

// Report summarises one dataset file. Valid+len(InvalidLines) == Total.
type Report struct {
	Path         string          `json:"path,omitempty"`
	Total        int             `json:"total"`
	Valid        int             `json:"valid"`
	EmptyInputs  int             `json:"empty_inputs"`
	EmptyOutputs int             `json:"empty_outputs"`
	InvalidLines []int           `json:"invalid_lines"`
	Example      json.RawMessage `json:"example,omitempty"`
	ExampleError string          `json:"example_error,omitempty"`
}

// Invalid is the number of lines that are not JSON objects
func (r *Report) Invalid() int {
	return len(r.InvalidLines)
}

// Clean reports whether every line is a JSON object with input and output
func (r *Report) Clean() bool {
	return r.Invalid() == 0 && r.EmptyInputs == 0 && r.EmptyOutputs == 0
}

// Check streams r and counts every line. A line is valid when it decodes to
// a JSON object; a valid line with a falsy or missing input or output is
// still valid and is counted as empty.
func Check(r io.Reader) (*Report, error) {
	rep := &Report{InvalidLines: []int{}}
	err := dataset.Lines(r, func(line int, raw []byte) error {
		rep.Total++
		var item map[string]any
		if err := json.Unmarshal(raw, &item); err != nil || item == nil {
			rep.InvalidLines = append(rep.InvalidLines, line)
			return nil
		}
		rep.Valid++
		if Falsy(item["input"]) {
			rep.EmptyInputs++
		}
		if Falsy(item["output"]) {
			rep.EmptyOutputs++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// CheckFile checks the file at path and attaches its first record,
// pretty-printed, as a spot check
func CheckFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	rep, err := Check(f)
	if err != nil {
		return nil, errors.Wrapf(err, "check %s", path)
	}
	rep.Path = path
	if rep.Total == 0 {
		return rep, nil
	}

	example, err := firstRecord(path)
	if err != nil {
		rep.ExampleError = err.Error()
	} else {
		rep.Example = example
	}
	return rep, nil
}

func firstRecord(path string) (json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	first, err := bufio.NewReader(f).ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	first = bytes.TrimSpace(first)
	if !json.Valid(first) {
		return nil, errors.New("first line is not valid JSON")
	}
	var out bytes.Buffer
	if err := json.Indent(&out, first, "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Falsy reports whether v is missing or empty: null, "", false, 0, or an
// empty array or object
func Falsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}
