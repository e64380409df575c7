package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

// Lines calls fn for every line of r with its 1-based number. The line
// terminator (\n or \r\n) is stripped. Lines have no length limit. A final
// line without a terminator is still delivered.
func Lines(r io.Reader, fn func(line int, raw []byte) error) error {
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		raw, err := br.ReadBytes('\n')
		if len(raw) > 0 {
			raw = bytes.TrimSuffix(raw, []byte("\n"))
			raw = bytes.TrimSuffix(raw, []byte("\r"))
			if ferr := fn(n, raw); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "read line %d", n)
		}
	}
}

// Each decodes every line of r into a T and calls fn with it. Blank lines
// and lines that do not decode are recorded in tally as skipped and never
// reach fn. fn records its own outcomes; an error from fn stops the scan.
func Each[T any](r io.Reader, tally *Tally, fn func(line int, rec T) error) error {
	return Lines(r, func(line int, raw []byte) error {
		if len(bytes.TrimSpace(raw)) == 0 {
			tally.Add(SkippedAt(line, ReasonBlankLine))
			return nil
		}
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			o := SkippedAt(line, ReasonMalformedJSON)
			o.Err = err
			tally.Add(o)
			return nil
		}
		return fn(line, rec)
	})
}

// EachFile is Each over the file at path
func EachFile[T any](path string, tally *Tally, fn func(line int, rec T) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return Each(f, tally, fn)
}

// ReadAll decodes every well-formed record of the file at path
func ReadAll[T any](path string) ([]T, Tally, error) {
	var out []T
	var tally Tally
	err := EachFile(path, &tally, func(line int, rec T) error {
		tally.Add(ParsedAt(line))
		out = append(out, rec)
		return nil
	})
	return out, tally, err
}
