package dataset

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

// Writer writes JSON Lines to a temporary sibling of its destination and
// renames it into place on Commit. Abort discards the temporary file and is
// a no-op after Commit, so callers defer it.
type Writer struct {
	path  string
	tmp   *os.File
	buf   *bufio.Writer
	enc   *json.Encoder
	count int
	done  bool
}

// Create opens a Writer for path, creating parent directories as needed
func Create(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create directory %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, errors.Wrapf(err, "create temporary file for %s", path)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, errors.Wrapf(err, "chmod %s", tmp.Name())
	}
	buf := bufio.NewWriter(tmp)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &Writer{path: path, tmp: tmp, buf: buf, enc: enc}, nil
}

// Write appends one record as a single line
func (w *Writer) Write(v any) error {
	if w.done {
		return errors.Newf("write to closed writer for %s", w.path)
	}
	if err := w.enc.Encode(v); err != nil {
		return errors.Wrapf(err, "encode record %d for %s", w.count+1, w.path)
	}
	w.count++
	return nil
}

// Stream is the buffered temporary file, for formats other than JSON Lines.
// Records written through it are not counted.
func (w *Writer) Stream() io.Writer {
	return w.buf
}

// Count is the number of records written so far
func (w *Writer) Count() int {
	return w.count
}

// Path is the final destination
func (w *Writer) Path() string {
	return w.path
}

// Commit flushes the records and moves them to the destination
func (w *Writer) Commit() error {
	if w.done {
		return errors.Newf("writer for %s already closed", w.path)
	}
	w.done = true
	name := w.tmp.Name()
	if err := w.buf.Flush(); err != nil {
		w.tmp.Close()
		os.Remove(name)
		return errors.Wrapf(err, "flush %s", w.path)
	}
	if err := w.tmp.Close(); err != nil {
		os.Remove(name)
		return errors.Wrapf(err, "close %s", w.path)
	}
	if err := os.Rename(name, w.path); err != nil {
		os.Remove(name)
		return errors.Wrapf(err, "rename into %s", w.path)
	}
	return nil
}

// Abort discards everything written
func (w *Writer) Abort() {
	if w.done {
		return
	}
	w.done = true
	w.tmp.Close()
	os.Remove(w.tmp.Name())
}

// WriteAll writes records to path atomically
func WriteAll[T any](path string, records []T) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	defer w.Abort()
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Commit()
}
