package license

import (
	"os"

	"github.com/gocarina/gocsv"

	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/dataset"
	"github.com/elkhouchani/AI-Coding-Assistant-Step-One-Data-Curation/errors"
)

// ReadReport loads the decisions recorded so far. A missing or empty report
// has no rows.
func ReadReport(path string) ([]dataset.LicenseDecision, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open report %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat report %s", path)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	rows := []*dataset.LicenseDecision{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.Wrapf(err, "parse report %s", path)
	}
	out := make([]dataset.LicenseDecision, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out, nil
}

// WriteReport replaces the report at path with rows
func WriteReport(path string, rows []dataset.LicenseDecision) error {
	w, err := dataset.Create(path)
	if err != nil {
		return err
	}
	defer w.Abort()
	if err := gocsv.Marshal(&rows, w.Stream()); err != nil {
		return errors.Wrapf(err, "encode report %s", path)
	}
	return w.Commit()
}
