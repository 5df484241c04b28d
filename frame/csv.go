package frame

import (
	"encoding/csv"
	"io"

	"github.com/cockroachdb/errors"
)

// ReadCSV reads a frame from CSV text. The first record is the header; cells are typed
// with ParseValue.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("csv input is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading csv header")
	}

	f, err := empty(header)
	if err != nil {
		return nil, err
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading csv")
		}

		row := make([]any, len(rec))
		for j, s := range rec {
			row[j] = ParseValue(s)
		}
		f.rows = append(f.rows, row)
	}

	return f, nil
}

// WriteCSV writes f as CSV with a header line.
func WriteCSV(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.columns); err != nil {
		return errors.Wrap(err, "writing csv header")
	}

	rec := make([]string, len(f.columns))
	for _, row := range f.rows {
		for j, v := range row {
			rec[j] = FormatValue(v)
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "writing csv")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
