package frame

import (
	"maps"
	"slices"
)

// Record is one row in mapping form: column name to cell value.
type Record map[string]any

// FromRecords builds a frame with one row per record. The column set is the union of
// record keys. Leading columns that some record carries come first, in the given order;
// the rest follow in first-seen order, with keys new to a record taken in sorted order
// since map iteration is unordered. Cells a record does not mention are nil.
func FromRecords(records []Record, leading ...string) *Frame {
	var columns []string
	index := make(map[string]int)

	for _, k := range leading {
		if _, seen := index[k]; seen {
			continue
		}
		if slices.ContainsFunc(records, func(r Record) bool { _, ok := r[k]; return ok }) {
			index[k] = len(columns)
			columns = append(columns, k)
		}
	}

	for _, r := range records {
		for _, k := range slices.Sorted(maps.Keys(r)) {
			if _, seen := index[k]; !seen {
				index[k] = len(columns)
				columns = append(columns, k)
			}
		}
	}

	rows := make([][]any, len(records))
	for i, r := range records {
		row := make([]any, len(columns))
		for k, v := range r {
			row[index[k]] = normalize(v)
		}
		rows[i] = row
	}

	if columns == nil {
		columns = []string{}
	}

	return &Frame{
		columns: columns,
		index:   index,
		rows:    rows,
	}
}

// Record returns the i-th row in mapping form.
func (f *Frame) Record(i int) (Record, error) {
	row, err := f.Row(i)
	if err != nil {
		return nil, err
	}
	r := make(Record, len(f.columns))
	for j, c := range f.columns {
		r[c] = row[j]
	}
	return r, nil
}

// Records returns every row in mapping form.
func (f *Frame) Records() []Record {
	out := make([]Record, len(f.rows))
	for i := range f.rows {
		out[i], _ = f.Record(i)
	}
	return out
}
