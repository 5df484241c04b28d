package frame

import "slices"

// SortBy returns a copy of f with rows ordered by the given columns ascending, earlier
// columns taking precedence. With no columns every column is used, left to right.
// The sort is stable.
func (f *Frame) SortBy(cols ...string) (*Frame, error) {
	if len(cols) == 0 {
		cols = f.columns
	}

	idx := make([]int, len(cols))
	for k, c := range cols {
		j, err := f.colIndex(c)
		if err != nil {
			return nil, err
		}
		idx[k] = j
	}

	out := f.Clone()
	slices.SortStableFunc(out.rows, func(a, b []any) int {
		for _, j := range idx {
			if c := Compare(a[j], b[j]); c != 0 {
				return c
			}
		}
		return 0
	})
	return out, nil
}

// Equal reports whether a and b have the same columns in the same order and the same
// rows in the same order. Numeric cells compare by value, so int64(4) equals 4.0.
func Equal(a, b *Frame) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !slices.Equal(a.columns, b.columns) || len(a.rows) != len(b.rows) {
		return false
	}
	for i := range a.rows {
		for j := range a.rows[i] {
			if Compare(a.rows[i][j], b.rows[i][j]) != 0 {
				return false
			}
		}
	}
	return true
}
