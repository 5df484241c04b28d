package frame

import (
	"slices"

	"github.com/cockroachdb/errors"
)

var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrRaggedRow       = errors.New("row width does not match column count")
	ErrRowOutOfRange   = errors.New("row index out of range")
	ErrNotNumeric      = errors.New("value is not numeric")
)

// Frame is a small row-major table: an ordered list of column names and a slice of rows,
// each row holding one cell per column. Cells hold nil, int64, float64, bool or string.
//
// A Frame is not safe for concurrent mutation. Workers receive their own copy (see Clone).
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New builds a frame from column names and rows. The rows slice is owned by the frame
// afterwards; integer and float cells are normalized to int64 and float64.
//
// Example:
//
//	f, err := frame.New([]string{"a", "b"}, [][]any{{2, 2}, {2, 3}, {4, 4}})
func New(columns []string, rows [][]any) (*Frame, error) {
	f, err := empty(columns)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.Wrapf(ErrRaggedRow, "row %d has %d cells, want %d", i, len(row), len(columns))
		}
		for j := range row {
			row[j] = normalize(row[j])
		}
	}
	f.rows = rows
	return f, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(columns []string, rows [][]any) *Frame {
	f, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return f
}

// FromColumns builds a frame from column-major data, one values slice per column name.
func FromColumns(columns []string, values ...[]any) (*Frame, error) {
	if len(values) != len(columns) {
		return nil, errors.Newf("got %d value slices for %d columns", len(values), len(columns))
	}

	n := 0
	if len(values) > 0 {
		n = len(values[0])
	}

	rows := make([][]any, n)
	for i := range rows {
		rows[i] = make([]any, len(columns))
	}

	for j, col := range values {
		if len(col) != n {
			return nil, errors.Wrapf(ErrRaggedRow, "column %q has %d values, want %d", columns[j], len(col), n)
		}
		for i, v := range col {
			rows[i][j] = v
		}
	}

	return New(columns, rows)
}

func empty(columns []string) (*Frame, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, errors.Wrapf(ErrDuplicateColumn, "%q", c)
		}
		index[c] = i
	}

	return &Frame{
		columns: slices.Clone(columns),
		index:   index,
		rows:    [][]any{},
	}, nil
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	return slices.Clone(f.columns)
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return len(f.columns)
}

// HasColumn reports whether the frame has a column with the given name.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

func (f *Frame) colIndex(name string) (int, error) {
	j, ok := f.index[name]
	if !ok {
		return 0, errors.Wrapf(ErrColumnNotFound, "%q", name)
	}
	return j, nil
}

func (f *Frame) cell(row int, col string) (int, int, error) {
	if row < 0 || row >= len(f.rows) {
		return 0, 0, errors.Wrapf(ErrRowOutOfRange, "row %d of %d", row, len(f.rows))
	}
	j, err := f.colIndex(col)
	return row, j, err
}

// Get returns the cell at the given row and column.
func (f *Frame) Get(row int, col string) (any, error) {
	i, j, err := f.cell(row, col)
	if err != nil {
		return nil, err
	}
	return f.rows[i][j], nil
}

// Set replaces the cell at the given row and column.
func (f *Frame) Set(row int, col string, v any) error {
	i, j, err := f.cell(row, col)
	if err != nil {
		return err
	}
	f.rows[i][j] = normalize(v)
	return nil
}

// Float64 returns a numeric cell as float64.
func (f *Frame) Float64(row int, col string) (float64, error) {
	v, err := f.Get(row, col)
	if err != nil {
		return 0, err
	}
	x, ok := toFloat64(v)
	if !ok {
		return 0, errors.Wrapf(ErrNotNumeric, "row %d column %q holds %T", row, col, v)
	}
	return x, nil
}

// Int64 returns an integer cell as int64.
func (f *Frame) Int64(row int, col string) (int64, error) {
	v, err := f.Get(row, col)
	if err != nil {
		return 0, err
	}
	x, ok := toInt64(v)
	if !ok {
		return 0, errors.Wrapf(ErrNotNumeric, "row %d column %q holds %T, want an integer", row, col, v)
	}
	return x, nil
}

// Row returns a copy of the i-th row.
func (f *Frame) Row(i int) ([]any, error) {
	if i < 0 || i >= len(f.rows) {
		return nil, errors.Wrapf(ErrRowOutOfRange, "row %d of %d", i, len(f.rows))
	}
	return slices.Clone(f.rows[i]), nil
}

// Column returns a copy of the named column's values.
func (f *Frame) Column(name string) ([]any, error) {
	j, err := f.colIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[j]
	}
	return out, nil
}

// AppendRow adds a row at the end of the frame.
func (f *Frame) AppendRow(values ...any) error {
	if len(values) != len(f.columns) {
		return errors.Wrapf(ErrRaggedRow, "got %d cells, want %d", len(values), len(f.columns))
	}
	row := make([]any, len(values))
	for j, v := range values {
		row[j] = normalize(v)
	}
	f.rows = append(f.rows, row)
	return nil
}

// Clone returns a deep copy of the frame. Cells are scalars, so copying the row slices
// is enough to make the copy independent of the original.
func (f *Frame) Clone() *Frame {
	rows := make([][]any, len(f.rows))
	for i, row := range f.rows {
		rows[i] = slices.Clone(row)
	}
	index := make(map[string]int, len(f.index))
	for k, v := range f.index {
		index[k] = v
	}
	return &Frame{
		columns: slices.Clone(f.columns),
		index:   index,
		rows:    rows,
	}
}

// Select returns a new frame holding only the named columns, in the given order.
func (f *Frame) Select(cols ...string) (*Frame, error) {
	idx := make([]int, len(cols))
	for k, c := range cols {
		j, err := f.colIndex(c)
		if err != nil {
			return nil, err
		}
		idx[k] = j
	}

	out, err := empty(cols)
	if err != nil {
		return nil, err
	}

	out.rows = make([][]any, len(f.rows))
	for i, row := range f.rows {
		sel := make([]any, len(idx))
		for k, j := range idx {
			sel[k] = row[j]
		}
		out.rows[i] = sel
	}
	return out, nil
}

// withRows returns a frame sharing column metadata with f whose rows are the given row
// slices. The rows are not copied.
func (f *Frame) withRows(rows [][]any) *Frame {
	return &Frame{
		columns: f.columns,
		index:   f.index,
		rows:    rows,
	}
}
