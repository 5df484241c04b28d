package frame

// Concat stacks frames along the row axis. The result's columns are the union of the
// inputs' columns in first-seen order; a frame lacking a column contributes nil cells.
// Rows keep their order within each input and inputs are appended in argument order.
// Nil frames are skipped.
func Concat(frames ...*Frame) *Frame {
	var columns []string
	index := make(map[string]int)
	total := 0

	for _, f := range frames {
		if f == nil {
			continue
		}
		total += len(f.rows)
		for _, c := range f.columns {
			if _, ok := index[c]; !ok {
				index[c] = len(columns)
				columns = append(columns, c)
			}
		}
	}

	if columns == nil {
		columns = []string{}
	}

	rows := make([][]any, 0, total)
	for _, f := range frames {
		if f == nil {
			continue
		}

		pos := make([]int, len(f.columns))
		for j, c := range f.columns {
			pos[j] = index[c]
		}

		for _, src := range f.rows {
			row := make([]any, len(columns))
			for j, v := range src {
				row[pos[j]] = v
			}
			rows = append(rows, row)
		}
	}

	return &Frame{
		columns: columns,
		index:   index,
		rows:    rows,
	}
}
