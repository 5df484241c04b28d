// Package frame provides the small table abstraction the parallel apply works on:
// a row-major Frame of typed cells, record conversion, row concatenation, group-by
// partitioning, sorting and CSV input/output.
//
// # Basic Usage
//
//	f := frame.MustNew([]string{"a", "b"}, [][]any{{2, 2}, {2, 3}, {4, 4}})
//	grouped, err := frame.GroupBy(f, "a")
//	for key, sub := range grouped.All() {
//	    fmt.Println(key, sub.Len())
//	}
//
// Cells are nil, int64, float64, bool or string. Go integer and float kinds are
// normalized on the way in, so literals and parsed CSV values group and compare alike.
package frame
