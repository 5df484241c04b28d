package frame

import (
	"iter"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNoGroupKeys is returned by GroupBy when called without key columns.
var ErrNoGroupKeys = errors.New("group by requires at least one key column")

// Key is the tuple of key-column values shared by every row of a group.
type Key []any

// String renders the key as its values joined by "|".
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, "|")
}

func compareKeys(a, b Key) int {
	for i := range min(len(a), len(b)) {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// Group is one partition of a grouped frame.
type Group struct {
	Key   Key
	Frame *Frame
}

// Grouped is an ordered sequence of (key, sub-frame) pairs.
type Grouped struct {
	columns []string
	keys    []string
	groups  []Group
}

// NewGrouped wraps groups produced by some other partitioning. columns describes the
// source frame and is what an empty grouped collection reports.
func NewGrouped(columns []string, groups ...Group) *Grouped {
	return &Grouped{
		columns: slices.Clone(columns),
		groups:  slices.Clone(groups),
	}
}

// GroupBy partitions f into groups of rows sharing the same values in the key columns.
// Groups are ordered by key ascending; rows inside a group keep their original order.
// Sub-frames keep all columns, key columns included, and share row storage with f, so
// they must be cloned before being mutated.
func GroupBy(f *Frame, keys ...string) (*Grouped, error) {
	if len(keys) == 0 {
		return nil, ErrNoGroupKeys
	}

	idx := make([]int, len(keys))
	for k, name := range keys {
		j, err := f.colIndex(name)
		if err != nil {
			return nil, errors.Wrap(err, "group by")
		}
		idx[k] = j
	}

	type bucket struct {
		key  Key
		rows [][]any
	}

	buckets := make(map[string]*bucket)
	var order []*bucket

	var sb strings.Builder
	for _, row := range f.rows {
		sb.Reset()
		key := make(Key, len(idx))
		for k, j := range idx {
			key[k] = row[j]
			sb.WriteString(groupToken(row[j]))
			sb.WriteByte(0)
		}

		token := sb.String()
		b, ok := buckets[token]
		if !ok {
			b = &bucket{key: key}
			buckets[token] = b
			order = append(order, b)
		}
		b.rows = append(b.rows, row)
	}

	slices.SortStableFunc(order, func(a, b *bucket) int {
		return compareKeys(a.key, b.key)
	})

	groups := make([]Group, len(order))
	for i, b := range order {
		groups[i] = Group{Key: b.key, Frame: f.withRows(b.rows)}
	}

	return &Grouped{
		columns: f.Columns(),
		keys:    slices.Clone(keys),
		groups:  groups,
	}, nil
}

// Len returns the number of groups.
func (g *Grouped) Len() int {
	return len(g.groups)
}

// Keys returns the key column names the collection was grouped by.
func (g *Grouped) Keys() []string {
	return slices.Clone(g.keys)
}

// Columns returns the columns of the source frame.
func (g *Grouped) Columns() []string {
	return slices.Clone(g.columns)
}

// Groups returns the groups in order.
func (g *Grouped) Groups() []Group {
	return slices.Clone(g.groups)
}

// All iterates over (key, sub-frame) pairs in group order.
func (g *Grouped) All() iter.Seq2[Key, *Frame] {
	return func(yield func(Key, *Frame) bool) {
		for _, grp := range g.groups {
			if !yield(grp.Key, grp.Frame) {
				return
			}
		}
	}
}
