package ops

import (
	"context"

	"github.com/utkarsh5026/parapply/apply"
	"github.com/utkarsh5026/parapply/frame"
)

// reducer folds one value column of a group into a single cell.
type reducer func(g *frame.Frame, col string) (any, error)

func aggregate(name, description string, reduce reducer) Op {
	return Op{
		Name:        name,
		Kind:        Aggregate,
		Description: description,
		build: func(p Params) (apply.GroupFunc, []any, error) {
			fn := func(_ context.Context, g *frame.Frame, _ ...any) (frame.Record, error) {
				rec := make(frame.Record)
				if err := copyKeys(rec, g, p.Keys); err != nil {
					return nil, err
				}
				for _, col := range valueColumns(g, p) {
					v, err := reduce(g, col)
					if err != nil {
						return nil, err
					}
					rec[col] = v
				}
				return rec, nil
			}
			return apply.RecordFunc(fn).WithLeadingColumns(p.Keys...), nil, nil
		},
	}
}

// copyKeys copies the key columns of the group's first row into rec. Every row of a
// group holds the same key values.
func copyKeys(rec frame.Record, g *frame.Frame, keys []string) error {
	if g.Len() == 0 {
		return nil
	}
	for _, k := range keys {
		v, err := g.Get(0, k)
		if err != nil {
			return err
		}
		rec[k] = v
	}
	return nil
}

func sum(g *frame.Frame, col string) (any, error) {
	acc := zero
	for i := range g.Len() {
		n, ok, err := cellNumber(g, i, col)
		if err != nil {
			return nil, err
		}
		if ok {
			acc = acc.add(n)
		}
	}
	return acc.value(), nil
}

func mean(g *frame.Frame, col string) (any, error) {
	acc := zero
	seen := 0
	for i := range g.Len() {
		n, ok, err := cellNumber(g, i, col)
		if err != nil {
			return nil, err
		}
		if ok {
			acc = acc.add(n)
			seen++
		}
	}
	if seen == 0 {
		return nil, nil
	}
	return acc.f / float64(seen), nil
}

func count(g *frame.Frame, col string) (any, error) {
	values, err := g.Column(col)
	if err != nil {
		return nil, err
	}
	var n int64
	for _, v := range values {
		if v != nil {
			n++
		}
	}
	return n, nil
}

func minimum(g *frame.Frame, col string) (any, error) {
	return extreme(g, col, -1)
}

func maximum(g *frame.Frame, col string) (any, error) {
	return extreme(g, col, 1)
}

// extreme returns the non-nil cell that compares as sign against every other, or nil
// for a column with no values.
func extreme(g *frame.Frame, col string, sign int) (any, error) {
	values, err := g.Column(col)
	if err != nil {
		return nil, err
	}
	var best any
	for _, v := range values {
		if v == nil {
			continue
		}
		if best == nil || frame.Compare(v, best)*sign > 0 {
			best = v
		}
	}
	return best, nil
}
