package ops

import (
	"github.com/cockroachdb/errors"

	"github.com/utkarsh5026/parapply/frame"
)

// number is a numeric cell that remembers whether it was an integer, so integer
// columns stay integers through sums and products.
type number struct {
	i     int64
	f     float64
	isInt bool
}

func (n number) value() any {
	if n.isInt {
		return n.i
	}
	return n.f
}

func (n number) add(o number) number {
	if n.isInt && o.isInt {
		return number{i: n.i + o.i, f: float64(n.i + o.i), isInt: true}
	}
	return number{f: n.f + o.f}
}

func (n number) mul(o number) number {
	if n.isInt && o.isInt {
		return number{i: n.i * o.i, f: float64(n.i * o.i), isInt: true}
	}
	return number{f: n.f * o.f}
}

var zero = number{isInt: true}

// cellNumber reads a numeric cell. ok is false for nil cells, which every operation
// skips; non-numeric cells are an error.
func cellNumber(g *frame.Frame, row int, col string) (n number, ok bool, err error) {
	v, err := g.Get(row, col)
	if err != nil {
		return number{}, false, err
	}
	switch x := v.(type) {
	case nil:
		return number{}, false, nil
	case int64:
		return number{i: x, f: float64(x), isInt: true}, true, nil
	case float64:
		return number{f: x}, true, nil
	default:
		return number{}, false, errors.Wrapf(frame.ErrNotNumeric, "row %d column %q holds %T", row, col, v)
	}
}
