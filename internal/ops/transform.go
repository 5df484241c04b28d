package ops

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/utkarsh5026/parapply/apply"
	"github.com/utkarsh5026/parapply/frame"
)

// buildScale multiplies value columns by a factor. The factor travels as the function's
// first extra argument rather than through the closure.
func buildScale(p Params) (apply.GroupFunc, []any, error) {
	fn := func(_ context.Context, g *frame.Frame, args ...any) (*frame.Frame, error) {
		if len(args) != 1 {
			return nil, errors.Newf("scale takes one argument, got %d", len(args))
		}
		factor, ok := args[0].(float64)
		if !ok {
			return nil, errors.Newf("scale factor must be float64, got %T", args[0])
		}

		for _, col := range valueColumns(g, p) {
			for i := range g.Len() {
				n, ok, err := cellNumber(g, i, col)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				if err := g.Set(i, col, n.f*factor); err != nil {
					return nil, err
				}
			}
		}
		return g, nil
	}
	return apply.FrameFunc(fn), []any{p.Factor}, nil
}

// buildMul multiplies the first value column by the second in place.
func buildMul(p Params) (apply.GroupFunc, []any, error) {
	if len(p.Columns) != 2 {
		return apply.GroupFunc{}, nil, errors.Newf("mul needs exactly two columns (target, multiplier), got %d", len(p.Columns))
	}
	target, by := p.Columns[0], p.Columns[1]

	fn := func(_ context.Context, g *frame.Frame, _ ...any) (*frame.Frame, error) {
		for i := range g.Len() {
			a, okA, err := cellNumber(g, i, target)
			if err != nil {
				return nil, err
			}
			b, okB, err := cellNumber(g, i, by)
			if err != nil {
				return nil, err
			}

			var v any
			if okA && okB {
				v = a.mul(b).value()
			}
			if err := g.Set(i, target, v); err != nil {
				return nil, err
			}
		}
		return g, nil
	}
	return apply.FrameFunc(fn), nil, nil
}

func buildCumsum(p Params) (apply.GroupFunc, []any, error) {
	fn := func(_ context.Context, g *frame.Frame, _ ...any) (*frame.Frame, error) {
		for _, col := range valueColumns(g, p) {
			acc := zero
			for i := range g.Len() {
				n, ok, err := cellNumber(g, i, col)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				acc = acc.add(n)
				if err := g.Set(i, col, acc.value()); err != nil {
					return nil, err
				}
			}
		}
		return g, nil
	}
	return apply.FrameFunc(fn), nil, nil
}

func buildDemean(p Params) (apply.GroupFunc, []any, error) {
	fn := func(_ context.Context, g *frame.Frame, _ ...any) (*frame.Frame, error) {
		for _, col := range valueColumns(g, p) {
			m, err := mean(g, col)
			if err != nil {
				return nil, err
			}
			avg, ok := m.(float64)
			if !ok {
				continue
			}
			for i := range g.Len() {
				n, ok, err := cellNumber(g, i, col)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				if err := g.Set(i, col, n.f-avg); err != nil {
					return nil, err
				}
			}
		}
		return g, nil
	}
	return apply.FrameFunc(fn), nil, nil
}
