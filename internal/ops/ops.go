// Package ops holds the built-in group functions exposed by the command line.
package ops

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/utkarsh5026/parapply/apply"
	"github.com/utkarsh5026/parapply/frame"
)

// ErrUnknownOp is returned by Lookup for names that are not registered.
var ErrUnknownOp = errors.New("unknown operation")

// Kind tells whether an operation reduces a group to one row or rewrites it.
type Kind string

const (
	Aggregate Kind = "aggregate"
	Transform Kind = "transform"
)

// Params are the per-run inputs of an operation.
type Params struct {
	// Keys are the group key columns. Aggregates copy them into every output record.
	Keys []string
	// Columns are the value columns. Empty means every column that is not a key.
	Columns []string
	// Factor is the multiplier used by scale.
	Factor float64
}

// Op is a named group function.
type Op struct {
	Name        string
	Kind        Kind
	Description string

	build func(p Params) (apply.GroupFunc, []any, error)
}

func (o Op) String() string {
	return fmt.Sprintf("%s (%s)", o.Name, o.Kind)
}

// Build returns the group function and the extra arguments it expects.
func (o Op) Build(p Params) (apply.GroupFunc, []any, error) {
	return o.build(p)
}

var registry = map[string]Op{
	"sum":    aggregate("sum", "sum of each value column", sum),
	"mean":   aggregate("mean", "arithmetic mean of each value column", mean),
	"count":  aggregate("count", "number of non-empty cells in each value column", count),
	"min":    aggregate("min", "smallest value of each value column", minimum),
	"max":    aggregate("max", "largest value of each value column", maximum),
	"scale":  {Name: "scale", Kind: Transform, Description: "multiply value columns by --factor", build: buildScale},
	"mul":    {Name: "mul", Kind: Transform, Description: "multiply the first value column by the second", build: buildMul},
	"cumsum": {Name: "cumsum", Kind: Transform, Description: "running sum of each value column within the group", build: buildCumsum},
	"demean": {Name: "demean", Kind: Transform, Description: "subtract the group mean from each value column", build: buildDemean},
}

// Lookup returns the operation registered under name.
func Lookup(name string) (Op, error) {
	op, ok := registry[strings.ToLower(name)]
	if !ok {
		return Op{}, errors.Wrapf(ErrUnknownOp, "%q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return op, nil
}

// All returns every registered operation ordered by name.
func All() []Op {
	out := make([]Op, 0, len(registry))
	for _, op := range registry {
		out = append(out, op)
	}
	slices.SortFunc(out, func(a, b Op) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Names returns the registered operation names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, op := range All() {
		names = append(names, op.Name)
	}
	return names
}

// valueColumns resolves the columns an operation works on for one group.
func valueColumns(g *frame.Frame, p Params) []string {
	if len(p.Columns) > 0 {
		return p.Columns
	}
	var cols []string
	for _, c := range g.Columns() {
		if !slices.Contains(p.Keys, c) {
			cols = append(cols, c)
		}
	}
	return cols
}
