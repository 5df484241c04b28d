package apply

import "github.com/utkarsh5026/parapply/frame"

// merge combines per-group results according to the declared shape.
func merge(fn GroupFunc, results []groupResult) *frame.Frame {
	if fn.shape == recordShape {
		records := make([]frame.Record, len(results))
		for i, r := range results {
			records[i] = r.record
		}
		return frame.FromRecords(records, fn.leading...)
	}

	frames := make([]*frame.Frame, len(results))
	for i, r := range results {
		frames[i] = r.frame
	}
	return frame.Concat(frames...)
}

func emptyResult(grouped *frame.Grouped, s shape) *frame.Frame {
	if s == recordShape {
		return frame.FromRecords(nil)
	}
	return frame.MustNew(grouped.Columns(), nil)
}
