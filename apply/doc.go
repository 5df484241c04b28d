// Package apply runs a function over every group of a grouped frame on a pool of
// worker goroutines and recombines the results into a single frame.
//
// The group function declares its result shape up front:
//
//   - FrameFunc: every group yields a frame; the frames are stacked row-wise.
//   - RecordFunc: every group yields one record; the result has one row per group.
//
// Groups are distributed in batches (WithChunkSize), workers can be recycled after a
// number of groups (WithMaxTasksPerWorker) and fixed extra arguments reach every call
// (WithArgs). Group order in the output follows completion order, not key order.
//
// Basic usage:
//
//	grouped, err := frame.GroupBy(df, "a")
//	if err != nil {
//	    return err
//	}
//
//	out, err := apply.Records(ctx, grouped, func(ctx context.Context, g *frame.Frame, _ ...any) (frame.Record, error) {
//	    return frame.Record{"n": g.Len()}, nil
//	})
package apply
