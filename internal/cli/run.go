package cli

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/utkarsh5026/parapply/apply"
	"github.com/utkarsh5026/parapply/frame"
	"github.com/utkarsh5026/parapply/internal/config"
	"github.com/utkarsh5026/parapply/internal/cpu"
	"github.com/utkarsh5026/parapply/internal/logging"
	"github.com/utkarsh5026/parapply/internal/ops"
)

type runFlags struct {
	configPath string
	progress   bool
	values     config.Config
}

func newRunCmd() *cobra.Command {
	f := &runFlags{values: config.Default()}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Group a CSV table and apply an operation to every group",
		Example: `  parapply run --input sales.csv --group-by region --op sum --columns amount
  parapply run --input data.csv --group-by a --op mul --columns b,a --sort --format csv
  parapply run --config run.yaml --workers 8 --progress`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.resolve(cmd.Flags().Changed)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid configuration")
			}
			return execute(cmd.Context(), cfg, f.progress, streams{
				in:  cmd.InOrStdin(),
				out: cmd.OutOrStdout(),
				err: cmd.ErrOrStderr(),
			})
		},
	}

	v := &f.values
	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML or JSON run configuration; flags override its values")
	fl.StringVarP(&v.Input, "input", "i", v.Input, `input CSV file, "-" for stdin`)
	fl.StringVarP(&v.Output, "output", "o", v.Output, "output file (default stdout)")
	fl.StringVarP(&v.Format, "format", "f", v.Format, "output format: table or csv")
	fl.StringSliceVarP(&v.GroupBy, "group-by", "g", v.GroupBy, "key columns to group by")
	fl.StringVar(&v.Op, "op", v.Op, "operation to apply (see 'parapply ops')")
	fl.StringSliceVar(&v.Columns, "columns", v.Columns, "value columns (default every non-key column)")
	fl.Float64Var(&v.Factor, "factor", v.Factor, "multiplier for the scale operation")
	fl.BoolVar(&v.Sort, "sort", v.Sort, "sort the output by the group keys")
	fl.IntVarP(&v.Apply.Workers, "workers", "w", v.Apply.Workers, "number of workers, -1 for every core")
	fl.IntVar(&v.Apply.ChunkSize, "chunk-size", v.Apply.ChunkSize, "groups handed to a worker at a time")
	fl.IntVar(&v.Apply.MaxTasksPerWorker, "max-tasks-per-worker", v.Apply.MaxTasksPerWorker, "groups a worker handles before it is replaced, 0 for no limit")
	fl.Float64Var(&v.Apply.RateLimit, "rate-limit", v.Apply.RateLimit, "maximum groups started per second, 0 for no limit")
	fl.IntVar(&v.Apply.RateBurst, "rate-burst", v.Apply.RateBurst, "groups that may start back to back under --rate-limit")
	fl.BoolVar(&v.Apply.CPUAffinity, "cpu-affinity", v.Apply.CPUAffinity, "pin every worker to a core")
	fl.StringVar(&v.Log.Level, "log-level", v.Log.Level, "log level: debug, info, warn or error")
	fl.BoolVar(&v.Log.JSON, "log-json", v.Log.JSON, "log as JSON lines")
	fl.StringVar(&v.Metrics.Addr, "metrics-addr", v.Metrics.Addr, "serve Prometheus metrics on this address while running")
	fl.BoolVar(&f.progress, "progress", false, "show a progress bar")

	return cmd
}

// resolve merges the config file, if any, with the flags the user set explicitly.
func (f *runFlags) resolve(changed func(name string) bool) (config.Config, error) {
	if f.configPath == "" {
		return f.values, nil
	}

	cfg, err := config.LoadFile(f.configPath)
	if err != nil {
		return cfg, err
	}

	v := f.values
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"input", func() { cfg.Input = v.Input }},
		{"output", func() { cfg.Output = v.Output }},
		{"format", func() { cfg.Format = v.Format }},
		{"group-by", func() { cfg.GroupBy = v.GroupBy }},
		{"op", func() { cfg.Op = v.Op }},
		{"columns", func() { cfg.Columns = v.Columns }},
		{"factor", func() { cfg.Factor = v.Factor }},
		{"sort", func() { cfg.Sort = v.Sort }},
		{"workers", func() { cfg.Apply.Workers = v.Apply.Workers }},
		{"chunk-size", func() { cfg.Apply.ChunkSize = v.Apply.ChunkSize }},
		{"max-tasks-per-worker", func() { cfg.Apply.MaxTasksPerWorker = v.Apply.MaxTasksPerWorker }},
		{"rate-limit", func() { cfg.Apply.RateLimit = v.Apply.RateLimit }},
		{"rate-burst", func() { cfg.Apply.RateBurst = v.Apply.RateBurst }},
		{"cpu-affinity", func() { cfg.Apply.CPUAffinity = v.Apply.CPUAffinity }},
		{"log-level", func() { cfg.Log.Level = v.Log.Level }},
		{"log-json", func() { cfg.Log.JSON = v.Log.JSON }},
		{"metrics-addr", func() { cfg.Metrics.Addr = v.Metrics.Addr }},
	}
	for _, o := range overrides {
		if changed(o.flag) {
			o.apply()
		}
	}

	return cfg, nil
}

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func execute(ctx context.Context, cfg config.Config, progress bool, s streams) error {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Options{JSON: cfg.Log.JSON, MinLevel: level, Output: s.err})

	if cfg.Metrics.Addr != "" {
		stop := serveMetrics(cfg.Metrics.Addr, logger)
		defer stop()
	}

	op, err := ops.Lookup(cfg.Op)
	if err != nil {
		return err
	}
	fn, args, err := op.Build(ops.Params{Keys: cfg.GroupBy, Columns: cfg.Columns, Factor: cfg.Factor})
	if err != nil {
		return errors.Wrapf(err, "building %s", op.Name)
	}

	df, err := readInput(cfg.Input, s.in)
	if err != nil {
		return err
	}
	grouped, err := frame.GroupBy(df, cfg.GroupBy...)
	if err != nil {
		return errors.Wrap(err, "grouping input")
	}
	logger.Debug("input loaded", "rows", df.Len(), "columns", df.Columns(), "groups", grouped.Len())

	opts := []apply.Option{
		apply.WithWorkers(cfg.Apply.Workers),
		apply.WithChunkSize(cfg.Apply.ChunkSize),
		apply.WithMaxTasksPerWorker(cfg.Apply.MaxTasksPerWorker),
		apply.WithArgs(args...),
		apply.WithCPUAffinity(cfg.Apply.CPUAffinity),
		apply.WithLogger(logger),
		apply.WithName("parapply"),
	}
	if cfg.Apply.RateLimit > 0 {
		opts = append(opts, apply.WithRateLimit(cfg.Apply.RateLimit, cfg.Apply.RateBurst))
	}
	finishProgress := func() {}
	if progress && grouped.Len() > 0 {
		bar := newProgressBar(grouped.Len(), s.err)
		opts = append(opts, apply.WithOnGroupDone(func(error) {
			_ = bar.Add(1)
		}))
		finishProgress = func() { _ = bar.Finish() }
	}

	start := time.Now()
	out, err := apply.ParallelApply(ctx, grouped, fn, opts...)
	// The bar shares stderr with the summary and must be cleared first.
	finishProgress()
	if err != nil {
		return errors.Wrapf(err, "applying %s", op.Name)
	}
	elapsed := time.Since(start)

	if cfg.Sort {
		if out, err = sortResult(out, cfg.GroupBy); err != nil {
			return err
		}
	}

	if err := writeOutput(cfg.Output, cfg.Format, out, s.out); err != nil {
		return err
	}

	workers := cfg.Apply.Workers
	if workers == apply.AllCores {
		workers = cpu.NumCPU()
	}
	printSummary(s.err, summary{
		op:      op.Name,
		groups:  grouped.Len(),
		rowsIn:  df.Len(),
		rowsOut: out.Len(),
		workers: min(workers, max(grouped.Len(), 1)),
		elapsed: elapsed,
	})
	return nil
}

// sortResult orders the result by the group keys it still carries. The sort is stable,
// so rows within a group keep the order the operation gave them.
func sortResult(out *frame.Frame, keys []string) (*frame.Frame, error) {
	var cols []string
	for _, k := range keys {
		if out.HasColumn(k) {
			cols = append(cols, k)
		}
	}
	if len(cols) == 0 {
		return out, nil
	}
	return out.SortBy(cols...)
}
