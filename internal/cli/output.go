package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"github.com/utkarsh5026/parapply/frame"
	"github.com/utkarsh5026/parapply/internal/config"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
)

// readInput reads the input table. "-" reads stdin.
func readInput(path string, stdin io.Reader) (*frame.Frame, error) {
	if path == "-" {
		return frame.ReadCSV(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening input")
	}
	defer f.Close()

	return frame.ReadCSV(f)
}

// writeOutput writes the result to path, or to stdout when path is empty.
func writeOutput(path, format string, out *frame.Frame, stdout io.Writer) (err error) {
	w := stdout
	if path != "" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return errors.Wrap(cerr, "creating output")
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if format == config.FormatCSV {
		return frame.WriteCSV(w, out)
	}
	return writeTable(w, out)
}

func writeTable(w io.Writer, out *frame.Frame) error {
	table := tablewriter.NewWriter(w)

	header := make([]any, 0, out.Width())
	for _, c := range out.Columns() {
		header = append(header, c)
	}
	table.Header(header...)

	for i := range out.Len() {
		row, err := out.Row(i)
		if err != nil {
			return err
		}
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = frame.FormatValue(v)
		}
		if err := table.Append(cells); err != nil {
			return errors.Wrap(err, "rendering table")
		}
	}

	return table.Render()
}

func newProgressBar(groups int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(groups,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Applying"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("groups"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

type summary struct {
	op      string
	groups  int
	rowsIn  int
	rowsOut int
	workers int
	elapsed time.Duration
}

func printSummary(w io.Writer, s summary) {
	green.Fprint(w, "done ")
	fmt.Fprintf(w, "%s over %s groups (%s rows in, %s rows out) with %s workers in %s\n",
		bold.Sprint(s.op),
		humanize.Comma(int64(s.groups)),
		humanize.Comma(int64(s.rowsIn)),
		humanize.Comma(int64(s.rowsOut)),
		humanize.Comma(int64(s.workers)),
		s.elapsed.Round(time.Millisecond),
	)
}
