package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ytget/tokbulk/internal/model"
)

// TablePrinter prints task results in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintResult prints one row per task followed by the status breakdown.
func (t *TablePrinter) PrintResult(tasks []*model.DownloadTask, stats model.QueueStats) error {
	if len(tasks) > 0 {
		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

		fmt.Fprintln(tw, "STATUS\tNAME\tFILE\tURL")
		for _, task := range tasks {
			file := task.OutputPath
			if task.Status == model.TaskStatusFailed {
				file = task.Error
			}
			if file == "" {
				file = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", task.Status, task.GetDisplayTitle(), file, task.URL)
		}

		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(t.writer)
	}

	_, err := fmt.Fprintf(t.writer, "Total: %d  Saved: %d  Failed: %d  Pending: %d  Active: %d\n",
		stats.Total, stats.Done, stats.Failed, stats.Pending, stats.Downloading)
	return err
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}
