// Package printer renders queue results for the command line.
package printer

import "github.com/ytget/tokbulk/internal/model"

// Printer knows how to print task results in different formats.
type Printer interface {
	PrintResult(tasks []*model.DownloadTask, stats model.QueueStats) error
	PrintMessage(msg string) error
}
