package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/ytget/tokbulk/internal/model"
)

// JSONPrinter prints task results in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type taskOutput struct {
	ID         string     `json:"id"`
	BatchID    string     `json:"batch_id"`
	URL        string     `json:"url"`
	Filename   string     `json:"filename"`
	Status     string     `json:"status"`
	Progress   int        `json:"progress"`
	Quality    string     `json:"quality"`
	Error      string     `json:"error,omitempty"`
	OutputPath string     `json:"output_path,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type statsOutput struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Active  int `json:"active"`
	Saved   int `json:"saved"`
	Failed  int `json:"failed"`
}

type resultOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Stats statsOutput  `json:"stats"`
}

type messageOutput struct {
	Message string `json:"message"`
}

// PrintResult prints the tasks and the status breakdown as one JSON document.
func (j *JSONPrinter) PrintResult(tasks []*model.DownloadTask, stats model.QueueStats) error {
	output := resultOutput{
		Tasks: make([]taskOutput, 0, len(tasks)),
		Stats: statsOutput{
			Total:   stats.Total,
			Pending: stats.Pending,
			Active:  stats.Downloading,
			Saved:   stats.Done,
			Failed:  stats.Failed,
		},
	}

	for _, t := range tasks {
		item := taskOutput{
			ID:         t.ID,
			BatchID:    t.BatchID,
			URL:        t.URL,
			Filename:   t.Filename,
			Status:     t.Status.String(),
			Progress:   t.Progress,
			Quality:    t.Quality.String(),
			Error:      t.Error,
			OutputPath: t.OutputPath,
			CreatedAt:  t.CreatedAt.UTC(),
		}
		if !t.FinishedAt.IsZero() {
			utcTime := t.FinishedAt.UTC()
			item.FinishedAt = &utcTime
		}
		output.Tasks = append(output.Tasks, item)
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(messageOutput{Message: msg})
}
