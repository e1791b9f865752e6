package printer_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/tokbulk/internal/model"
	"github.com/ytget/tokbulk/internal/printer"
)

func tasksFixture() []*model.DownloadTask {
	createdAt := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	return []*model.DownloadTask{
		{
			ID:         "task-1",
			BatchID:    "01J0000000000000000000000",
			URL:        "https://www.tiktok.com/@a/video/1",
			Filename:   "funny cat",
			Status:     model.TaskStatusDone,
			Progress:   100,
			Quality:    model.QualityHD720,
			OutputPath: "/dl/funny cat.mp4",
			CreatedAt:  createdAt,
			FinishedAt: createdAt.Add(5 * time.Second),
		},
		{
			ID:        "task-2",
			BatchID:   "01J0000000000000000000000",
			URL:       "https://www.tiktok.com/@a/video/2",
			Filename:  "tiktok-2",
			Status:    model.TaskStatusFailed,
			Progress:  37,
			Quality:   model.QualityHD720,
			Error:     "Network timeout.",
			CreatedAt: createdAt,
		},
	}
}

func TestTablePrinterPrintResult(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	tasks := tasksFixture()
	err := p.PrintResult(tasks, model.NewQueueStats(tasks))
	require.NoError(t, err)

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "STATUS"))
	assert.Contains(t, lines[1], "/dl/funny cat.mp4")
	assert.Contains(t, lines[2], "Network timeout.")
	assert.Equal(t, "Total: 2  Saved: 1  Failed: 1  Pending: 0  Active: 0", lines[4])
}

func TestTablePrinterPrintResultEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	require.NoError(t, p.PrintResult(nil, model.QueueStats{}))
	assert.Equal(t, "Total: 0  Saved: 0  Failed: 0  Pending: 0  Active: 0\n", buf.String())
}

func TestJSONPrinterPrintResult(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	tasks := tasksFixture()
	err := p.PrintResult(tasks, model.NewQueueStats(tasks))
	require.NoError(t, err)

	var got struct {
		Tasks []map[string]any `json:"tasks"`
		Stats map[string]int   `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "Done", got.Tasks[0]["status"])
	assert.Equal(t, "/dl/funny cat.mp4", got.Tasks[0]["output_path"])
	assert.Contains(t, got.Tasks[0], "finished_at")
	assert.Equal(t, "Network timeout.", got.Tasks[1]["error"])
	assert.NotContains(t, got.Tasks[1], "finished_at")
	assert.Equal(t, map[string]int{"total": 2, "pending": 0, "active": 0, "saved": 1, "failed": 1}, got.Stats)
}

func TestPrintMessage(t *testing.T) {
	var tbuf, jbuf bytes.Buffer

	require.NoError(t, printer.NewTablePrinter(&tbuf).PrintMessage("v1.0.0"))
	require.NoError(t, printer.NewJSONPrinter(&jbuf).PrintMessage("v1.0.0"))

	assert.Equal(t, "v1.0.0\n", tbuf.String())
	assert.JSONEq(t, `{"message":"v1.0.0"}`, jbuf.String())
}
