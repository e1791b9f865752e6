package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/tokbulk/internal/model"
)

func TestTaskRowStates(t *testing.T) {
	test.NewApp()
	l := NewLocalization()

	tests := map[string]struct {
		task       model.DownloadTask
		expStatus  string
		expRetry   bool
		expOpen    bool
		expEnabled bool
		expError   bool
	}{
		"Pending shows the URL until a caption is known.": {
			task:      model.DownloadTask{ID: "t1", URL: "https://a/video/1", Filename: model.PlaceholderFilename, Status: model.TaskStatusPending},
			expStatus: IconPending + " Pending",
		},
		"Downloading has no actions.": {
			task:      model.DownloadTask{ID: "t1", URL: "https://a/video/1", Filename: "clip", Status: model.TaskStatusDownloading, Progress: 40},
			expStatus: IconPlay + " Downloading",
		},
		"Failed offers a retry and shows the error.": {
			task:      model.DownloadTask{ID: "t1", URL: "https://a/video/1", Filename: "clip", Status: model.TaskStatusFailed, Error: "Network timeout."},
			expStatus: IconError + " Failed",
			expRetry:  true,
			expError:  true,
		},
		"Done without a file keeps the file actions disabled.": {
			task:      model.DownloadTask{ID: "t1", URL: "https://a/video/1", Filename: "clip", Status: model.TaskStatusDone, Progress: 100},
			expStatus: IconDone + " Done",
			expOpen:   true,
		},
		"Done with a file enables the file actions.": {
			task:       model.DownloadTask{ID: "t1", URL: "https://a/video/1", Filename: "clip", Status: model.TaskStatusDone, Progress: 100, OutputPath: "/tmp/clip.mp4"},
			expStatus:  IconDone + " Done",
			expOpen:    true,
			expEnabled: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			row := NewTaskRow(l)
			row.UpdateTask(tc.task)

			assert.Equal(t, tc.expStatus, row.statusLabel.Text)
			assert.Equal(t, tc.task.GetDisplayTitle(), row.titleLabel.Text)
			assert.Equal(t, float64(tc.task.Progress), row.progressBar.Value)
			assert.Equal(t, tc.expRetry, row.retryBtn.Visible())
			assert.Equal(t, tc.expOpen, row.openBtn.Visible())
			assert.Equal(t, tc.expOpen, row.revealBtn.Visible())
			assert.Equal(t, tc.expError, row.errorLabel.Visible())
			if tc.expOpen {
				assert.Equal(t, !tc.expEnabled, row.openBtn.Disabled())
			}
		})
	}
}

func TestTaskRowCallbacks(t *testing.T) {
	test.NewApp()
	row := NewTaskRow(NewLocalization())

	var retried, opened, revealed string
	row.SetCallbacks(
		func(id string) { retried = id },
		func(p string) { opened = p },
		func(p string) { revealed = p },
	)

	row.UpdateTask(model.DownloadTask{ID: "t1", Status: model.TaskStatusFailed, Error: "boom"})
	test.Tap(row.retryBtn)
	require.Equal(t, "t1", retried)

	row.UpdateTask(model.DownloadTask{ID: "t1", Status: model.TaskStatusDone, OutputPath: "/tmp/x.mp4"})
	test.Tap(row.openBtn)
	test.Tap(row.revealBtn)
	assert.Equal(t, "/tmp/x.mp4", opened)
	assert.Equal(t, "/tmp/x.mp4", revealed)
}

func TestTaskRowSingleLine(t *testing.T) {
	assert.Equal(t, "a b c", singleLine(" a\nb\tc\r\n"))
}
