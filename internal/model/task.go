package model

import (
	"strings"
	"time"
)

// PlaceholderFilename is the display name of a task until its caption resolves
const PlaceholderFilename = "Waiting in queue..."

// DownloadTask represents a single download task
type DownloadTask struct {
	ID         string
	BatchID    string       // shared by the tasks of one Add call
	URL        string       // source URL as entered
	Filename   string       // caption or fallback name
	Status     TaskStatus   // current lifecycle state
	Progress   int          // 0 to 100
	Quality    VideoQuality // immutable after creation
	Error      string       // set only while Failed
	OutputPath string       // path of the saved artifact
	CreatedAt  time.Time    // when the task was added
	StartedAt  time.Time    // when the last attempt started
	FinishedAt time.Time    // when the last attempt finished
}

// GetDisplayTitle returns the filename unless it is still the placeholder, otherwise the URL
func (dt *DownloadTask) GetDisplayTitle() string {
	name := strings.TrimSpace(dt.Filename)
	if name != "" && name != PlaceholderFilename {
		return name
	}
	return dt.URL
}

// ClampProgress bounds a progress value to [0,100]
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// QueueStats is a status breakdown of a task collection
type QueueStats struct {
	Total       int
	Pending     int
	Downloading int
	Done        int
	Failed      int
}

// NewQueueStats counts tasks per status
func NewQueueStats(tasks []*DownloadTask) QueueStats {
	st := QueueStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case TaskStatusPending:
			st.Pending++
		case TaskStatusDownloading:
			st.Downloading++
		case TaskStatusDone:
			st.Done++
		case TaskStatusFailed:
			st.Failed++
		}
	}
	return st
}

// Settled reports whether no task is waiting or running
func (s QueueStats) Settled() bool {
	return s.Pending == 0 && s.Downloading == 0
}
