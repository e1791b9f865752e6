package model

import "fmt"

// TaskStatus represents the status of a download task
type TaskStatus string

const (
	// TaskStatusPending means the task is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusDownloading means the download is in progress
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusDone means the task finished successfully
	TaskStatusDone TaskStatus = "Done"

	// TaskStatusFailed means the task failed with an error
	TaskStatusFailed TaskStatus = "Failed"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusDownloading
}

// validTransitions lists the allowed status changes. Pending is the initial state.
var validTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:     {TaskStatusDownloading},
	TaskStatusDownloading: {TaskStatusDone, TaskStatusFailed},
	TaskStatusFailed:      {TaskStatusPending},
	TaskStatusDone:        {},
}

// CanTransition reports whether a task may move from one status to another.
func CanTransition(from, to TaskStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrNotValid when the transition is not allowed.
func ValidateTransition(from, to TaskStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("transition from %s to %s: %w", from, to, ErrNotValid)
	}
	return nil
}
