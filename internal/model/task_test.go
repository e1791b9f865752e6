package model

import (
	"errors"
	"testing"
)

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		filename string
		url      string
		expected string
	}{
		{"Cats being cats", "https://www.tiktok.com/@u/video/123", "Cats being cats"},
		{"", "https://www.tiktok.com/@u/video/123", "https://www.tiktok.com/@u/video/123"},
		{PlaceholderFilename, "https://www.tiktok.com/@u/video/456", "https://www.tiktok.com/@u/video/456"},
		{"  ", "https://www.tiktok.com/@u/video/789", "https://www.tiktok.com/@u/video/789"},
	}

	for _, test := range tests {
		task := &DownloadTask{
			Filename: test.filename,
			URL:      test.url,
		}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with filename='%s', url='%s' = '%s', expected '%s'",
				test.filename, test.url, result, test.expected)
		}
	}
}

func TestClampProgress(t *testing.T) {
	tests := []struct {
		in, expected int
	}{
		{-3, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{131, 100},
	}

	for _, test := range tests {
		if got := ClampProgress(test.in); got != test.expected {
			t.Errorf("ClampProgress(%d) = %d, expected %d", test.in, got, test.expected)
		}
	}
}

func TestNewQueueStats(t *testing.T) {
	tasks := []*DownloadTask{
		{ID: "1", Status: TaskStatusPending},
		{ID: "2", Status: TaskStatusPending},
		{ID: "3", Status: TaskStatusDownloading},
		{ID: "4", Status: TaskStatusDone},
		{ID: "5", Status: TaskStatusFailed},
	}

	st := NewQueueStats(tasks)
	expected := QueueStats{Total: 5, Pending: 2, Downloading: 1, Done: 1, Failed: 1}
	if st != expected {
		t.Errorf("NewQueueStats() = %+v, expected %+v", st, expected)
	}

	if st.Settled() {
		t.Error("Expected stats with pending tasks not to be settled")
	}

	if !NewQueueStats(tasks[3:]).Settled() {
		t.Error("Expected finished tasks to be settled")
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in       string
		expected VideoQuality
		expErr   bool
	}{
		{"720p", QualityHD720, false},
		{"1080", QualityFHD1080, false},
		{"Highest Quality", QualityMaximum, false},
		{" MAX ", QualityMaximum, false},
		{"4k", "", true},
	}

	for _, test := range tests {
		q, err := ParseQuality(test.in)
		if test.expErr {
			if !errors.Is(err, ErrNotValid) {
				t.Errorf("ParseQuality(%q) expected ErrNotValid, got %v", test.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseQuality(%q) unexpected error: %v", test.in, err)
		}
		if q != test.expected {
			t.Errorf("ParseQuality(%q) = %s, expected %s", test.in, q, test.expected)
		}
	}
}

func TestQualities(t *testing.T) {
	qs := Qualities()
	if len(qs) != 3 || qs[0] != DefaultQuality {
		t.Errorf("Expected 3 qualities starting with the default, got %v", qs)
	}
}
