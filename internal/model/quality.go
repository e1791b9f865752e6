package model

import (
	"fmt"
	"strings"
)

// VideoQuality is the quality selector in effect when a task was queued
type VideoQuality string

const (
	QualityHD720   VideoQuality = "720p"
	QualityFHD1080 VideoQuality = "1080p"
	QualityMaximum VideoQuality = "Highest Quality"
	DefaultQuality              = QualityHD720
)

// Qualities returns the selectable qualities in display order
func Qualities() []VideoQuality {
	return []VideoQuality{QualityHD720, QualityFHD1080, QualityMaximum}
}

// String returns the string representation of VideoQuality
func (q VideoQuality) String() string {
	return string(q)
}

// ParseQuality maps user input to a VideoQuality. It accepts the display
// values and the short aliases "720", "1080", "max" and "highest".
func ParseQuality(s string) (VideoQuality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "720p", "720", "hd":
		return QualityHD720, nil
	case "1080p", "1080", "fhd":
		return QualityFHD1080, nil
	case "highest quality", "highest", "max", "best":
		return QualityMaximum, nil
	}
	return "", fmt.Errorf("quality %q: %w", s, ErrNotValid)
}
