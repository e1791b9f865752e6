package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconPending  = "⏳"
	IconDone     = "✔"
	IconError    = "❌"
)

// Layout sizing
const (
	StatusLabelWidth float32 = 120
	RowMinWidth      float32 = 400
	URLEntryRows             = 8
	InputPanelWidth  float32 = 360

	WindowWidth  float32 = 1000
	WindowHeight float32 = 680
)

// Notification behavior
const (
	NotificationAutoHide = 4 * time.Second
)
