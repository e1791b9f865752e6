package model

// Package model defines domain data structures used across the app: download
// tasks, quality selectors, status enums and their allowed transitions.
// Structures are plain values so the UI and the CLI can render snapshots.
