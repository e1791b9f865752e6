// Package ui contains the Fyne-based desktop user interface. It wires user
// input to the download queue and renders tasks, queue stats, themes and
// settings. All UI strings are localized via Localization.
package ui
