package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/tokbulk/internal/model"
)

// TaskRow represents a compact task row widget
type TaskRow struct {
	widget.BaseWidget

	task         model.DownloadTask
	localization *Localization

	titleLabel  *widget.Label
	urlLabel    *widget.Label
	statusLabel *widget.Label
	errorLabel  *widget.Label
	progressBar *widget.ProgressBar

	retryBtn  *widget.Button
	openBtn   *widget.Button // open file with default app
	revealBtn *widget.Button // reveal in file manager

	onRetry  func(taskID string)
	onOpen   func(filePath string)
	onReveal func(filePath string)
}

// NewTaskRow creates a new task row widget
func NewTaskRow(localization *Localization) *TaskRow {
	tr := &TaskRow{
		task:         model.DownloadTask{Status: model.TaskStatusPending, Filename: model.PlaceholderFilename},
		localization: localization,
	}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.updateFromTask()
	return tr
}

// SetCallbacks sets the action callbacks
func (tr *TaskRow) SetCallbacks(onRetry func(taskID string), onOpen, onReveal func(filePath string)) {
	tr.onRetry = onRetry
	tr.onOpen = onOpen
	tr.onReveal = onReveal
}

// UpdateTask updates the row with new task data
func (tr *TaskRow) UpdateTask(task model.DownloadTask) {
	tr.task = task
	tr.updateFromTask()
	tr.Refresh()
}

func (tr *TaskRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.urlLabel = widget.NewLabel("")
	tr.urlLabel.TextStyle = fyne.TextStyle{Monospace: true}
	tr.urlLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing

	tr.errorLabel = widget.NewLabel("")
	tr.errorLabel.Importance = widget.DangerImportance
	tr.errorLabel.Hide()

	tr.progressBar = widget.NewProgressBar()
	tr.progressBar.Min = 0
	tr.progressBar.Max = 100

	tr.retryBtn = widget.NewButton(tr.localization.GetText(KeyRetry), func() {
		if tr.onRetry != nil {
			tr.onRetry(tr.task.ID)
		}
	})
	tr.retryBtn.Importance = widget.WarningImportance

	tr.openBtn = widget.NewButton(tr.localization.GetText(KeyOpen), func() {
		if tr.onOpen != nil && tr.task.OutputPath != "" {
			tr.onOpen(tr.task.OutputPath)
		}
	})

	tr.revealBtn = widget.NewButton(tr.localization.GetText(KeyReveal), func() {
		if tr.onReveal != nil && tr.task.OutputPath != "" {
			tr.onReveal(tr.task.OutputPath)
		}
	})
}

// updateFromTask updates UI components based on task state
func (tr *TaskRow) updateFromTask() {
	tr.titleLabel.SetText(singleLine(tr.task.GetDisplayTitle()))
	tr.urlLabel.SetText(singleLine(tr.task.URL))

	tr.statusLabel.Importance = statusImportance(tr.task.Status)
	tr.statusLabel.SetText(statusText(tr.localization, tr.task.Status))

	tr.progressBar.SetValue(float64(model.ClampProgress(tr.task.Progress)))

	if tr.task.Status == model.TaskStatusFailed && tr.task.Error != "" {
		tr.errorLabel.SetText(tr.task.Error)
		tr.errorLabel.Show()
	} else {
		tr.errorLabel.Hide()
	}

	tr.retryBtn.SetText(tr.localization.GetText(KeyRetry))
	tr.openBtn.SetText(tr.localization.GetText(KeyOpen))
	tr.revealBtn.SetText(tr.localization.GetText(KeyReveal))
	tr.updateButtons()
}

// updateButtons shows Retry on failed rows and Open/Reveal once the file is saved
func (tr *TaskRow) updateButtons() {
	if tr.task.Status == model.TaskStatusFailed {
		tr.retryBtn.Show()
	} else {
		tr.retryBtn.Hide()
	}

	if tr.task.Status == model.TaskStatusDone {
		tr.openBtn.Show()
		tr.revealBtn.Show()
		if tr.task.OutputPath != "" {
			tr.openBtn.Enable()
			tr.revealBtn.Enable()
		} else {
			tr.openBtn.Disable()
			tr.revealBtn.Disable()
		}
	} else {
		tr.openBtn.Hide()
		tr.revealBtn.Hide()
	}
}

// CreateRenderer creates the widget renderer
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	actions := container.NewHBox(tr.retryBtn, tr.openBtn, tr.revealBtn)
	header := container.NewBorder(nil, nil, nil,
		container.NewHBox(fixedWidth(StatusLabelWidth, tr.statusLabel), actions),
		tr.titleLabel,
	)

	content := container.NewVBox(
		header,
		tr.urlLabel,
		tr.progressBar,
		tr.errorLabel,
		widget.NewSeparator(),
	)

	return widget.NewSimpleRenderer(content)
}

// MinSize keeps rows readable in narrow windows
func (tr *TaskRow) MinSize() fyne.Size {
	min := tr.BaseWidget.MinSize()
	if min.Width < RowMinWidth {
		min.Width = RowMinWidth
	}
	return min
}

func statusText(l *Localization, status model.TaskStatus) string {
	switch status {
	case model.TaskStatusPending:
		return IconPending + " " + l.GetText(KeyStatusPending)
	case model.TaskStatusDownloading:
		return IconPlay + " " + l.GetText(KeyStatusDownloading)
	case model.TaskStatusDone:
		return IconDone + " " + l.GetText(KeyStatusDone)
	case model.TaskStatusFailed:
		return IconError + " " + l.GetText(KeyStatusFailed)
	}
	return status.String()
}

func statusImportance(status model.TaskStatus) widget.Importance {
	switch status {
	case model.TaskStatusDownloading:
		return widget.HighImportance
	case model.TaskStatusDone:
		return widget.SuccessImportance
	case model.TaskStatusFailed:
		return widget.DangerImportance
	}
	return widget.MediumImportance
}

// singleLine keeps labels on one line.
func singleLine(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s))
}
