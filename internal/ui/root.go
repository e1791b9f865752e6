package ui

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/tokbulk/internal/config"
	"github.com/ytget/tokbulk/internal/download"
	"github.com/ytget/tokbulk/internal/log"
	"github.com/ytget/tokbulk/internal/model"
	"github.com/ytget/tokbulk/internal/platform"
)

// AutoRevealer toggles revealing saved files in the file manager.
type AutoRevealer interface {
	SetAutoReveal(v bool)
}

// RootUIConfig is the configuration of the main window.
type RootUIConfig struct {
	App        fyne.App
	Window     fyne.Window
	Downloader download.Downloader
	Revealer   AutoRevealer
	Settings   *config.Settings
	Logger     log.Logger
}

func (c *RootUIConfig) defaults() error {
	if c.App == nil || c.Window == nil {
		return model.ErrNotValid
	}
	if c.Downloader == nil {
		return model.ErrNotValid
	}
	if c.Settings == nil {
		c.Settings = config.NewSettings(c.App)
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	return nil
}

// RootUI represents the main UI structure
type RootUI struct {
	app          fyne.App
	window       fyne.Window
	downloadSvc  download.Downloader
	revealer     AutoRevealer
	settings     *config.Settings
	localization *Localization
	logger       log.Logger

	// Input panel
	titleLabel    *widget.Label
	subtitleLabel *widget.Label
	urlEntry      *widget.Entry
	detectedLabel *widget.Label
	qualityLabel  *widget.Label
	qualitySelect *widget.Select
	addBtn        *widget.Button

	// Queue panel
	queueLabel  *widget.Label
	statsLabel  *widget.Label
	clearBtn    *widget.Button
	emptyLabel  *widget.Label
	taskList    *widget.List
	themeSelect *widget.Select
	background  *canvas.LinearGradient

	// Rows in insertion order, only touched on the UI goroutine
	tasks []model.DownloadTask
	index map[string]int

	// Notification panel
	notificationLabel *widget.Label
	notificationTimer *time.Timer
}

// NewRootUI creates and initializes the main UI
func NewRootUI(cfg RootUIConfig) (*RootUI, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}

	localization := NewLocalization()
	localization.SetLanguage(cfg.Settings.GetLanguage())

	if err := platform.CreateDirectoryIfNotExists(cfg.Settings.GetDownloadDirectory()); err != nil {
		cfg.Logger.Warningf("could not create download directory: %s", err)
	}

	ui := &RootUI{
		app:          cfg.App,
		window:       cfg.Window,
		downloadSvc:  cfg.Downloader,
		revealer:     cfg.Revealer,
		settings:     cfg.Settings,
		localization: localization,
		logger:       cfg.Logger.WithValues(log.Kv{"component": "ui"}),
		index:        make(map[string]int),
	}

	ui.window.SetTitle(localization.GetText(KeyAppTitle))
	ui.applySettings()

	ui.downloadSvc.SetUpdateCallback(ui.onTaskUpdate)

	ui.setupUI()
	ui.applyTheme(ui.settings.GetTheme())
	return ui, nil
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	l := ui.localization
	ui.createMenu()

	ui.titleLabel = widget.NewLabel(l.GetText(KeyAppTitle))
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.subtitleLabel = widget.NewLabel(l.GetText(KeySubtitle))

	ui.urlEntry = widget.NewMultiLineEntry()
	ui.urlEntry.SetPlaceHolder(l.GetText(KeyPasteURLs))
	ui.urlEntry.SetMinRowsVisible(URLEntryRows)
	ui.urlEntry.Wrapping = fyne.TextWrapOff
	ui.urlEntry.OnChanged = func(string) { ui.updateDetected() }

	ui.detectedLabel = widget.NewLabel("")

	ui.qualityLabel = widget.NewLabel(l.GetText(KeyQuality))
	qualities := make([]string, 0, len(model.Qualities()))
	for _, q := range model.Qualities() {
		qualities = append(qualities, q.String())
	}
	ui.qualitySelect = widget.NewSelect(qualities, nil)
	ui.qualitySelect.SetSelected(ui.settings.GetQuality().String())

	ui.addBtn = widget.NewButton(l.GetText(KeyAddToQueue), ui.onAddClick)
	ui.addBtn.Importance = widget.HighImportance
	ui.updateDetected()

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Wrapping = fyne.TextWrapWord
	ui.notificationLabel.Hide()

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	ui.themeSelect = widget.NewSelect(ui.themeOptions(), ui.onThemeSelected)
	ui.themeSelect.SetSelected(l.GetText(themeLabelKeys[ui.settings.GetTheme()]))

	header := container.NewBorder(nil, nil,
		container.NewVBox(ui.titleLabel, ui.subtitleLabel),
		container.NewHBox(ui.themeSelect, settingsBtn),
	)

	inputWidth := canvas.NewRectangle(color.Transparent)
	inputWidth.SetMinSize(fyne.NewSize(InputPanelWidth, 0))
	inputPanel := container.NewStack(inputWidth, container.NewVBox(
		ui.urlEntry,
		ui.detectedLabel,
		container.NewBorder(nil, nil, ui.qualityLabel, nil, ui.qualitySelect),
		ui.addBtn,
		ui.notificationLabel,
	))

	ui.queueLabel = widget.NewLabel(l.GetText(KeyQueue))
	ui.queueLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.statsLabel = widget.NewLabel("")
	ui.clearBtn = widget.NewButton(l.GetText(KeyClearAll), ui.onClearClick)
	ui.clearBtn.Importance = widget.DangerImportance

	ui.emptyLabel = widget.NewLabel(l.GetText(KeyEmptyQueue))
	ui.emptyLabel.Alignment = fyne.TextAlignCenter

	ui.taskList = widget.NewList(
		func() int { return len(ui.tasks) },
		func() fyne.CanvasObject { return ui.createTaskItem() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { ui.updateTaskItem(id, obj) },
	)

	queueHeader := container.NewBorder(nil, nil,
		container.NewHBox(ui.queueLabel, ui.statsLabel), ui.clearBtn)
	queuePanel := container.NewBorder(queueHeader, nil, nil, nil,
		container.NewStack(ui.emptyLabel, ui.taskList))

	ui.background = canvas.NewLinearGradient(GradientStart, GradientEnd, 135)

	body := container.NewBorder(header, nil, container.NewPadded(inputPanel), nil, container.NewPadded(queuePanel))
	ui.window.SetContent(container.NewStack(ui.background, container.NewPadded(body)))
	ui.window.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	ui.refreshStats()
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	names := ui.localization.GetAvailableLanguages()
	for _, code := range ui.localization.languageCodes() {
		langCode := code
		langItem := fyne.NewMenuItem(names[code], func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	l := ui.localization
	ui.window.SetTitle(l.GetText(KeyAppTitle))

	ui.titleLabel.SetText(l.GetText(KeyAppTitle))
	ui.subtitleLabel.SetText(l.GetText(KeySubtitle))
	ui.urlEntry.SetPlaceHolder(l.GetText(KeyPasteURLs))
	ui.qualityLabel.SetText(l.GetText(KeyQuality))
	ui.addBtn.SetText(l.GetText(KeyAddToQueue))
	ui.queueLabel.SetText(l.GetText(KeyQueue))
	ui.clearBtn.SetText(l.GetText(KeyClearAll))
	ui.emptyLabel.SetText(l.GetText(KeyEmptyQueue))

	ui.themeSelect.Options = ui.themeOptions()
	ui.themeSelect.SetSelected(l.GetText(themeLabelKeys[ui.settings.GetTheme()]))

	ui.updateDetected()
	ui.refreshStats()
	ui.taskList.Refresh()
}

// themeOptions returns the localized theme names in display order
func (ui *RootUI) themeOptions() []string {
	themes := config.Themes()
	opts := make([]string, 0, len(themes))
	for _, t := range themes {
		opts = append(opts, ui.localization.GetText(themeLabelKeys[t]))
	}
	return opts
}

func (ui *RootUI) onThemeSelected(label string) {
	for _, t := range config.Themes() {
		if ui.localization.GetText(themeLabelKeys[t]) != label {
			continue
		}
		if t != ui.settings.GetTheme() {
			ui.settings.SetTheme(t)
			ui.applyTheme(t)
		}
		return
	}
}

// applyTheme installs the theme and shows the gradient only where the theme asks for it
func (ui *RootUI) applyTheme(t config.Theme) {
	ui.app.Settings().SetTheme(NewTheme(t))
	if ui.background == nil {
		return
	}
	if t == config.ThemeGradient {
		ui.background.Show()
	} else {
		ui.background.Hide()
	}
}

// applySettings pushes the stored preferences into the services
func (ui *RootUI) applySettings() {
	ui.downloadSvc.SetMaxParallelDownloads(ui.settings.GetMaxParallelDownloads())
	ui.downloadSvc.SetDownloadDirectory(ui.settings.GetDownloadDirectory())
	if ui.revealer != nil {
		ui.revealer.SetAutoReveal(ui.settings.GetAutoRevealOnComplete())
	}
}

// updateDetected shows how many URLs the input holds
func (ui *RootUI) updateDetected() {
	if ui.detectedLabel == nil || ui.addBtn == nil {
		return
	}
	n := len(download.ParseURLs(ui.urlEntry.Text))
	ui.detectedLabel.SetText(ui.localization.Format(KeyURLsDetected, n))
	if n > 0 {
		ui.addBtn.Enable()
	} else {
		ui.addBtn.Disable()
	}
}

// onAddClick queues every URL of the input
func (ui *RootUI) onAddClick() {
	urls := download.ParseURLs(ui.urlEntry.Text)
	if len(urls) == 0 {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL))
		return
	}

	quality, err := model.ParseQuality(ui.qualitySelect.Selected)
	if err != nil {
		quality = ui.settings.GetQuality()
	}

	added := ui.downloadSvc.Add(urls, quality)
	for _, t := range added {
		ui.upsert(*t)
	}
	ui.logger.Infof("queued %d tasks", len(added))

	ui.urlEntry.SetText("")
	ui.showNotification(ui.localization.Format(KeyTasksAdded, len(added)))
	ui.refreshStats()
}

// onClearClick asks for confirmation and empties the queue
func (ui *RootUI) onClearClick() {
	if len(ui.tasks) == 0 {
		return
	}
	dialog.ShowConfirm(ui.localization.GetText(KeyClearAll), ui.localization.GetText(KeyConfirmClear),
		func(ok bool) {
			if !ok {
				return
			}
			ui.downloadSvc.Clear()
			ui.tasks = nil
			ui.index = make(map[string]int)
			ui.taskList.Refresh()
			ui.refreshStats()
		}, ui.window)
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, ui.onSettingsSaved).Show()
}

func (ui *RootUI) onSettingsSaved() {
	ui.applySettings()
	if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
		ui.localization.SetLanguage(lang)
		ui.createMenu()
	}
	ui.qualitySelect.SetSelected(ui.settings.GetQuality().String())
	ui.refreshUITexts()
}

// createTaskItem creates a new task item widget
func (ui *RootUI) createTaskItem() fyne.CanvasObject {
	row := NewTaskRow(ui.localization)
	row.SetCallbacks(ui.onRetryTask, ui.onOpenFile, ui.onRevealFile)
	return row
}

// updateTaskItem binds a list slot to its task
func (ui *RootUI) updateTaskItem(id widget.ListItemID, item fyne.CanvasObject) {
	if id < 0 || id >= len(ui.tasks) {
		return
	}
	if row, ok := item.(*TaskRow); ok {
		row.UpdateTask(ui.tasks[id])
	}
}

// onTaskUpdate handles task updates from the download service
func (ui *RootUI) onTaskUpdate(task model.DownloadTask) {
	fyne.Do(func() {
		// Late updates of cleared tasks must not bring rows back.
		if _, ok := ui.downloadSvc.GetTask(task.ID); !ok {
			return
		}

		var prev model.DownloadTask
		if i, ok := ui.index[task.ID]; ok {
			prev = ui.tasks[i]
		}
		ui.upsert(task)
		ui.refreshStats()

		if prev.OutputPath == "" && task.OutputPath != "" {
			ui.logger.Debugf("task %s saved to %s", task.ID, task.OutputPath)
			ui.app.SendNotification(fyne.NewNotification(
				ui.localization.GetText(KeyFileSaved), task.GetDisplayTitle()))
		}
	})
}

// upsert stores a task snapshot and refreshes its row
func (ui *RootUI) upsert(task model.DownloadTask) {
	if i, ok := ui.index[task.ID]; ok {
		ui.tasks[i] = task
		ui.taskList.RefreshItem(i)
		return
	}
	ui.index[task.ID] = len(ui.tasks)
	ui.tasks = append(ui.tasks, task)
	ui.taskList.Refresh()
}

// refreshStats updates the status breakdown line
func (ui *RootUI) refreshStats() {
	st := ui.downloadSvc.Stats()
	ui.statsLabel.SetText(ui.localization.Format(KeyStats, st.Pending, st.Downloading, st.Done, st.Failed))

	if len(ui.tasks) == 0 {
		ui.emptyLabel.Show()
		ui.clearBtn.Disable()
	} else {
		ui.emptyLabel.Hide()
		ui.clearBtn.Enable()
	}
}

// onRetryTask requeues a failed task
func (ui *RootUI) onRetryTask(taskID string) {
	if err := ui.downloadSvc.Retry(taskID); err != nil {
		ui.logger.Errorf("retry %s: %s", taskID, err)
		ui.showNotification(ui.localization.GetText(KeyErrorRetrying) + ": " + err.Error())
	}
}

// onRevealFile handles revealing a file in the system file manager
func (ui *RootUI) onRevealFile(filePath string) {
	if err := platform.OpenFileInManager(filePath); err != nil {
		ui.logger.Errorf("reveal %s: %s", filePath, err)
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error())
	}
}

// onOpenFile handles opening a saved file with the default application
func (ui *RootUI) onOpenFile(filePath string) {
	if err := platform.OpenFileWithDefaultApp(filePath); err != nil {
		ui.logger.Errorf("open %s: %s", filePath, err)
		ui.showNotification(ui.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error())
	}
}

// showNotification displays a message under the input panel and hides it later.
func (ui *RootUI) showNotification(message string) {
	ui.notificationLabel.SetText(message)
	ui.notificationLabel.Show()

	if ui.notificationTimer != nil {
		ui.notificationTimer.Stop()
	}
	ui.notificationTimer = time.AfterFunc(NotificationAutoHide, func() {
		fyne.Do(ui.hideNotification)
	})
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	ui.notificationLabel.Hide()
}
