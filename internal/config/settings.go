package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/tokbulk/internal/download"
	"github.com/ytget/tokbulk/internal/model"
	"github.com/ytget/tokbulk/internal/platform"
)

// Theme is the visual theme of the GUI.
type Theme string

const (
	ThemeLight    Theme = "light"
	ThemeDark     Theme = "dark"
	ThemeGradient Theme = "gradient"
)

// Themes returns the supported themes in display order.
func Themes() []Theme {
	return []Theme{ThemeLight, ThemeDark, ThemeGradient}
}

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyMaxParallel        = "max_parallel_downloads"
	KeyQuality            = "video_quality"
	KeyTheme              = "theme"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
	KeyGeminiAPIKey       = "gemini_api_key"
)

// Default values
const (
	DefaultMaxParallel        = download.DefaultMaxParallel
	DefaultQuality            = model.DefaultQuality
	DefaultTheme              = ThemeLight
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = false
	fallbackDownloadDir       = "/tmp/downloads"
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = fallbackDownloadDir
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return download.ClampMaxParallel(value)
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	s.app.Preferences().SetInt(KeyMaxParallel, download.ClampMaxParallel(count))
}

// GetQuality returns the quality preselected for new tasks
func (s *Settings) GetQuality() model.VideoQuality {
	q, err := model.ParseQuality(s.app.Preferences().String(KeyQuality))
	if err != nil {
		s.SetQuality(DefaultQuality)
		return DefaultQuality
	}
	return q
}

// SetQuality sets the quality preselected for new tasks
func (s *Settings) SetQuality(q model.VideoQuality) {
	s.app.Preferences().SetString(KeyQuality, string(q))
}

// GetTheme returns the configured theme
func (s *Settings) GetTheme() Theme {
	t := Theme(s.app.Preferences().String(KeyTheme))
	for _, known := range Themes() {
		if t == known {
			return t
		}
	}
	return DefaultTheme
}

// SetTheme sets the theme
func (s *Settings) SetTheme(t Theme) {
	s.app.Preferences().SetString(KeyTheme, string(t))
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to reveal saved files
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to reveal saved files
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetGeminiAPIKey returns the Gemini API key, empty disables the Gemini caption resolver.
func (s *Settings) GetGeminiAPIKey() string {
	return s.app.Preferences().String(KeyGeminiAPIKey)
}

// SetGeminiAPIKey sets the Gemini API key
func (s *Settings) SetGeminiAPIKey(key string) {
	s.app.Preferences().SetString(KeyGeminiAPIKey, key)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
