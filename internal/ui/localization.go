package ui

import (
	"fmt"
	"sort"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeySubtitle          = "subtitle"
	KeyPasteURLs         = "paste_urls"
	KeyURLsDetected      = "urls_detected"
	KeyQuality           = "quality"
	KeyAddToQueue        = "add_to_queue"
	KeyClearAll          = "clear_all"
	KeyConfirmClear      = "confirm_clear"
	KeyQueue             = "queue"
	KeyStats             = "stats"
	KeyEmptyQueue        = "empty_queue"
	KeyRetry             = "retry"
	KeyOpen              = "open"
	KeyReveal            = "reveal"
	KeyStatusPending     = "status_pending"
	KeyStatusDownloading = "status_downloading"
	KeyStatusDone        = "status_done"
	KeyStatusFailed      = "status_failed"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyTheme             = "theme"
	KeyThemeLight        = "theme_light"
	KeyThemeDark         = "theme_dark"
	KeyThemeGradient     = "theme_gradient"
	KeyDownloadDirectory = "download_directory"
	KeyMaxParallel       = "max_parallel"
	KeyDefaultQuality    = "default_quality"
	KeyAutoReveal        = "auto_reveal"
	KeyGeminiAPIKey      = "gemini_api_key"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeySettingsSaved     = "settings_saved"
	KeyRestartRequired   = "restart_required"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyTasksAdded        = "tasks_added"
	KeyFileSaved         = "file_saved"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyErrorRetrying     = "error_retrying"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// Format returns the localized format string for key applied to args.
func (l *Localization) Format(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// languageCodes returns the language codes sorted for stable menus.
func (l *Localization) languageCodes() []string {
	codes := make([]string, 0, len(l.texts))
	for code := range l.GetAvailableLanguages() {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "TokBulk",
		KeySubtitle:          "Bulk video downloader",
		KeyPasteURLs:         "Paste video URLs, one per line",
		KeyURLsDetected:      "%d URLs detected",
		KeyQuality:           "Quality",
		KeyAddToQueue:        "Add to Queue",
		KeyClearAll:          "Clear All",
		KeyConfirmClear:      "Remove every video from the queue?",
		KeyQueue:             "Queue",
		KeyStats:             "Pending: %d · Active: %d · Saved: %d · Failed: %d",
		KeyEmptyQueue:        "No videos in the queue yet",
		KeyRetry:             "Retry",
		KeyOpen:              "Open",
		KeyReveal:            "Reveal",
		KeyStatusPending:     "Pending",
		KeyStatusDownloading: "Downloading",
		KeyStatusDone:        "Done",
		KeyStatusFailed:      "Failed",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyTheme:             "Theme",
		KeyThemeLight:        "Light",
		KeyThemeDark:         "Dark",
		KeyThemeGradient:     "Gradient",
		KeyDownloadDirectory: "Download Directory",
		KeyMaxParallel:       "Max Parallel Downloads",
		KeyDefaultQuality:    "Default Quality",
		KeyAutoReveal:        "Reveal saved files",
		KeyGeminiAPIKey:      "Gemini API Key",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyRestartRequired:   "The API key is used after a restart.",
		KeyPleaseEnterURL:    "Please enter at least one URL",
		KeyTasksAdded:        "%d videos added to the queue",
		KeyFileSaved:         "File saved",
		KeyErrorOpeningFile:  "Error opening file",
		KeyErrorRetrying:     "Error retrying task",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "TokBulk",
		KeySubtitle:          "Массовая загрузка видео",
		KeyPasteURLs:         "Вставьте ссылки на видео, по одной на строку",
		KeyURLsDetected:      "Найдено ссылок: %d",
		KeyQuality:           "Качество",
		KeyAddToQueue:        "В очередь",
		KeyClearAll:          "Очистить",
		KeyConfirmClear:      "Удалить все видео из очереди?",
		KeyQueue:             "Очередь",
		KeyStats:             "Ожидают: %d · Активны: %d · Сохранены: %d · Ошибки: %d",
		KeyEmptyQueue:        "Очередь пуста",
		KeyRetry:             "Повторить",
		KeyOpen:              "Открыть",
		KeyReveal:            "Показать",
		KeyStatusPending:     "Ожидает",
		KeyStatusDownloading: "Загрузка",
		KeyStatusDone:        "Готово",
		KeyStatusFailed:      "Ошибка",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyTheme:             "Тема",
		KeyThemeLight:        "Светлая",
		KeyThemeDark:         "Тёмная",
		KeyThemeGradient:     "Градиент",
		KeyDownloadDirectory: "Папка загрузки",
		KeyMaxParallel:       "Макс. параллельных",
		KeyDefaultQuality:    "Качество по умолчанию",
		KeyAutoReveal:        "Показывать сохранённые файлы",
		KeyGeminiAPIKey:      "Ключ API Gemini",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyRestartRequired:   "Ключ API будет использован после перезапуска.",
		KeyPleaseEnterURL:    "Введите хотя бы одну ссылку",
		KeyTasksAdded:        "Добавлено в очередь: %d",
		KeyFileSaved:         "Файл сохранён",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyErrorRetrying:     "Ошибка повтора задачи",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "TokBulk",
		KeySubtitle:          "Baixador de vídeos em massa",
		KeyPasteURLs:         "Cole URLs de vídeo, uma por linha",
		KeyURLsDetected:      "%d URLs detectadas",
		KeyQuality:           "Qualidade",
		KeyAddToQueue:        "Adicionar à Fila",
		KeyClearAll:          "Limpar Tudo",
		KeyConfirmClear:      "Remover todos os vídeos da fila?",
		KeyQueue:             "Fila",
		KeyStats:             "Pendentes: %d · Ativos: %d · Salvos: %d · Falhas: %d",
		KeyEmptyQueue:        "Nenhum vídeo na fila",
		KeyRetry:             "Tentar de novo",
		KeyOpen:              "Abrir",
		KeyReveal:            "Mostrar",
		KeyStatusPending:     "Pendente",
		KeyStatusDownloading: "Baixando",
		KeyStatusDone:        "Concluído",
		KeyStatusFailed:      "Falhou",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyTheme:             "Tema",
		KeyThemeLight:        "Claro",
		KeyThemeDark:         "Escuro",
		KeyThemeGradient:     "Gradiente",
		KeyDownloadDirectory: "Diretório de Download",
		KeyMaxParallel:       "Max Downloads Paralelos",
		KeyDefaultQuality:    "Qualidade Padrão",
		KeyAutoReveal:        "Mostrar arquivos salvos",
		KeyGeminiAPIKey:      "Chave de API Gemini",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyRestartRequired:   "A chave de API será usada após reiniciar.",
		KeyPleaseEnterURL:    "Digite pelo menos uma URL",
		KeyTasksAdded:        "%d vídeos adicionados à fila",
		KeyFileSaved:         "Arquivo salvo",
		KeyErrorOpeningFile:  "Erro ao abrir arquivo",
		KeyErrorRetrying:     "Erro ao tentar novamente",
	}
}
