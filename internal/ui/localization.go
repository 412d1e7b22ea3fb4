package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyHome              = "home"
	KeySaved             = "saved"
	KeyDownloads         = "downloads"
	KeyUpload            = "upload"
	KeySearch            = "search"
	KeySpeak             = "speak"
	KeyImages            = "images"
	KeyVideos            = "videos"
	KeyRefresh           = "refresh"
	KeyBackToTop         = "back_to_top"
	KeyLoading           = "loading"
	KeyNothingFound      = "nothing_found"
	KeyNothingSaved      = "nothing_saved"
	KeyNoDownloads       = "no_downloads"
	KeySave              = "save"
	KeyRemove            = "remove"
	KeyDownload          = "download"
	KeyPreview           = "preview"
	KeyStop              = "stop"
	KeyOpen              = "open"
	KeyReveal            = "reveal"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyView              = "view"
	KeyLanguage          = "language"
	KeyDownloadDirectory = "download_directory"
	KeyMaxParallel       = "max_parallel"
	KeyAPIToken          = "api_token"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeySettingsSaved     = "settings_saved"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyTitle             = "title"
	KeyCategory          = "category"
	KeyMediaType         = "media_type"
	KeyAutoDetect        = "auto_detect"
	KeyDescription       = "description"
	KeySubmit            = "submit"
	KeyUploading         = "uploading"
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
		// Use system locale - simplified to English for now
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

	if text, found := l.texts["en"][key]; found {
		return text
	}
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns available languages
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "Pixhub",
		KeyHome:              "Home",
		KeySaved:             "Saved",
		KeyDownloads:         "Downloads",
		KeyUpload:            "Upload",
		KeySearch:            "Search images and videos",
		KeySpeak:             "Speak",
		KeyImages:            "Images",
		KeyVideos:            "Videos",
		KeyRefresh:           "Refresh",
		KeyBackToTop:         "Back to top",
		KeyLoading:           "Loading...",
		KeyNothingFound:      "Nothing matches your search.",
		KeyNothingSaved:      "Your collection is empty.",
		KeyNoDownloads:       "No downloads yet.",
		KeySave:              "Save",
		KeyRemove:            "Remove",
		KeyDownload:          "Download",
		KeyPreview:           "Preview",
		KeyStop:              "Stop",
		KeyOpen:              "Open",
		KeyReveal:            "Reveal",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyView:              "View",
		KeyLanguage:          "Language",
		KeyDownloadDirectory: "Download Directory",
		KeyMaxParallel:       "Max Parallel Downloads",
		KeyAPIToken:          "API Token",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyErrorOpeningFile:  "Error opening file",
		KeyTitle:             "Title",
		KeyCategory:          "Category",
		KeyMediaType:         "Media Type",
		KeyAutoDetect:        "Detect from file",
		KeyDescription:       "Description",
		KeySubmit:            "Upload",
		KeyUploading:         "Uploading...",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "Pixhub",
		KeyHome:              "Главная",
		KeySaved:             "Коллекция",
		KeyDownloads:         "Загрузки",
		KeyUpload:            "Добавить",
		KeySearch:            "Поиск изображений и видео",
		KeySpeak:             "Голос",
		KeyImages:            "Изображения",
		KeyVideos:            "Видео",
		KeyRefresh:           "Обновить",
		KeyBackToTop:         "Наверх",
		KeyLoading:           "Загрузка...",
		KeyNothingFound:      "Ничего не найдено.",
		KeyNothingSaved:      "Коллекция пуста.",
		KeyNoDownloads:       "Загрузок пока нет.",
		KeySave:              "Сохранить",
		KeyRemove:            "Удалить",
		KeyDownload:          "Скачать",
		KeyPreview:           "Просмотр",
		KeyStop:              "Стоп",
		KeyOpen:              "Открыть",
		KeyReveal:            "Показать",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyView:              "Вид",
		KeyLanguage:          "Язык",
		KeyDownloadDirectory: "Папка загрузок",
		KeyMaxParallel:       "Макс. параллельных загрузок",
		KeyAPIToken:          "Токен API",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeySettingsSaved:     "Настройки сохранены!",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyTitle:             "Название",
		KeyCategory:          "Категория",
		KeyMediaType:         "Тип",
		KeyAutoDetect:        "Определить по файлу",
		KeyDescription:       "Описание",
		KeySubmit:            "Загрузить",
		KeyUploading:         "Загрузка...",
	}
}
