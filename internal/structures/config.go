package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

// VaultConfig locates the note vault and describes how posts are laid out
// inside it. Front-matter key names are configurable because themes disagree
// on what the published-URL field is called.
type VaultConfig struct {
	Path            string        `yaml:"path" validate:"required"`
	PostsFolder     string        `yaml:"postsFolder"`
	NoteExt         string        `yaml:"noteExt"`
	Debounce        time.Duration `yaml:"debounce"`
	WatchEnabled    bool          `yaml:"watchEnabled"`
	TitleKey        string        `yaml:"titleKey"`
	DateKey         string        `yaml:"dateKey"`
	PublishedURLKey string        `yaml:"publishedUrlKey"`
	UnlistedKey     string        `yaml:"unlistedKey"`
	PasswordKey     string        `yaml:"passwordKey"`
}

// DispatchConfig covers the two shared files written for / by the external
// Dispatch tool. Paths are relative to the vault root.
type DispatchConfig struct {
	StatusFile      string        `yaml:"statusFile"`
	QueueFile       string        `yaml:"queueFile"`
	FreshnessWindow time.Duration `yaml:"freshnessWindow"`
	PollInterval    time.Duration `yaml:"pollInterval" validate:"required|min:1"`
	PollEnabled     bool          `yaml:"pollEnabled"`
	DefaultNote     string        `yaml:"defaultNote"`
}

// GoalsConfig holds the word-count and streak knobs.
type GoalsConfig struct {
	DailyWords          int   `yaml:"dailyWords"`
	Milestones          []int `yaml:"milestones"`
	WordsPerLine        int   `yaml:"wordsPerLine"`
	BytesPerWord        int   `yaml:"bytesPerWord"`
	StreaksEnabled      bool  `yaml:"streaksEnabled"`
	CelebrationsEnabled bool  `yaml:"celebrationsEnabled"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Vault       VaultConfig    `yaml:"vault"`
	Dispatch    DispatchConfig `yaml:"dispatch"`
	Goals       GoalsConfig    `yaml:"goals"`
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}
