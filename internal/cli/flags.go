package cli

import (
	"time"

	"codeberg.org/snonux/transcheck/internal/store"
	"codeberg.org/snonux/transcheck/internal/translation"
)

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile      string
	StoreBackend string
	StorePath    string
	OnCorrupt    string
	Provider     string
	Concurrency  int
	Timeout      time.Duration
	LogLevel     string
	LogFormat    string

	// translate flags
	Languages []string
	BatchFile string

	// list flags
	Range         string
	ID            string
	HighlightLang string
	JSON          bool
	BaseURL       string

	// archive flags
	ArchiveDir string
	Compress   bool
	Restore    string
	ListOnly   bool

	// OpenAI flags
	OpenAIModel string

	// serve flags
	ServerAddr string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	defaults := translation.DefaultConfig()
	return &Flags{
		StoreBackend: store.BackendFile,
		OnCorrupt:    "fail",
		Provider:     defaults.Provider,
		Concurrency:  1,
		Timeout:      defaults.Timeout,
		LogLevel:     "info",
		LogFormat:    "auto",
		Range:        "all",
		OpenAIModel:  defaults.OpenAIModel,
		ServerAddr:   "127.0.0.1:8080",
		BaseURL:      "http://127.0.0.1:8080/",
	}
}
