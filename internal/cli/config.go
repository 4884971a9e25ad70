package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/transcheck/internal/language"
	"codeberg.org/snonux/transcheck/internal/store"
	"codeberg.org/snonux/transcheck/internal/translation"
)

// Settings is the resolved configuration shared by all subcommands
type Settings struct {
	StoreBackend string
	StorePath    string
	OnCorrupt    store.CorruptPolicy
	Translator   *translation.Config
	Concurrency  int
	// Languages is the default target set of translate and serve
	Languages  []string
	LogLevel   string
	LogFormat  string
	ServerAddr string
	BaseURL    string
	ArchiveDir string
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".transcheck" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".transcheck")
	}

	// Environment variables
	viper.SetEnvPrefix("TRANSCHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetDeepLKey retrieves the DeepL API key from environment or config
func GetDeepLKey() string {
	// First check environment variable
	if key := os.Getenv("DEEPL_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translator.deepl_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translator.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translator.gemini_key")
}

// DefaultStateDir returns the directory holding the store and archives
func DefaultStateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "transcheck")
}

// defaultStorePath picks a location for backend below the state directory
func defaultStorePath(backend string) string {
	dir := DefaultStateDir()
	switch backend {
	case store.BackendBolt:
		return filepath.Join(dir, "transcheck.db")
	case store.BackendSQLite:
		return filepath.Join(dir, "transcheck.sqlite")
	default:
		return dir
	}
}

// LoadSettings resolves flags, config file and environment into Settings
func LoadSettings() (*Settings, error) {
	policy, err := store.ParseCorruptPolicy(viper.GetString("store.on_corrupt"))
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(viper.GetString("store.backend"))
	if backend == "" {
		backend = store.BackendFile
	}
	storePath := viper.GetString("store.path")
	if storePath == "" {
		storePath = defaultStorePath(backend)
	}

	tc := translation.DefaultConfig()
	if p := viper.GetString("translator.provider"); p != "" {
		tc.Provider = strings.ToLower(p)
	}
	if d := viper.GetDuration("translator.timeout"); d > 0 {
		tc.Timeout = d
	}
	if viper.IsSet("translator.requests_per_second") {
		tc.RequestsPerSecond = viper.GetFloat64("translator.requests_per_second")
	}
	tc.DeepLKey = GetDeepLKey()
	tc.DeepLEndpoint = viper.GetString("translator.deepl_endpoint")
	tc.OpenAIKey = GetOpenAIKey()
	if m := viper.GetString("translator.openai_model"); m != "" {
		tc.OpenAIModel = m
	}
	tc.OpenAIBaseURL = viper.GetString("translator.openai_base_url")
	tc.GeminiKey = GetGeminiKey()
	if m := viper.GetString("translator.gemini_model"); m != "" {
		tc.GeminiModel = m
	}
	tc.GeminiBaseURL = viper.GetString("translator.gemini_base_url")

	languages, err := language.ParseCodes(strings.Join(viper.GetStringSlice("translate.languages"), ","))
	if err != nil {
		return nil, fmt.Errorf("translate.languages: %w", err)
	}
	if len(languages) == 0 {
		// Every language is selected until narrowed down
		languages = language.Codes()
	}

	archiveDir := viper.GetString("archive.directory")
	if archiveDir == "" {
		archiveDir = filepath.Join(DefaultStateDir(), "archive")
	}

	concurrency := viper.GetInt("translator.concurrency")
	if concurrency < 1 {
		concurrency = 1
	}

	return &Settings{
		StoreBackend: backend,
		StorePath:    storePath,
		OnCorrupt:    policy,
		Translator:   tc,
		Concurrency:  concurrency,
		Languages:    languages,
		LogLevel:     viper.GetString("log.level"),
		LogFormat:    viper.GetString("log.format"),
		ServerAddr:   viper.GetString("server.addr"),
		BaseURL:      viper.GetString("server.base_url"),
		ArchiveDir:   archiveDir,
	}, nil
}
