package translation

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Translator translates text into the language named by its display name
type Translator interface {
	// Translate returns text translated into the target language
	Translate(ctx context.Context, text, targetLanguage string) (string, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is configured; it returns a
	// ConfigurationError when it is not
	IsAvailable() error
}

// Provider names
const (
	ProviderDeepL  = "deepl"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds common configuration for translators
type Config struct {
	Provider string        // "deepl", "openai" or "gemini"
	Timeout  time.Duration // per request timeout

	// DeepL settings
	DeepLKey          string
	DeepLEndpoint     string  // overrides the endpoint derived from the key
	RequestsPerSecond float64 // client side rate limit, 0 disables it

	// OpenAI settings
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	// Gemini settings
	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderDeepL,
		Timeout:           10 * time.Second,
		RequestsPerSecond: 5,
		OpenAIModel:       "gpt-4o-mini",
		GeminiModel:       "gemini-2.0-flash",
	}
}

// NewTranslator creates the translator selected by config. Missing keys are
// not an error here; they surface through IsAvailable and Translate.
func NewTranslator(config *Config) (Translator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch strings.ToLower(config.Provider) {
	case ProviderDeepL, "":
		return NewDeepLClient(config), nil
	case ProviderOpenAI:
		return NewOpenAITranslator(config), nil
	case ProviderGemini:
		return NewGeminiTranslator(config), nil
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}
}

// supportedTarget resolves a display name or fails with an
// UnsupportedLanguageError
func supportedTarget(displayName string) (string, error) {
	code, ok := ProviderCode(displayName)
	if !ok {
		return "", &UnsupportedLanguageError{Language: displayName}
	}
	return code, nil
}

func translationPrompt(text, targetLanguage string) string {
	return fmt.Sprintf("Translate the following text into %s. Respond with only the translation, nothing else.\n\n%s", targetLanguage, text)
}
