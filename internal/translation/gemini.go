package translation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// GeminiTranslator translates text with a Gemini model
type GeminiTranslator struct {
	apiKey  string
	model   string
	baseURL string

	once      sync.Once
	client    *genai.Client
	clientErr error
}

// NewGeminiTranslator creates a new translator instance. The API client is
// created on first use.
func NewGeminiTranslator(config *Config) *GeminiTranslator {
	model := config.GeminiModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiTranslator{
		apiKey:  config.GeminiKey,
		model:   model,
		baseURL: config.GeminiBaseURL,
	}
}

// Name returns the provider name
func (g *GeminiTranslator) Name() string { return "Gemini" }

// IsAvailable checks that an API key is configured
func (g *GeminiTranslator) IsAvailable() error {
	if g.apiKey == "" {
		return &ConfigurationError{Provider: g.Name(), Message: "set GEMINI_API_KEY or translator.gemini_key in the config file"}
	}
	return nil
}

func (g *GeminiTranslator) getClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		cfg := &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if g.baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
		}
		g.client, g.clientErr = genai.NewClient(ctx, cfg)
	})
	return g.client, g.clientErr
}

// Translate translates text into the language named targetLanguage
func (g *GeminiTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if err := g.IsAvailable(); err != nil {
		return "", err
	}
	if _, err := supportedTarget(targetLanguage); err != nil {
		return "", err
	}

	client, err := g.getClient(ctx)
	if err != nil {
		return "", &ConfigurationError{Provider: g.Name(), Message: err.Error()}
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(translationPrompt(text, targetLanguage)), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &APIError{Provider: g.Name(), StatusCode: apiErr.Code, Message: apiErr.Message}
		}
		return "", &NetworkError{Provider: g.Name(), Err: err}
	}

	translated := strings.TrimSpace(resp.Text())
	if translated == "" {
		return "", &APIError{Provider: g.Name(), StatusCode: 200, Message: "no translation returned"}
	}
	return translated, nil
}
