package translation

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAITranslator translates text with an OpenAI chat model
type OpenAITranslator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAITranslator creates a new translator instance
func NewOpenAITranslator(config *Config) *OpenAITranslator {
	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	model := config.OpenAIModel
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAITranslator{
		apiKey: config.OpenAIKey,
		model:  model,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Name returns the provider name
func (t *OpenAITranslator) Name() string { return "OpenAI" }

// IsAvailable checks that an API key is configured
func (t *OpenAITranslator) IsAvailable() error {
	if t.apiKey == "" {
		return &ConfigurationError{Provider: t.Name(), Message: "set OPENAI_API_KEY or translator.openai_key in the config file"}
	}
	return nil
}

// Translate translates text into the language named targetLanguage
func (t *OpenAITranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if err := t.IsAvailable(); err != nil {
		return "", err
	}
	if _, err := supportedTarget(targetLanguage); err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: translationPrompt(text, targetLanguage),
			},
		},
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", t.classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", &APIError{Provider: t.Name(), StatusCode: 200, Message: "no translation returned"}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (t *OpenAITranslator) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{Provider: t.Name(), StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &APIError{Provider: t.Name(), StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return &NetworkError{Provider: t.Name(), Err: err}
}
