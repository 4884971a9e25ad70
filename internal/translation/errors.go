package translation

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a missing or invalid credential. It is fatal
// to a whole orchestration run.
type ConfigurationError struct {
	Provider string
	Message  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s API key is not set: %s", e.Provider, e.Message)
}

// UnsupportedLanguageError reports a display name without a provider code.
// It is raised before any network call.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %s", e.Language)
}

// NetworkError reports that no response was received from the provider
type NetworkError struct {
	Provider string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("no response received from %s API, check your internet connection and try again: %v", e.Provider, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError reports a non-2xx or malformed response from the provider
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Message)
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// Kind returns a short machine readable classification of err
func Kind(err error) string {
	var (
		cfgErr  *ConfigurationError
		langErr *UnsupportedLanguageError
		netErr  *NetworkError
		apiErr  *APIError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &langErr):
		return "unsupported_language"
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &apiErr):
		return "api"
	default:
		return "unknown"
	}
}
