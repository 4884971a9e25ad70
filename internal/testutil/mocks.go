package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/snonux/transcheck/internal/translation"
)

// MockTranslator mocks the external translator. Results and errors are
// keyed by target language display name.
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error
	// Unavailable is returned from IsAvailable when set
	Unavailable error
	// Delay is applied before every call returns; the call honours ctx
	Delay time.Duration

	mu    sync.Mutex
	calls []string
}

var _ translation.Translator = (*MockTranslator)(nil)

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, targetLanguage)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", &translation.NetworkError{Provider: m.Name(), Err: ctx.Err()}
		}
	}

	if err, ok := m.Errors[targetLanguage]; ok {
		return "", err
	}

	if translated, ok := m.Translations[targetLanguage]; ok {
		return translated, nil
	}

	// Default mock translation
	return fmt.Sprintf("%s in %s", text, targetLanguage), nil
}

// Name returns the mock provider name
func (m *MockTranslator) Name() string { return "mock" }

// IsAvailable returns Unavailable
func (m *MockTranslator) IsAvailable() error { return m.Unavailable }

// Calls returns the target languages requested so far, in call order
func (m *MockTranslator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// FixedClock returns preset timestamps, then keeps incrementing
type FixedClock struct {
	mu   sync.Mutex
	Next int64
}

// NowMillis returns Next and advances it by one
func (c *FixedClock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.Next
	c.Next++
	return v
}
