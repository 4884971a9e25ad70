package translation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeepL(t *testing.T, handler http.HandlerFunc) (*DeepLClient, *int32) {
	t.Helper()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.DeepLKey = "test-key"
	cfg.DeepLEndpoint = server.URL
	cfg.RequestsPerSecond = 0
	return NewDeepLClient(cfg), &calls
}

func TestDeepL_Translate(t *testing.T) {
	client, calls := newTestDeepL(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "test-key", r.PostForm.Get("auth_key"))
		assert.Equal(t, "Hello", r.PostForm.Get("text"))
		assert.Equal(t, "NB", r.PostForm.Get("target_lang"))
		w.Write([]byte(`{"translations":[{"detected_source_language":"EN","text":"Hei"}]}`))
	})

	got, err := client.Translate(context.Background(), "Hello", "Norwegian")
	require.NoError(t, err)
	assert.Equal(t, "Hei", got)
	assert.EqualValues(t, 1, *calls)
}

func TestDeepL_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"json message", http.StatusForbidden, `{"message":"Wrong endpoint"}`, 403, "Wrong endpoint"},
		{"status text fallback", http.StatusBadRequest, `oops`, 400, "Bad Request"},
		{"quota", 456, `{"message":"Quota exceeded"}`, 456, "Quota exceeded"},
		{"unexpected structure", http.StatusOK, `{"translations":[]}`, 200, "unexpected response structure"},
		{"invalid json", http.StatusOK, `not json`, 200, "unexpected response structure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestDeepL(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Translate(context.Background(), "Hello", "German")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, "api", Kind(err))
		})
	}
}

func TestDeepL_UnsupportedLanguageMakesNoCall(t *testing.T) {
	client, calls := newTestDeepL(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})

	_, err := client.Translate(context.Background(), "Hello", "Klingon")
	var langErr *UnsupportedLanguageError
	require.True(t, errors.As(err, &langErr))
	assert.Equal(t, "Klingon", langErr.Language)
	assert.Zero(t, *calls)
}

func TestDeepL_MissingKey(t *testing.T) {
	client := NewDeepLClient(DefaultConfig())

	assert.True(t, IsConfigurationError(client.IsAvailable()))
	_, err := client.Translate(context.Background(), "Hello", "German")
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, "configuration", Kind(err))
}

func TestDeepL_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	cfg := DefaultConfig()
	cfg.DeepLKey = "test-key"
	cfg.DeepLEndpoint = server.URL
	client := NewDeepLClient(cfg)

	_, err := client.Translate(context.Background(), "Hello", "German")
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
	assert.Equal(t, "network", Kind(err))
}

func TestDeepL_CircuitOpensOnServerErrors(t *testing.T) {
	client, calls := newTestDeepL(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for i := 0; i < 5; i++ {
		_, err := client.Translate(context.Background(), "Hello", "German")
		assert.Equal(t, "api", Kind(err))
	}

	_, err := client.Translate(context.Background(), "Hello", "German")
	assert.Equal(t, "network", Kind(err))
	assert.EqualValues(t, 5, *calls, "open circuit fails without a request")
}

func TestDeepL_ClientErrorsKeepCircuitClosed(t *testing.T) {
	client, calls := newTestDeepL(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	for i := 0; i < 7; i++ {
		_, err := client.Translate(context.Background(), "Hello", "German")
		assert.Equal(t, "api", Kind(err))
	}
	assert.EqualValues(t, 7, *calls)
}

func TestNewDeepLClient_FreeEndpoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DeepLKey = "abc:fx"
	assert.Equal(t, deeplFreeAPIURL, NewDeepLClient(cfg).endpoint)

	cfg.DeepLKey = "abc"
	assert.Equal(t, deeplAPIURL, NewDeepLClient(cfg).endpoint)
}
