package translation

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	deeplAPIURL     = "https://api.deepl.com/v2/translate"
	deeplFreeAPIURL = "https://api-free.deepl.com/v2/translate"
	deeplTimeout    = 10 * time.Second
)

// DeepLClient translates text through the DeepL v2 REST API
type DeepLClient struct {
	apiKey   string
	endpoint string
	http     *resty.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
}

// NewDeepLClient creates a DeepL client from config
func NewDeepLClient(config *Config) *DeepLClient {
	endpoint := config.DeepLEndpoint
	if endpoint == "" {
		endpoint = deeplAPIURL
		// Free plan keys carry a ":fx" suffix and use a separate host
		if strings.HasSuffix(config.DeepLKey, ":fx") {
			endpoint = deeplFreeAPIURL
		}
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = deeplTimeout
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	return &DeepLClient{
		apiKey:   config.DeepLKey,
		endpoint: endpoint,
		http:     resty.New().SetTimeout(timeout),
		limiter:  rate.NewLimiter(limit, 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "deepl",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: countsAsHealthy,
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Translation provider circuit changed state")
			},
		}),
	}
}

// countsAsHealthy keeps client side problems (bad key, quota, bad request)
// from opening the circuit; only transport failures and server errors do
func countsAsHealthy(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode < http.StatusInternalServerError && apiErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// Name returns the provider name
func (d *DeepLClient) Name() string { return "DeepL" }

// IsAvailable checks that an API key is configured
func (d *DeepLClient) IsAvailable() error {
	if d.apiKey == "" {
		return &ConfigurationError{Provider: d.Name(), Message: "set DEEPL_API_KEY or translator.deepl_key in the config file"}
	}
	return nil
}

// Translate translates text into the language named targetLanguage
func (d *DeepLClient) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if err := d.IsAvailable(); err != nil {
		return "", err
	}

	code, err := supportedTarget(targetLanguage)
	if err != nil {
		return "", err
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return "", &NetworkError{Provider: d.Name(), Err: err}
	}

	result, err := d.breaker.Execute(func() (interface{}, error) {
		return d.do(ctx, text, code)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", &NetworkError{Provider: d.Name(), Err: err}
	}
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (d *DeepLClient) do(ctx context.Context, text, targetCode string) (string, error) {
	resp, err := d.http.R().SetContext(ctx).
		SetFormData(map[string]string{
			"auth_key":    d.apiKey,
			"text":        text,
			"target_lang": targetCode,
		}).
		Post(d.endpoint)
	if err != nil {
		return "", &NetworkError{Provider: d.Name(), Err: err}
	}

	body := resp.Body()
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		message := gjson.GetBytes(body, "message").String()
		if message == "" {
			message = http.StatusText(resp.StatusCode())
		}
		if message == "" {
			message = "Unknown error"
		}
		log.Debug().Int("status", resp.StatusCode()).Str("body", resp.String()).Msg("DeepL API error")
		return "", &APIError{Provider: d.Name(), StatusCode: resp.StatusCode(), Message: message}
	}

	translated := gjson.GetBytes(body, "translations.0.text")
	if !gjson.ValidBytes(body) || !translated.Exists() {
		return "", &APIError{Provider: d.Name(), StatusCode: resp.StatusCode(), Message: "unexpected response structure"}
	}
	return translated.String(), nil
}
