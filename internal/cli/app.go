package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/transcheck/internal"
	"codeberg.org/snonux/transcheck/internal/processor"
	"codeberg.org/snonux/transcheck/internal/review"
	"codeberg.org/snonux/transcheck/internal/store"
	"codeberg.org/snonux/transcheck/internal/translation"
)

// NewTranslatorFunc builds the translator for a run; tests replace it
type NewTranslatorFunc func(*translation.Config) (translation.Translator, error)

// App wires the store, translator and review engine for one command
type App struct {
	Settings *Settings
	Store    *store.RecordStore
	Out      io.Writer
	Clock    internal.Clock

	kv            store.KV
	newTranslator NewTranslatorFunc
}

// NewApp opens the configured store
func NewApp(settings *Settings, out io.Writer, newTranslator NewTranslatorFunc) (*App, error) {
	kv, err := store.Open(settings.StoreBackend, settings.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", settings.StoreBackend, err)
	}
	log.Debug().Str("backend", settings.StoreBackend).Str("path", settings.StorePath).Msg("Opened store")

	if newTranslator == nil {
		newTranslator = translation.NewTranslator
	}

	return &App{
		Settings:      settings,
		Store:         store.NewRecordStore(kv).WithPolicy(settings.OnCorrupt),
		Out:           out,
		Clock:         internal.NewClock(),
		kv:            kv,
		newTranslator: newTranslator,
	}, nil
}

// Close releases the store
func (a *App) Close() error {
	return a.kv.Close()
}

// Translator creates the configured translation provider
func (a *App) Translator() (translation.Translator, error) {
	return a.newTranslator(a.Settings.Translator)
}

// Processor creates an orchestrator printing progress to a.Out
func (a *App) Processor() (*processor.Processor, error) {
	tr, err := a.Translator()
	if err != nil {
		return nil, err
	}
	return processor.NewProcessor(tr, a.Store,
		processor.WithClock(a.Clock),
		processor.WithConcurrency(a.Settings.Concurrency),
		processor.WithOutput(a.Out),
	), nil
}

// Engine creates the review engine
func (a *App) Engine() *review.Engine {
	return review.NewEngine(a.Store, a.Clock)
}
