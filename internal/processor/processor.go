package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/transcheck/internal"
	"codeberg.org/snonux/transcheck/internal/language"
	"codeberg.org/snonux/transcheck/internal/record"
	"codeberg.org/snonux/transcheck/internal/store"
	"codeberg.org/snonux/transcheck/internal/translation"
)

// FailedText is stored as the text of the language whose call failed
const FailedText = "Translation error"

var (
	// ErrEmptyText is returned when the input text is blank
	ErrEmptyText = errors.New("nothing to translate: input text is empty")
	// ErrNoLanguages is returned when no target language is selected
	ErrNoLanguages = errors.New("no target languages selected")
)

// Result describes the outcome of one orchestration run
type Result struct {
	OriginalText string
	// Translations holds the successful translations by language code
	Translations map[string]string
	// Attempted lists the languages a call was issued for, in order
	Attempted []string
	// Failed is the code of the language whose call failed, if any
	Failed string
	// Err is the classified translator error that ended the run
	Err error
	// Message is the single user facing error message
	Message string
	// Record is the committed record, nil if nothing succeeded
	Record *record.TranslationRecord
}

// Succeeded reports whether every attempted language was translated
func (r *Result) Succeeded() bool {
	return r.Err == nil && len(r.Translations) > 0
}

func (r *Result) fail(lang language.Language, err error) {
	r.Failed = lang.Code
	r.Err = err
	r.Message = fmt.Sprintf("Failed to translate: %v", err)
	if lang.Code == "" {
		r.Message = err.Error()
	}
}

// task is one language of an orchestration run
type task struct {
	index int
	lang  language.Language
}

// Processor runs orchestration runs and commits their results
type Processor struct {
	translator  translation.Translator
	store       *store.RecordStore
	clock       internal.Clock
	concurrency int

	// outMu serialises progress lines of parallel calls
	outMu sync.Mutex
	out   io.Writer
}

// Option configures a Processor
type Option func(*Processor)

// WithClock sets the timestamp source for new records
func WithClock(c internal.Clock) Option {
	return func(p *Processor) { p.clock = c }
}

// WithConcurrency sets how many translation calls may be in flight. One
// (the default) issues calls strictly one after another.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n < 1 {
			n = 1
		}
		p.concurrency = n
	}
}

// WithOutput sets where progress lines are printed
func WithOutput(w io.Writer) Option {
	return func(p *Processor) { p.out = w }
}

// NewProcessor creates a new orchestrator
func NewProcessor(translator translation.Translator, records *store.RecordStore, opts ...Option) *Processor {
	p := &Processor{
		translator:  translator,
		store:       records,
		clock:       internal.NewClock(),
		concurrency: 1,
		out:         io.Discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run translates inputText into every selected language and commits the
// successful part as one new record. Translator failures are reported in
// the Result, not as an error; the returned error covers invalid input and
// store failures only.
func (p *Processor) Run(ctx context.Context, inputText string, selected []string) (*Result, error) {
	if strings.TrimSpace(inputText) == "" {
		return nil, ErrEmptyText
	}
	if len(selected) == 0 {
		return nil, ErrNoLanguages
	}
	langs, err := language.Canonical(selected)
	if err != nil {
		return nil, err
	}

	result := &Result{
		OriginalText: inputText,
		Translations: make(map[string]string, len(langs)),
	}

	// A missing credential is fatal before any call is made
	if err := p.translator.IsAvailable(); err != nil {
		result.fail(language.Language{}, err)
		return result, nil
	}

	tasks := make([]task, len(langs))
	for i, l := range langs {
		tasks[i] = task{index: i, lang: l}
	}

	if p.concurrency > 1 {
		p.runParallel(ctx, tasks, result)
	} else {
		p.runSequential(ctx, tasks, result)
	}

	if ctx.Err() != nil {
		// The caller is gone; late results are dropped, not committed
		log.Info().Str("text", inputText).Msg("Translation run cancelled, discarding results")
		if result.Err == nil {
			result.fail(language.Language{}, ctx.Err())
		}
		return result, nil
	}

	if len(result.Translations) == 0 {
		return result, nil
	}

	entries := make(map[string]string, len(result.Translations)+1)
	for code, text := range result.Translations {
		entries[code] = text
	}
	if result.Failed != "" {
		entries[result.Failed] = FailedText
	}

	rec := record.New(inputText, p.clock.NowMillis(), entries)
	if _, err := p.store.Prepend(ctx, rec); err != nil {
		return result, fmt.Errorf("failed to save translations: %w", err)
	}
	result.Record = rec

	log.Info().Int64("id", rec.Timestamp).Strs("languages", rec.Languages()).Msg("Committed translation record")
	return result, nil
}

// printf writes one progress line
func (p *Processor) printf(format string, args ...any) {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func (p *Processor) translate(ctx context.Context, text string, lang language.Language) (string, error) {
	p.printf("  Translating to %s...\n", lang.Name)
	translated, err := p.translator.Translate(ctx, text, lang.Name)
	if err != nil {
		log.Warn().Err(err).Str("language", lang.Code).Str("provider", p.translator.Name()).Msg("Translation failed")
		p.printf("  Error translating to %s: %v\n", lang.Name, err)
		return "", err
	}
	log.Debug().Str("language", lang.Code).Msg("Translation succeeded")
	p.printf("  %s: %s\n", lang.Name, translated)
	return translated, nil
}

// runSequential issues one call at a time and never issues another call
// after the first failure
func (p *Processor) runSequential(ctx context.Context, tasks []task, result *Result) {
	for _, t := range tasks {
		if ctx.Err() != nil {
			return
		}
		result.Attempted = append(result.Attempted, t.lang.Code)

		translated, err := p.translate(ctx, result.OriginalText, t.lang)
		if err != nil {
			result.fail(t.lang, err)
			return
		}
		result.Translations[t.lang.Code] = translated
	}
}

// runParallel keeps up to p.concurrency calls in flight. The first failure
// cancels the remaining calls; languages that already succeeded are kept.
func (p *Processor) runParallel(ctx context.Context, tasks []task, result *Result) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	var (
		mu        sync.Mutex
		attempted = make([]bool, len(tasks))
	)

	for _, t := range tasks {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			mu.Lock()
			attempted[t.index] = true
			mu.Unlock()

			translated, err := p.translate(gctx, result.OriginalText, t.lang)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if result.Err == nil && ctx.Err() == nil {
					result.fail(t.lang, err)
					return err
				}
				// Cancelled because another language failed first
				attempted[t.index] = false
				return nil
			}
			result.Translations[t.lang.Code] = translated
			return nil
		})
	}
	_ = g.Wait()

	for i, t := range tasks {
		if attempted[i] {
			result.Attempted = append(result.Attempted, t.lang.Code)
		}
	}
}
