package review

import (
	"context"

	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/transcheck/internal"
	"codeberg.org/snonux/transcheck/internal/record"
	"codeberg.org/snonux/transcheck/internal/store"
)

// Engine applies review operations to the stored collection. Every
// mutation reads the whole collection, changes it and writes the whole
// collection back; the last write wins.
type Engine struct {
	store *store.RecordStore
	clock internal.Clock
}

// NewEngine creates a review engine over s
func NewEngine(s *store.RecordStore, clock internal.Clock) *Engine {
	if clock == nil {
		clock = internal.NewClock()
	}
	return &Engine{store: s, clock: clock}
}

// Records returns the full stored collection
func (e *Engine) Records(ctx context.Context) ([]*record.TranslationRecord, error) {
	return e.store.Load(ctx)
}

// List returns the stored records passing f
func (e *Engine) List(ctx context.Context, f Filter) ([]*record.TranslationRecord, error) {
	records, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return FilterRecords(records, f, e.clock.NowMillis()), nil
}

// View loads the collection once and returns it together with the
// records passing f
func (e *Engine) View(ctx context.Context, f Filter) (all, filtered []*record.TranslationRecord, err error) {
	all, err = e.store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return all, FilterRecords(all, f, e.clock.NowMillis()), nil
}

// SetStatus sets the review status of one language entry. Unknown entries
// are left alone.
func (e *Engine) SetStatus(ctx context.Context, timestamp int64, lang string, status record.Status) ([]*record.TranslationRecord, error) {
	log.Debug().Int64("id", timestamp).Str("language", lang).Str("status", string(status)).Msg("Setting status")
	return e.store.Update(ctx, func(records []*record.TranslationRecord) ([]*record.TranslationRecord, error) {
		return ApplyStatus(records, timestamp, lang, status), nil
	})
}

// SetText overwrites the translated text of one language entry
func (e *Engine) SetText(ctx context.Context, timestamp int64, lang, text string) ([]*record.TranslationRecord, error) {
	log.Debug().Int64("id", timestamp).Str("language", lang).Msg("Editing translation")
	return e.store.Update(ctx, func(records []*record.TranslationRecord) ([]*record.TranslationRecord, error) {
		return ApplyText(records, timestamp, lang, text), nil
	})
}

// AddComment replaces the comment on one language entry
func (e *Engine) AddComment(ctx context.Context, timestamp int64, lang, text string) ([]*record.TranslationRecord, error) {
	now := e.clock.NowMillis()
	log.Debug().Int64("id", timestamp).Str("language", lang).Msg("Adding comment")
	return e.store.Update(ctx, func(records []*record.TranslationRecord) ([]*record.TranslationRecord, error) {
		return ApplyComment(records, timestamp, lang, text, now), nil
	})
}

// Delete removes a whole record
func (e *Engine) Delete(ctx context.Context, timestamp int64) ([]*record.TranslationRecord, error) {
	log.Debug().Int64("id", timestamp).Msg("Deleting record")
	return e.store.Update(ctx, func(records []*record.TranslationRecord) ([]*record.TranslationRecord, error) {
		return Remove(records, timestamp), nil
	})
}
