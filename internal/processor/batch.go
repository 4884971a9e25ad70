package processor

import (
	"context"
	"fmt"

	"codeberg.org/snonux/transcheck/internal/batch"
	"codeberg.org/snonux/transcheck/internal/translation"
)

// BatchSummary counts the outcomes of a batch run
type BatchSummary struct {
	Total     int
	Committed int
	Partial   int
	Failed    int
}

// RunBatch runs one orchestration per entry of a batch file. Entries
// without a language override use selected. A configuration error stops
// the batch since every following run would fail the same way.
func (p *Processor) RunBatch(ctx context.Context, filename string, selected []string) (*BatchSummary, error) {
	entries, err := batch.ReadBatchFile(filename)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{Total: len(entries)}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		langs := selected
		if len(entry.Languages) > 0 {
			langs = entry.Languages
		}

		p.printf("\nProcessing %d/%d: %s\n", i+1, len(entries), entry.Text)

		result, err := p.Run(ctx, entry.Text, langs)
		if err != nil {
			return summary, fmt.Errorf("line %d: %w", entry.Line, err)
		}

		switch {
		case result.Record == nil:
			summary.Failed++
		case result.Err != nil:
			summary.Partial++
		default:
			summary.Committed++
		}

		if result.Err != nil {
			p.printf("  %s\n", result.Message)
			if translation.IsConfigurationError(result.Err) {
				return summary, result.Err
			}
		}
	}

	// Print summary
	p.printf("\n=== Batch Translation Summary ===\n")
	p.printf("Total texts: %d\n", summary.Total)
	p.printf("Committed: %d\n", summary.Committed)
	if summary.Partial > 0 {
		p.printf("Partially translated: %d\n", summary.Partial)
	}
	if summary.Failed > 0 {
		p.printf("Failed: %d\n", summary.Failed)
	}
	p.printf("=================================\n")

	return summary, nil
}
