package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/transcheck/internal/archive"
	"codeberg.org/snonux/transcheck/internal/deeplink"
	"codeberg.org/snonux/transcheck/internal/language"
	"codeberg.org/snonux/transcheck/internal/models"
	"codeberg.org/snonux/transcheck/internal/processor"
	"codeberg.org/snonux/transcheck/internal/record"
	"codeberg.org/snonux/transcheck/internal/review"
	"codeberg.org/snonux/transcheck/internal/server"
)

// runner holds what the subcommands share
type runner struct {
	flags         *Flags
	newTranslator NewTranslatorFunc
}

// withApp loads the settings, opens the store and runs fn
func (r *runner) withApp(cmd *cobra.Command, fn func(*App) error) error {
	settings, err := LoadSettings()
	if err != nil {
		return err
	}
	app, err := NewApp(settings, cmd.OutOrStdout(), r.newTranslator)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close store")
		}
	}()
	return fn(app)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid record id %q", s)
	}
	return id, nil
}

// parseLanguages validates a language flag that may repeat or hold a
// comma separated list
func parseLanguages(values []string) ([]string, error) {
	return language.ParseCodes(strings.Join(values, ","))
}

func (r *runner) translateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate a text into the selected languages and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(app *App) error {
				langs := app.Settings.Languages
				if cmd.Flags().Changed("lang") {
					var err error
					if langs, err = parseLanguages(r.flags.Languages); err != nil {
						return err
					}
				}

				proc, err := app.Processor()
				if err != nil {
					return err
				}

				// Handle batch processing
				if r.flags.BatchFile != "" {
					summary, err := proc.RunBatch(cmd.Context(), r.flags.BatchFile, langs)
					if err != nil {
						return err
					}
					if summary.Failed > 0 {
						return fmt.Errorf("%d of %d texts could not be translated", summary.Failed, summary.Total)
					}
					return nil
				}

				if len(args) == 0 {
					return processor.ErrEmptyText
				}
				return r.translateOne(cmd, app, proc, args[0], langs)
			})
		},
	}

	cmd.Flags().StringSliceVarP(&r.flags.Languages, "lang", "l", nil, "Target language codes, e.g. da,sv (default from translate.languages)")
	cmd.Flags().StringVar(&r.flags.BatchFile, "batch", "", "Translate texts from file (one per line, optional 'da,sv = text')")
	viper.BindPFlag("translate.languages", cmd.Flags().Lookup("lang"))
	return cmd
}

func (r *runner) translateOne(cmd *cobra.Command, app *App, proc *processor.Processor, text string, langs []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Translating: %s\n", text)

	result, err := proc.Run(cmd.Context(), text, langs)
	if err != nil {
		return err
	}

	if result.Record != nil {
		link, linkErr := deeplink.Link(app.Settings.BaseURL, result.Record, "")
		fmt.Fprintf(out, "\nSaved record %s\n", result.Record.ID())
		if linkErr == nil {
			fmt.Fprintf(out, "Review at: %s\n", link)
		}
	}
	if result.Err != nil {
		return errors.New(result.Message)
	}
	return nil
}

func (r *runner) listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored translations for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			timeRange, err := review.ParseTimeRange(r.flags.Range)
			if err != nil {
				return err
			}
			langs, err := parseLanguages(r.flags.Languages)
			if err != nil {
				return err
			}
			filter := review.Filter{Languages: langs, Range: timeRange}
			params := deeplink.Params{ID: r.flags.ID, Lang: r.flags.HighlightLang}

			return r.withApp(cmd, func(app *App) error {
				all, filtered, err := app.Engine().View(cmd.Context(), filter)
				if err != nil {
					return err
				}

				highlight, found := deeplink.Resolve(filtered, params)
				if !found {
					highlight = -1
				}
				if r.flags.JSON {
					return printJSON(cmd.OutOrStdout(), filtered, highlight)
				}
				printRecords(cmd.OutOrStdout(), filtered, len(all), filter.Active(), highlight)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&r.flags.Languages, "lang", "l", nil, "Only show records with any of these languages")
	cmd.Flags().StringVarP(&r.flags.Range, "range", "r", r.flags.Range, "Time range: all, today, week or month")
	cmd.Flags().StringVar(&r.flags.ID, "id", "", "Highlight the record with this id")
	cmd.Flags().StringVar(&r.flags.HighlightLang, "highlight-lang", "", "Only highlight when the record has this language")
	cmd.Flags().BoolVar(&r.flags.JSON, "json", false, "Print records as JSON")
	return cmd
}

// entryCommand builds the status, edit and comment subcommands, which all
// address one language entry
func (r *runner) entryCommand(use, short, done string, apply func(*review.Engine, *cobra.Command, int64, string, string) ([]*record.TranslationRecord, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			lang, err := language.Normalize(args[1])
			if err != nil {
				return err
			}

			return r.withApp(cmd, func(app *App) error {
				records, err := apply(app.Engine(), cmd, id, lang, args[2])
				if err != nil {
					return err
				}
				i := record.Find(records, id)
				if i < 0 {
					return fmt.Errorf("record %d not found", id)
				}
				if !records[i].HasLanguage(lang) {
					return fmt.Errorf("record %d has no %s translation", id, language.DisplayName(lang))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s translation of record %d\n", done, language.DisplayName(lang), id)
				return nil
			})
		},
	}
}

func (r *runner) statusCommand() *cobra.Command {
	return r.entryCommand("status <id> <lang> <pending|approved|rejected>", "Set the review status of a translation", "Updated status of",
		func(e *review.Engine, cmd *cobra.Command, id int64, lang, value string) ([]*record.TranslationRecord, error) {
			status, err := record.ParseStatus(value)
			if err != nil {
				return nil, err
			}
			return e.SetStatus(cmd.Context(), id, lang, status)
		})
}

func (r *runner) editCommand() *cobra.Command {
	return r.entryCommand("edit <id> <lang> <text>", "Overwrite a translated text", "Edited",
		func(e *review.Engine, cmd *cobra.Command, id int64, lang, value string) ([]*record.TranslationRecord, error) {
			return e.SetText(cmd.Context(), id, lang, value)
		})
}

func (r *runner) commentCommand() *cobra.Command {
	return r.entryCommand("comment <id> <lang> <text>", "Attach a comment to a translation, replacing any previous one", "Commented on",
		func(e *review.Engine, cmd *cobra.Command, id int64, lang, value string) ([]*record.TranslationRecord, error) {
			return e.AddComment(cmd.Context(), id, lang, value)
		})
}

func (r *runner) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record with all of its translations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(app *App) error {
				before, err := app.Store.Load(cmd.Context())
				if err != nil {
					return err
				}
				if record.Find(before, id) < 0 {
					return fmt.Errorf("record %d not found", id)
				}
				if _, err := app.Engine().Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %d\n", id)
				return nil
			})
		},
	}
}

func (r *runner) linkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "link <id> [lang]",
		Short: "Print a deep link to a record",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			lang := ""
			if len(args) == 2 {
				if lang, err = language.Normalize(args[1]); err != nil {
					return err
				}
			}

			return r.withApp(cmd, func(app *App) error {
				records, err := app.Store.Load(cmd.Context())
				if err != nil {
					return err
				}
				i := record.Find(records, id)
				if i < 0 {
					return fmt.Errorf("record %d not found", id)
				}
				link, err := deeplink.Link(app.Settings.BaseURL, records[i], lang)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), link)
				return nil
			})
		},
	}
}

func (r *runner) archiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Snapshot all translations to a YAML file, or restore one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(app *App) error {
				out := cmd.OutOrStdout()
				dir := app.Settings.ArchiveDir

				switch {
				case r.flags.ListOnly:
					paths, err := archive.List(dir)
					if err != nil {
						return err
					}
					if len(paths) == 0 {
						fmt.Fprintf(out, "No archives in %s\n", dir)
					}
					for _, p := range paths {
						fmt.Fprintln(out, p)
					}
					return nil

				case r.flags.Restore != "":
					snap, err := archive.ReadSnapshot(r.flags.Restore)
					if err != nil {
						return err
					}
					records, err := snap.ToRecords()
					if err != nil {
						return fmt.Errorf("invalid snapshot: %w", err)
					}
					if _, err := app.Store.ReplaceAll(cmd.Context(), records); err != nil {
						return err
					}
					fmt.Fprintf(out, "Restored %d records from %s\n", len(records), r.flags.Restore)
					return nil
				}

				records, err := app.Store.Load(cmd.Context())
				if err != nil {
					return err
				}
				path, err := archive.ArchiveRecords(dir, records, archive.Options{Compress: r.flags.Compress})
				if err != nil {
					return fmt.Errorf("failed to archive translations: %w", err)
				}
				fmt.Fprintf(out, "Archived %d records to: %s\n", len(records), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&r.flags.ArchiveDir, "dir", "", "Archive directory (default ~/.local/state/transcheck/archive)")
	cmd.Flags().BoolVar(&r.flags.Compress, "compress", false, "zstd compress the snapshot")
	cmd.Flags().StringVar(&r.flags.Restore, "restore", "", "Replace all stored translations with this snapshot")
	cmd.Flags().BoolVar(&r.flags.ListOnly, "list", false, "List existing snapshots")
	viper.BindPFlag("archive.directory", cmd.Flags().Lookup("dir"))
	return cmd
}

func (r *runner) languagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported target languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, l := range language.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s\n", l.Code, l.Name)
			}
			return nil
		},
	}
}

func (r *runner) modelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List OpenAI chat models usable with --provider openai",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := LoadSettings()
			if err != nil {
				return err
			}
			lister := models.NewLister(settings.Translator.OpenAIKey, settings.Translator.OpenAIBaseURL)
			return lister.Print(cmd.Context(), cmd.OutOrStdout(), settings.Translator.OpenAIModel)
		},
	}
}

func (r *runner) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API for a browser front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(app *App) error {
				proc, err := app.Processor()
				if err != nil {
					// Review still works without a translator
					log.Warn().Err(err).Msg("Translation disabled")
					proc = nil
				}

				addr := app.Settings.ServerAddr
				if addr == "" {
					addr = r.flags.ServerAddr
				}
				return server.New(proc, app.Engine(), app.Settings.Languages).ListenAndServe(cmd.Context(), addr)
			})
		},
	}

	cmd.Flags().StringVar(&r.flags.ServerAddr, "addr", r.flags.ServerAddr, "Listen address")
	viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
