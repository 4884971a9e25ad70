package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/transcheck/internal"
)

// CreateRootCommand creates and configures the root cobra command with all
// subcommands. newTranslator may be nil to use the real providers.
func CreateRootCommand(flags *Flags, newTranslator NewTranslatorFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "transcheck",
		Short: "Translate texts and review the translations",
		Long: `transcheck translates short texts into a fixed set of European
languages through DeepL, OpenAI or Gemini, stores every result and lets
reviewers approve, reject, edit and comment on each translation.

Examples:
  transcheck translate --lang da,sv "Hello"    # Translate and store
  transcheck translate --batch texts.txt      # Translate a file of texts
  transcheck list --lang da --range week      # Review recent Danish entries
  transcheck status 1700000000000 da approved # Approve one translation
  transcheck serve                            # Start the JSON API`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return SetupLogging(viper.GetString("log.level"), viper.GetString("log.format"), os.Stderr)
		},
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	r := &runner{flags: flags, newTranslator: newTranslator}
	rootCmd.AddCommand(
		r.translateCommand(),
		r.listCommand(),
		r.statusCommand(),
		r.editCommand(),
		r.commentCommand(),
		r.deleteCommand(),
		r.linkCommand(),
		r.archiveCommand(),
		r.languagesCommand(),
		r.modelsCommand(),
		r.serveCommand(),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.transcheck.yaml)")
	pf.StringVar(&flags.StoreBackend, "store", flags.StoreBackend, "Store backend: file, file-zstd, bolt, sqlite or memory")
	pf.StringVar(&flags.StorePath, "store-path", "", "Store location (default below ~/.local/state/transcheck)")
	pf.StringVar(&flags.OnCorrupt, "on-corrupt", flags.OnCorrupt, "What to do with unreadable stored data: fail or reset")
	pf.StringVarP(&flags.Provider, "provider", "p", flags.Provider, "Translation provider: deepl, openai or gemini")
	pf.IntVar(&flags.Concurrency, "concurrency", flags.Concurrency, "Translation calls in flight (1 translates strictly one language after another)")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Per request translation timeout")
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model used for translation")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn or error")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: auto, console or json")
	pf.StringVar(&flags.BaseURL, "base-url", flags.BaseURL, "Base URL used when printing deep links")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

// viperKeys maps persistent flag names onto config keys
var viperKeys = map[string]string{
	"store":        "store.backend",
	"store-path":   "store.path",
	"on-corrupt":   "store.on_corrupt",
	"provider":     "translator.provider",
	"concurrency":  "translator.concurrency",
	"timeout":      "translator.timeout",
	"openai-model": "translator.openai_model",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"base-url":     "server.base_url",
}

func bindFlagsToViper(cmd *cobra.Command) {
	bindFlagSet(cmd.PersistentFlags(), viperKeys)
}

func bindFlagSet(fs *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if flag := fs.Lookup(name); flag != nil {
			viper.BindPFlag(key, flag)
		}
	}
}
