package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pbaille/nomi/internal/api"
	"github.com/pbaille/nomi/internal/companion"
	"github.com/pbaille/nomi/internal/config"
	"github.com/pbaille/nomi/internal/domain"
	"github.com/pbaille/nomi/internal/fetcher"
	"github.com/pbaille/nomi/internal/journal"
	"github.com/pbaille/nomi/internal/logging"
	"github.com/pbaille/nomi/internal/notify"
	"github.com/pbaille/nomi/internal/store"
	"github.com/pbaille/nomi/internal/ui"
	"github.com/pbaille/nomi/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Build metadata injected by ldflags
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var (
	cfgPath  string
	dataDir  string
	backend  string
	logLevel string
)

func main() {
	version.Version = buildVersion
	version.Commit = buildCommit
	version.Date = buildDate

	rootCmd := &cobra.Command{
		Use:           "nomi",
		Short:         "Journal with a daily reflection prompt and AI insights",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.config/nomi/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the journal")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "storage backend: diskv or sqlite")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(writeCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(promptCmd())
	rootCmd.AddCommand(insightsCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds everything a command needs
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	backend store.Backend
	journal *journal.Service
}

func openApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	b, err := store.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	entries := store.New(b, logger.Named("store"))
	entries.Load()

	// A missing key is not fatal: prompts and insights fall back.
	var comp journal.Companion
	if c, err := companion.New(cfg.CompanionClient()); err != nil {
		logger.Warn("companion disabled", zap.Error(err))
	} else {
		comp = c
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		backend: b,
		journal: journal.NewService(entries, comp, logger.Named("journal")),
	}, nil
}

func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func runTUI(cmd *cobra.Command, args []string) error {
	// keep warn-level fallback logs off the alt screen
	if logLevel == "" {
		logLevel = "error"
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return ui.Run(a.journal)
}

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the journal in the terminal UI",
		RunE:  runTUI,
	}
}

func writeCmd() *cobra.Command {
	var date string
	var from string

	cmd := &cobra.Command{
		Use:   "write [text...]",
		Short: "Save a new entry (reads stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date != "" {
				if _, err := time.Parse(domain.DateLayout, date); err != nil {
					return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
				}
			}

			var content string
			switch {
			case len(args) > 0:
				content = strings.Join(args, " ")
			case from != "":
				text, err := fetcher.New(30 * time.Second).Import(cmd.Context(), from)
				if err != nil {
					return fmt.Errorf("import %s: %w", from, err)
				}
				content = text
			default:
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				content = string(b)
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			entry, err := a.journal.Write(content, date)
			if errors.Is(err, store.ErrEmptyContent) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to save: the entry is empty.")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved entry for %s (%d characters)\n",
				ui.LongDate(entry.Date), len([]rune(entry.Content)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "date to file the entry under (default today)")
	cmd.Flags().StringVar(&from, "from", "", "import the entry text from a URL or file")
	return cmd
}

func historyCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show entries grouped by date, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			groups := a.journal.History()
			if days > 0 && len(groups) > days {
				groups = groups[:days]
			}
			printHistory(cmd.OutOrStdout(), groups)
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "n", 0, "only show the most recent n dates (0 = all)")
	return cmd
}

func promptCmd() *cobra.Command {
	var desktop bool

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Generate today's reflection prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			prompt := a.journal.Prompt(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), prompt)

			if desktop {
				if err := notify.Prompt(prompt); err != nil {
					a.logger.Warn("desktop notification failed", zap.Error(err))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&desktop, "notify", false, "also show the prompt as a desktop notification")
	return cmd
}

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Analyze recent entries for sentiment and themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			insight, err := a.journal.Insights(cmd.Context())
			if errors.Is(err, journal.ErrNoEntries) {
				fmt.Fprintln(cmd.OutOrStdout(), "Write a few entries to unlock personalized insights!")
				return nil
			}
			if err != nil {
				return err
			}
			printInsight(cmd.OutOrStdout(), insight, a.journal.Count())
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := api.New(a.journal, addr, a.cfg.Server.CORS, a.logger.Named("api"))
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (default from config, :8080)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}
