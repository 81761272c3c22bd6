package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dvoa-timing/runnerdb/internal/config"
	"github.com/dvoa-timing/runnerdb/internal/record"
	"github.com/dvoa-timing/runnerdb/internal/runnerdb"
	"github.com/dvoa-timing/runnerdb/internal/server"
	"github.com/dvoa-timing/runnerdb/internal/watch"
)

type appFlags struct {
	configPath string
	dbPaths    []string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	flags := &appFlags{}

	root := &cobra.Command{
		Use:           "runnerdb",
		Short:         "Query service for the runner identity database written by the timing software",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "~/.runnerdb.yaml", "Path to the YAML config file")
	root.PersistentFlags().StringSliceVar(&flags.dbPaths, "db", nil, "Candidate database paths, in priority order (overrides config)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newServeCommand(flags),
		newSearchCommand(flags),
		newRunnersCommand(flags),
		newStatsCommand(flags),
	)
	return root
}

// setup loads config, applies flag overrides and builds the store.
func setup(flags *appFlags) (*runnerdb.Store, *config.Config, *slog.Logger, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(flags.dbPaths) > 0 {
		cfg.DatabasePaths = flags.dbPaths
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}

	log := newLogger(cfg.LogLevel)
	store := runnerdb.NewStore(runnerdb.NewPathResolver(cfg.DatabasePaths, nil), log)
	return store, cfg, log, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func newServeCommand(flags *appFlags) *cobra.Command {
	var listen string
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, log, err := setup(flags)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			if watchFile {
				cfg.Watch = true
			}

			reportStartup(store, log)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.Watch {
				go func() {
					if err := watch.New(store, log).Run(ctx); err != nil {
						log.Warn("file watcher stopped", "error", err)
					}
				}()
			}

			return server.New(store, log).Run(ctx, cfg.Listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides config, default "+config.DefaultListen+")")
	cmd.Flags().BoolVar(&watchFile, "watch", false, "Refresh the index as soon as the database file changes")
	return cmd
}

// reportStartup logs whether a database is currently present, so operators
// see misconfigured paths before the first query fails.
func reportStartup(store *runnerdb.Store, log *slog.Logger) {
	path, err := store.Resolver().Resolve()
	if err != nil {
		log.Warn("no runner database found yet; queries will fail until one appears",
			"candidates", strings.Join(store.Resolver().Candidates(), ", "))
		return
	}
	if fi, err := os.Stat(path); err == nil {
		log.Info("runner database found", "path", path, "size", fi.Size(), "modified", fi.ModTime())
	}
}

func newSearchCommand(flags *appFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search runners by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, _, err := setup(flags)
			if err != nil {
				return err
			}

			results, err := store.Search(args[0], limit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("no matches")
				return nil
			}
			for _, r := range results {
				fmt.Println(formatRunner(r))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", runnerdb.DefaultSearchLimit, "Maximum number of results")
	return cmd
}

func newRunnersCommand(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "runners",
		Short: "Dump every indexed runner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, _, err := setup(flags)
			if err != nil {
				return err
			}

			runners, err := store.AllRunners()
			if err != nil {
				return err
			}
			for _, r := range runners {
				fmt.Println(formatRunner(r))
			}
			fmt.Printf("%d runners\n", len(runners))
			return nil
		},
	}
}

func newStatsCommand(flags *appFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show index size and source file metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, _, err := setup(flags)
			if err != nil {
				return err
			}

			stats, err := store.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("runners:  %d\n", stats.TotalRunners)
			fmt.Printf("file:     %s\n", stats.FilePath)
			fmt.Printf("modified: %s\n", stats.LastModified)
			fmt.Printf("checked:  %s\n", stats.LastChecked)
			return nil
		},
	}
}

func formatRunner(r record.Runner) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-30s", r.FullName())
	if r.CardNumber > 0 {
		fmt.Fprintf(&sb, " card=%d", r.CardNumber)
	}
	if r.ClubNumber > 0 {
		fmt.Fprintf(&sb, " club=%d", r.ClubNumber)
	}
	if r.BirthYear > 0 {
		fmt.Fprintf(&sb, " born=%d", r.BirthYear)
	}
	if r.Sex != record.SexUnknown {
		fmt.Fprintf(&sb, " sex=%s", r.Sex)
	}
	if r.Nationality != "" {
		fmt.Fprintf(&sb, " nat=%s", r.Nationality)
	}
	fmt.Fprintf(&sb, " id=%d", r.ExternalID)
	return sb.String()
}
