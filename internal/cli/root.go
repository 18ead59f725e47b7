package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teamcutter/extractr/internal/cache"
	"github.com/teamcutter/extractr/internal/config"
	"github.com/teamcutter/extractr/internal/extractor"
	"github.com/teamcutter/extractr/internal/fetcher"
	"github.com/teamcutter/extractr/internal/manager"
	"github.com/teamcutter/extractr/internal/state"
)

type globalFlags struct {
	debug    bool
	logLevel string
}

func Execute() error {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:          "extractr",
		Short:        "Extract archives with the right decoder for their extension",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable development logging")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newExtractCmd(flags),
		newFormatsCmd(flags),
		newHistoryCmd(flags),
		newCacheCmd(flags),
		newVersionCmd(),
	)
	return rootCmd.Execute()
}

// newManager wires the manager from the user's config. The returned
// close function releases the history database.
func newManager(flags *globalFlags, outputDir string) (*manager.Manager, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	switch {
	case flags.logLevel != "":
		level = flags.logLevel
	case flags.debug:
		level = "debug"
	}
	logger, err := createLogger(flags.debug, level)
	if err != nil {
		return nil, nil, err
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		return nil, nil, err
	}

	history, err := state.NewSQLite(cfg.HistoryDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}

	if outputDir == "" {
		outputDir = cfg.OutputDir
	}

	ext := extractor.New(
		extractor.WithLogger(logger),
		extractor.WithDisabled(cfg.Disabled...),
	)

	mgr := manager.New(
		ext,
		fetcher.New(cfg.DownloadDir, 1*time.Hour, ext.Resolver().Extensions()),
		c,
		history,
		logger,
		outputDir,
		cfg.MaxParallel)

	closeFn := func() {
		if err := history.Close(); err != nil {
			logger.Warn("failed to close history", zap.Error(err))
		}
		_ = logger.Sync()
	}
	return mgr, closeFn, nil
}
