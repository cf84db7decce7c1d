/* serve.go
 * The serve and bot commands expose the results of a tournament over HTTP and Discord
 */

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"robocup-tournament/bot"
	"robocup-tournament/logger"
	"robocup-tournament/metrics"
	"robocup-tournament/tournament/config"
	"robocup-tournament/tournament/engine"
	"robocup-tournament/tournament/report"
	"robocup-tournament/tournament/standings"
	"robocup-tournament/tournament/store"
	"robocup-tournament/web"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(streams Streams) *cobra.Command {
	return &cobra.Command{
		Use:                "serve [--log_dir=<dir>] [--listen_addr=:8080] [--key=value ...]",
		Short:              "Serve the results of a tournament over HTTP",
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}
			cfg, log, err := loadServiceConfig(args)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx := cmd.Context()
			logDir := cfg.ResolveLogDir(time.Now())
			st, closeStore, err := openStore(ctx, cfg, logDir, log)
			if err != nil {
				return err
			}
			defer closeStore()

			m := metrics.New()
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return watchResults(ctx, logDir, log, func(s *standings.Standings) {
					m.SetPoints(engine.TeamPoints(s))
				})
			})
			g.Go(func() error {
				return web.Start(ctx, web.Config{
					Addr:    cfg.ListenAddr,
					LogDir:  logDir,
					Store:   st,
					Metrics: m,
					Logger:  log,
					Report: report.Options{
						Title:         cfg.Title,
						StylesheetURL: cfg.StylesheetURL,
						GameLogExt:    cfg.GameLogExtension,
						TextLogExt:    cfg.TextLogExtension,
					},
				})
			})
			return g.Wait()
		},
	}
}

func newBotCommand(streams Streams) *cobra.Command {
	return &cobra.Command{
		Use:                "bot [--log_dir=<dir>] [--discord_token=<token>] [--key=value ...]",
		Short:              "Answer questions about a tournament on Discord",
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}
			cfg, log, err := loadServiceConfig(args)
			if err != nil {
				return err
			}
			defer log.Sync()

			st, closeStore, err := openStore(cmd.Context(), cfg, cfg.ResolveLogDir(time.Now()), log)
			if err != nil {
				return err
			}
			defer closeStore()

			b, err := bot.NewBot(cfg.DiscordToken, st, log)
			if err != nil {
				return err
			}
			return b.Run(cmd.Context())
		},
	}
}

func loadServiceConfig(args []string) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(args)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// openStore reads from MongoDB when a uri is configured and from the log directory otherwise
func openStore(ctx context.Context, cfg *config.Config, logDir string, log logger.Logger) (store.Interface, func(), error) {
	if cfg.MongoURI == "" {
		return store.NewFileStore(logDir), func() {}, nil
	}
	st, err := store.NewStore(ctx, cfg.MongoDatabase, cfg.MongoURI, filepath.Base(filepath.Clean(logDir)), "")
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to mongo: %w", err)
	}
	return st, func() {
		if err := st.Close(context.Background()); err != nil {
			log.Warn("Failed to disconnect from mongo", logger.Error(err))
		}
	}, nil
}
