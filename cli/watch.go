/* watch.go
 * The watch command follows a running tournament and prints the standings whenever a match is recorded
 */

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"robocup-tournament/logger"
	"robocup-tournament/tournament/report"
	"robocup-tournament/tournament/results"
	"robocup-tournament/tournament/standings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCommand(streams Streams) *cobra.Command {
	var logDir, level string
	cmd := &cobra.Command{
		Use:           "watch",
		Short:         "Print the standings of a running tournament after every match",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(level)
			if err != nil {
				return err
			}
			defer log.Sync()

			last := -1
			return watchResults(cmd.Context(), logDir, log, func(s *standings.Standings) {
				if len(s.Matches) == last {
					return
				}
				last = len(s.Matches)
				fmt.Fprintf(streams.Out, "%s, %d matches\n", time.Now().Format(results.TimeLayout), last)
				report.WriteText(streams.Out, s)
			})
		},
	}
	cmd.Flags().StringVar(&logDir, "log_dir", "", "log directory of the tournament")
	cmd.Flags().StringVar(&level, "log_level", "info", "log level")
	cmd.MarkFlagRequired("log_dir")
	return cmd
}

// watchResults calls onChange with fresh standings at start and whenever results.log or a match.yml changes
// Preconditions: Receives an existing log directory
// Postconditions: Blocks until ctx is done, returns an error only if the directory cannot be watched
func watchResults(ctx context.Context, logDir string, log logger.Logger, onChange func(*standings.Standings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(logDir); err != nil {
		return fmt.Errorf("error watching %s: %w", logDir, err)
	}
	matchDirs, _ := filepath.Glob(filepath.Join(logDir, "match_*"))
	for _, dir := range matchDirs {
		if err := watcher.Add(dir); err != nil {
			log.Warn("Failed to watch match directory", logger.String("dir", dir), logger.Error(err))
		}
	}

	refresh := func() {
		s, err := standings.Load(logDir)
		if err != nil {
			// the server writes results.log before match.yml exists
			log.Debug("Standings not ready", logger.Error(err))
			return
		}
		onChange(s)
	}
	refresh()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			base := filepath.Base(ev.Name)
			if ev.Has(fsnotify.Create) && strings.HasPrefix(base, "match_") {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watcher.Add(ev.Name); err != nil {
						log.Warn("Failed to watch match directory", logger.String("dir", ev.Name), logger.Error(err))
					}
				}
				continue
			}
			if (base == results.FileName || base == results.MetadataFile) && (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				refresh()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watcher error", logger.Error(err))
		}
	}
}
