/* build.go
 * The optional build phase: every host compiles every team that ships a build script before the first match
 */

package engine

import (
	"context"
	"path/filepath"

	"robocup-tournament/logger"
	"robocup-tournament/tournament/external"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BuildConfig describes one build phase
type BuildConfig struct {
	Teams  []string
	Hosts  []string
	LogDir string
	// Rate is the number of build commands dispatched per second, 0 or less for no limit
	Rate   float64
	Runner external.Runner
	Remote external.Remote
	Logger logger.Logger
}

// BuildTeams runs "<team>/build <team>" on every host, one goroutine per host, output appended to
// build_<host>.log in the log directory
// Preconditions: Receives a BuildConfig whose LogDir exists
// Postconditions: Every build finished. Failed builds are logged, only an interruption is returned
func BuildTeams(ctx context.Context, cfg BuildConfig) error {
	if len(cfg.Teams) == 0 {
		return nil
	}

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	limiter := rate.NewLimiter(limit, 1)

	cfg.Logger.Info("Building teams", logger.Int("teams", len(cfg.Teams)), logger.Int("hosts", len(cfg.Hosts)))

	g, ctx := errgroup.WithContext(ctx)
	for _, host := range cfg.Hosts {
		g.Go(func() error {
			buildLog := filepath.Join(cfg.LogDir, "build_"+host+".log")
			for _, team := range cfg.Teams {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
				cmd := cfg.Remote.Command(host, team+"/build "+team)
				cmd.Stdout = buildLog
				cmd.Stderr = buildLog
				outcome := cfg.Runner.Run(ctx, cmd)
				if ctx.Err() != nil {
					return ctx.Err()
				}
				outcome.Log(cfg.Logger.With(logger.String("host", host), logger.String("team", team)))
			}
			return nil
		})
	}
	return g.Wait()
}
