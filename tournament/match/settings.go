/* settings.go
 * The subset of the tournament configuration a match needs, resolved once per tournament
 */

package match

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"robocup-tournament/tournament/config"
)

// Settings are the resolved values the Executor works with. Paths are absolute
type Settings struct {
	LogDir  string
	WorkDir string

	Agents        []int
	AgentSleep    time.Duration
	ShutdownSleep time.Duration
	Server        string
	TeamMode      string
	ServerConf    string
	PlayerConf    string

	RcssserverBin    string
	RcgverconvBin    string
	Robocup2flashBin string
	GzipBin          string
	GameLogExt       string
	TextLogExt       string

	Robocup2flash  bool
	SaveLogging    bool
	Statistics     bool
	StatisticsDir  string
	StatisticsBin  string
	ShowScoreboard bool

	ExceptionMatchers []*regexp.Regexp
}

// SettingsFromConfig resolves cfg for a tournament logging into logDir
// Preconditions: Receives a validated Config and the resolved log directory
// Postconditions: Returns Settings with absolute paths, or a ConfigurationError
func SettingsFromConfig(cfg *config.Config, logDir string) (Settings, error) {
	agents, err := cfg.AgentIndices()
	if err != nil {
		return Settings{}, err
	}
	matchers, err := cfg.ExceptionMatchers()
	if err != nil {
		return Settings{}, err
	}

	absLog, err := filepath.Abs(logDir)
	if err != nil {
		return Settings{}, fmt.Errorf("error resolving log directory: %w", err)
	}
	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = "."
	}
	absWork, err := filepath.Abs(workDir)
	if err != nil {
		return Settings{}, fmt.Errorf("error resolving work directory: %w", err)
	}

	return Settings{
		LogDir:            absLog,
		WorkDir:           absWork,
		Agents:            agents,
		AgentSleep:        config.Seconds(cfg.AgentSleep),
		ShutdownSleep:     config.Seconds(cfg.ShutdownSleep),
		Server:            cfg.Server,
		TeamMode:          cfg.TeamMode,
		ServerConf:        cfg.ServerConf,
		PlayerConf:        cfg.PlayerConf,
		RcssserverBin:     cfg.RcssserverBin,
		RcgverconvBin:     cfg.RcgverconvBin,
		Robocup2flashBin:  cfg.Robocup2flashBin,
		GzipBin:           cfg.GzipBin,
		GameLogExt:        cfg.GameLogExtension,
		TextLogExt:        cfg.TextLogExtension,
		Robocup2flash:     cfg.Robocup2flash,
		SaveLogging:       cfg.SaveLogging,
		Statistics:        cfg.Statistics,
		StatisticsDir:     cfg.StatisticsDir,
		StatisticsBin:     cfg.StatisticsBin,
		ShowScoreboard:    cfg.ShowScoreboard,
		ExceptionMatchers: matchers,
	}, nil
}
