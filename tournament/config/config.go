/* config.go
 * Contains the Config struct for a tournament run and the helpers that derive values from it
 */

package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"robocup-tournament/tournament/shared"

	"github.com/ncruces/go-strftime"
)

// Config holds every tournament setting. Keys mirror defaults.yml
type Config struct {
	Config   string     `mapstructure:"config"`
	Mode     string     `mapstructure:"mode"`
	Teams    []string   `mapstructure:"teams"`
	Matches  [][]string `mapstructure:"matches"`
	TeamsDir string     `mapstructure:"teams_dir"`
	Hosts    []string   `mapstructure:"hosts"`
	LogDir   string     `mapstructure:"log_dir"`
	WorkDir  string     `mapstructure:"work_dir"`

	Simulate   bool    `mapstructure:"simulate"`
	Resume     bool    `mapstructure:"resume"`
	Build      bool    `mapstructure:"build"`
	BuildRate  float64 `mapstructure:"build_rate"`
	MaxMatches int     `mapstructure:"max_matches"`
	MatchSleep float64 `mapstructure:"match_sleep"`

	AgentRange    string  `mapstructure:"agent_range"`
	AgentSleep    float64 `mapstructure:"agent_sleep"`
	ShutdownSleep float64 `mapstructure:"shutdown_sleep"`
	Server        string  `mapstructure:"server"`
	TeamMode      string  `mapstructure:"team_mode"`
	ServerConf    string  `mapstructure:"server_conf"`
	PlayerConf    string  `mapstructure:"player_conf"`

	SSHBin           string `mapstructure:"ssh_bin"`
	RcssserverBin    string `mapstructure:"rcssserver_bin"`
	RcgverconvBin    string `mapstructure:"rcgverconv_bin"`
	Robocup2flashBin string `mapstructure:"robocup2flash_bin"`
	GzipBin          string `mapstructure:"gzip_bin"`
	GameLogExtension string `mapstructure:"game_log_extension"`
	TextLogExtension string `mapstructure:"text_log_extension"`

	Robocup2flash     bool     `mapstructure:"robocup2flash"`
	SaveLogging       bool     `mapstructure:"save_logging"`
	Statistics        bool     `mapstructure:"statistics"`
	StatisticsDir     string   `mapstructure:"statistics_dir"`
	StatisticsBin     string   `mapstructure:"statistics_bin"`
	ExceptionPatterns []string `mapstructure:"exception_patterns"`

	ShowScoreboard bool   `mapstructure:"show_scoreboard"`
	Title          string `mapstructure:"title"`
	StylesheetURL  string `mapstructure:"stylesheet_url"`

	LogLevel        string `mapstructure:"log_level"`
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	DiscordToken    string `mapstructure:"discord_token"`
	DiscordChannel  string `mapstructure:"discord_channel"`
	MetricsTextfile string `mapstructure:"metrics_textfile"`
	ListenAddr      string `mapstructure:"listen_addr"`
}

// Validate checks the settings a tournament run depends on before any team or host is touched
// Preconditions: Receives a loaded Config
// Postconditions: Returns nil, or a ConfigurationError describing the first problem found
func (c *Config) Validate() error {
	if c.Config == "" {
		return shared.NewConfigurationError("no tournament configuration file specified (use --config=<file>)")
	}
	return c.ValidateSettings()
}

// ValidateSettings is Validate without requiring a configuration file, for runs set up entirely from arguments
func (c *Config) ValidateSettings() error {
	if err := c.ValidateHosts(); err != nil {
		return err
	}
	if _, err := c.AgentIndices(); err != nil {
		return err
	}
	if _, err := c.ExceptionMatchers(); err != nil {
		return err
	}
	if c.MatchSleep < 0 || c.AgentSleep < 0 || c.ShutdownSleep < 0 {
		return shared.NewConfigurationError("sleep durations cannot be negative")
	}
	return nil
}

// ValidateHosts requires at least one host per side and the same number of hosts on both sides
func (c *Config) ValidateHosts() error {
	if len(c.Hosts) < 2 {
		return shared.NewConfigurationError("invalid number of hosts (at least one per team is required)")
	}
	if len(c.Hosts)%2 != 0 {
		return shared.NewConfigurationError("invalid number of hosts (must be even)")
	}
	return nil
}

// AgentIndices expands agent_range ("1..11", bounds inclusive) into the agent numbers to launch
func (c *Config) AgentIndices() ([]int, error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(c.AgentRange), "..")
	if !ok {
		return nil, shared.NewConfigurationError("invalid agent range '%s' (expected <first>..<last>)", c.AgentRange)
	}
	first, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return nil, shared.NewConfigurationError("invalid agent range '%s'", c.AgentRange)
	}
	last, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return nil, shared.NewConfigurationError("invalid agent range '%s'", c.AgentRange)
	}

	var indices []int
	for i := first; i <= last; i++ {
		indices = append(indices, i)
	}
	return indices, nil
}

// ExceptionMatchers compiles exception_patterns in configured order
func (c *Config) ExceptionMatchers() ([]*regexp.Regexp, error) {
	matchers := make([]*regexp.Regexp, 0, len(c.ExceptionPatterns))
	for _, pattern := range c.ExceptionPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, shared.NewConfigurationError("invalid exception pattern '%s': %v", pattern, err)
		}
		matchers = append(matchers, re)
	}
	return matchers, nil
}

// ResolveLogDir expands the strftime directives in log_dir for the given start time
func (c *Config) ResolveLogDir(now time.Time) string {
	return strftime.Format(c.LogDir, now)
}

// TeamPaths returns the roster and the match list with every relative team joined with teams_dir
func (c *Config) TeamPaths() ([]string, [][]string) {
	resolve := func(team string) string {
		if filepath.IsAbs(team) {
			return team
		}
		return filepath.Join(c.TeamsDir, team)
	}

	teams := make([]string, 0, len(c.Teams))
	for _, team := range c.Teams {
		teams = append(teams, resolve(team))
	}
	matches := make([][]string, 0, len(c.Matches))
	for _, pair := range c.Matches {
		resolved := make([]string, 0, len(pair))
		for _, team := range pair {
			resolved = append(resolved, resolve(team))
		}
		matches = append(matches, resolved)
	}
	return teams, matches
}

// Seconds converts a fractional seconds setting to a time.Duration
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (c *Config) String() string {
	return fmt.Sprintf("mode=%s teams=%d hosts=%d log_dir=%s", c.Mode, len(c.Teams), len(c.Hosts), c.LogDir)
}
