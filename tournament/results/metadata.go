/* metadata.go
 * match.yml, the per match document written next to the match artifacts. The aggregator reads it to identify
 * teams by directory and to know which optional artifacts a match produced
 */

package results

import (
	"fmt"
	"os"
	"path/filepath"

	"robocup-tournament/tournament/shared"

	"gopkg.in/yaml.v3"
)

// MetadataFile is the name of the metadata document inside a match directory
const MetadataFile = "match.yml"

// TeamMetadata is a team's team.yml merged with what the tournament knows about it
type TeamMetadata struct {
	Name      string `yaml:"name,omitempty"`
	Country   string `yaml:"country,omitempty"`
	TeamDir   string `yaml:"team_dir"`
	Exception bool   `yaml:"exception"`
	// Extra keeps any other team.yml keys
	Extra map[string]any `yaml:",inline"`
}

// Metadata is the content of match_<n>/match.yml
type Metadata struct {
	TeamL         TeamMetadata `yaml:"team_l"`
	TeamR         TeamMetadata `yaml:"team_r"`
	Statistics    bool         `yaml:"statistics"`
	Scoreboard    bool         `yaml:"scoreboard"`
	Robocup2flash bool         `yaml:"robocup2flash"`
}

// Team returns the metadata of the team on side
func (m Metadata) Team(side shared.Side) TeamMetadata {
	if side == shared.Left {
		return m.TeamL
	}
	return m.TeamR
}

// MetadataPath returns the match.yml path of the match with the given index
func MetadataPath(logDir string, index int) string {
	return filepath.Join(logDir, shared.MatchDirName(index), MetadataFile)
}

// ReadTeamFile loads a team.yml. team_dir and exception are not expected in it and are overwritten by callers
func ReadTeamFile(path string) (TeamMetadata, error) {
	var team TeamMetadata
	data, err := os.ReadFile(path)
	if err != nil {
		return team, fmt.Errorf("error reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &team); err != nil {
		return team, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return team, nil
}

// ReadMetadata loads a match.yml
func ReadMetadata(path string) (Metadata, error) {
	var m Metadata
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("error reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return m, nil
}

// WriteMetadata stores m as a match.yml at path
func WriteMetadata(path string, m Metadata) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}
