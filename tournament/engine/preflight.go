/* preflight.go
 * Checks every team directory before the first match, so a typo in the roster fails the run up front
 */

package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"robocup-tournament/tournament/results"
	"robocup-tournament/tournament/shared"
)

// Preflight checks that every team has a readable team.yml and executable start and kill scripts, and an
// executable build script when building and the team has one
// Preconditions: Receives the team directories and the directory to look for suggestions in
// Postconditions: Returns nil or a PreflightError for the first problem found
func Preflight(teams []string, teamsDir string, build bool) error {
	for _, team := range teams {
		info, err := os.Stat(team)
		if err != nil || !info.IsDir() {
			msg := fmt.Sprintf("team directory %s not found", team)
			if suggestion, ok := suggestTeam(team, teamsDir); ok {
				msg += fmt.Sprintf(" (did you mean %s?)", suggestion)
			}
			return shared.NewPreflightError(team, "%s", msg)
		}

		path := filepath.Join(team, "team.yml")
		if _, err := results.ReadTeamFile(path); err != nil {
			return shared.NewPreflightError(path, "cannot load team configuration of %s: %v", team, err)
		}

		for _, script := range []string{"start", "kill"} {
			if err := checkExecutable(filepath.Join(team, script)); err != nil {
				return err
			}
		}

		if build {
			path := filepath.Join(team, "build")
			if _, err := os.Stat(path); err == nil {
				if err := checkExecutable(path); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return shared.NewPreflightError(path, "file %s not found", path)
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return shared.NewPreflightError(path, "file %s is not executable", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return shared.NewPreflightError(path, "file %s is not readable", path)
	}
	return f.Close()
}

// suggestTeam finds the closest directory name in teamsDir
func suggestTeam(team, teamsDir string) (string, bool) {
	entries, err := os.ReadDir(teamsDir)
	if err != nil {
		return "", false
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	name, ok := shared.ClosestName(filepath.Base(team), names)
	if !ok {
		return "", false
	}
	return filepath.Join(teamsDir, name), true
}

// buildable returns the teams that ship an executable build script
func buildable(teams []string) []string {
	var out []string
	for _, team := range teams {
		info, err := os.Stat(filepath.Join(team, "build"))
		if err == nil && !info.IsDir() && info.Mode().Perm()&0o111 != 0 {
			out = append(out, team)
		}
	}
	return out
}
