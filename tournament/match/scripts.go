package match

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"robocup-tournament/tournament/hosts"
	"robocup-tournament/tournament/shared"
)

// ScriptName is the launch script file name for side
func ScriptName(side shared.Side) string {
	return fmt.Sprintf("team_%s_start.sh", side)
}

// LaunchScript renders the shell script the server runs to start one team's agents. Each agent is started on its
// host with ssh -f, so the script returns while the agents keep running
func LaunchScript(side shared.Side, team string, s Settings, alloc *hosts.Allocator, matchDir string) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	for _, num := range s.Agents {
		fmt.Fprintf(&b, "ssh -f %s %s/start %s %s %d %s >> %s 2>> %s\n",
			alloc.Host(side, num), team, s.Server, team, num, s.TeamMode,
			teamLog(matchDir, side, "output"), teamLog(matchDir, side, "error"))

		// the goalie gets a head start
		delay := s.AgentSleep
		if num == 1 {
			delay *= 2
		}
		fmt.Fprintf(&b, "sleep %s\n", formatSeconds(delay))
	}
	return b.String()
}

func writeScript(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return fmt.Errorf("error writing launch script %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, 0o755); err != nil {
		return fmt.Errorf("error making %s executable: %w", path, err)
	}
	return nil
}

func teamLog(matchDir string, side shared.Side, stream string) string {
	return filepath.Join(matchDir, fmt.Sprintf("team_%s-%s.log", side, stream))
}

func serverLog(matchDir, stream string) string {
	return filepath.Join(matchDir, fmt.Sprintf("server-%s.log", stream))
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
