/* notifier.go
 * Posts match results and the top of the score board to a Discord channel while a tournament runs
 */

package bot

import (
	"fmt"
	"strings"

	"robocup-tournament/logger"
	"robocup-tournament/tournament/standings"
	"robocup-tournament/tournament/store"
)

// topTeams is the number of teams listed after every result
const topTeams = 3

// Notifier announces results in one channel
type Notifier struct {
	session   DiscordSession
	channelID string
	logger    logger.Logger
}

// NewNotifier creates a Notifier posting to channelID
func NewNotifier(session DiscordSession, channelID string, log logger.Logger) (*Notifier, error) {
	if channelID == "" {
		return nil, fmt.Errorf("a discord channel is required for notifications")
	}
	return &Notifier{session: session, channelID: channelID, logger: log}, nil
}

// MatchFinished posts the result of a match and the current leaders. Send failures are logged, never returned
func (n *Notifier) MatchFinished(match store.MatchRecord, s *standings.Standings) {
	var res strings.Builder
	res.WriteString(fmt.Sprintf("Match %d finished: %s %s %s\n",
		match.Index, displayName(match.LeftName, match.LeftDir), match.Score(), displayName(match.RightName, match.RightDir)))
	writeLeaders(&res, s, topTeams)
	n.send(res.String())
}

// TournamentFinished posts the final score board
func (n *Notifier) TournamentFinished(s *standings.Standings) {
	var res strings.Builder
	res.WriteString(fmt.Sprintf("Tournament finished after %d matches\n", len(s.Matches)))
	writeLeaders(&res, s, len(s.Teams))
	n.send(truncate(res.String()))
}

func (n *Notifier) send(content string) {
	if _, err := n.session.ChannelMessageSend(n.channelID, content); err != nil {
		n.logger.Warn("Failed to post to discord", logger.Error(err))
	}
}

func writeLeaders(res *strings.Builder, s *standings.Standings, limit int) {
	for i, team := range s.Teams {
		if i >= limit {
			break
		}
		res.WriteString(fmt.Sprintf("%d. %s %d pts (%d:%d)\n", i+1, team.DisplayName(), team.Points(), team.GoalsScored, team.GoalsReceived))
	}
}
