/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"robocup-tournament/logger"
	"robocup-tournament/tournament/report"
	"robocup-tournament/tournament/shared"
	"robocup-tournament/tournament/standings"
	"robocup-tournament/tournament/store"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
	"go.mongodb.org/mongo-driver/mongo"
)

const requestTimeout = 10 * time.Second

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("RoboCup Tournament Bot\n")
	res.WriteString("`$standings`: shows the current score board\n")
	res.WriteString("`$matches`: lists the matches played so far\n")
	res.WriteString("`$team name`: shows the record and matches of one team. Names are fuzzy matched, names that contain spaces need to be encased in \" (e.g. \"Wright Eagle\")\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// standingsHandler handles the $standings command with a DiscordSession interface
func (b *Bot) standingsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	rec, err := b.Store.FetchStandings(ctx)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.fetchError("standings", err))
		return
	}
	if len(rec.Teams) == 0 {
		session.ChannelMessageSend(message.ChannelID, "No matches have been played yet")
		return
	}

	table := report.ScoreboardTable(recordStandings(rec))
	session.ChannelMessageSend(message.ChannelID, truncate("```\n"+table+"\n```"))
}

// matchesHandler handles the $matches command with a DiscordSession interface
func (b *Bot) matchesHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	matches, err := b.Store.FetchMatches(ctx)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.fetchError("matches", err))
		return
	}
	if len(matches) == 0 {
		session.ChannelMessageSend(message.ChannelID, "No matches have been played yet")
		return
	}

	var res strings.Builder
	res.WriteString("Matches:\n")
	for _, m := range matches {
		res.WriteString(formatMatch(m))
	}
	session.ChannelMessageSend(message.ChannelID, truncate(res.String()))
}

// teamHandler handles the $team command with a DiscordSession interface
func (b *Bot) teamHandler(session DiscordSession, message *discordgo.MessageCreate) {
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	args, err := spaceSplitter.Split(message.Content)
	if err != nil || len(args) < 2 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$team name`")
		return
	}
	query := strings.Trim(strings.Join(args[1:], " "), `"`)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	rec, err := b.Store.FetchStandings(ctx)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.fetchError("standings", err))
		return
	}

	names := make([]string, 0, len(rec.Teams))
	byName := make(map[string]standings.Team, len(rec.Teams))
	for _, team := range rec.Teams {
		name := team.DisplayName()
		names = append(names, name)
		byName[name] = team
	}
	name, ok := shared.ClosestName(query, names)
	if !ok {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("No team matching '%s' has played yet", query))
		return
	}
	team := byName[name]

	var res strings.Builder
	rank := 0
	for i, t := range rec.Teams {
		if t.TeamDir == team.TeamDir {
			rank = i + 1
		}
	}
	res.WriteString(fmt.Sprintf("**%s** (rank %d): %d points from %d matches, %d won, %d drawn, %d lost, goals %d:%d\n",
		name, rank, team.Points(), team.Matches(), team.Won, team.Drawn, team.Lost, team.GoalsScored, team.GoalsReceived))

	matches, err := b.Store.FetchMatches(ctx)
	if err != nil {
		b.Logger.Warn("Failed to fetch matches", logger.Error(err))
	} else {
		for _, m := range matches {
			if m.LeftDir == team.TeamDir || m.RightDir == team.TeamDir {
				res.WriteString(formatMatch(m))
			}
		}
	}
	session.ChannelMessageSend(message.ChannelID, truncate(res.String()))
}

func (b *Bot) fetchError(what string, err error) string {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "No matches have been played yet"
	}
	b.Logger.Error("Failed to fetch "+what, logger.Error(err))
	return fmt.Sprintf("An error occured getting the %s", what)
}

func formatMatch(m store.MatchRecord) string {
	return fmt.Sprintf("%3d: %s %s %s\n", m.Index, displayName(m.LeftName, m.LeftDir), m.Score(), displayName(m.RightName, m.RightDir))
}

func displayName(name, dir string) string {
	return (&standings.Team{Name: name, TeamDir: dir}).DisplayName()
}

// recordStandings turns a stored snapshot back into Standings for rendering
func recordStandings(rec store.StandingsRecord) *standings.Standings {
	s := &standings.Standings{Teams: make([]*standings.Team, 0, len(rec.Teams))}
	for i := range rec.Teams {
		s.Teams = append(s.Teams, &rec.Teams[i])
	}
	return s
}
