/* bot.go
 * Contains the Bot struct and the command dispatch. The bot answers questions about a running or finished
 * tournament from whatever store it was given
 */

package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"robocup-tournament/logger"
	"robocup-tournament/tournament/store"

	"github.com/bwmarrin/discordgo"
)

// messageLimit keeps replies below Discord's 2000 character cap
const messageLimit = 1900

const codeFence = "```"

type Bot struct {
	BotToken string
	Store    store.Interface
	Logger   logger.Logger
}

func NewBot(botToken string, st store.Interface, log logger.Logger) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if st == nil {
		return nil, fmt.Errorf("a results store is required")
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Bot{
		BotToken: botToken,
		Store:    st,
		Logger:   log,
	}, nil
}

// newMessageHandler dispatches a message to the handler of the command it starts with
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// To prevent bot from responding to its own message, if the message author id matches the bot's then just return
	if message.Author == nil || message.Author.ID == botUserID {
		return
	}

	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$standings"):
		b.standingsHandler(session, message)

	case startsWith(message.Content, "$matches"):
		b.matchesHandler(session, message)

	case startsWith(message.Content, "$team"):
		b.teamHandler(session, message)
	}
}

// startsWith reports whether inputString begins with substring
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}

// truncate cuts a reply that would exceed the message limit on a character boundary and closes a code block
// left open by the cut
func truncate(s string) string {
	if len(s) <= messageLimit {
		return s
	}
	cut := messageLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	out := s[:cut] + "\n..."
	if strings.Count(s[:cut], codeFence)%2 == 1 {
		out += "\n" + codeFence
	}
	return out
}
