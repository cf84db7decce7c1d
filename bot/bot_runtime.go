//go:build !test

/* bot_runtime.go
 * Contains runtime-only Discord bot methods that use *discordgo.Session directly.
 * Delegates to testable handlers in handlers.go
 */

package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// OpenSession connects to Discord with a bot token
func OpenSession(token string) (*discordgo.Session, error) {
	discord, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	if err := discord.Open(); err != nil {
		return nil, fmt.Errorf("error opening discord session: %w", err)
	}
	return discord, nil
}

// Run starts the Discord bot and answers messages until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return fmt.Errorf("error creating discord session: %w", err)
	}

	discord.AddHandler(b.newMessage)

	if err := discord.Open(); err != nil {
		return fmt.Errorf("error opening discord session: %w", err)
	}
	defer discord.Close()

	b.Logger.Info("Tournament bot started")
	<-ctx.Done()
	return nil
}

// newMessage delegates to the testable newMessageHandler
// *discordgo.Session implements DiscordSession interface
func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	b.newMessageHandler(discord, message, discord.State.User.ID)
}
