// Package discord is the bot shell: slash command registration, interaction
// handling and result rendering around the commission service.
package discord

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/suno-artist-bot/internal/application"
	"github.com/bnema/suno-artist-bot/internal/ports"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

type Bot struct {
	session   *discordgo.Session
	artist    *application.Artist
	localizer ports.Localizer
	http      *http.Client
	log       *logrus.Entry
}

func NewBot(token string, artist *application.Artist, localizer ports.Localizer, log *logrus.Entry) (*Bot, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		session:   session,
		artist:    artist,
		localizer: localizer,
		http:      &http.Client{Timeout: 2 * time.Minute},
		log:       log,
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onGuildCreate)
	session.AddHandler(b.onInteraction)

	return b, nil
}

// Start connects the gateway session and blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.log.Info("logging in")
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	<-ctx.Done()

	if err := b.session.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}
	return nil
}

func (b *Bot) onReady(_ *discordgo.Session, _ *discordgo.Ready) {
	b.log.Info("logged in and ready")
}

// onGuildCreate fires once per guild at startup and when the bot joins a new
// guild; both are the moment to refresh the guild's command set.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	b.log.WithField("guild", g.ID).Info("refreshing application commands")

	_, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, g.ID, b.commandDefinitions())
	if err != nil {
		b.log.WithField("guild", g.ID).WithError(err).Error("failed to refresh commands")
	}
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	handler, ok := b.commandHandlers()[data.Name]
	if !ok {
		return
	}

	go handler(s, i)
}

func (b *Bot) replyError(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	b.edit(s, i, "❌ "+msg, nil, nil)
}

func (b *Bot) replySuccess(s *discordgo.Session, i *discordgo.InteractionCreate, msg string, embeds []*discordgo.MessageEmbed, files []*discordgo.File) {
	b.edit(s, i, "\U0001f94f "+msg, embeds, files)
}

func (b *Bot) edit(s *discordgo.Session, i *discordgo.InteractionCreate, msg string, embeds []*discordgo.MessageEmbed, files []*discordgo.File) {
	edit := &discordgo.WebhookEdit{Content: &msg}
	if embeds != nil {
		edit.Embeds = &embeds
	}
	if files != nil {
		edit.Files = files
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		b.log.WithError(err).Error("interaction edit failed")
	}
}

func (b *Bot) deferReply(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		b.log.WithError(err).Error("failed to defer interaction")
		return false
	}
	return true
}
