package discord

import (
	"context"
	"fmt"

	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/bwmarrin/discordgo"
)

const songVariants = 2

func (b *Bot) commandDefinitions() []*discordgo.ApplicationCommand {
	dmPermission := false
	modPermission := int64(discordgo.PermissionVoiceMuteMembers)

	return []*discordgo.ApplicationCommand{
		{
			Name:         "commission",
			Description:  b.localizer.L("Commission a banger song!"),
			DMPermission: &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("song_description", b.localizer.L("A description of what the song should be about."), 4, 500),
			},
		},
		{
			Name:         "commission_with_lyrics",
			Description:  b.localizer.L("Commission a banger song providing your own lyrics!"),
			DMPermission: &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("song_title", b.localizer.L("Title of the song!"), 4, 100),
				stringOption("song_lyrics", b.localizer.L("Lyrics of the song."), 100, 2500),
			},
		},
		{
			Name:                     "setstyle",
			Description:              b.localizer.L("Set the song style."),
			DMPermission:             &dmPermission,
			DefaultMemberPermissions: &modPermission,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("tags", b.localizer.L("A list of style tags."), 4, 250),
			},
		},
		{
			Name:                     "setlang",
			Description:              b.localizer.L("Set the lyric generation language."),
			DMPermission:             &dmPermission,
			DefaultMemberPermissions: &modPermission,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("lang", b.localizer.L("The language to use."), 4, 32),
			},
		},
		{
			Name:         "info",
			Description:  b.localizer.L("Information about the artist."),
			DMPermission: &dmPermission,
		},
	}
}

func stringOption(name, description string, minLen, maxLen int) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    minLen != 0,
		MinLength:   &minLen,
		MaxLength:   maxLen,
	}
}

type commandHandler func(*discordgo.Session, *discordgo.InteractionCreate)

func (b *Bot) commandHandlers() map[string]commandHandler {
	return map[string]commandHandler{
		"commission":             b.handleCommission,
		"commission_with_lyrics": b.handleCommissionWithLyrics,
		"setstyle":               b.handleSetStyle,
		"setlang":                b.handleSetLanguage,
		"info":                   b.handleInfo,
	}
}

func optionValue(i *discordgo.InteractionCreate, name string) string {
	for _, option := range i.ApplicationCommandData().Options {
		if option.Name == name {
			return option.StringValue()
		}
	}
	return ""
}

func (b *Bot) handleCommission(s *discordgo.Session, i *discordgo.InteractionCreate) {
	prompt := optionValue(i, "song_description")
	if prompt == "" {
		if b.deferReply(s, i) {
			b.replyError(s, i, b.localizer.L("Missing song description!"))
		}
		return
	}
	if !b.deferReply(s, i) {
		return
	}

	result := b.artist.Commission(context.Background(), prompt, b.statusUpdater(s, i))
	b.deliver(s, i, result)
}

func (b *Bot) handleCommissionWithLyrics(s *discordgo.Session, i *discordgo.InteractionCreate) {
	title := optionValue(i, "song_title")
	lyrics := optionValue(i, "song_lyrics")
	if title == "" || lyrics == "" {
		if b.deferReply(s, i) {
			b.replyError(s, i, b.localizer.L("Missing song title!"))
		}
		return
	}
	if !b.deferReply(s, i) {
		return
	}

	result := b.artist.CommissionWithLyrics(context.Background(), title, lyrics, b.statusUpdater(s, i))
	b.deliver(s, i, result)
}

// statusUpdater renders pipeline stage transitions into live edits of the
// deferred reply, adding a completion counter during the recording stage.
func (b *Bot) statusUpdater(s *discordgo.Session, i *discordgo.InteractionCreate) func(domain.Stage, string, *domain.Clip) {
	done := 0
	return func(stage domain.Stage, message string, clip *domain.Clip) {
		if stage == domain.StageDone {
			// The final edit carries the songs themselves.
			return
		}
		if clip != nil {
			done++
		}
		if stage == domain.StagePolling {
			message += fmt.Sprintf("\n%s: %d/%d\n%s",
				b.localizer.L("Done"), done, songVariants,
				b.localizer.L("This will take a few minutes."))
		}
		b.edit(s, i, message, nil, nil)
	}
}

func (b *Bot) deliver(s *discordgo.Session, i *discordgo.InteractionCreate, result domain.CommissionResult) {
	if result.Failed() {
		b.replyError(s, i, result.ErrorMessage)
		return
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(result.Songs))
	files := make([]*discordgo.File, 0, len(result.Songs))

	for _, song := range result.Songs {
		mp3, err := b.downloadMP3(song.AudioURL)
		if err != nil {
			b.log.WithField("url", song.AudioURL).WithError(err).Error("failed to download song audio")
			b.replyError(s, i, b.localizer.L("Failed to release track!"))
			return
		}

		embed, file := b.buildSongEmbed(song, len(embeds)+1, mp3)
		embeds = append(embeds, embed)
		files = append(files, file)
	}

	b.replySuccess(s, i, b.localizer.L("Songs released!"), embeds, files)
}

func (b *Bot) handleSetStyle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.deferReply(s, i) {
		return
	}

	tags := optionValue(i, "tags")
	if tags == "" {
		b.replyError(s, i, b.localizer.L("Missing tags!"))
		return
	}

	if err := b.artist.SetStyle(context.Background(), tags); err != nil {
		b.log.WithError(err).Error("failed to persist style")
	}
	b.replySuccess(s, i, fmt.Sprintf("%s`%s`", b.localizer.L("Music style set to: "), tags), nil, nil)
}

func (b *Bot) handleSetLanguage(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.deferReply(s, i) {
		return
	}

	language := optionValue(i, "lang")
	if language == "" {
		b.replyError(s, i, b.localizer.L("Missing language!"))
		return
	}

	if err := b.artist.SetLanguage(context.Background(), language); err != nil {
		b.log.WithError(err).Error("failed to persist language")
	}
	b.replySuccess(s, i, b.localizer.Replace("Music language set to: {lang}", map[string]string{"lang": language}), nil, nil)
}

func (b *Bot) handleInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.deferReply(s, i) {
		return
	}

	info := fmt.Sprintf("%s %s.\n%s %s.\n%s %s.",
		b.localizer.L("Hello! My name is"), b.artist.Name(),
		b.localizer.L("My music style is"), b.artist.Style(),
		b.localizer.L("I write my own songs in"), b.artist.Language())
	b.replySuccess(s, i, info, nil, nil)
}
