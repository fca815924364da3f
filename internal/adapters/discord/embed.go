package discord

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/bwmarrin/discordgo"
)

const maxMP3Bytes = 25 << 20

// hhmmss formats a duration as [HH:]MM:SS.
func hhmmss(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func songFileName(artist, title string, variant int) string {
	name := fmt.Sprintf("%s - %s_%d.mp3", artist, title, variant)
	return strings.ReplaceAll(name, " ", "_")
}

func (b *Bot) buildSongEmbed(song domain.SongInfo, variant int, mp3 []byte) (*discordgo.MessageEmbed, *discordgo.File) {
	fileName := songFileName(b.artist.Name(), song.Title, variant)

	genre := song.StyleTags
	if genre == "" {
		genre = "Unknown"
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s (Variant %d)", song.Title, variant),
		Color: 0x41a92f,
		Fields: []*discordgo.MessageEmbedField{
			{Name: b.localizer.L("Duration"), Value: hhmmss(song.Duration), Inline: true},
			{Name: b.localizer.L("Genre"), Value: genre, Inline: true},
			{Name: b.localizer.L("File Name"), Value: "attachment://" + fileName},
		},
	}
	if song.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: song.ArtworkURL}
	}

	file := &discordgo.File{
		Name:        fileName,
		ContentType: "audio/mpeg",
		Reader:      bytes.NewReader(mp3),
	}

	return embed, file
}

func (b *Bot) downloadMP3(url string) ([]byte, error) {
	resp, err := b.http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch audio: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("fetch audio: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMP3Bytes))
	if err != nil {
		return nil, fmt.Errorf("read audio body: %w", err)
	}

	return data, nil
}
