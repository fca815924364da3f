package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/bnema/suno-artist-bot/internal/ports"
	"github.com/sirupsen/logrus"
)

// StatusFunc receives a stage transition before the stage's work starts, and
// additionally one call per completed clip during the polling stage.
type StatusFunc func(stage domain.Stage, message string, doneClip *domain.Clip)

// runParams is the per-run snapshot of the mutable artist defaults. It is
// taken once, before the pipeline starts, so a concurrent style or language
// change never affects an in-flight commission.
type runParams struct {
	Style    string
	Language string
}

// CommissionPipeline drives one leased client through the ordered stages of
// a commission: billing check, lyric generation (for free-text requests),
// song request, completion polling. Every failure is mapped to a localized
// user-facing message; the pipeline always returns a terminal result and
// never lets a fault escape.
type CommissionPipeline struct {
	localizer ports.Localizer
	log       *logrus.Entry
}

func NewCommissionPipeline(localizer ports.Localizer, log *logrus.Entry) *CommissionPipeline {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &CommissionPipeline{localizer: localizer, log: log}
}

func (p *CommissionPipeline) Run(ctx context.Context, client ports.SongClient, req domain.CommissionRequest, params runParams, status StatusFunc) (result domain.CommissionResult) {
	defer func() {
		if r := recover(); r != nil {
			p.log.WithField("panic", r).Error("commission pipeline fault")
			result = p.failure("Studio exploded or something.")
		}
	}()

	if status == nil {
		status = func(domain.Stage, string, *domain.Clip) {}
	}

	status(domain.StageBilling, p.localizer.L("Checking payment..."), nil)
	billing, err := client.CheckBilling(ctx)
	if err != nil {
		p.log.WithError(err).Error("billing check failed")
		return p.failure("I don't want to talk right now!")
	}
	if billing.TotalCreditsLeft <= 0 {
		return p.failure("I'm overworked for today, go away!")
	}

	title := req.Title
	text := req.Lyrics
	if !req.HasLyrics() {
		status(domain.StageLyrics, p.localizer.L("Writing fire lyrics..."), nil)

		prompt := req.Description
		if !strings.Contains(strings.ToLower(prompt), strings.ToLower(params.Language)) {
			prompt += languageInstruction(params.Language)
		}

		lyrics, err := client.GenerateLyrics(ctx, prompt)
		if err != nil {
			p.log.WithField("prompt", prompt).WithError(err).Error("lyric generation failed")
			return p.failure("Unable to compose lyrics!")
		}
		title = lyrics.Title
		text = lyrics.Text
	}

	status(domain.StageSongRequest, p.localizer.L("Gathering band..."), nil)
	clips, err := client.GenerateSong(ctx, ports.SongSpec{
		Title:        title,
		Lyrics:       text,
		StyleTags:    params.Style,
		Instrumental: req.Instrumental,
	})
	if err != nil {
		p.log.WithError(err).Error("song generation request failed")
		return p.failure("Failed to gather band!")
	}

	recording := p.localizer.L("Recording songs...")
	status(domain.StagePolling, recording, nil)
	completed, err := client.WaitForCompletion(ctx, clips, func(clip domain.Clip) {
		status(domain.StagePolling, recording, &clip)
	})
	if err != nil {
		p.log.WithError(err).Error("waiting for clip completion failed")
		return p.failure("Failed to complete songs.")
	}

	songs := make([]domain.SongInfo, 0, len(completed))
	for _, clip := range completed {
		songs = append(songs, domain.SongInfo{
			Title:      clip.Title,
			Lyrics:     clip.Lyrics,
			Duration:   clip.Duration,
			StyleTags:  clip.StyleTags,
			AudioURL:   clip.AudioURL,
			ArtworkURL: clip.ArtworkURL,
		})
	}

	status(domain.StageDone, p.localizer.L("Songs released!"), nil)
	return domain.CommissionResult{Songs: songs}
}

func (p *CommissionPipeline) failure(key string) domain.CommissionResult {
	return domain.CommissionResult{ErrorMessage: p.localizer.L(key)}
}

func languageInstruction(language string) string {
	return fmt.Sprintf(" Write song in the language: %s", language)
}
