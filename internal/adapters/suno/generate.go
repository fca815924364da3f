package suno

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/bnema/suno-artist-bot/internal/ports"
)

const modelVersion = "chirp-v3-5"

// CheckBilling fetches the billing state, including remaining credits.
func (c *Client) CheckBilling(ctx context.Context) (domain.BillingInfo, error) {
	if err := c.renewToken(ctx); err != nil {
		return domain.BillingInfo{}, err
	}

	var payload billingResponse
	if err := c.get(ctx, c.cfg.APIURL+"/api/billing/info/", &payload); err != nil {
		return domain.BillingInfo{}, err
	}

	return toBillingInfo(payload), nil
}

// GenerateLyrics starts a lyric generation job for the prompt and polls it
// until completion. There is no overall deadline; cancel ctx to bound it.
func (c *Client) GenerateLyrics(ctx context.Context, prompt string) (domain.Lyrics, error) {
	if err := c.renewToken(ctx); err != nil {
		return domain.Lyrics{}, err
	}

	var started lyricsStartResponse
	if err := c.post(ctx, c.cfg.APIURL+"/api/generate/lyrics/", lyricsStartRequest{Prompt: prompt}, &started); err != nil {
		return domain.Lyrics{}, err
	}
	if started.ID == "" {
		return domain.Lyrics{}, fmt.Errorf("lyrics response missing job id")
	}

	progressURL := c.cfg.APIURL + "/api/generate/lyrics/" + started.ID
	for {
		if err := sleep(ctx, c.cfg.LyricsPollInterval); err != nil {
			return domain.Lyrics{}, err
		}

		var progress lyricsProgressResponse
		if err := c.get(ctx, progressURL, &progress); err != nil {
			return domain.Lyrics{}, err
		}
		if progress.Status == string(domain.ClipStatusComplete) {
			return domain.Lyrics{Title: progress.Title, Text: progress.Text}, nil
		}
	}
}

// GenerateSong starts a song generation job and polls the feed until every
// clip has at least started streaming. Custom mode (title, lyrics, tags) is
// used when the spec carries a title, otherwise the lyrics field is sent as a
// free-form description prompt.
func (c *Client) GenerateSong(ctx context.Context, spec ports.SongSpec) ([]domain.Clip, error) {
	if err := c.renewToken(ctx); err != nil {
		return nil, err
	}

	req := generateRequest{MV: modelVersion, MakeInstrumental: spec.Instrumental}
	if spec.Title == "" {
		req.GPTDescriptionPrompt = spec.Lyrics
	} else {
		req.Prompt = spec.Lyrics
		req.Tags = spec.StyleTags
		req.Title = spec.Title
	}

	c.log.WithField("title", spec.Title).Info("starting song generation")

	var started generateResponse
	if err := c.post(ctx, c.cfg.APIURL+"/api/generate/v2/", req, &started); err != nil {
		return nil, err
	}
	if len(started.Clips) == 0 {
		return nil, fmt.Errorf("generate response carries no clips")
	}

	progressURL := c.feedURL(started.Clips)
	for {
		if err := sleep(ctx, c.cfg.ClipPollInterval); err != nil {
			return nil, err
		}
		if err := c.renewToken(ctx); err != nil {
			return nil, err
		}

		c.log.WithField("url", progressURL).Debug("polling clip progress")
		var progress []clipInfo
		if err := c.get(ctx, progressURL, &progress); err != nil {
			return nil, err
		}

		ready := true
		for _, info := range progress {
			if info.Metadata.ErrorMessage != "" {
				return nil, &domain.RemoteError{Message: info.Metadata.ErrorMessage}
			}
			if info.Status != string(domain.ClipStatusStreaming) && info.Status != string(domain.ClipStatusComplete) {
				ready = false
			}
		}

		if ready {
			clips := make([]domain.Clip, 0, len(progress))
			for _, info := range progress {
				clips = append(clips, c.toDomainClip(info))
			}
			return clips, nil
		}
	}
}

// WaitForCompletion polls the feed until every tracked clip is complete,
// invoking onClipDone exactly once per clip on the poll where its status
// first becomes complete. Any clip reporting an error message aborts the
// whole wait.
func (c *Client) WaitForCompletion(ctx context.Context, clips []domain.Clip, onClipDone func(domain.Clip)) ([]domain.Clip, error) {
	progressURL := c.feedURLDomain(clips)

	done := make(map[string]bool, len(clips))
	latest := make(map[string]domain.Clip, len(clips))
	for _, clip := range clips {
		done[clip.ID] = clip.Status == domain.ClipStatusComplete
		latest[clip.ID] = clip
	}

	for {
		if err := c.renewToken(ctx); err != nil {
			return nil, err
		}

		c.log.WithField("url", progressURL).Debug("polling clip completion")
		var progress []clipInfo
		if err := c.get(ctx, progressURL, &progress); err != nil {
			return nil, err
		}

		allDone := true
		for _, info := range progress {
			if info.Metadata.ErrorMessage != "" {
				return nil, &domain.RemoteError{Message: info.Metadata.ErrorMessage}
			}
			if info.Status != string(domain.ClipStatusComplete) {
				allDone = false
				continue
			}

			clip := c.toDomainClip(info)
			latest[clip.ID] = clip
			if !done[clip.ID] {
				done[clip.ID] = true
				if onClipDone != nil {
					onClipDone(clip)
				}
			}
		}

		if allDone {
			result := make([]domain.Clip, 0, len(clips))
			for _, clip := range clips {
				result = append(result, latest[clip.ID])
			}
			return result, nil
		}

		if err := sleep(ctx, c.cfg.ClipPollInterval); err != nil {
			return nil, err
		}
	}
}

func (c *Client) feedURL(clips []clipInfo) string {
	ids := make([]string, 0, len(clips))
	for _, clip := range clips {
		ids = append(ids, clip.ID)
	}
	return c.cfg.APIURL + "/api/feed/?ids=" + strings.Join(ids, ",")
}

func (c *Client) feedURLDomain(clips []domain.Clip) string {
	ids := make([]string, 0, len(clips))
	for _, clip := range clips {
		ids = append(ids, clip.ID)
	}
	return c.cfg.APIURL + "/api/feed/?ids=" + strings.Join(ids, ",")
}
