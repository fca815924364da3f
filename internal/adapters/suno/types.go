package suno

import (
	"time"

	"github.com/bnema/suno-artist-bot/internal/domain"
)

type sessionResponse struct {
	Response struct {
		LastActiveSessionID string `json:"last_active_session_id"`
	} `json:"response"`
}

type tokenResponse struct {
	JWT string `json:"jwt"`
}

type billingResponse struct {
	Credits          float64 `json:"credits"`
	IsActive         bool    `json:"is_active"`
	IsPastDue        bool    `json:"is_past_due"`
	MonthlyLimit     float64 `json:"monthly_limit"`
	MonthlyUsage     float64 `json:"monthly_usage"`
	TotalCreditsLeft float64 `json:"total_credits_left"`
}

type lyricsStartRequest struct {
	Prompt string `json:"prompt"`
}

type lyricsStartResponse struct {
	ID string `json:"id"`
}

type lyricsProgressResponse struct {
	Text   string `json:"text"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type generateRequest struct {
	MV                   string `json:"mv"`
	Prompt               string `json:"prompt"`
	GPTDescriptionPrompt string `json:"gpt_description_prompt,omitempty"`
	Tags                 string `json:"tags,omitempty"`
	Title                string `json:"title,omitempty"`
	MakeInstrumental     bool   `json:"make_instrumental,omitempty"`
}

type clipMetadata struct {
	Prompt       string  `json:"prompt"`
	Tags         string  `json:"tags"`
	Duration     float64 `json:"duration"`
	ErrorMessage string  `json:"error_message"`
}

type clipInfo struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Status        string       `json:"status"`
	AudioURL      string       `json:"audio_url"`
	ImageURL      string       `json:"image_url"`
	ImageLargeURL string       `json:"image_large_url"`
	Metadata      clipMetadata `json:"metadata"`
}

type generateResponse struct {
	ID    string     `json:"id"`
	Clips []clipInfo `json:"clips"`
}

func (c *Client) toDomainClip(info clipInfo) domain.Clip {
	audioURL := info.AudioURL
	if audioURL == "" {
		audioURL = c.cfg.CDNURL + "/" + info.ID + ".mp3"
	}

	artworkURL := info.ImageLargeURL
	if artworkURL == "" {
		artworkURL = info.ImageURL
	}

	return domain.Clip{
		ID:           info.ID,
		Title:        info.Title,
		Status:       domain.ClipStatus(info.Status),
		Duration:     time.Duration(info.Metadata.Duration * float64(time.Second)),
		StyleTags:    info.Metadata.Tags,
		Lyrics:       info.Metadata.Prompt,
		AudioURL:     audioURL,
		ArtworkURL:   artworkURL,
		ErrorMessage: info.Metadata.ErrorMessage,
	}
}

func toBillingInfo(payload billingResponse) domain.BillingInfo {
	return domain.BillingInfo{
		Credits:          payload.Credits,
		MonthlyLimit:     payload.MonthlyLimit,
		MonthlyUsage:     payload.MonthlyUsage,
		TotalCreditsLeft: payload.TotalCreditsLeft,
		IsActive:         payload.IsActive,
		IsPastDue:        payload.IsPastDue,
	}
}
