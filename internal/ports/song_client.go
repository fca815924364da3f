package ports

import (
	"context"

	"github.com/bnema/suno-artist-bot/internal/domain"
)

// SongSpec is the input to one song generation request.
type SongSpec struct {
	Title        string
	Lyrics       string
	StyleTags    string
	Instrumental bool
}

// SongClient is one authenticated session against the remote song service.
// Implementations renew their own credentials; callers must not use a client
// after Close.
type SongClient interface {
	CheckBilling(ctx context.Context) (domain.BillingInfo, error)
	GenerateLyrics(ctx context.Context, prompt string) (domain.Lyrics, error)
	GenerateSong(ctx context.Context, spec SongSpec) ([]domain.Clip, error)
	WaitForCompletion(ctx context.Context, clips []domain.Clip, onClipDone func(domain.Clip)) ([]domain.Clip, error)
	Close()
}

// ClientFactory performs the session handshake for one credential. It is the
// activation path of a session slot.
type ClientFactory func(ctx context.Context, credential domain.Credential) (SongClient, error)
