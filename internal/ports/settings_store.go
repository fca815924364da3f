package ports

import (
	"context"

	"github.com/bnema/suno-artist-bot/internal/domain"
)

type SettingsStore interface {
	Load(ctx context.Context) (domain.Config, error)
	SaveArtist(ctx context.Context, settings domain.ArtistSettings) error
}
