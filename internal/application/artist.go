// Package application holds the session pool lifecycle and the commission
// pipeline that together drive song commissions against the remote service.
package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/bnema/suno-artist-bot/internal/ports"
	"github.com/sirupsen/logrus"
)

// Artist is the commission entry point. It owns the session pool, the
// pipeline, and the mutable style/language defaults. The defaults can be
// changed at runtime by a privileged command; each commission snapshots them
// once at the start of its run.
type Artist struct {
	name      string
	pool      *SessionPool
	pipeline  *CommissionPipeline
	settings  ports.SettingsStore
	localizer ports.Localizer
	log       *logrus.Entry

	mu       sync.RWMutex
	style    string
	language string
}

func NewArtist(settings domain.ArtistSettings, pool *SessionPool, pipeline *CommissionPipeline, store ports.SettingsStore, localizer ports.Localizer, log *logrus.Entry) *Artist {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Artist{
		name:      settings.Name,
		pool:      pool,
		pipeline:  pipeline,
		settings:  store,
		localizer: localizer,
		log:       log,
		style:     settings.Style,
		language:  settings.Language,
	}
}

func (a *Artist) Name() string { return a.name }

func (a *Artist) Style() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.style
}

func (a *Artist) Language() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.language
}

// SetStyle updates the default style tags for future commissions and
// persists the change.
func (a *Artist) SetStyle(ctx context.Context, style string) error {
	a.mu.Lock()
	a.style = style
	a.mu.Unlock()

	return a.persist(ctx)
}

// SetLanguage updates the default lyric language for future commissions and
// persists the change.
func (a *Artist) SetLanguage(ctx context.Context, language string) error {
	a.mu.Lock()
	a.language = language
	a.mu.Unlock()

	return a.persist(ctx)
}

func (a *Artist) persist(ctx context.Context) error {
	a.mu.RLock()
	settings := domain.ArtistSettings{Name: a.name, Style: a.style, Language: a.language}
	a.mu.RUnlock()

	if err := a.settings.SaveArtist(ctx, settings); err != nil {
		return fmt.Errorf("save artist settings: %w", err)
	}
	return nil
}

// Commission produces songs from a free-text description.
func (a *Artist) Commission(ctx context.Context, description string, status StatusFunc) domain.CommissionResult {
	return a.run(ctx, domain.CommissionRequest{Description: description}, status)
}

// CommissionWithLyrics produces songs from a pre-supplied title and lyrics.
func (a *Artist) CommissionWithLyrics(ctx context.Context, title, lyrics string, status StatusFunc) domain.CommissionResult {
	return a.run(ctx, domain.CommissionRequest{Title: title, Lyrics: lyrics}, status)
}

func (a *Artist) run(ctx context.Context, req domain.CommissionRequest, status StatusFunc) domain.CommissionResult {
	a.mu.RLock()
	params := runParams{Style: a.style, Language: a.language}
	a.mu.RUnlock()

	lease, err := a.pool.Acquire(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrPoolExhausted) {
			a.log.WithError(err).Error("session acquisition failed")
		}
		return domain.CommissionResult{ErrorMessage: a.localizer.L("I'm already busy!")}
	}
	defer lease.Release()

	return a.pipeline.Run(ctx, lease.Client(), req, params, status)
}
