package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/bnema/suno-artist-bot/internal/ports"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(now time.Time) *fixedClock {
	return &fixedClock{now: now}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeClient struct {
	mu     sync.Mutex
	closed bool

	billing    domain.BillingInfo
	billingErr error

	lyrics     domain.Lyrics
	lyricsErr  error
	gotPrompt  string
	lyricCalls int

	clips    []domain.Clip
	songErr  error
	gotSpec  ports.SongSpec
	songCall bool

	completed []domain.Clip
	waitErr   error

	panicOn string
}

func (c *fakeClient) CheckBilling(context.Context) (domain.BillingInfo, error) {
	if c.panicOn == "billing" {
		panic("billing exploded")
	}
	return c.billing, c.billingErr
}

func (c *fakeClient) GenerateLyrics(_ context.Context, prompt string) (domain.Lyrics, error) {
	c.gotPrompt = prompt
	c.lyricCalls++
	return c.lyrics, c.lyricsErr
}

func (c *fakeClient) GenerateSong(_ context.Context, spec ports.SongSpec) ([]domain.Clip, error) {
	c.gotSpec = spec
	c.songCall = true
	return c.clips, c.songErr
}

func (c *fakeClient) WaitForCompletion(_ context.Context, clips []domain.Clip, onClipDone func(domain.Clip)) ([]domain.Clip, error) {
	if c.waitErr != nil {
		return nil, c.waitErr
	}
	completed := c.completed
	if completed == nil {
		completed = clips
	}
	for _, clip := range completed {
		if onClipDone != nil {
			onClipDone(clip)
		}
	}
	return completed, nil
}

func (c *fakeClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// fakeFactory hands out one fakeClient per credential and counts activations.
type fakeFactory struct {
	mu       sync.Mutex
	calls    map[string]int
	failFor  map[string]error
	blockOn  chan struct{}
	lastFake *fakeClient
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{calls: map[string]int{}, failFor: map[string]error{}}
}

func (f *fakeFactory) factory(_ context.Context, credential domain.Credential) (ports.SongClient, error) {
	if f.blockOn != nil {
		<-f.blockOn
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[credential.Cookie]++
	if err, ok := f.failFor[credential.Cookie]; ok {
		return nil, err
	}

	client := &fakeClient{billing: domain.BillingInfo{TotalCreditsLeft: 10}}
	f.lastFake = client
	return client, nil
}

func (f *fakeFactory) callCount(cookie string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[cookie]
}

type passthroughLocalizer struct{}

func (passthroughLocalizer) L(key string) string { return key }

func (passthroughLocalizer) Replace(key string, _ map[string]string) string { return key }

type fakeSettingsStore struct {
	mu    sync.Mutex
	saved []domain.ArtistSettings
}

func (s *fakeSettingsStore) Load(context.Context) (domain.Config, error) {
	return domain.Config{}, nil
}

func (s *fakeSettingsStore) SaveArtist(_ context.Context, settings domain.ArtistSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, settings)
	return nil
}

func (s *fakeSettingsStore) lastSaved() (domain.ArtistSettings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return domain.ArtistSettings{}, false
	}
	return s.saved[len(s.saved)-1], true
}

func credentials(n int) []domain.Credential {
	creds := make([]domain.Credential, n)
	for i := range creds {
		creds[i] = domain.Credential{Agent: "agent", Cookie: string(rune('a' + i))}
	}
	return creds
}
