// Package suno implements one authenticated session against the Suno song
// generation service: clerk handshake, bearer token renewal, billing check,
// lyric generation and song generation with completion polling.
package suno

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/bnema/suno-artist-bot/internal/ports"
	"github.com/sirupsen/logrus"
)

const (
	defaultClerkURL = "https://clerk.suno.com"
	defaultAPIURL   = "https://studio-api.suno.ai"
	defaultCDNURL   = "https://cdn1.suno.ai"

	clerkJSVersion = "4.73.2"

	maxResponseBytes = 1 << 20
)

type Config struct {
	ClerkURL string
	APIURL   string
	CDNURL   string

	HTTPClient *http.Client

	// RequestTimeout bounds every single outbound request.
	RequestTimeout time.Duration
	// TokenFreshFor is how long a renewed token counts as fresh; renewal
	// is skipped while within this window.
	TokenFreshFor time.Duration
	// RenewEvery is the background renewal schedule.
	RenewEvery time.Duration

	LyricsPollInterval time.Duration
	ClipPollInterval   time.Duration

	Clock  ports.Clock
	Logger *logrus.Entry
}

func (c Config) withDefaults() Config {
	if c.ClerkURL == "" {
		c.ClerkURL = defaultClerkURL
	}
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.CDNURL == "" {
		c.CDNURL = defaultCDNURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.TokenFreshFor <= 0 {
		c.TokenFreshFor = time.Minute
	}
	if c.RenewEvery <= 0 {
		c.RenewEvery = 100 * time.Second
	}
	if c.LyricsPollInterval <= 0 {
		c.LyricsPollInterval = 5 * time.Second
	}
	if c.ClipPollInterval <= 0 {
		c.ClipPollInterval = 10 * time.Second
	}
	if c.Clock == nil {
		c.Clock = ports.SystemClock{}
	}
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return c
}

// Client is one authenticated session. It is safe for the background renewal
// loop and one caller to use it concurrently; Close must not be called while
// a request is in flight (the session pool's lease discipline enforces this).
type Client struct {
	cfg        Config
	credential domain.Credential
	sessionID  string
	log        *logrus.Entry

	tokenMu   sync.Mutex
	token     string
	lastRenew time.Time

	stopRenew context.CancelFunc
	renewDone chan struct{}
	closeOnce sync.Once
}

var _ ports.SongClient = (*Client)(nil)

// New performs the session handshake for the credential, fetches a first
// token and starts the background renewal loop.
func New(ctx context.Context, credential domain.Credential, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	c := &Client{
		cfg:        cfg,
		credential: credential,
		log:        cfg.Logger,
		renewDone:  make(chan struct{}),
	}

	var payload sessionResponse
	if err := c.get(ctx, c.cfg.ClerkURL+"/v1/client?_clerk_js_version="+clerkJSVersion, &payload); err != nil {
		return nil, &domain.AuthError{Op: "fetch session id", Err: err}
	}
	if payload.Response.LastActiveSessionID == "" {
		return nil, &domain.AuthError{Op: "fetch session id", Err: errors.New("response missing session id")}
	}
	c.sessionID = payload.Response.LastActiveSessionID

	if err := c.renewToken(ctx); err != nil {
		return nil, &domain.AuthError{Op: "initial token renewal", Err: err}
	}

	renewCtx, cancel := context.WithCancel(context.Background())
	c.stopRenew = cancel
	go c.renewLoop(renewCtx)

	return c, nil
}

// NewFactory returns a ports.ClientFactory that creates sessions with the
// given configuration.
func NewFactory(cfg Config) ports.ClientFactory {
	return func(ctx context.Context, credential domain.Credential) (ports.SongClient, error) {
		return New(ctx, credential, cfg)
	}
}

// Close stops the background renewal loop. Idempotent.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.stopRenew()
		<-c.renewDone
	})
}

func (c *Client) renewLoop(ctx context.Context) {
	defer close(c.renewDone)

	ticker := time.NewTicker(c.cfg.RenewEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.renewToken(ctx); err != nil {
				c.log.WithError(err).Warn("background token renewal failed")
			}
		}
	}
}

// renewToken fetches a fresh bearer token unless the current one was renewed
// within the freshness window. Both the inline pre-call path and the
// background schedule go through this guard.
func (c *Client) renewToken(ctx context.Context) error {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	now := c.cfg.Clock.Now()
	if now.Sub(c.lastRenew) < c.cfg.TokenFreshFor {
		return nil
	}
	c.lastRenew = now

	c.log.Debug("renewing session token")

	endpoint := c.cfg.ClerkURL + "/v1/client/sessions/" + c.sessionID + "/tokens?_clerk_js_version=" + clerkJSVersion
	var payload tokenResponse
	if err := c.postLocked(ctx, endpoint, nil, &payload); err != nil {
		return fmt.Errorf("renew token: %w", err)
	}
	if payload.JWT == "" {
		return errors.New("renew token: response missing jwt")
	}

	c.token = payload.JWT
	return nil
}

func (c *Client) bearerToken() string {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	return c.token
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out, c.bearerToken())
}

func (c *Client) post(ctx context.Context, endpoint string, body any, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out, c.bearerToken())
}

// postLocked is the renewal request path; the caller already holds tokenMu,
// so the token is read directly.
func (c *Client) postLocked(ctx context.Context, endpoint string, body any, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out, c.token)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any, token string) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.credential.Agent)
	req.Header.Set("Cookie", c.credential.Cookie)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return wrapNetworkError(method+" "+endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return &domain.NetworkError{
			Op:  method + " " + endpoint,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(text)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func wrapNetworkError(op string, err error) error {
	timeout := errors.Is(err, context.DeadlineExceeded)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		timeout = true
	}

	return &domain.NetworkError{Op: op, Timeout: timeout, Err: err}
}

// sleep waits for the given duration, returning early if ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
