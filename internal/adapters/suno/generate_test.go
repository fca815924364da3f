package suno

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/bnema/suno-artist-bot/internal/ports"
)

func TestCheckBillingParsesResponse(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	registerSession(mux, &tokenCalls)
	mux.HandleFunc("/api/billing/info/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"credits":30,"is_active":true,"is_past_due":false,"monthly_limit":50,"monthly_usage":20,"total_credits_left":30}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := New(context.Background(), testCredential(), testConfig(server))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	billing, err := client.CheckBilling(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.BillingInfo{
		Credits:          30,
		MonthlyLimit:     50,
		MonthlyUsage:     20,
		TotalCreditsLeft: 30,
		IsActive:         true,
	}, billing)
}

func TestGenerateLyricsPollsUntilComplete(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	var polls atomic.Int32
	mux := http.NewServeMux()
	registerSession(mux, &tokenCalls)
	mux.HandleFunc("/api/generate/lyrics/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "a song about rain", body["prompt"])
			fmt.Fprint(w, `{"id":"lyr-1"}`)
			return
		}

		assert.Equal(t, "/api/generate/lyrics/lyr-1", r.URL.Path)
		if polls.Add(1) < 3 {
			fmt.Fprint(w, `{"status":"running"}`)
			return
		}
		fmt.Fprint(w, `{"status":"complete","title":"Rain","text":"[Verse]\nDrip drop"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := New(context.Background(), testCredential(), testConfig(server))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	lyrics, err := client.GenerateLyrics(context.Background(), "a song about rain")
	require.NoError(t, err)
	assert.Equal(t, "Rain", lyrics.Title)
	assert.Equal(t, "[Verse]\nDrip drop", lyrics.Text)
	assert.Equal(t, int32(3), polls.Load())
}

func TestGenerateLyricsStopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	registerSession(mux, &tokenCalls)
	mux.HandleFunc("/api/generate/lyrics/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			fmt.Fprint(w, `{"id":"lyr-1"}`)
			return
		}
		fmt.Fprint(w, `{"status":"running"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := New(context.Background(), testCredential(), testConfig(server))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = client.GenerateLyrics(ctx, "never finishes")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerateSongSendsDescriptionPromptWithoutTitle(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	registerSession(mux, &tokenCalls)
	mux.HandleFunc("/api/generate/v2/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "chirp-v3-5", body["mv"])
		assert.Equal(t, "a song about rain", body["gpt_description_prompt"])
		assert.NotContains(t, body, "title")
		assert.NotContains(t, body, "tags")
		fmt.Fprint(w, `{"id":"job-1","clips":[{"id":"clip-a","status":"submitted"},{"id":"clip-b","status":"submitted"}]}`)
	})
	mux.HandleFunc("/api/feed/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "clip-a,clip-b", r.URL.Query().Get("ids"))
		fmt.Fprint(w, `[{"id":"clip-a","title":"Rain","status":"streaming"},{"id":"clip-b","title":"Rain","status":"streaming"}]`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := testConfig(server)
	cfg.CDNURL = "https://cdn.example.com"

	client, err := New(context.Background(), testCredential(), cfg)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	clips, err := client.GenerateSong(context.Background(), ports.SongSpec{Lyrics: "a song about rain"})
	require.NoError(t, err)
	require.Len(t, clips, 2)
	assert.Equal(t, "clip-a", clips[0].ID)
	assert.Equal(t, domain.ClipStatusStreaming, clips[0].Status)
	// No audio_url yet: the CDN location is derived from the clip id.
	assert.Equal(t, "https://cdn.example.com/clip-a.mp3", clips[0].AudioURL)
}

func TestGenerateSongSendsCustomModeWithTitle(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	registerSession(mux, &tokenCalls)
	mux.HandleFunc("/api/generate/v2/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Rain Anthem", body["title"])
		assert.Equal(t, "[Verse]\nDrip drop", body["prompt"])
		assert.Equal(t, "synthwave", body["tags"])
		assert.Equal(t, true, body["make_instrumental"])
		assert.NotContains(t, body, "gpt_description_prompt")
		fmt.Fprint(w, `{"id":"job-1","clips":[{"id":"clip-a","status":"submitted"}]}`)
	})
	mux.HandleFunc("/api/feed/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"clip-a","title":"Rain Anthem","status":"streaming"}]`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := New(context.Background(), testCredential(), testConfig(server))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	spec := ports.SongSpec{
		Title:        "Rain Anthem",
		Lyrics:       "[Verse]\nDrip drop",
		StyleTags:    "synthwave",
		Instrumental: true,
	}
	clips, err := client.GenerateSong(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, clips, 1)
}

func TestGenerateSongAbortsOnClipError(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	registerSession(mux, &tokenCalls)
	mux.HandleFunc("/api/generate/v2/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"job-1","clips":[{"id":"clip-a","status":"submitted"}]}`)
	})
	mux.HandleFunc("/api/feed/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"clip-a","status":"error","metadata":{"error_message":"content moderated"}}]`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := New(context.Background(), testCredential(), testConfig(server))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	_, err = client.GenerateSong(context.Background(), ports.SongSpec{Lyrics: "anything"})
	require.Error(t, err)

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "content moderated", remoteErr.Message)
}

func TestWaitForCompletionInvokesCallbackOncePerClip(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	var polls atomic.Int32
	mux := http.NewServeMux()
	registerSession(mux, &tokenCalls)
	mux.HandleFunc("/api/feed/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "clip-a,clip-b", r.URL.Query().Get("ids"))
		if polls.Add(1) == 1 {
			fmt.Fprint(w, `[{"id":"clip-a","title":"Rain","status":"complete","audio_url":"https://a/clip-a.mp3"},{"id":"clip-b","status":"streaming"}]`)
			return
		}
		fmt.Fprint(w, `[{"id":"clip-a","title":"Rain","status":"complete","audio_url":"https://a/clip-a.mp3"},{"id":"clip-b","title":"Rain","status":"complete","audio_url":"https://a/clip-b.mp3","metadata":{"duration":92.5}}]`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := New(context.Background(), testCredential(), testConfig(server))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	tracked := []domain.Clip{
		{ID: "clip-a", Status: domain.ClipStatusStreaming},
		{ID: "clip-b", Status: domain.ClipStatusStreaming},
	}

	var completed []string
	clips, err := client.WaitForCompletion(context.Background(), tracked, func(clip domain.Clip) {
		completed = append(completed, clip.ID)
	})
	require.NoError(t, err)

	// clip-a completes on the first poll and must not be reported again on
	// the second even though the feed still lists it as complete.
	assert.Equal(t, []string{"clip-a", "clip-b"}, completed)

	require.Len(t, clips, 2)
	assert.Equal(t, "clip-a", clips[0].ID)
	assert.Equal(t, "clip-b", clips[1].ID)
	assert.Equal(t, "https://a/clip-b.mp3", clips[1].AudioURL)
	assert.Equal(t, 92*time.Second+500*time.Millisecond, clips[1].Duration)
}

func TestWaitForCompletionAbortsOnClipErrorDespiteCompleteSibling(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	var polls atomic.Int32
	mux := http.NewServeMux()
	registerSession(mux, &tokenCalls)
	mux.HandleFunc("/api/feed/", func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		fmt.Fprint(w, `[{"id":"clip-a","title":"Rain","status":"complete","audio_url":"https://a/clip-a.mp3"},{"id":"clip-b","status":"error","metadata":{"error_message":"generation failed"}}]`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := New(context.Background(), testCredential(), testConfig(server))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	tracked := []domain.Clip{
		{ID: "clip-a", Status: domain.ClipStatusStreaming},
		{ID: "clip-b", Status: domain.ClipStatusStreaming},
	}

	_, err = client.WaitForCompletion(context.Background(), tracked, func(domain.Clip) {})
	require.Error(t, err)

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "generation failed", remoteErr.Message)
	// The sibling's completion must not keep the wait alive.
	assert.Equal(t, int32(1), polls.Load())
}

func TestWaitForCompletionSkipsAlreadyCompleteClips(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	registerSession(mux, &tokenCalls)
	mux.HandleFunc("/api/feed/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"clip-a","status":"complete","audio_url":"https://a/clip-a.mp3"}]`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := New(context.Background(), testCredential(), testConfig(server))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	tracked := []domain.Clip{{ID: "clip-a", Status: domain.ClipStatusComplete}}

	var callbacks int
	clips, err := client.WaitForCompletion(context.Background(), tracked, func(domain.Clip) {
		callbacks++
	})
	require.NoError(t, err)
	require.Len(t, clips, 1)
	assert.Zero(t, callbacks)
}
