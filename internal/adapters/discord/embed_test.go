package discord

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHHMMSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{name: "zero", duration: 0, want: "00:00"},
		{name: "seconds only", duration: 42 * time.Second, want: "00:42"},
		{name: "minutes and seconds", duration: 3*time.Minute + 5*time.Second, want: "03:05"},
		{name: "fraction truncated", duration: 92*time.Second + 500*time.Millisecond, want: "01:32"},
		{name: "over an hour", duration: time.Hour + 2*time.Minute + 3*time.Second, want: "01:02:03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, hhmmss(tt.duration))
		})
	}
}

func TestSongFileNameReplacesSpaces(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "MC_AI_-_Rain_Anthem_1.mp3", songFileName("MC AI", "Rain Anthem", 1))
	assert.Equal(t, "Neon_-_x_2.mp3", songFileName("Neon", "x", 2))
}

func TestDownloadMP3(t *testing.T) {
	t.Parallel()

	payload := []byte("ID3 not really audio")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)

	b := &Bot{http: server.Client()}
	data, err := b.downloadMP3(server.URL + "/clip.mp3")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDownloadMP3RejectsNonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	b := &Bot{http: server.Client()}
	_, err := b.downloadMP3(server.URL + "/missing.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
