package domain

import "time"

// Stage is one ordered phase of a commission run.
type Stage string

const (
	StageBilling     Stage = "billing"
	StageLyrics      Stage = "lyrics"
	StageSongRequest Stage = "song_request"
	StagePolling     Stage = "polling"
	StageDone        Stage = "done"
)

// CommissionRequest describes one song commission. Either Description is set
// (lyrics are written remotely from it) or Title+Lyrics are pre-supplied.
type CommissionRequest struct {
	Description  string
	Title        string
	Lyrics       string
	Instrumental bool
}

// HasLyrics reports whether the request pre-supplies its own lyrics, skipping
// the lyric generation stage.
func (r CommissionRequest) HasLyrics() bool {
	return r.Description == ""
}

type SongInfo struct {
	Title      string
	Lyrics     string
	Duration   time.Duration
	StyleTags  string
	AudioURL   string
	ArtworkURL string
}

// CommissionResult is the single terminal outcome of a pipeline run: either a
// localized user-facing error message, or a non-empty list of songs.
type CommissionResult struct {
	ErrorMessage string
	Songs        []SongInfo
}

func (r CommissionResult) Failed() bool {
	return r.ErrorMessage != ""
}
