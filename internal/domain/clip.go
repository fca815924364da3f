package domain

import "time"

type ClipStatus string

const (
	ClipStatusSubmitted ClipStatus = "submitted"
	ClipStatusStreaming ClipStatus = "streaming"
	ClipStatusComplete  ClipStatus = "complete"
)

// Clip is one remote-tracked audio generation unit. The remote service owns
// it; we only ever observe snapshots of it through feed polling.
type Clip struct {
	ID           string
	Title        string
	Status       ClipStatus
	Duration     time.Duration
	StyleTags    string
	Lyrics       string
	AudioURL     string
	ArtworkURL   string
	ErrorMessage string
}

type Lyrics struct {
	Title string
	Text  string
}

type BillingInfo struct {
	Credits          float64
	MonthlyLimit     float64
	MonthlyUsage     float64
	TotalCreditsLeft float64
	IsActive         bool
	IsPastDue        bool
}
