package domain

import (
	"fmt"
	"strings"
)

// ArtistSettings are the mutable generation defaults. Style and Language can
// be changed at runtime through a privileged command and are persisted back to
// the settings store.
type ArtistSettings struct {
	Name     string
	Style    string
	Language string
}

func (s ArtistSettings) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("artist name is required")
	}
	if strings.TrimSpace(s.Style) == "" {
		return fmt.Errorf("style is required")
	}
	if strings.TrimSpace(s.Language) == "" {
		return fmt.Errorf("language is required")
	}

	return nil
}

// Config is the full startup configuration.
type Config struct {
	DiscordToken    string
	Locale          string
	TranslationsDir string
	Artist          ArtistSettings
	Clients         []Credential
}

func (c Config) Validate() error {
	if err := c.Artist.Validate(); err != nil {
		return err
	}
	if len(c.Clients) == 0 {
		return fmt.Errorf("at least one client credential is required")
	}
	for i, client := range c.Clients {
		if err := client.Validate(); err != nil {
			return fmt.Errorf("client %d: %w", i, err)
		}
	}

	return nil
}
