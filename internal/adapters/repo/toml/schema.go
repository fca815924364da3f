package toml

import "github.com/bnema/suno-artist-bot/internal/domain"

type configSchema struct {
	DiscordToken    string         `toml:"discord_token"`
	Locale          string         `toml:"locale"`
	TranslationsDir string         `toml:"translations_dir"`
	Artist          artistSchema   `toml:"artist"`
	Clients         []clientSchema `toml:"clients"`
}

type artistSchema struct {
	Name     string `toml:"name"`
	Style    string `toml:"style"`
	Language string `toml:"language"`
}

type clientSchema struct {
	Agent  string `toml:"agent"`
	Cookie string `toml:"cookie"`
}

func (f *configSchema) applyDefaults() {
	if f.Locale == "" {
		f.Locale = "en"
	}
	if f.TranslationsDir == "" {
		f.TranslationsDir = "translations"
	}
}

func defaultSchema() configSchema {
	return configSchema{
		Locale:          "en",
		TranslationsDir: "translations",
		Artist: artistSchema{
			Name:     "MC AI",
			Style:    "crappy and bad",
			Language: "English",
		},
		Clients: []clientSchema{{}},
	}
}

func toDomain(f configSchema) domain.Config {
	clients := make([]domain.Credential, 0, len(f.Clients))
	for _, client := range f.Clients {
		clients = append(clients, domain.Credential{Agent: client.Agent, Cookie: client.Cookie})
	}

	return domain.Config{
		DiscordToken:    f.DiscordToken,
		Locale:          f.Locale,
		TranslationsDir: f.TranslationsDir,
		Artist: domain.ArtistSettings{
			Name:     f.Artist.Name,
			Style:    f.Artist.Style,
			Language: f.Artist.Language,
		},
		Clients: clients,
	}
}
