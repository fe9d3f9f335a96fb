package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// The schema is typed and validated once at load time; optional values have
// explicit zero-value defaults instead of dynamic fallbacks.
type Config struct {
	Core          CoreConfig          `toml:"core"`
	Trakt         TraktConfig         `toml:"trakt"`
	Sonarr        SonarrConfig        `toml:"sonarr"`
	Radarr        RadarrConfig        `toml:"radarr"`
	OMDB          OMDBConfig          `toml:"omdb"`
	TMDB          TMDBConfig          `toml:"tmdb"`
	Filters       FiltersConfig       `toml:"filters"`
	Automatic     AutomaticConfig     `toml:"automatic"`
	Notifications NotificationsConfig `toml:"notifications"`
	History       HistoryConfig       `toml:"history"`
}

// CoreConfig contains process-wide settings.
type CoreConfig struct {
	Debug bool `toml:"debug"`
}

// TraktConfig contains Trakt API credentials.
type TraktConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	AccessToken  string `toml:"access_token"`
}

// SonarrConfig contains the show target's connection and add settings.
type SonarrConfig struct {
	URL          string   `toml:"url"`
	APIKey       string   `toml:"api_key"`
	Quality      string   `toml:"quality"`
	Language     string   `toml:"language"`
	RootFolder   string   `toml:"root_folder"`
	SeasonFolder bool     `toml:"season_folder"`
	Tags         []string `toml:"tags"`
}

// RadarrConfig contains the movie target's connection and add settings.
type RadarrConfig struct {
	URL                 string `toml:"url"`
	APIKey              string `toml:"api_key"`
	Quality             string `toml:"quality"`
	RootFolder          string `toml:"root_folder"`
	MinimumAvailability string `toml:"minimum_availability"`
}

// OMDBConfig contains the OMDb ratings API key. Empty disables the
// Rotten Tomatoes score gate.
type OMDBConfig struct {
	APIKey string `toml:"api_key"`
}

// TMDBConfig contains the TMDb API key. Empty disables the catalog
// existence check before adding.
type TMDBConfig struct {
	APIKey string `toml:"api_key"`
}

// FiltersConfig holds one filter set per media kind.
type FiltersConfig struct {
	Shows  FilterSet `toml:"shows"`
	Movies FilterSet `toml:"movies"`
}

// FilterSet contains the blacklist/allow-list criteria for one media kind.
//
// The sentinel value "ignore" is recognised in BlacklistedGenres,
// AllowedCountries and AllowedLanguages. Zero year/runtime bounds mean the
// bound is unset. BlacklistedIDs holds TVDB ids for shows and TMDB ids for
// movies. RottenTomatoes applies to movies only (0 disables the gate).
type FilterSet struct {
	DisabledFor              []string `toml:"disabled_for"`
	AllowedCountries         []string `toml:"allowed_countries"`
	AllowedLanguages         []string `toml:"allowed_languages"`
	BlacklistedGenres        []string `toml:"blacklisted_genres"`
	BlacklistedTitleKeywords []string `toml:"blacklisted_title_keywords"`
	BlacklistedIDs           []int    `toml:"blacklisted_ids"`
	BlacklistedMinYear       int      `toml:"blacklisted_min_year"`
	BlacklistedMaxYear       int      `toml:"blacklisted_max_year"`
	BlacklistedMinRuntime    int      `toml:"blacklisted_min_runtime"`
	BlacklistedMaxRuntime    int      `toml:"blacklisted_max_runtime"`
	RottenTomatoes           int      `toml:"rotten_tomatoes"`
}

// AutomaticConfig drives scheduler mode: which lists to pull, how many items
// per list, and how often each category re-runs.
type AutomaticConfig struct {
	Shows  AutomaticMedia `toml:"shows"`
	Movies AutomaticMedia `toml:"movies"`
}

// AutomaticMedia configures automatic mode for one media kind.
//
// The named limits cover the public Trakt lists (0 skips the list);
// Watchlist maps a Trakt username to a limit, Lists maps a custom list
// name or URL to its settings.
type AutomaticMedia struct {
	Intervals   Intervals           `toml:"intervals"`
	Anticipated int                 `toml:"anticipated"`
	Trending    int                 `toml:"trending"`
	Popular     int                 `toml:"popular"`
	Boxoffice   int                 `toml:"boxoffice"`
	Watchlist   map[string]int      `toml:"watchlist"`
	Lists       map[string]UserList `toml:"lists"`
}

// Intervals holds the re-run cadence, in hours, per list category.
// Zero (or negative) disables the category.
type Intervals struct {
	PublicLists float64 `toml:"public_lists"`
	UserLists   float64 `toml:"user_lists"`
}

// UserList configures one custom Trakt list for automatic mode.
type UserList struct {
	Limit            int    `toml:"limit"`
	AuthenticateUser string `toml:"authenticate_user"`
}

// NotificationsConfig configures the notification agents.
type NotificationsConfig struct {
	Verbose  bool           `toml:"verbose"`
	Webhook  WebhookConfig  `toml:"webhook"`
	Pushover PushoverConfig `toml:"pushover"`
}

// WebhookConfig configures a Discord-style webhook agent. Empty URL
// disables the agent.
type WebhookConfig struct {
	URL       string `toml:"url"`
	Username  string `toml:"username"`
	AvatarURL string `toml:"avatar_url"`
}

// PushoverConfig configures a Pushover agent. Empty token disables it.
type PushoverConfig struct {
	Token    string `toml:"token"`
	UserKey  string `toml:"user_key"`
	Priority int    `toml:"priority"`
}

// HistoryConfig configures the local add-history store.
type HistoryConfig struct {
	Path string `toml:"path"`
}

var validMinimumAvailability = []string{"announced", "in_cinemas", "released"}

// LoadConfig reads, parses and validates a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded
// example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a starter config file at the specified path using
// the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidInput, path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// validate normalizes derived fields and rejects structurally invalid
// settings. Called once at load; the rest of the program treats the config
// as immutable.
func (c *Config) validate() error {
	if c.Radarr.MinimumAvailability == "" {
		c.Radarr.MinimumAvailability = "released"
	}
	valid := false
	for _, v := range validMinimumAvailability {
		if c.Radarr.MinimumAvailability == v {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: radarr.minimum_availability must be one of %s",
			ErrInvalidConfig, strings.Join(validMinimumAvailability, ", "))
	}

	for _, fs := range []*FilterSet{&c.Filters.Shows, &c.Filters.Movies} {
		if fs.BlacklistedMinYear > 0 && fs.BlacklistedMaxYear > 0 &&
			fs.BlacklistedMinYear > fs.BlacklistedMaxYear {
			return fmt.Errorf("%w: blacklisted_min_year exceeds blacklisted_max_year", ErrInvalidConfig)
		}
	}

	if c.History.Path == "" {
		c.History.Path = "history.db"
	}
	return nil
}

// FiltersFor returns the configured filter set for the given kind.
func (c *Config) FiltersFor(kind string) FilterSet {
	if kind == "movie" || kind == "movies" {
		return c.Filters.Movies
	}
	return c.Filters.Shows
}
