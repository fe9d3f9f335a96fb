package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses and validates", func(t *testing.T) {
		path := writeConfig(t, `
[trakt]
client_id = "id"
client_secret = "secret"

[sonarr]
url = "http://localhost:8989"
api_key = "key"
quality = "HD-1080p"

[filters.shows]
blacklisted_genres = ["reality"]
blacklisted_min_year = 2000
blacklisted_max_year = 2019

[automatic.shows]
anticipated = 10
[automatic.shows.intervals]
public_lists = 48.0
`)
		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if config.Trakt.ClientID != "id" || config.Sonarr.Quality != "HD-1080p" {
			t.Errorf("config = %+v, want parsed values", config)
		}
		if config.Filters.Shows.BlacklistedMaxYear != 2019 {
			t.Errorf("BlacklistedMaxYear = %d, want 2019", config.Filters.Shows.BlacklistedMaxYear)
		}
		if config.Automatic.Shows.Intervals.PublicLists != 48.0 {
			t.Errorf("PublicLists interval = %v, want 48", config.Automatic.Shows.Intervals.PublicLists)
		}
		// defaults applied during validation
		if config.Radarr.MinimumAvailability != "released" {
			t.Errorf("MinimumAvailability = %q, want released default", config.Radarr.MinimumAvailability)
		}
		if config.History.Path != "history.db" {
			t.Errorf("History.Path = %q, want history.db default", config.History.Path)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.toml")
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("LoadConfig() error = %v, want ErrMissingConfig", err)
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := writeConfig(t, "not [valid")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("LoadConfig() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("invalid minimum availability", func(t *testing.T) {
		path := writeConfig(t, "[radarr]\nminimum_availability = \"someday\"\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("LoadConfig() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("inverted year window", func(t *testing.T) {
		path := writeConfig(t, "[filters.movies]\nblacklisted_min_year = 2019\nblacklisted_max_year = 2000\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("LoadConfig() error = %v, want ErrInvalidConfig", err)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.Sonarr.URL == "" || config.Radarr.URL == "" {
		t.Error("DefaultConfig() missing server defaults")
	}
	if config.Automatic.Shows.Intervals.PublicLists <= 0 {
		t.Error("DefaultConfig() missing automatic interval defaults")
	}
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile() error = %v", err)
	}

	// the starter file must itself load
	if _, err := LoadConfig(path); err != nil {
		t.Errorf("starter config does not load: %v", err)
	}

	if err := CreateConfigFile(path); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateConfigFile() over existing file error = %v, want ErrInvalidInput", err)
	}
}

func TestFiltersFor(t *testing.T) {
	config := &Config{}
	config.Filters.Shows.BlacklistedMinYear = 2000
	config.Filters.Movies.BlacklistedMinYear = 1990

	if got := config.FiltersFor("show"); got.BlacklistedMinYear != 2000 {
		t.Errorf("FiltersFor(show) min year = %d, want 2000", got.BlacklistedMinYear)
	}
	if got := config.FiltersFor("movies"); got.BlacklistedMinYear != 1990 {
		t.Errorf("FiltersFor(movies) min year = %d, want 1990", got.BlacklistedMinYear)
	}
}
