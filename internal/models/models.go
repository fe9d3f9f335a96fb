// package models defines the normalized media record that flows through the
// add pipeline.
package models

import (
	"strconv"
	"strings"
)

// Kind discriminates shows from movies.
type Kind string

const (
	KindShow  Kind = "show"
	KindMovie Kind = "movie"
)

// Singular returns the display noun for the kind ("show" / "movie").
func (k Kind) Singular() string { return string(k) }

// Plural returns the display noun for a collection of this kind.
func (k Kind) Plural() string { return string(k) + "s" }

// IDs holds the stable external identifiers attached to a media record.
//
// TVDB is the primary key Sonarr uses for series, TMDB the one Radarr uses
// for movies. Zero means the catalog did not supply that identifier.
type IDs struct {
	Trakt int    `json:"trakt"`
	TVDB  int    `json:"tvdb"`
	TMDB  int    `json:"tmdb"`
	IMDB  string `json:"imdb"`
	Slug  string `json:"slug"`
}

// Media represents one catalog entry under consideration by the pipeline.
type Media struct {
	Kind     Kind     `json:"kind"`
	Title    string   `json:"title"`
	Year     int      `json:"year"` // 0 when unknown
	IDs      IDs      `json:"ids"`
	Genres   []string `json:"genres"`
	Country  string   `json:"country"`
	Language string   `json:"language"`
	Votes    int      `json:"votes"`
	Rating   float64  `json:"rating"`
	Released string   `json:"released"` // YYYY-MM-DD, empty when unknown
	Runtime  int      `json:"runtime"`  // minutes
}

// YearString renders the year for display, with "????" for unknown.
func (m *Media) YearString() string {
	if m.Year == 0 {
		return "????"
	}
	return strconv.Itoa(m.Year)
}

// PrimaryID returns the identifier the matching inventory target keys on:
// TVDB for shows, TMDB for movies. Zero means the record is unusable and
// the pipeline drops it during reconciliation.
func (m *Media) PrimaryID() int {
	if m.Kind == KindShow {
		return m.IDs.TVDB
	}
	return m.IDs.TMDB
}

// HasGenre reports whether the record carries the given genre,
// case-insensitively.
func (m *Media) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// GenreString renders the genre list for display, with "N/A" when empty.
func (m *Media) GenreString() string {
	if len(m.Genres) == 0 {
		return "N/A"
	}
	return strings.Join(m.Genres, ", ")
}
