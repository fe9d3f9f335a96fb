// package filters implements the blacklist engine, reconciliation and
// sorting primitives used by the add pipeline.
//
// All string comparisons (genres, countries, languages, keywords) are
// case-insensitive. The sentinel value "ignore" disables the rule it
// appears in.
package filters

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ShadyBoukhary/traktarr/internal/models"
	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

// Ignore is the sentinel recognised in genre, country and language lists.
const Ignore = "ignore"

// IsBlacklisted evaluates the blacklist criteria for one media record.
//
// Rules are evaluated in a fixed order and the first match wins. The second
// return value names the matched rule for logging; it is empty when the item
// passes. When ignoreBlacklist is true every item passes unconditionally.
func IsBlacklisted(item *models.Media, fs shared.FilterSet, ignoreBlacklist bool) (bool, string) {
	if ignoreBlacklist {
		return false, ""
	}

	for _, id := range fs.BlacklistedIDs {
		if id != 0 && (id == item.IDs.TVDB || id == item.IDs.TMDB || id == item.IDs.Trakt) {
			return true, fmt.Sprintf("blacklisted id %d", id)
		}
	}

	lowerTitle := strings.ToLower(item.Title)
	for _, keyword := range fs.BlacklistedTitleKeywords {
		if keyword != "" && strings.Contains(lowerTitle, strings.ToLower(keyword)) {
			return true, fmt.Sprintf("blacklisted title keyword %q", keyword)
		}
	}

	if blacklisted, reason := blacklistedGenre(item, fs.BlacklistedGenres); blacklisted {
		return true, reason
	}

	// Year window applies only when both bounds are configured; unknown
	// years are never rejected here.
	if item.Year != 0 && fs.BlacklistedMinYear > 0 && fs.BlacklistedMaxYear > 0 {
		if item.Year < fs.BlacklistedMinYear || item.Year > fs.BlacklistedMaxYear {
			return true, fmt.Sprintf("year %d outside %d-%d", item.Year, fs.BlacklistedMinYear, fs.BlacklistedMaxYear)
		}
	}

	if item.Kind == models.KindMovie && item.Runtime != 0 {
		if fs.BlacklistedMinRuntime > 0 && item.Runtime < fs.BlacklistedMinRuntime {
			return true, fmt.Sprintf("runtime %dm below %dm", item.Runtime, fs.BlacklistedMinRuntime)
		}
		if fs.BlacklistedMaxRuntime > 0 && item.Runtime > fs.BlacklistedMaxRuntime {
			return true, fmt.Sprintf("runtime %dm above %dm", item.Runtime, fs.BlacklistedMaxRuntime)
		}
	}

	if restricted(fs.AllowedCountries) && !containsFold(fs.AllowedCountries, item.Country) {
		return true, fmt.Sprintf("country %q not allowed", item.Country)
	}

	if restricted(fs.AllowedLanguages) && !containsFold(fs.AllowedLanguages, item.Language) {
		return true, fmt.Sprintf("language %q not allowed", item.Language)
	}

	return false, ""
}

// blacklistedGenre applies the genre rule: the "ignore" sentinel disables it
// entirely, an item with no genres at all is rejected while the rule is
// active, and otherwise any overlap with the blacklist rejects the item.
func blacklistedGenre(item *models.Media, blacklist []string) (bool, string) {
	if containsFold(blacklist, Ignore) {
		return false, ""
	}
	if len(item.Genres) == 0 && len(blacklist) > 0 {
		return true, "no genres"
	}
	for _, genre := range blacklist {
		if item.HasGenre(genre) {
			return true, fmt.Sprintf("blacklisted genre %q", genre)
		}
	}
	return false, ""
}

// MatchesGenres reports whether the item carries at least one of the
// requested genres. An empty request matches everything.
func MatchesGenres(item *models.Media, genres []string) bool {
	if len(genres) == 0 {
		return true
	}
	for _, genre := range genres {
		if item.HasGenre(genre) {
			return true
		}
	}
	return false
}

// restricted reports whether an allow-list is active: non-empty and not
// disabled with the "ignore" sentinel.
func restricted(allowed []string) bool {
	return len(allowed) > 0 && !containsFold(allowed, Ignore)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// ParseYears resolves the --years argument against the configured year
// window. It accepts a single year ("2005") or a range ("2000-2010") and
// falls back to the configured bounds when empty. It returns the Trakt
// search range (empty when unbounded) and the effective min/max applied to
// the blacklist for this run.
func ParseYears(arg string, cfgMin, cfgMax int) (string, int, int, error) {
	minYear, maxYear := cfgMin, cfgMax

	switch {
	case arg == "":
		// keep configured bounds
	case strings.Contains(arg, "-"):
		parts := strings.SplitN(arg, "-", 2)
		lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return "", 0, 0, fmt.Errorf("%w: invalid year range %q", shared.ErrInvalidArgument, arg)
		}
		hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return "", 0, 0, fmt.Errorf("%w: invalid year range %q", shared.ErrInvalidArgument, arg)
		}
		if lo > hi {
			return "", 0, 0, fmt.Errorf("%w: year range %q is inverted", shared.ErrInvalidArgument, arg)
		}
		minYear, maxYear = lo, hi
	default:
		year, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return "", 0, 0, fmt.Errorf("%w: invalid year %q", shared.ErrInvalidArgument, arg)
		}
		minYear, maxYear = year, year
	}

	var search string
	if minYear > 0 && maxYear > 0 {
		if minYear == maxYear {
			search = strconv.Itoa(minYear)
		} else {
			search = fmt.Sprintf("%d-%d", minYear, maxYear)
		}
	}
	return search, minYear, maxYear, nil
}

// RuntimeRange builds the Trakt runtimes search parameter from the
// configured runtime window. Empty when the window is unbounded.
func RuntimeRange(minRuntime, maxRuntime int) string {
	if minRuntime <= 0 {
		minRuntime = 0
	}
	if maxRuntime < minRuntime {
		maxRuntime = 0
	}
	if maxRuntime <= 0 {
		maxRuntime = 9999
	}
	if minRuntime == 0 && maxRuntime == 9999 {
		return ""
	}
	return fmt.Sprintf("%d-%d", minRuntime, maxRuntime)
}
