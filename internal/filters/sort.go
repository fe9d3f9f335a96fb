package filters

import (
	"sort"

	"github.com/ShadyBoukhary/traktarr/internal/models"
)

// SortKey selects the ordering applied to a reconciled list.
type SortKey string

const (
	SortVotes   SortKey = "votes"
	SortRating  SortKey = "rating"
	SortRelease SortKey = "release"
)

// Valid reports whether the key names a supported ordering.
func (k SortKey) Valid() bool {
	return k == SortVotes || k == SortRating || k == SortRelease
}

// Sort returns a copy of the list ordered descending by the given key.
// The sort is stable: ties retain their source order. Unknown keys fall
// back to votes.
func Sort(list []models.Media, key SortKey) []models.Media {
	sorted := make([]models.Media, len(list))
	copy(sorted, list)

	switch key {
	case SortRating:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating > sorted[j].Rating })
	case SortRelease:
		// Released is YYYY-MM-DD so lexicographic comparison orders by date;
		// unknown (empty) dates sink to the end.
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Released > sorted[j].Released })
	default:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Votes > sorted[j].Votes })
	}
	return sorted
}
