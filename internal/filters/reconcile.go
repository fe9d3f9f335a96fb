package filters

import "github.com/ShadyBoukhary/traktarr/internal/models"

// FilterExistingShows returns the source list with every show already
// present in the inventory removed, keyed on TVDB id. Shows without a TVDB
// id are unusable and dropped without invoking the callback. The removed
// callback, when non-nil, fires for each show dropped because it already
// exists.
//
// The result is always non-nil; an empty slice means everything was
// reconciled away.
func FilterExistingShows(list []models.Media, existing map[int]struct{}, removed func(models.Media)) []models.Media {
	kept := make([]models.Media, 0, len(list))
	for _, item := range list {
		id := item.PrimaryID()
		if id == 0 {
			continue
		}
		if _, ok := existing[id]; ok {
			if removed != nil {
				removed(item)
			}
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// FilterExistingAndExcludedMovies returns the source list with every movie
// already present in the inventory or on its exclusion list removed, keyed
// on TMDB id. Movies without a TMDB id are dropped without invoking the
// callback.
func FilterExistingAndExcludedMovies(list []models.Media, existing, excluded map[int]struct{}, removed func(models.Media)) []models.Media {
	kept := make([]models.Media, 0, len(list))
	for _, item := range list {
		id := item.PrimaryID()
		if id == 0 {
			continue
		}
		_, exists := existing[id]
		if !exists {
			_, exists = excluded[id]
		}
		if exists {
			if removed != nil {
				removed(item)
			}
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
