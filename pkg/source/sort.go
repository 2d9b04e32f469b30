package source

import "sort"

// SortPhotos orders photos in place. By taken time, ties and undated photos fall back to the
// filename; undated photos go after dated ones.
func SortPhotos(photos []Photo, sortBy SortBy) {
	sort.SliceStable(photos, func(i, j int) bool {
		return less(photos[i], photos[j], sortBy)
	})
}

func less(a, b Photo, sortBy SortBy) bool {
	if sortBy == SortByTakenTime {
		aDated, bDated := !a.TakenAt.IsZero(), !b.TakenAt.IsZero()
		switch {
		case aDated && !bDated:
			return true
		case !aDated && bDated:
			return false
		case aDated && bDated && !a.TakenAt.Equal(b.TakenAt):
			return a.TakenAt.Before(b.TakenAt)
		}
	}
	return a.Filename < b.Filename
}
