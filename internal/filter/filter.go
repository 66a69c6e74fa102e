package filter

import "github.com/handiism/nebula-downloader/internal/model"

// Result is the included/excluded split of one episode collection.
//
// Both slices keep the source order and together hold every source episode
// exactly once.
type Result struct {
	Included []*model.Episode
	Excluded []*model.Episode
}

// Len returns the number of episodes across both sides.
func (r Result) Len() int {
	return len(r.Included) + len(r.Excluded)
}

// Partition applies the facet toggles in settings to episodes.
//
// The input slice is not modified.
func Partition(settings model.FilterSettings, episodes []*model.Episode) Result {
	res := Result{
		Included: make([]*model.Episode, 0, len(episodes)),
		Excluded: make([]*model.Episode, 0),
	}

	for _, ep := range episodes {
		if Includes(settings, ep.Facets) {
			res.Included = append(res.Included, ep)
		} else {
			res.Excluded = append(res.Excluded, ep)
		}
	}

	return res
}

// Includes reports whether an episode with the given facets passes the filter.
func Includes(settings model.FilterSettings, f model.Facets) bool {
	if f.None() {
		return true
	}
	return (f.First && settings.IncludeFirst) ||
		(f.Plus && settings.IncludePlus) ||
		(f.Original && settings.IncludeOriginals) ||
		(f.Regular && settings.IncludeRegular)
}
