// Package filter splits a channel's episodes into the included and excluded
// lists shown to the operator.
//
//	p := filter.Partition(settings.ToFilterSettings(), content.Episodes)
//	fmt.Println(len(p.Included), len(p.Excluded))
//
// An episode is included when any of its facets is enabled in the settings.
// Episodes carrying no recognized facet are always included.
package filter
