// Package merge combines collections gathered from several sources.
package merge

import "github.com/goliatone/go-catalog/content"

// Stats reports what a merge kept and dropped.
type Stats struct {
	Kept       int
	Duplicates int
	MissingID  int
}

// Collections concatenates sources in order, keeping only the first item seen
// for each id. Items without an id are dropped. The inputs are not modified.
func Collections(sources ...content.Collection) content.Collection {
	merged, _ := CollectionsWithStats(sources...)
	return merged
}

// CollectionsWithStats is Collections plus counters.
func CollectionsWithStats(sources ...content.Collection) (content.Collection, Stats) {
	var stats Stats
	total := 0
	for _, source := range sources {
		total += len(source)
	}
	seen := make(map[content.ID]struct{}, total)
	merged := make(content.Collection, 0, total)
	for _, source := range sources {
		for _, item := range source {
			if item == nil {
				continue
			}
			id := item.Metadata().ID
			if id.IsZero() {
				stats.MissingID++
				continue
			}
			if _, ok := seen[id]; ok {
				stats.Duplicates++
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, item)
		}
	}
	stats.Kept = len(merged)
	return merged, stats
}
