// Package search ranks catalog items against a free-text query.
package search

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-catalog/content"
)

// Field weights of the relevance score.
const (
	TitleWeight    = 10
	SubtitleWeight = 5
	TagWeight      = 3
	BodyWeight     = 1
	CategoryWeight = 2

	scoreScale     = 10
	priorityWeight = 2
	recencyCeiling = 5
)

// Options tune a ranking pass.
type Options struct {
	// Now anchors the recency bonus; zero means time.Now.
	Now time.Time
	// MatchesOnly drops items whose text does not match the query.
	MatchesOnly bool
}

// Result pairs an item with its final score.
type Result struct {
	Item  content.Item
	Score float64
}

// Score computes the text relevance of item for query (already lowercased).
func Score(item content.Item, query string) int {
	if query == "" {
		return 0
	}
	text := item.SearchText()
	score := 0
	if contains(text.Title, query) {
		score += TitleWeight
	}
	if contains(text.Subtitle, query) {
		score += SubtitleWeight
	}
	seen := make(map[string]struct{}, len(text.Tags))
	for _, tag := range text.Tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if strings.Contains(key, query) {
			score += TagWeight
		}
	}
	if contains(text.Body, query) {
		score += BodyWeight
	}
	if contains(text.Category, query) {
		score += CategoryWeight
	}
	return score
}

// RecencyBonus is max(0, 5 - ln(max(1, days since update))).
func RecencyBonus(updated, now time.Time) float64 {
	if updated.IsZero() {
		return 0
	}
	days := now.Sub(updated).Hours() / 24
	if days < 1 {
		days = 1
	}
	return math.Max(0, recencyCeiling-math.Log(days))
}

// Rank scores every item and sorts by final score descending. Items with equal
// scores keep their input order.
func Rank(items content.Collection, query string, opts Options) []Result {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	query = strings.ToLower(strings.TrimSpace(query))

	results := make([]Result, 0, len(items))
	for _, item := range items {
		relevance := Score(item, query)
		if opts.MatchesOnly && relevance == 0 {
			continue
		}
		meta := item.Metadata()
		final := float64(relevance*scoreScale) +
			float64(meta.Priority*priorityWeight) +
			RecencyBonus(meta.LastUpdated.Time, now)
		results = append(results, Result{Item: item, Score: final})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Browse orders items for an empty query: priority desc, then most recently
// updated first.
func Browse(items content.Collection) content.Collection {
	out := items.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		left, right := out[i].Metadata(), out[j].Metadata()
		if left.Priority != right.Priority {
			return left.Priority > right.Priority
		}
		return left.LastUpdated.After(right.LastUpdated.Time)
	})
	return out
}

// Search ranks items for query, or browses them when query is blank.
func Search(items content.Collection, query string, opts Options) content.Collection {
	if strings.TrimSpace(query) == "" {
		return Browse(items)
	}
	ranked := Rank(items, query, opts)
	out := make(content.Collection, 0, len(ranked))
	for _, result := range ranked {
		out = append(out, result.Item)
	}
	return out
}

func contains(value, query string) bool {
	return value != "" && strings.Contains(strings.ToLower(value), query)
}
