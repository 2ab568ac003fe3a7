package search

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-catalog/content"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func guide(id, title, body string, priority int, updated time.Time, tags ...string) *content.Article {
	return &content.Article{
		Meta: content.Meta{
			ID:          content.ID(id),
			Priority:    priority,
			Tags:        tags,
			LastUpdated: content.NewTimestamp(updated),
		},
		Title:        title,
		BodyMarkdown: body,
	}
}

func TestScoreWeights(t *testing.T) {
	item := &content.Article{
		Title:        "Permit S renewal",
		Subtitle:     "How to renew permit S",
		BodyMarkdown: "Visit the permit office",
		Category:     "permits",
		Meta:         content.Meta{Tags: []string{"Permit", "permit", "housing", "permit-s"}},
	}
	if got := Score(item, "permit"); got != 10+5+3*2+1+2 {
		t.Fatalf("expected 24, got %d", got)
	}
	if got := Score(item, "visa"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestRecencyBonus(t *testing.T) {
	if got := RecencyBonus(now, now); got != 5 {
		t.Fatalf("expected full bonus for fresh item, got %v", got)
	}
	tenDays := RecencyBonus(now.AddDate(0, 0, -10), now)
	if math.Abs(tenDays-(5-math.Log(10))) > 1e-9 {
		t.Fatalf("unexpected bonus %v", tenDays)
	}
	if got := RecencyBonus(now.AddDate(-1, 0, 0), now); got != 0 {
		t.Fatalf("expected no bonus after a year, got %v", got)
	}
	if got := RecencyBonus(time.Time{}, now); got != 0 {
		t.Fatalf("expected no bonus for unknown date, got %v", got)
	}
}

func TestRankOrdersByFinalScore(t *testing.T) {
	old := now.AddDate(-2, 0, 0)
	items := content.Of(
		guide("body", "Other", "insurance basics", 0, old),
		guide("title", "Health insurance", "", 0, old),
		guide("none", "Unrelated", "", 4, old),
	)
	results := Rank(items, "Insurance", Options{Now: now})
	got := []content.ID{}
	for _, result := range results {
		got = append(got, result.Item.Metadata().ID)
	}
	if diff := cmp.Diff([]content.ID{"title", "body", "none"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if results[0].Score != 100 || results[1].Score != 10 || results[2].Score != 8 {
		t.Fatalf("unexpected scores %+v", results)
	}
}

func TestRankMatchesOnly(t *testing.T) {
	items := content.Of(guide("a", "Housing", "", 0, now), guide("b", "Work", "", 9, now))
	results := Rank(items, "housing", Options{Now: now, MatchesOnly: true})
	if len(results) != 1 || results[0].Item.Metadata().ID != "a" {
		t.Fatalf("expected only matching item, got %+v", results)
	}
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	items := content.Of(guide("a", "Bank", "", 1, now), guide("b", "Bank", "", 1, now))
	results := Rank(items, "bank", Options{Now: now})
	if results[0].Item.Metadata().ID != "a" {
		t.Fatalf("expected stable order, got %v", results[0].Item.Metadata().ID)
	}
}

func TestSearchBrowsesOnEmptyQuery(t *testing.T) {
	items := content.Of(
		guide("old", "A", "", 1, now.AddDate(0, -1, 0)),
		guide("new", "B", "", 1, now),
		guide("top", "C", "", 7, now.AddDate(-1, 0, 0)),
	)
	got := Search(items, "   ", Options{Now: now})
	if diff := cmp.Diff([]content.ID{"top", "new", "old"}, got.IDs()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]content.ID{"old", "new", "top"}, items.IDs()); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}
