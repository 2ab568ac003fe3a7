package content

import "time"

// NewsItem is a short dated article pulled from a news feed.
type NewsItem struct {
	Meta
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source,omitempty"`
	ImageURL    string    `json:"imageURL,omitempty"`
	PublishedAt Timestamp `json:"publishedAt"`
}

func (*NewsItem) Kind() Kind { return KindNews }

func (n *NewsItem) SearchText() SearchText {
	return SearchText{
		Title:    n.Title,
		Subtitle: n.Summary,
		Body:     n.Content,
		Category: n.Source,
		Tags:     n.Tags,
	}
}

// Published returns the publication time, falling back to the last update.
func (n *NewsItem) Published() time.Time {
	if !n.PublishedAt.IsZero() {
		return n.PublishedAt.Time
	}
	return n.LastUpdated.Time
}

func (n *NewsItem) meta() *Meta      { return &n.Meta }
func (n *NewsItem) titleKey() string { return n.Title }

func (n *NewsItem) finalize() {
	if n.LastUpdated.IsZero() {
		n.LastUpdated = n.PublishedAt
	}
}
