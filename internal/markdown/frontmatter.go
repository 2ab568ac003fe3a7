// Package markdown turns Markdown-authored guides into catalog articles and
// renders guide bodies to HTML.
package markdown

import (
	"bufio"
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-catalog/content"
)

type articleFrontMatter struct {
	ID                   string   `yaml:"id"`
	Title                string   `yaml:"title"`
	Subtitle             string   `yaml:"subtitle"`
	Slug                 string   `yaml:"slug"`
	Category             string   `yaml:"category"`
	Language             string   `yaml:"language"`
	Priority             int      `yaml:"priority"`
	Tags                 []string `yaml:"tags"`
	CantonCodes          []string `yaml:"cantonCodes"`
	IsNew                bool     `yaml:"isNew"`
	IsPremium            bool     `yaml:"isPremium"`
	EstimatedReadingTime int      `yaml:"estimatedReadingTime"`
	Source               string   `yaml:"source"`
	HeroImage            string   `yaml:"heroImage"`
	LastUpdated          string   `yaml:"lastUpdated"`
	CreatedAt            string   `yaml:"createdAt"`
	VerifiedAt           string   `yaml:"verifiedAt"`
}

// ParseArticle reads a guide written as Markdown with YAML front matter. The
// title falls back to the first level-one heading, then to the file name; the
// language falls back to a name.<lang>.md suffix.
func ParseArticle(name string, source []byte) (*content.Article, error) {
	var meta articleFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("markdown: parse front matter %s: %w", name, err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = firstHeading(body)
	}
	base, language := splitName(name)
	if title == "" {
		title = base
	}
	if lang := strings.TrimSpace(meta.Language); lang != "" {
		language = lang
	}

	article := &content.Article{
		Meta: content.Meta{
			ID:           content.ParseID(meta.ID),
			LanguageCode: language,
			Priority:     meta.Priority,
			Tags:         meta.Tags,
			LastUpdated:  timestamp(meta.LastUpdated),
			CreatedAt:    timestamp(meta.CreatedAt),
		},
		Title:                title,
		Subtitle:             meta.Subtitle,
		BodyMarkdown:         strings.TrimSpace(string(body)),
		Slug:                 meta.Slug,
		Category:             meta.Category,
		CantonCodes:          meta.CantonCodes,
		IsNew:                meta.IsNew,
		IsPremium:            meta.IsPremium,
		EstimatedReadingTime: meta.EstimatedReadingTime,
		VerifiedAt:           timestamp(meta.VerifiedAt),
		Source:               meta.Source,
		HeroImage:            meta.HeroImage,
	}
	if article.EstimatedReadingTime == 0 {
		article.EstimatedReadingTime = readingMinutes(article.BodyMarkdown)
	}
	return content.Normalize(article).(*content.Article), nil
}

func timestamp(value string) content.Timestamp {
	parsed, _ := content.ParseTimestamp(value)
	return content.NewTimestamp(parsed)
}

func firstHeading(body []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// splitName maps "guides/permit-s.en.md" to ("permit-s", "en").
func splitName(name string) (string, string) {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if idx := strings.LastIndex(base, "."); idx > 0 {
		lang := base[idx+1:]
		if len(lang) >= 2 && len(lang) <= 3 {
			return base[:idx], strings.ToLower(lang)
		}
	}
	return base, ""
}

// readingMinutes estimates reading time at 200 words per minute.
func readingMinutes(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}
	return (words + 199) / 200
}
