package remote

import (
	"strings"

	"github.com/goliatone/go-catalog/content"
)

type guideDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
	Language    *string `json:"language"`
}

type templateDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category *string `json:"category"`
	Content  string  `json:"content"`
}

type checklistDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Items       []string `json:"items"`
}

type newsDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Summary     string  `json:"summary"`
	Content     *string `json:"content"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	Language    string  `json:"language"`
	PublishedAt string  `json:"published_at"`
	ImageURL    *string `json:"image_url"`
}

const (
	defaultGuideCategory       = "documents"
	defaultTemplateCategory    = "government"
	defaultTemplateType        = "letter"
	defaultChecklistCategory   = "integration"
	defaultChecklistDifficulty = "medium"
	defaultReadingMinutes      = 5
)

func deref(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return *value
}

// The backend currently serves Ukrainian guides only; a language field, when
// present, takes precedence.
func (d guideDTO) item() content.Item {
	return content.Normalize(&content.Article{
		Meta: content.Meta{
			ID:           content.ParseID(d.ID),
			LanguageCode: deref(d.Language, content.DefaultLanguage),
		},
		Title:                d.Title,
		Subtitle:             deref(d.Description, ""),
		BodyMarkdown:         deref(d.Content, ""),
		Slug:                 d.Slug,
		Category:             deref(d.Category, defaultGuideCategory),
		EstimatedReadingTime: defaultReadingMinutes,
		HeroImage:            deref(d.ImageURL, ""),
	})
}

func (d templateDTO) item() content.Item {
	return content.Normalize(&content.Template{
		Meta:         content.Meta{ID: content.ParseID(d.ID)},
		Title:        d.Name,
		Category:     deref(d.Category, defaultTemplateCategory),
		TemplateType: defaultTemplateType,
		Content:      d.Content,
	})
}

func (d checklistDTO) item() content.Item {
	steps := make([]content.ChecklistStep, 0, len(d.Items))
	for index, entry := range d.Items {
		steps = append(steps, content.ChecklistStep{
			Title:       entry,
			Description: entry,
			Order:       index,
		})
	}
	return content.Normalize(&content.Checklist{
		Meta:        content.Meta{ID: content.ParseID(d.ID)},
		Title:       d.Title,
		Description: deref(d.Description, ""),
		Category:    defaultChecklistCategory,
		Difficulty:  defaultChecklistDifficulty,
		Steps:       steps,
	})
}

func (d newsDTO) item() content.Item {
	published, _ := content.ParseTimestamp(d.PublishedAt)
	return content.Normalize(&content.NewsItem{
		Meta: content.Meta{
			ID:           content.ParseID(d.ID),
			LanguageCode: d.Language,
		},
		Title:       d.Title,
		Summary:     d.Summary,
		Content:     deref(d.Content, ""),
		URL:         d.URL,
		Source:      d.Source,
		ImageURL:    deref(d.ImageURL, ""),
		PublishedAt: content.NewTimestamp(published),
	})
}
