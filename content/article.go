package content

import "strings"

// Link is an external reference attached to guides and checklist steps.
type Link struct {
	ID          ID     `json:"id,omitempty"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Article is a guide: long-form markdown content for a category.
type Article struct {
	Meta
	Title                string    `json:"title"`
	Subtitle             string    `json:"subtitle,omitempty"`
	BodyMarkdown         string    `json:"bodyMarkdown"`
	Slug                 string    `json:"slug,omitempty"`
	Category             string    `json:"category,omitempty"`
	CantonCodes          []string  `json:"cantonCodes,omitempty"`
	Links                []Link    `json:"links,omitempty"`
	IsNew                bool      `json:"isNew,omitempty"`
	IsPremium            bool      `json:"isPremium,omitempty"`
	EstimatedReadingTime int       `json:"estimatedReadingTime,omitempty"`
	VerifiedAt           Timestamp `json:"verifiedAt"`
	Source               string    `json:"source,omitempty"`
	HeroImage            string    `json:"heroImage,omitempty"`
}

func (*Article) Kind() Kind { return KindGuide }

func (a *Article) SearchText() SearchText {
	return SearchText{
		Title:    a.Title,
		Subtitle: a.Subtitle,
		Body:     a.BodyMarkdown,
		Category: a.Category,
		Tags:     a.Tags,
	}
}

// AppliesToCanton reports whether the guide targets canton. An empty canton
// list means the guide applies everywhere.
func (a *Article) AppliesToCanton(canton string) bool {
	return appliesToCanton(a.CantonCodes, canton)
}

func (a *Article) meta() *Meta      { return &a.Meta }
func (a *Article) titleKey() string { return a.Title }

func (a *Article) finalize() {
	if strings.TrimSpace(a.Slug) == "" {
		a.Slug = Slugify(a.Title)
	}
}

func appliesToCanton(codes []string, canton string) bool {
	if len(codes) == 0 {
		return true
	}
	canton = strings.TrimSpace(canton)
	for _, code := range codes {
		if strings.EqualFold(strings.TrimSpace(code), canton) {
			return true
		}
	}
	return false
}
