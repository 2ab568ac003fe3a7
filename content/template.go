package content

import (
	"sort"
	"strings"
)

// Placeholder describes one fillable token of a template. Its ID appears in
// the template content as {{id}}.
type Placeholder struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Description  string   `json:"description,omitempty"`
	Type         string   `json:"type,omitempty"`
	DefaultValue string   `json:"defaultValue,omitempty"`
	Options      []string `json:"options,omitempty"`
	IsRequired   bool     `json:"isRequired,omitempty"`
	Order        int      `json:"order"`
}

// Template is a document or letter template with placeholders.
type Template struct {
	Meta
	Title          string        `json:"title"`
	Description    string        `json:"description,omitempty"`
	Category       string        `json:"category,omitempty"`
	TemplateType   string        `json:"templateType,omitempty"`
	Content        string        `json:"content"`
	Placeholders   []Placeholder `json:"placeholders,omitempty"`
	RequiredFields []string      `json:"requiredFields,omitempty"`
	CantonCodes    []string      `json:"cantonCodes,omitempty"`
	IsOfficial     bool          `json:"isOfficial,omitempty"`
	VerifiedAt     Timestamp     `json:"verifiedAt"`
	Source         string        `json:"source,omitempty"`
	HeroImage      string        `json:"heroImage,omitempty"`
}

func (*Template) Kind() Kind { return KindTemplate }

func (t *Template) SearchText() SearchText {
	return SearchText{
		Title:    t.Title,
		Subtitle: t.Description,
		Body:     t.Content,
		Category: t.Category,
		Tags:     t.Tags,
	}
}

// Fill substitutes every {{placeholder}} token in the template content. A
// value from values wins over the placeholder default. Required placeholders
// (flagged on the placeholder or listed in RequiredFields) that end up empty
// are returned in placeholder order.
func (t *Template) Fill(values map[string]string) (string, []string) {
	required := make(map[string]struct{}, len(t.RequiredFields))
	for _, field := range t.RequiredFields {
		required[strings.TrimSpace(field)] = struct{}{}
	}

	rendered := t.Content
	var missing []string
	for _, placeholder := range t.Placeholders {
		value, ok := values[placeholder.ID]
		if !ok || strings.TrimSpace(value) == "" {
			value = placeholder.DefaultValue
		}
		rendered = strings.ReplaceAll(rendered, "{{"+placeholder.ID+"}}", value)

		_, listed := required[placeholder.ID]
		if (placeholder.IsRequired || listed) && strings.TrimSpace(value) == "" {
			missing = append(missing, placeholder.ID)
		}
	}
	return rendered, missing
}

func (t *Template) AppliesToCanton(canton string) bool {
	return appliesToCanton(t.CantonCodes, canton)
}

func (t *Template) meta() *Meta      { return &t.Meta }
func (t *Template) titleKey() string { return t.Title }

func (t *Template) finalize() {
	sort.SliceStable(t.Placeholders, func(i, j int) bool {
		return t.Placeholders[i].Order < t.Placeholders[j].Order
	})
}
