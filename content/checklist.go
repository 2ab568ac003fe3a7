package content

import (
	"sort"
	"strings"
)

// ChecklistStep is one ordered action inside a checklist.
type ChecklistStep struct {
	ID                ID       `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description,omitempty"`
	EstimatedTime     string   `json:"estimatedTime,omitempty"`
	IsOptional        bool     `json:"isOptional,omitempty"`
	Links             []Link   `json:"links,omitempty"`
	RequiredDocuments []string `json:"requiredDocuments,omitempty"`
	Tips              []string `json:"tips,omitempty"`
	Order             int      `json:"order"`
}

// Checklist groups ordered steps for a task such as registering a permit.
type Checklist struct {
	Meta
	Title             string          `json:"title"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category,omitempty"`
	EstimatedDuration string          `json:"estimatedDuration,omitempty"`
	Difficulty        string          `json:"difficulty,omitempty"`
	Steps             []ChecklistStep `json:"steps,omitempty"`
	CantonCodes       []string        `json:"cantonCodes,omitempty"`
	IsNew             bool            `json:"isNew,omitempty"`
	VerifiedAt        Timestamp       `json:"verifiedAt"`
	Source            string          `json:"source,omitempty"`
	HeroImage         string          `json:"heroImage,omitempty"`
}

func (*Checklist) Kind() Kind { return KindChecklist }

func (c *Checklist) SearchText() SearchText {
	parts := make([]string, 0, len(c.Steps)*2)
	for _, step := range c.Steps {
		parts = append(parts, step.Title, step.Description)
	}
	return SearchText{
		Title:    c.Title,
		Subtitle: c.Description,
		Body:     strings.Join(parts, "\n"),
		Category: c.Category,
		Tags:     c.Tags,
	}
}

// RequiredSteps returns the non-optional steps in order.
func (c *Checklist) RequiredSteps() []ChecklistStep {
	out := make([]ChecklistStep, 0, len(c.Steps))
	for _, step := range c.Steps {
		if !step.IsOptional {
			out = append(out, step)
		}
	}
	return out
}

func (c *Checklist) AppliesToCanton(canton string) bool {
	return appliesToCanton(c.CantonCodes, canton)
}

func (c *Checklist) meta() *Meta      { return &c.Meta }
func (c *Checklist) titleKey() string { return c.Title }

func (c *Checklist) finalize() {
	sort.SliceStable(c.Steps, func(i, j int) bool { return c.Steps[i].Order < c.Steps[j].Order })
	for i := range c.Steps {
		if c.Steps[i].ID.IsZero() {
			c.Steps[i].ID = SynthesizeID(KindChecklist, c.Title+" "+c.Steps[i].Title, c.LanguageCode)
		}
	}
}
