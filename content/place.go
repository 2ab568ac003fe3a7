package content

import "strings"

type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Canton     string `json:"canton,omitempty"`
}

// Formatted renders the address on one line, skipping empty parts.
func (a Address) Formatted() string {
	parts := make([]string, 0, 3)
	if s := strings.TrimSpace(a.Street); s != "" {
		parts = append(parts, s)
	}
	city := strings.TrimSpace(strings.TrimSpace(a.PostalCode) + " " + strings.TrimSpace(a.City))
	if city != "" {
		parts = append(parts, city)
	}
	if c := strings.TrimSpace(a.Canton); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, ", ")
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OpeningHours uses weekday 1 for Sunday, matching the bundled data.
type OpeningHours struct {
	Weekday   int    `json:"weekday"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
	IsClosed  bool   `json:"isClosed,omitempty"`
}

// Place is a point of interest such as an office, clinic or community centre.
type Place struct {
	Meta
	Name         string         `json:"name"`
	Type         string         `json:"type,omitempty"`
	Category     string         `json:"category,omitempty"`
	Description  string         `json:"description,omitempty"`
	Address      Address        `json:"address"`
	Coordinate   Coordinate     `json:"coordinate"`
	Canton       string         `json:"canton,omitempty"`
	PhoneNumber  string         `json:"phoneNumber,omitempty"`
	Email        string         `json:"email,omitempty"`
	Website      string         `json:"website,omitempty"`
	OpeningHours []OpeningHours `json:"openingHours,omitempty"`
	Languages    []string       `json:"languages,omitempty"`
	Services     []string       `json:"services,omitempty"`
	IsAccessible bool           `json:"isAccessible,omitempty"`
	Rating       float64        `json:"rating,omitempty"`
	ReviewCount  int            `json:"reviewCount,omitempty"`
	VerifiedAt   Timestamp      `json:"verifiedAt"`
	Source       string         `json:"source,omitempty"`
}

func (*Place) Kind() Kind { return KindPlace }

func (p *Place) SearchText() SearchText {
	body := strings.TrimSpace(p.Description + "\n" + p.Address.Formatted())
	return SearchText{
		Title:    p.Name,
		Subtitle: p.Type,
		Body:     body,
		Category: p.Category,
		Tags:     append(append([]string(nil), p.Tags...), p.Services...),
	}
}

// SpeaksLanguage reports whether staff at the place speak code.
func (p *Place) SpeaksLanguage(code string) bool {
	for _, lang := range p.Languages {
		if strings.EqualFold(strings.TrimSpace(lang), code) {
			return true
		}
	}
	return false
}

func (p *Place) meta() *Meta      { return &p.Meta }
func (p *Place) titleKey() string { return p.Name }

func (p *Place) finalize() {
	if p.Canton == "" {
		p.Canton = p.Address.Canton
	}
}
