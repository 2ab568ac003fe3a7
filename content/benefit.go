package content

import "strings"

// BenefitCondition is an eligibility predicate. Evaluation happens outside the
// catalog; the record only carries the data.
type BenefitCondition struct {
	ID          ID      `json:"id,omitempty"`
	Type        string  `json:"type"`
	Operator    string  `json:"operator"`
	Value       float64 `json:"value"`
	Description string  `json:"description,omitempty"`
}

// CalculationFormula describes how a benefit amount is derived.
type CalculationFormula struct {
	Type            string             `json:"type"`
	BaseAmount      *float64           `json:"baseAmount,omitempty"`
	Percentage      *float64           `json:"percentage,omitempty"`
	PerPersonAmount *float64           `json:"perPersonAmount,omitempty"`
	ChildBonus      *float64           `json:"childBonus,omitempty"`
	Parameters      map[string]float64 `json:"parameters,omitempty"`
}

// BenefitRule is a published support programme for a canton.
type BenefitRule struct {
	Meta
	Name               string             `json:"name"`
	Description        string             `json:"description,omitempty"`
	Category           string             `json:"category,omitempty"`
	Canton             string             `json:"canton,omitempty"`
	PermitTypes        []string           `json:"permitTypes,omitempty"`
	Conditions         []BenefitCondition `json:"conditions,omitempty"`
	CalculationFormula CalculationFormula `json:"calculationFormula"`
	MaxAmount          *float64           `json:"maxAmount,omitempty"`
	MinAmount          *float64           `json:"minAmount,omitempty"`
	Currency           string             `json:"currency,omitempty"`
	ValidFrom          Timestamp          `json:"validFrom"`
	ValidUntil         Timestamp          `json:"validUntil"`
	IsActive           bool               `json:"isActive"`
	OfficialSource     string             `json:"officialSource,omitempty"`
	VerifiedAt         Timestamp          `json:"verifiedAt"`
	Source             string             `json:"source,omitempty"`
}

func (*BenefitRule) Kind() Kind { return KindBenefitRule }

func (b *BenefitRule) SearchText() SearchText {
	descriptions := make([]string, 0, len(b.Conditions)+1)
	descriptions = append(descriptions, b.Description)
	for _, condition := range b.Conditions {
		descriptions = append(descriptions, condition.Description)
	}
	return SearchText{
		Title:    b.Name,
		Subtitle: b.CalculationFormula.Type,
		Body:     strings.Join(descriptions, "\n"),
		Category: b.Category,
		Tags:     append(append([]string(nil), b.Tags...), b.PermitTypes...),
	}
}

// CoversPermit reports whether the rule lists permit. An empty permit list
// means any permit.
func (b *BenefitRule) CoversPermit(permit string) bool {
	if len(b.PermitTypes) == 0 {
		return true
	}
	for _, candidate := range b.PermitTypes {
		if strings.EqualFold(strings.TrimSpace(candidate), strings.TrimSpace(permit)) {
			return true
		}
	}
	return false
}

func (b *BenefitRule) meta() *Meta      { return &b.Meta }
func (b *BenefitRule) titleKey() string { return b.Name }

func (b *BenefitRule) finalize() {
	if strings.TrimSpace(b.Currency) == "" {
		b.Currency = "CHF"
	}
	if b.Source == "" {
		b.Source = b.OfficialSource
	}
}
