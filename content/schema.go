package content

import "github.com/goliatone/go-catalog/internal/validation"

func nullable(kind string) map[string]any {
	return map[string]any{"type": []any{kind, "null"}}
}

func nullableArray(items map[string]any) map[string]any {
	return map[string]any{"type": []any{"array", "null"}, "items": items}
}

var (
	requiredText = map[string]any{"type": "string", "minLength": 1}
	stringList   = nullableArray(map[string]any{"type": "string"})
	objectList   = nullableArray(map[string]any{"type": "object"})
)

// baseProperties lists the shared fields. id and the timestamps stay
// unconstrained: their decoders recover from any shape.
func baseProperties(extra map[string]any) map[string]any {
	props := map[string]any{
		"language": nullable("string"),
		"priority": nullable("integer"),
		"tags":     stringList,
	}
	for key, value := range extra {
		props[key] = value
	}
	return props
}

func recordSchema(titleField string, extra map[string]any) *validation.Schema {
	props := baseProperties(extra)
	props[titleField] = requiredText
	return validation.MustCompile(map[string]any{
		"type":       "object",
		"properties": props,
		"required":   []any{titleField},
	})
}

var recordSchemas = map[Kind]*validation.Schema{
	KindGuide: recordSchema("title", map[string]any{
		"subtitle":             nullable("string"),
		"bodyMarkdown":         nullable("string"),
		"slug":                 nullable("string"),
		"category":             nullable("string"),
		"cantonCodes":          stringList,
		"links":                objectList,
		"isNew":                nullable("boolean"),
		"isPremium":            nullable("boolean"),
		"estimatedReadingTime": nullable("integer"),
		"source":               nullable("string"),
		"heroImage":            nullable("string"),
	}),
	KindChecklist: recordSchema("title", map[string]any{
		"description":       nullable("string"),
		"category":          nullable("string"),
		"estimatedDuration": nullable("string"),
		"difficulty":        nullable("string"),
		"steps":             objectList,
		"cantonCodes":       stringList,
		"isNew":             nullable("boolean"),
		"source":            nullable("string"),
		"heroImage":         nullable("string"),
	}),
	KindTemplate: recordSchema("title", map[string]any{
		"description":    nullable("string"),
		"category":       nullable("string"),
		"templateType":   nullable("string"),
		"content":        nullable("string"),
		"placeholders":   objectList,
		"requiredFields": stringList,
		"cantonCodes":    stringList,
		"isOfficial":     nullable("boolean"),
		"source":         nullable("string"),
		"heroImage":      nullable("string"),
	}),
	KindPlace: recordSchema("name", map[string]any{
		"type":         nullable("string"),
		"category":     nullable("string"),
		"description":  nullable("string"),
		"address":      nullable("object"),
		"coordinate":   nullable("object"),
		"canton":       nullable("string"),
		"phoneNumber":  nullable("string"),
		"email":        nullable("string"),
		"website":      nullable("string"),
		"openingHours": objectList,
		"languages":    stringList,
		"services":     stringList,
		"isAccessible": nullable("boolean"),
		"rating":       nullable("number"),
		"reviewCount":  nullable("integer"),
		"source":       nullable("string"),
	}),
	KindBenefitRule: recordSchema("name", map[string]any{
		"description":        nullable("string"),
		"category":           nullable("string"),
		"canton":             nullable("string"),
		"permitTypes":        stringList,
		"conditions":         objectList,
		"calculationFormula": nullable("object"),
		"maxAmount":          nullable("number"),
		"minAmount":          nullable("number"),
		"currency":           nullable("string"),
		"isActive":           nullable("boolean"),
		"officialSource":     nullable("string"),
		"source":             nullable("string"),
	}),
	KindNews: recordSchema("title", map[string]any{
		"summary":  nullable("string"),
		"content":  nullable("string"),
		"url":      nullable("string"),
		"source":   nullable("string"),
		"imageURL": nullable("string"),
	}),
}
