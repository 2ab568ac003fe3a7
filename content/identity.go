package content

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/internal/identity"
)

// ID identifies a record within its collection. UUIDs are stored in canonical
// lowercase form; other source identifiers are kept verbatim (trimmed).
type ID string

func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

// ParseID canonicalises a textual identifier.
func ParseID(value string) ID {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if parsed, err := uuid.Parse(trimmed); err == nil {
		return ID(parsed.String())
	}
	return ID(trimmed)
}

// UnmarshalJSON never fails: a value that is neither a string nor a structured
// id leaves the ID empty so the decoder can synthesize one from the record.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ""
	if parsed, ok := IDFromString(data); ok {
		*id = parsed
		return nil
	}
	if parsed, ok := IDFromStructured(data); ok {
		*id = parsed
	}
	return nil
}

// IDFromString is the first decode step: a JSON string holding a UUID or any
// other non-empty identifier.
func IDFromString(raw []byte) (ID, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	parsed := ParseID(value)
	return parsed, !parsed.IsZero()
}

var structuredIDKeys = []string{"uuid", "id", "value", "$oid"}

// IDFromStructured is the second decode step: a JSON number, or an object
// wrapping the identifier under one of the uuid/id/value/$oid keys.
func IDFromStructured(raw []byte) (ID, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return "", false
		}
		for _, key := range structuredIDKeys {
			nested, ok := fields[key]
			if !ok {
				continue
			}
			if parsed, ok := IDFromString(nested); ok {
				return parsed, true
			}
			if parsed, ok := numericID(nested); ok {
				return parsed, true
			}
		}
		return "", false
	default:
		return numericID(raw)
	}
}

func numericID(raw []byte) (ID, bool) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var number json.Number
	if err := decoder.Decode(&number); err != nil {
		return "", false
	}
	if number.String() == "" {
		return "", false
	}
	return ID(number.String()), true
}

// SynthesizeID is the last decode step. The identifier is derived from kind,
// slugged title and language so the same record keeps its id across reloads;
// a random UUID is used only when the record has no title at all.
func SynthesizeID(kind Kind, title, language string) ID {
	key := Slugify(title)
	if generated := identity.ItemUUID(string(kind), key, language); generated != uuid.Nil {
		return ID(generated.String())
	}
	return ID(uuid.NewString())
}
