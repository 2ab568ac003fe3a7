package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNotArray = errors.New("expected a JSON array")

// record is implemented by every concrete item type of this package.
type record interface {
	Item
	meta() *Meta
	titleKey() string
	finalize()
}

// RecordIssue describes one array element that was skipped during decode.
type RecordIssue struct {
	Index   int
	Message string
}

// DecodeReport summarises a tolerant collection decode.
type DecodeReport struct {
	Total   int
	Decoded int
	Skipped []RecordIssue
}

func newRecord(kind Kind) (record, error) {
	switch kind {
	case KindGuide:
		return &Article{}, nil
	case KindChecklist:
		return &Checklist{}, nil
	case KindTemplate:
		return &Template{}, nil
	case KindPlace:
		return &Place{}, nil
	case KindBenefitRule:
		return &BenefitRule{}, nil
	case KindNews:
		return &NewsItem{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// DecodeCollection decodes a JSON array of kind records. Elements that do not
// match the kind's record shape are skipped; only a payload that is not an
// array at all is an error.
func DecodeCollection(kind Kind, payload []byte) (Collection, error) {
	items, _, err := DecodeCollectionReport(kind, payload)
	return items, err
}

// DecodeCollectionReport is DecodeCollection with per-element diagnostics.
func DecodeCollectionReport(kind Kind, payload []byte) (Collection, DecodeReport, error) {
	var report DecodeReport
	schema, ok := recordSchemas[kind]
	if !ok {
		return nil, report, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, report, NewLoadError(CodeDecodeFailed, kind, "", errNotArray)
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, report, NewLoadError(CodeDecodeFailed, kind, "", err)
	}

	report.Total = len(elements)
	items := make(Collection, 0, len(elements))
	for index, raw := range elements {
		if err := schema.ValidateJSON(raw); err != nil {
			report.Skipped = append(report.Skipped, RecordIssue{Index: index, Message: err.Error()})
			continue
		}
		rec, err := newRecord(kind)
		if err != nil {
			return nil, report, err
		}
		if err := json.Unmarshal(raw, rec); err != nil {
			report.Skipped = append(report.Skipped, RecordIssue{Index: index, Message: err.Error()})
			continue
		}
		items = append(items, normalizeRecord(rec))
	}
	report.Decoded = len(items)
	return items, report, nil
}

// Normalize applies the decode-time rules (language, identity, derived
// fields) to an item built outside DecodeCollection, e.g. by a remote mapper.
func Normalize(item Item) Item {
	if rec, ok := item.(record); ok {
		return normalizeRecord(rec)
	}
	return item
}

func normalizeRecord(rec record) record {
	meta := rec.meta()
	meta.normalize()
	rec.finalize()
	if meta.ID.IsZero() {
		meta.ID = SynthesizeID(rec.Kind(), rec.titleKey(), meta.LanguageCode)
	}
	return rec
}

// EncodeCollection serialises items in the array format DecodeCollection reads.
func EncodeCollection(items Collection) ([]byte, error) {
	if items == nil {
		items = Collection{}
	}
	return json.Marshal(items)
}

// Issues formats the skipped elements as one message per line.
func (r DecodeReport) Issues() string {
	lines := make([]string, 0, len(r.Skipped))
	for _, issue := range r.Skipped {
		lines = append(lines, fmt.Sprintf("[%d] %s", issue.Index, issue.Message))
	}
	return strings.Join(lines, "\n")
}
