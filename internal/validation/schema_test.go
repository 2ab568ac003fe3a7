package validation

import (
	"errors"
	"strings"
	"testing"
)

var recordSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":    map[string]any{"type": "string"},
		"priority": map[string]any{"type": "integer"},
	},
	"required": []any{"title"},
}

func TestCompileRejectsEmptySchema(t *testing.T) {
	if _, err := Compile(nil); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestSchemaValidateJSONAcceptsValidRecord(t *testing.T) {
	schema := MustCompile(recordSchema)
	if err := schema.ValidateJSON([]byte(`{"title":"Visa","priority":3}`)); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}
}

func TestSchemaValidateJSONCollectsIssues(t *testing.T) {
	schema := MustCompile(recordSchema)
	err := schema.ValidateJSON([]byte(`{"priority":"high"}`))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) < 2 {
		t.Fatalf("expected issues for required and type, got %+v", issues)
	}
	found := false
	for _, issue := range issues {
		if strings.Contains(issue.Location, "priority") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an issue located at priority, got %+v", issues)
	}
}

func TestSchemaValidateJSONReportsSyntaxErrors(t *testing.T) {
	schema := MustCompile(recordSchema)
	err := schema.ValidateJSON([]byte(`{"title":`))
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if len(Issues(err)) != 1 {
		t.Fatalf("expected single syntax issue, got %+v", Issues(err))
	}
}

func TestPayloadValidationErrorFormatsLocations(t *testing.T) {
	err := &PayloadValidationError{Issues: []ValidationIssue{
		{Location: "/title", Message: "missing"},
		{Location: "", Message: "bad"},
	}}
	if got := err.Error(); got != "#/title: missing; #: bad" {
		t.Fatalf("unexpected message %q", got)
	}
}
