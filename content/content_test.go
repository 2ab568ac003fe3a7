package content

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseKindAliases(t *testing.T) {
	cases := map[string]Kind{
		"guides":        KindGuide,
		"Article":       KindGuide,
		"benefit-rules": KindBenefitRule,
		" news ":        KindNews,
	}
	for input, want := range cases {
		got, err := ParseKind(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", input, want, got)
		}
	}
	if _, err := ParseKind("recipes"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestIDFromStructured(t *testing.T) {
	cases := []struct {
		raw  string
		want ID
		ok   bool
	}{
		{`7`, "7", true},
		{`{"id": 12}`, "12", true},
		{`{"value": "ABC"}`, "ABC", true},
		{`{"other": "x"}`, "", false},
		{`true`, "", false},
	}
	for _, tc := range cases {
		got, ok := IDFromStructured([]byte(tc.raw))
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: expected (%q, %v), got (%q, %v)", tc.raw, tc.want, tc.ok, got, ok)
		}
	}
}

func TestSynthesizeIDIsDeterministic(t *testing.T) {
	first := SynthesizeID(KindGuide, "Permit S", "uk")
	second := SynthesizeID(KindGuide, "Permit S", "uk")
	if first != second {
		t.Fatalf("expected stable id, got %q and %q", first, second)
	}
	if first == SynthesizeID(KindGuide, "Permit S", "en") {
		t.Fatalf("expected language to change the id")
	}
	if SynthesizeID(KindGuide, "", "uk") == SynthesizeID(KindGuide, "", "uk") {
		t.Fatalf("expected random ids without a title")
	}
}

func TestTemplateFill(t *testing.T) {
	tpl := &Template{
		Content: "Dear {{name}}, your permit {{permit}} expires on {{date}}.",
		Placeholders: []Placeholder{
			{ID: "name", IsRequired: true},
			{ID: "permit", DefaultValue: "S"},
			{ID: "date"},
		},
		RequiredFields: []string{"date"},
	}
	out, missing := tpl.Fill(map[string]string{"name": "Olena"})
	if out != "Dear Olena, your permit S expires on ." {
		t.Fatalf("unexpected output %q", out)
	}
	if !reflect.DeepEqual(missing, []string{"date"}) {
		t.Fatalf("expected date missing, got %v", missing)
	}
}

func TestPopulatedWithoutItemsIsEmpty(t *testing.T) {
	if status := Populated(nil).Status; status != LoadEmpty {
		t.Fatalf("expected empty, got %s", status)
	}
	result := LoadResult{Status: LoadPopulated}.Normalized()
	if result.Status != LoadEmpty {
		t.Fatalf("expected normalized empty, got %s", result.Status)
	}
}

func TestNewLoadErrorWrapsCauseAndSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewLoadError(CodeSourceUnavailable, KindGuide, "remote", cause)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected sentinel in chain")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
	if ErrorCodeOf(err) != CodeSourceUnavailable {
		t.Fatalf("expected code, got %s", ErrorCodeOf(err))
	}
	if err.Metadata["kind"] != "guides" {
		t.Fatalf("expected kind metadata, got %v", err.Metadata)
	}
	if ErrorCodeOf(errors.New("other")) != "" {
		t.Fatalf("expected no code for unrelated error")
	}
}

func TestMetaHasLanguage(t *testing.T) {
	meta := Meta{Tags: []string{"LANG:EN"}}
	if !meta.HasLanguage("en") {
		t.Fatalf("expected tag language match")
	}
	meta = Meta{LanguageCode: "uk"}
	if !meta.HasLanguage("UK") || meta.HasLanguage("") {
		t.Fatalf("unexpected language match")
	}
}

func TestSlugifyFallsBackForNonLatinTitles(t *testing.T) {
	if got := Slugify("Житло у Швейцарії"); got == "" {
		t.Fatalf("expected non-empty slug")
	}
	if got := Slugify("   "); got != "" {
		t.Fatalf("expected empty slug, got %q", got)
	}
}
