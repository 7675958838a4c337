package extractor

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/talentscout/internal/candidate"
)

func TestExtractReferenceResume(t *testing.T) {
	t.Parallel()

	rec := Extract("john smith\njohn@example.com\n5 years of experience\nSkills: React, Python")

	if rec.Name != "john smith" {
		t.Fatalf("unexpected name: %q", rec.Name)
	}
	if rec.Email != "john@example.com" {
		t.Fatalf("unexpected email: %q", rec.Email)
	}
	if rec.Experience != "5 years" {
		t.Fatalf("unexpected experience: %q", rec.Experience)
	}
	if rec.Phone != "" || rec.Location != "" || rec.Position != "" {
		t.Fatalf("unexpected extra fields: %+v", rec)
	}

	expected := candidate.TechStack{"Python", "React"}
	if !reflect.DeepEqual(rec.TechStack, expected) {
		t.Fatalf("expected skills %v in keyword order, got %v", expected, rec.TechStack)
	}
}

func TestExtractEmptyText(t *testing.T) {
	t.Parallel()

	rec := Extract("")
	if !rec.IsEmpty() {
		t.Fatalf("expected empty record, got %+v", rec)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	t.Parallel()

	text := "Jane Roe\nLocation: Austin, TX\n+1 (555) 123-4567\nDocker and Kubernetes"
	first := Extract(text)
	second := Extract(text)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestExtractFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		field  candidate.Field
		expect string
	}{
		{name: "first email wins", text: "a@first.io b@second.io", field: candidate.FieldEmail, expect: "a@first.io"},
		{name: "email needs two letter tld", text: "someone@host.c", field: candidate.FieldEmail, expect: ""},
		{name: "plain phone", text: "call 555-123-4567 now", field: candidate.FieldPhone, expect: "555-123-4567"},
		{name: "phone with country code", text: "+44 207.123.4567", field: candidate.FieldPhone, expect: "+44 207.123.4567"},
		{name: "parenthesized phone", text: "(555) 123 4567", field: candidate.FieldPhone, expect: "(555) 123 4567"},
		{name: "name skips blank lines", text: "\n   \n  Ada Lovelace  \nmore", field: candidate.FieldName, expect: "Ada Lovelace"},
		{name: "name rejects digits", text: "Agent 007\n", field: candidate.FieldName, expect: ""},
		{name: "name rejects punctuation", text: "Dr. Who", field: candidate.FieldName, expect: ""},
		{name: "name rejects long lines", text: strings.Repeat("a", 50), field: candidate.FieldName, expect: ""},
		{name: "name accepts 49 characters", text: strings.Repeat("a", 49), field: candidate.FieldName, expect: strings.Repeat("a", 49)},
		{name: "name only checks first line", text: "1234\nJohn Smith", field: candidate.FieldName, expect: ""},
		{name: "experience plus form", text: "10+ Years Experience", field: candidate.FieldExperience, expect: "10 years"},
		{name: "experience short form", text: "3 yrs exp", field: candidate.FieldExperience, expect: ""},
		{name: "experience exp", text: "7 year exp", field: candidate.FieldExperience, expect: "7 years"},
		{name: "location label", text: "Location: San Francisco, CA", field: candidate.FieldLocation, expect: "San Francisco"},
		{name: "based in", text: "I am BASED IN Berlin\n", field: candidate.FieldLocation, expect: "Berlin"},
		{name: "address to end of line", text: "Address:   221B Baker Street  \nLondon", field: candidate.FieldLocation, expect: "221B Baker Street"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := Extract(tt.text)
			if got := rec.Get(tt.field); got != tt.expect {
				t.Fatalf("expected %s %q, got %q", tt.field, tt.expect, got)
			}
		})
	}
}

func TestExtractSkillsSubstringMatching(t *testing.T) {
	t.Parallel()

	rec := Extract("Worked mostly with javascript")

	// "java" is contained in "javascript", so both keywords match.
	expected := candidate.TechStack{"JavaScript", "Java"}
	if !reflect.DeepEqual(rec.TechStack, expected) {
		t.Fatalf("expected %v, got %v", expected, rec.TechStack)
	}
}

func TestExtractCustomKeywords(t *testing.T) {
	t.Parallel()

	rec := New([]string{"Go", "Rust"}).Extract("rust and GO")
	if !reflect.DeepEqual(rec.TechStack, candidate.TechStack{"Go", "Rust"}) {
		t.Fatalf("unexpected skills: %v", rec.TechStack)
	}
}

func TestRunReport(t *testing.T) {
	t.Parallel()

	_, report := New(nil).Run("someone@example.com")

	if !reflect.DeepEqual(report.Matched, []string{"email"}) {
		t.Fatalf("unexpected matched rules: %v", report.Matched)
	}
	if len(report.Skipped) != 5 {
		t.Fatalf("expected 5 skipped rules, got %v", report.Skipped)
	}
}
