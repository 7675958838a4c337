package questionbank

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultBank(t *testing.T) {
	t.Parallel()

	b := Default()

	expected := []string{"JavaScript", "TypeScript", "Python", "React", "Node.js"}
	if got := b.Technologies(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("unexpected technologies: %v", got)
	}

	for _, tech := range expected {
		if b.Count(tech) != 3 {
			t.Fatalf("expected 3 questions for %s, got %d", tech, b.Count(tech))
		}
	}

	if b.HasQuestions("COBOL") {
		t.Fatalf("COBOL must not have questions")
	}

	q, ok := b.Question("React", 0)
	if !ok || q != "Explain the difference between functional and class components." {
		t.Fatalf("unexpected first React question: %q", q)
	}

	if _, ok := b.Question("React", 3); ok {
		t.Fatalf("expected out of range question to be missing")
	}
}

func TestNewValidatesEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []Entry
		wantErr bool
	}{
		{name: "empty technology", entries: []Entry{{Technology: "  "}}, wantErr: true},
		{name: "duplicate", entries: []Entry{{Technology: "Go"}, {Technology: "Go"}}, wantErr: true},
		{name: "technology without questions", entries: []Entry{{Technology: "Go"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.entries)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestQuestionsReturnsCopy(t *testing.T) {
	t.Parallel()

	b := MustNew([]Entry{{Technology: "Go", Questions: []string{"What is a goroutine?", "  "}}})

	qs := b.Questions("Go")
	if len(qs) != 1 {
		t.Fatalf("expected blank question to be dropped, got %v", qs)
	}

	qs[0] = "mutated"
	if q, _ := b.Question("Go", 0); q != "What is a goroutine?" {
		t.Fatalf("bank was mutated through returned slice: %q", q)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := []Entry{{Technology: "Go", Questions: []string{"a", "b"}}}
	extra := []Entry{
		{Technology: "Go", Questions: []string{"b", "c"}},
		{Technology: "Rust", Questions: []string{"d"}},
	}

	expected := []Entry{
		{Technology: "Go", Questions: []string{"a", "b", "c"}},
		{Technology: "Rust", Questions: []string{"d"}},
	}

	if got := Merge(base, extra); !reflect.DeepEqual(got, expected) {
		t.Fatalf("unexpected merge result: %+v", got)
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	raw := []any{
		map[string]any{"technology": "Go", "questions": []any{"What is a channel?"}},
	}

	entries, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 1 || entries[0].Technology != "Go" || entries[0].Questions[0] != "What is a channel?" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "questions.yaml")
	entries := []Entry{{Technology: "Go", Questions: []string{"What is a goroutine?"}}}

	if err := SaveFile(path, entries); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !reflect.DeepEqual(loaded, entries) {
		t.Fatalf("unexpected entries: %+v", loaded)
	}
}

func TestBuildFallsBackToDefault(t *testing.T) {
	t.Parallel()

	b, err := Build(nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(b.Technologies(), Default().Technologies()) {
		t.Fatalf("expected default bank, got %v", b.Technologies())
	}
}
