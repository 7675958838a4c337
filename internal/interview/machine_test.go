package interview

import (
	"strings"
	"testing"
	"time"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/questionbank"
)

func mustAccept(t *testing.T, m *Machine, s State, ev Event) Outcome {
	t.Helper()

	out := m.Transition(s, ev)
	if !out.Accepted {
		t.Fatalf("event %s rejected in stage %s", ev.Kind, s.Stage)
	}
	return out
}

func atSelection(t *testing.T, m *Machine) State {
	t.Helper()

	s := mustAccept(t, m, m.Initial(), Start()).State
	s = mustAccept(t, m, s, ContinueManually()).State
	for _, answer := range []string{"John Smith", "john@example.com", "555-123-4567", "5", "Backend", "Berlin"} {
		s = mustAccept(t, m, s, Answer(answer)).State
	}
	if s.Stage != StageTechStackSelection {
		t.Fatalf("expected tech stack selection, got %s", s.Stage)
	}
	return s
}

func TestStartAndManualGreeting(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultConfig())

	out := mustAccept(t, m, m.Initial(), Start())
	if out.State.Stage != StageResumeUpload || len(out.Replies) != 0 {
		t.Fatalf("unexpected start outcome: %+v", out)
	}

	out = mustAccept(t, m, out.State, ContinueManually())
	if out.State.Stage != StageName {
		t.Fatalf("expected name stage, got %s", out.State.Stage)
	}
	want := manualGreeting + "\n\nWhat's your full name?"
	if len(out.Replies) != 1 || out.Replies[0] != want {
		t.Fatalf("unexpected replies: %q", out.Replies)
	}
	if out.Delay != time.Second {
		t.Fatalf("expected typing delay 1s, got %s", out.Delay)
	}
}

func TestScriptedStagesAdvanceOneAtATime(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultConfig())
	s := mustAccept(t, m, mustAccept(t, m, m.Initial(), Start()).State, ContinueManually()).State

	steps := []struct {
		stage  Stage
		answer string
		field  candidate.Field
		next   Stage
		reply  string
	}{
		{StageName, "  John Smith ", candidate.FieldName, StageEmail, "Nice to meet you, John Smith! What's your email address?"},
		{StageEmail, "john@example.com", candidate.FieldEmail, StagePhone, "Great! What's your phone number?"},
		{StagePhone, "555-123-4567", candidate.FieldPhone, StageExperience, "Perfect! How many years of professional experience do you have?"},
		{StageExperience, "5 years", candidate.FieldExperience, StagePosition, "Excellent! What position(s) are you interested in applying for?"},
		{StagePosition, "Backend", candidate.FieldPosition, StageLocation, "Great choice! What's your current location?"},
		{StageLocation, "Berlin", candidate.FieldLocation, StageTechStackSelection, techStackPrompt},
	}

	for _, step := range steps {
		if s.Stage != step.stage {
			t.Fatalf("expected stage %s, got %s", step.stage, s.Stage)
		}

		for _, blank := range []string{"", "   ", "\n\t"} {
			if out := m.Transition(s, Answer(blank)); out.Accepted || len(out.Replies) != 0 || out.State.Stage != s.Stage {
				t.Fatalf("blank answer %q must be a no-op in %s: %+v", blank, s.Stage, out)
			}
		}

		before := len(s.Candidate.Present())
		out := mustAccept(t, m, s, Answer(step.answer))

		if out.State.Stage != step.next {
			t.Fatalf("expected %s after %s, got %s", step.next, step.stage, out.State.Stage)
		}
		if got := len(out.State.Candidate.Present()); got != before+1 {
			t.Fatalf("expected exactly one new field, had %d now %d", before, got)
		}
		if out.State.Candidate.Get(step.field) != strings.TrimSpace(step.answer) {
			t.Fatalf("expected %s=%q, got %q", step.field, strings.TrimSpace(step.answer), out.State.Candidate.Get(step.field))
		}
		if len(out.Replies) != 1 || out.Replies[0] != step.reply {
			t.Fatalf("unexpected replies after %s: %q", step.stage, out.Replies)
		}
		if out.UserText != strings.TrimSpace(step.answer) {
			t.Fatalf("unexpected user text %q", out.UserText)
		}

		s = out.State
	}
}

func TestToggleTwiceRestoresSelection(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultConfig())
	s := atSelection(t, m)

	s = mustAccept(t, m, s, ToggleTechnology("React")).State
	s = mustAccept(t, m, s, ToggleTechnology("Python")).State
	original := s.Selected.Clone()

	for _, tech := range []string{"Go", "Python"} {
		once := mustAccept(t, m, s, ToggleTechnology(tech)).State
		twice := mustAccept(t, m, once, ToggleTechnology(tech)).State
		if strings.Join(twice.Selected, ",") != strings.Join(original, ",") {
			t.Fatalf("toggling %s twice: expected %v, got %v", tech, original, twice.Selected)
		}
	}

	if out := m.Transition(s, ToggleTechnology("  ")); out.Accepted {
		t.Fatalf("blank technology must be rejected")
	}
}

func TestContinueSkipsTechnologiesWithoutQuestions(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultConfig())
	s := atSelection(t, m)
	s = mustAccept(t, m, s, ToggleTechnology("React")).State
	s = mustAccept(t, m, s, ToggleTechnology("COBOL")).State

	out := mustAccept(t, m, s, ContinueWithTechStack())

	if out.State.Stage != StageTechnicalQuestions || out.State.CurrentTechnology != "React" || out.State.CurrentQuestionIndex != 0 {
		t.Fatalf("unexpected state: %+v", out.State)
	}
	want := "Perfect! I can see you're skilled in React, COBOL. Let's dive into some technical questions.\n\n" +
		"Starting with React:\n\nExplain the difference between functional and class components."
	if len(out.Replies) != 1 || out.Replies[0] != want {
		t.Fatalf("unexpected reply: %q", out.Replies)
	}
	if strings.Join(out.State.Candidate.TechStack, ",") != "React,COBOL" {
		t.Fatalf("expected candidate stack to follow the selection, got %v", out.State.Candidate.TechStack)
	}
}

func TestContinueRequiresSelection(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultConfig())
	s := atSelection(t, m)

	if out := m.Transition(s, ContinueWithTechStack()); out.Accepted || out.State.Stage != StageTechStackSelection {
		t.Fatalf("empty selection must not continue: %+v", out)
	}
}

func TestContinueWithoutAnyQuestions(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultConfig())
	s := atSelection(t, m)
	s = mustAccept(t, m, s, ToggleTechnology("Docker")).State

	out := mustAccept(t, m, s, ContinueWithTechStack())
	if out.State.Stage != StageCompleted || !out.Completed || out.Path != PathNoQuestions {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Replies[0] != noQuestionsClosing {
		t.Fatalf("unexpected closing: %q", out.Replies[0])
	}
}

func TestQuestionCyclingCapsAndCompletesOnce(t *testing.T) {
	t.Parallel()

	bank := questionbank.MustNew([]questionbank.Entry{
		{Technology: "Go", Questions: []string{"g1", "g2", "g3", "g4", "g5"}},
		{Technology: "Rust", Questions: []string{"r1"}},
	})
	m := NewMachine(Config{Bank: bank, Keywords: []string{"Go", "Rust"}, ClosingDelay: 2 * time.Second})

	s := atSelection(t, m)
	for _, tech := range []string{"Go", "Elixir", "Rust"} {
		s = mustAccept(t, m, s, ToggleTechnology(tech)).State
	}

	out := mustAccept(t, m, s, ContinueWithTechStack())
	asked := map[string][]string{}
	asked[out.State.CurrentTechnology] = append(asked[out.State.CurrentTechnology], out.Replies[0])

	completions := 0
	for i := 0; i < 10; i++ {
		out = m.Transition(out.State, Answer("my answer"))
		if out.Completed {
			completions++
		}
		if out.State.Stage == StageTechnicalQuestions && out.Accepted {
			asked[out.State.CurrentTechnology] = append(asked[out.State.CurrentTechnology], out.Replies[0])
		}
	}

	if completions != 1 {
		t.Fatalf("expected exactly one completion, got %d", completions)
	}
	if out.State.Stage != StageCompleted {
		t.Fatalf("expected completed, got %s", out.State.Stage)
	}
	if len(asked["Go"]) != 3 || len(asked["Rust"]) != 1 {
		t.Fatalf("unexpected questions asked: %v", asked)
	}
	if _, ok := asked["Elixir"]; ok {
		t.Fatalf("asked a question for a technology outside the bank: %v", asked)
	}
	if asked["Rust"][0] != "Great! Now let's move on to Rust.\n\nr1" {
		t.Fatalf("unexpected technology intro %q", asked["Rust"][0])
	}
}

func TestFinalAnswerClosesInterview(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultConfig())
	s := atSelection(t, m)
	s = mustAccept(t, m, s, ToggleTechnology("Node.js")).State
	s = mustAccept(t, m, s, ContinueWithTechStack()).State

	var out Outcome
	for i := 0; i < 3; i++ {
		out = mustAccept(t, m, s, Answer("answer"))
		s = out.State
	}

	if !out.Completed || out.Path != PathQuestions || out.Delay != 1500*time.Millisecond {
		t.Fatalf("unexpected closing outcome: %+v", out)
	}
	if out.Replies[0] != questionsClosing {
		t.Fatalf("unexpected closing message %q", out.Replies[0])
	}
	if s.CurrentTechnology != "" || s.CurrentQuestionIndex != 0 {
		t.Fatalf("expected question cursor reset, got %q/%d", s.CurrentTechnology, s.CurrentQuestionIndex)
	}

	for _, ev := range []Event{Answer("more"), ToggleTechnology("Go"), ContinueWithTechStack(), Start()} {
		if after := m.Transition(s, ev); after.Accepted || after.Completed || after.State.Stage != StageCompleted {
			t.Fatalf("event %s after completion must be a no-op: %+v", ev.Kind, after)
		}
	}
}

func TestUploadWithSkills(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultConfig())
	s := mustAccept(t, m, m.Initial(), Start()).State

	out := mustAccept(t, m, s, UploadText("john smith\njohn@example.com\n5 years of experience\nSkills: React, Python"))

	if out.State.Stage != StageTechnicalQuestions || out.State.CurrentTechnology != "Python" {
		t.Fatalf("unexpected state: %+v", out.State)
	}
	want := "Hello john smith! I've reviewed your resume and can see you're skilled in Python, React. " +
		"Let's dive into some technical questions.\n\nStarting with Python:\n\n" +
		"What is the difference between a list and a tuple in Python?"
	if out.Replies[0] != want {
		t.Fatalf("unexpected reply %q", out.Replies[0])
	}
	if out.Extracted == nil || len(out.Extracted.Matched) == 0 {
		t.Fatalf("expected extraction report")
	}
	rec := out.State.Candidate
	if rec.Email != "john@example.com" || rec.Experience != "5 years" || strings.Join(out.State.Selected, ",") != "Python,React" {
		t.Fatalf("unexpected candidate: %+v", rec)
	}
}

func TestUploadWithSkillsWithoutQuestions(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultConfig())
	s := mustAccept(t, m, m.Initial(), Start()).State

	out := mustAccept(t, m, s, UploadText("Jane Doe\nDocker and Kubernetes"))
	if out.State.Stage != StageCompleted || !out.Completed || out.Path != PathNoQuestions {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Replies[0] != resumeNoQuestions("Jane Doe") {
		t.Fatalf("unexpected reply %q", out.Replies[0])
	}
}

func TestUploadWithoutSkillsSkipsKnownFields(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultConfig())
	s := mustAccept(t, m, m.Initial(), Start()).State

	out := mustAccept(t, m, s, UploadText("John Smith\njohn@example.com"))
	if out.State.Stage != StagePhone {
		t.Fatalf("expected phone stage, got %s", out.State.Stage)
	}
	if out.Replies[0] != resumeGreeting+"\n\nGreat! What's your phone number?" {
		t.Fatalf("unexpected reply %q", out.Replies[0])
	}

	out = mustAccept(t, m, mustAccept(t, m, s, UploadText("")).State, Answer("Ann"))
	if out.State.Stage != StageEmail {
		t.Fatalf("empty resume should start from name, got %s", out.State.Stage)
	}
}

func TestTransitionLeavesTranscriptAndInputAlone(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultConfig())
	s := atSelection(t, m)
	s.Messages = []Message{{Text: "hi"}}
	s = mustAccept(t, m, s, ToggleTechnology("React")).State

	out := mustAccept(t, m, s, ToggleTechnology("Python"))
	if len(out.State.Messages) != 1 {
		t.Fatalf("transcript must not change, got %d messages", len(out.State.Messages))
	}
	if strings.Join(s.Selected, ",") != "React" {
		t.Fatalf("input state mutated: %v", s.Selected)
	}
}

func TestEventsOutsideTheirStageAreIgnored(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultConfig())
	welcome := m.Initial()

	for _, ev := range []Event{UploadText("x"), ContinueManually(), Answer("x"), ToggleTechnology("Go"), ContinueWithTechStack()} {
		if out := m.Transition(welcome, ev); out.Accepted || out.State.Stage != StageWelcome {
			t.Fatalf("event %s accepted in welcome", ev.Kind)
		}
	}

	upload := mustAccept(t, m, welcome, Start()).State
	if out := m.Transition(upload, Answer("hello")); out.Accepted {
		t.Fatalf("answer accepted in resume upload")
	}
	if out := m.Transition(upload, Start()); out.Accepted {
		t.Fatalf("second start accepted")
	}
	if out := m.Transition(upload, Event{Kind: EventKind(99)}); out.Accepted {
		t.Fatalf("unknown event accepted")
	}
}
