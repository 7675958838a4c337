// Package interview drives the scripted screening conversation.
//
// Machine is a pure transition function over State. Session wraps a Machine for a
// single candidate, owns the transcript and schedules the delayed assistant replies.
package interview

import (
	"time"

	"github.com/spigell/talentscout/internal/candidate"
)

// Stage is a named point of the interview script.
type Stage string

const (
	StageWelcome            Stage = "welcome"
	StageResumeUpload       Stage = "resumeUpload"
	StageName               Stage = "name"
	StageEmail              Stage = "email"
	StagePhone              Stage = "phone"
	StageExperience         Stage = "experience"
	StagePosition           Stage = "position"
	StageLocation           Stage = "location"
	StageTechStackSelection Stage = "techStackSelection"
	StageTechnicalQuestions Stage = "technicalQuestions"
	StageCompleted          Stage = "completed"
)

// IsTerminal reports whether no event can leave the stage.
func (s Stage) IsTerminal() bool {
	return s == StageCompleted
}

// AcceptsText reports whether the stage consumes free text answers.
func (s Stage) AcceptsText() bool {
	if s == StageTechnicalQuestions {
		return true
	}
	_, ok := stepIndex(s)
	return ok
}

// Message is a single transcript entry.
type Message struct {
	Text          string    `json:"text"`
	FromAssistant bool      `json:"isFromAssistant"`
	Timestamp     time.Time `json:"timestamp"`
}

// State is the conversation state of one session.
// CurrentQuestionIndex is only meaningful in StageTechnicalQuestions.
type State struct {
	Stage                Stage               `json:"stage"`
	Messages             []Message           `json:"messages"`
	Selected             candidate.TechStack `json:"selectedTechStack"`
	CurrentTechnology    string              `json:"currentTechnology,omitempty"`
	CurrentQuestionIndex int                 `json:"currentQuestionIndex"`
	Candidate            candidate.Record    `json:"candidate"`
}

// Clone returns a deep copy so callers can not touch the session-owned slices.
func (s State) Clone() State {
	out := s
	if s.Messages != nil {
		out.Messages = make([]Message, len(s.Messages))
		copy(out.Messages, s.Messages)
	}
	out.Selected = s.Selected.Clone()
	out.Candidate.TechStack = s.Candidate.TechStack.Clone()
	return out
}
