package interview

import (
	"strings"
	"time"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/extractor"
	"github.com/spigell/talentscout/internal/questionbank"
)

const (
	defaultMaxQuestions = 3
	defaultTypingDelay  = time.Second
	defaultClosingDelay = 1500 * time.Millisecond
)

// Completion paths reported in Outcome.Path.
const (
	PathQuestions   = "questions"
	PathNoQuestions = "no_questions"
)

// Config is the immutable configuration of a Machine.
type Config struct {
	Bank      *questionbank.Bank
	Extractor *extractor.Extractor
	// Keywords are the technologies offered for manual selection.
	Keywords []string
	// MaxQuestionsPerTechnology caps the questions asked for one technology.
	MaxQuestionsPerTechnology int
	TypingDelay               time.Duration
	ClosingDelay              time.Duration
}

// Outcome is the result of a single transition.
type Outcome struct {
	State State
	// Accepted is false when the event was ignored; State is then unchanged.
	Accepted bool
	// UserText is the trimmed candidate answer to record in the transcript.
	UserText string
	// Replies are the assistant messages to emit after Delay.
	Replies []string
	Delay   time.Duration
	// Completed is set on the transition that enters StageCompleted.
	Completed bool
	Path      string
	// Extracted holds the extraction result of an upload event.
	Extracted *extractor.Report
}

// Machine is the interview state machine. It holds no per-session data.
type Machine struct {
	bank      *questionbank.Bank
	extractor *extractor.Extractor
	keywords  []string
	maxQ      int
	typing    time.Duration
	closing   time.Duration
}

// NewMachine creates a machine. Zero config values fall back to the reference setup.
func NewMachine(cfg Config) *Machine {
	m := &Machine{
		bank:      cfg.Bank,
		extractor: cfg.Extractor,
		keywords:  append([]string(nil), cfg.Keywords...),
		maxQ:      cfg.MaxQuestionsPerTechnology,
		typing:    cfg.TypingDelay,
		closing:   cfg.ClosingDelay,
	}

	if m.bank == nil {
		m.bank = questionbank.Default()
	}
	if len(m.keywords) == 0 {
		m.keywords = extractor.Keywords()
	}
	if m.extractor == nil {
		m.extractor = extractor.New(m.keywords)
	}
	if m.maxQ <= 0 {
		m.maxQ = defaultMaxQuestions
	}
	if m.typing < 0 {
		m.typing = 0
	}
	if m.closing < 0 {
		m.closing = 0
	}

	return m
}

// DefaultConfig returns the reference configuration with the reference delays.
func DefaultConfig() Config {
	return Config{
		Bank:                      questionbank.Default(),
		Keywords:                  extractor.Keywords(),
		MaxQuestionsPerTechnology: defaultMaxQuestions,
		TypingDelay:               defaultTypingDelay,
		ClosingDelay:              defaultClosingDelay,
	}
}

// Keywords lists the technologies offered in tech stack selection.
func (m *Machine) Keywords() []string {
	return append([]string(nil), m.keywords...)
}

// Bank returns the question bank in use.
func (m *Machine) Bank() *questionbank.Bank {
	return m.bank
}

// Initial returns the state of a fresh session.
func (m *Machine) Initial() State {
	return State{Stage: StageWelcome}
}

// Transition applies ev to s. The transcript in s.Messages is never modified.
func (m *Machine) Transition(s State, ev Event) Outcome {
	switch ev.Kind {
	case EventStart:
		return m.start(s)
	case EventUploadText:
		return m.upload(s, ev.Text)
	case EventContinueManually:
		return m.continueManually(s)
	case EventAnswer:
		return m.answer(s, ev.Text)
	case EventToggleTechnology:
		return m.toggle(s, ev.Text)
	case EventContinueWithTechStack:
		return m.continueWithTechStack(s)
	default:
		return rejected(s)
	}
}

func rejected(s State) Outcome {
	return Outcome{State: s}
}

func (m *Machine) start(s State) Outcome {
	if s.Stage != StageWelcome {
		return rejected(s)
	}
	s.Stage = StageResumeUpload
	return Outcome{State: s, Accepted: true}
}

func (m *Machine) continueManually(s State) Outcome {
	if s.Stage != StageResumeUpload {
		return rejected(s)
	}

	stage, prompt := nextScripted(0, s.Candidate)
	s.Stage = stage

	return m.reply(s, manualGreeting+"\n\n"+prompt)
}

func (m *Machine) upload(s State, text string) Outcome {
	if s.Stage != StageResumeUpload {
		return rejected(s)
	}

	extracted, report := m.extractor.Run(text)
	s.Candidate = s.Candidate.Merge(extracted)

	var out Outcome
	if len(extracted.TechStack) > 0 {
		s.Selected = extracted.TechStack.Clone()
		s.Candidate.TechStack = extracted.TechStack.Clone()

		tech, ok := m.firstWithQuestions(s.Selected, 0)
		if ok {
			s = m.beginTechnology(s, tech)
			question, _ := m.bank.Question(tech, 0)
			out = m.reply(s, resumeIntro(s.Candidate.Name, s.Selected, tech, question))
		} else {
			s.Stage = StageCompleted
			out = m.complete(s, resumeNoQuestions(s.Candidate.Name), m.typing, PathNoQuestions)
		}
	} else {
		stage, prompt := nextScripted(0, s.Candidate)
		s.Stage = stage
		out = m.reply(s, resumeGreeting+"\n\n"+prompt)
	}

	out.Extracted = &report
	return out
}

func (m *Machine) answer(s State, text string) Outcome {
	text = strings.TrimSpace(text)
	if text == "" {
		return rejected(s)
	}

	if s.Stage == StageTechnicalQuestions {
		out := m.nextQuestion(s)
		out.UserText = text
		return out
	}

	idx, ok := stepIndex(s.Stage)
	if !ok {
		return rejected(s)
	}

	s.Candidate = s.Candidate.With(steps[idx].field, text)
	stage, prompt := nextScripted(idx+1, s.Candidate)
	s.Stage = stage

	out := m.reply(s, prompt)
	out.UserText = text
	return out
}

func (m *Machine) toggle(s State, tech string) Outcome {
	tech = strings.TrimSpace(tech)
	if s.Stage != StageTechStackSelection || tech == "" {
		return rejected(s)
	}
	s.Selected = s.Selected.Toggle(tech)
	return Outcome{State: s, Accepted: true}
}

func (m *Machine) continueWithTechStack(s State) Outcome {
	if s.Stage != StageTechStackSelection || s.Selected.Len() == 0 {
		return rejected(s)
	}

	s.Candidate.TechStack = s.Selected.Clone()

	tech, ok := m.firstWithQuestions(s.Selected, 0)
	if !ok {
		s.Stage = StageCompleted
		return m.complete(s, noQuestionsClosing, m.typing, PathNoQuestions)
	}

	s = m.beginTechnology(s, tech)
	question, _ := m.bank.Question(tech, 0)
	return m.reply(s, selectionIntro(s.Selected, tech, question))
}

// nextQuestion advances the question cycle after an answer.
func (m *Machine) nextQuestion(s State) Outcome {
	next := s.CurrentQuestionIndex + 1
	if next < m.bank.Count(s.CurrentTechnology) && next < m.maxQ {
		s.CurrentQuestionIndex = next
		question, _ := m.bank.Question(s.CurrentTechnology, next)
		return m.reply(s, question)
	}

	from := s.Selected.Index(s.CurrentTechnology) + 1
	if tech, ok := m.firstWithQuestions(s.Selected, from); ok {
		s = m.beginTechnology(s, tech)
		question, _ := m.bank.Question(tech, 0)
		return m.reply(s, nextTechnologyIntro(tech, question))
	}

	s.Stage = StageCompleted
	s.CurrentTechnology = ""
	s.CurrentQuestionIndex = 0
	return m.complete(s, questionsClosing, m.closing, PathQuestions)
}

// firstWithQuestions scans stack from index from for a technology with questions.
func (m *Machine) firstWithQuestions(stack candidate.TechStack, from int) (string, bool) {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(stack); i++ {
		if m.bank.HasQuestions(stack[i]) {
			return stack[i], true
		}
	}
	return "", false
}

func (m *Machine) beginTechnology(s State, tech string) State {
	s.Stage = StageTechnicalQuestions
	s.CurrentTechnology = tech
	s.CurrentQuestionIndex = 0
	return s
}

func (m *Machine) reply(s State, text string) Outcome {
	return Outcome{State: s, Accepted: true, Replies: []string{text}, Delay: m.typing}
}

func (m *Machine) complete(s State, text string, delay time.Duration, path string) Outcome {
	return Outcome{State: s, Accepted: true, Replies: []string{text}, Delay: delay, Completed: true, Path: path}
}
