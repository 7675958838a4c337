package interview

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/metrics"
)

var (
	// ErrResponsePending is returned while an assistant reply is still scheduled.
	ErrResponsePending = errors.New("assistant response is pending")
	// ErrSessionClosed is returned for events sent to a closed session.
	ErrSessionClosed = errors.New("session is closed")
)

// Result is returned by every session event.
type Result struct {
	State State
	// Accepted is false when the event was ignored for the current stage.
	Accepted bool
	// Messages holds the assistant messages emitted before the call returned.
	// With a delayed scheduler they arrive later through SessionDeps.OnReply.
	Messages []Message
	// Pending is true while a reply is scheduled.
	Pending bool
}

// SessionDeps aggregates session collaborators.
type SessionDeps struct {
	Machine   *Machine
	Scheduler Scheduler
	Logger    *zap.Logger
	Metrics   metrics.Recorder
	Now       func() time.Time
	// OnReply is called with every batch of delivered assistant messages.
	OnReply func(msgs []Message)
	// OnComplete is called once, with a snapshot, after the closing message is delivered.
	OnComplete func(s State)
}

// Session is a single candidate interview. It processes one event at a time and
// refuses input while an assistant reply is scheduled.
type Session struct {
	id   string
	deps SessionDeps
	log  *zap.Logger

	mu         sync.Mutex
	state      State
	pending    bool
	generation uint64
	delivered  uint64
	lastBatch  []Message
	handle     Handle
	completed  bool
	closed     bool
}

// NewSession creates a session in the welcome stage.
func NewSession(id string, deps SessionDeps) *Session {
	if deps.Machine == nil {
		deps.Machine = NewMachine(DefaultConfig())
	}
	if deps.Scheduler == nil {
		deps.Scheduler = ImmediateScheduler{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	deps.Metrics = metrics.OrNop(deps.Metrics)

	return &Session{
		id:    id,
		deps:  deps,
		log:   logger.WithFields(deps.Logger, logger.SessionFields(id, "")...),
		state: deps.Machine.Initial(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Machine returns the machine driving the session.
func (s *Session) Machine() *Machine {
	return s.deps.Machine
}

func (s *Session) Start() (Result, error) {
	res, err := s.apply(Start())
	if err == nil && res.Accepted {
		s.deps.Metrics.SessionStarted()
	}
	return res, err
}

func (s *Session) UploadExtractedText(text string) (Result, error) {
	return s.apply(UploadText(text))
}

func (s *Session) ContinueManually() (Result, error) {
	return s.apply(ContinueManually())
}

func (s *Session) SubmitAnswer(text string) (Result, error) {
	return s.apply(Answer(text))
}

func (s *Session) ToggleTechnology(tech string) (Result, error) {
	return s.apply(ToggleTechnology(tech))
}

func (s *Session) ContinueWithSelectedTechStack() (Result, error) {
	return s.apply(ContinueWithTechStack())
}

// State returns a snapshot of the conversation state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Pending reports whether an assistant reply is scheduled.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Completed reports whether the closing message was delivered.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Snapshot is the state of a session read under a single lock.
type Snapshot struct {
	State     State
	Pending   bool
	Completed bool
}

// Snapshot returns the state together with the pending and completed flags.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:     s.state.Clone(),
		Pending:   s.pending,
		Completed: s.completed,
	}
}

// Close drops any scheduled reply. Further events fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
	s.pending = false
	s.closed = true
}

func (s *Session) apply(ev Event) (Result, error) {
	s.mu.Lock()

	if s.closed {
		res := s.resultLocked(false)
		s.mu.Unlock()
		return res, ErrSessionClosed
	}
	if s.pending {
		res := s.resultLocked(false)
		s.mu.Unlock()
		return res, ErrResponsePending
	}

	from := s.state.Stage
	out := s.deps.Machine.Transition(s.state, ev)
	if !out.Accepted {
		s.log.Debug("event ignored", zap.Stringer("event", ev.Kind), zap.String("stage", string(from)))
		res := s.resultLocked(false)
		s.mu.Unlock()
		return res, nil
	}

	messages := s.state.Messages
	s.state = out.State
	s.state.Messages = messages
	if out.UserText != "" {
		s.state.Messages = append(s.state.Messages, Message{Text: out.UserText, Timestamp: s.deps.Now()})
	}

	if from != s.state.Stage {
		s.deps.Metrics.StageTransition(string(from), string(s.state.Stage))
		s.log.Debug("stage transition",
			zap.Stringer("event", ev.Kind),
			zap.String("from", string(from)),
			zap.String("to", string(s.state.Stage)),
		)
	}
	if out.Extracted != nil {
		s.deps.Metrics.FieldsExtracted(out.Extracted.Matched)
		s.log.Info("resume extracted", zap.Strings("matched", out.Extracted.Matched))
	}

	if len(out.Replies) == 0 {
		res := s.resultLocked(true)
		s.mu.Unlock()
		return res, nil
	}

	s.pending = true
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	handle := s.deps.Scheduler.Schedule(out.Delay, func() { s.deliver(gen, out) })

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending && s.generation == gen {
		s.handle = handle
	}

	res := s.resultLocked(true)
	if s.delivered == gen {
		res.Messages = append([]Message(nil), s.lastBatch...)
	}
	return res, nil
}

func (s *Session) deliver(gen uint64, out Outcome) {
	s.mu.Lock()

	if s.closed || !s.pending || s.generation != gen {
		s.mu.Unlock()
		return
	}

	batch := make([]Message, 0, len(out.Replies))
	for _, text := range out.Replies {
		batch = append(batch, Message{Text: text, FromAssistant: true, Timestamp: s.deps.Now()})
	}

	s.state.Messages = append(s.state.Messages, batch...)
	s.pending = false
	s.handle = nil
	s.delivered = gen
	s.lastBatch = batch

	finish := out.Completed && !s.completed
	if finish {
		s.completed = true
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	if s.deps.OnReply != nil {
		s.deps.OnReply(append([]Message(nil), batch...))
	}

	if finish {
		s.deps.Metrics.InterviewCompleted(out.Path)
		s.log.Info("interview completed", zap.String("path", out.Path))
		if s.deps.OnComplete != nil {
			s.deps.OnComplete(snapshot)
		}
	}
}

func (s *Session) resultLocked(accepted bool) Result {
	return Result{
		State:    s.state.Clone(),
		Accepted: accepted,
		Pending:  s.pending,
	}
}
