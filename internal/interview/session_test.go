package interview

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// manualScheduler holds callbacks until fire is called.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualHandle
	delays  []time.Duration
}

type manualHandle struct {
	fn        func()
	cancelled bool
	fired     bool
}

func (h *manualHandle) Cancel() bool {
	if h.fired || h.cancelled {
		return false
	}
	h.cancelled = true
	return true
}

func (m *manualScheduler) Schedule(d time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := &manualHandle{fn: fn}
	m.pending = append(m.pending, h)
	m.delays = append(m.delays, d)
	return h
}

func (m *manualScheduler) fire() int {
	m.mu.Lock()
	handles := m.pending
	m.pending = nil
	m.mu.Unlock()

	fired := 0
	for _, h := range handles {
		if h.cancelled {
			continue
		}
		h.fired = true
		h.fn()
		fired++
	}
	return fired
}

type recorder struct {
	started     int
	transitions []string
	completed   []string
	fields      []string
}

func (r *recorder) SessionStarted() { r.started++ }
func (r *recorder) StageTransition(from, to string) {
	r.transitions = append(r.transitions, from+">"+to)
}
func (r *recorder) InterviewCompleted(path string)  { r.completed = append(r.completed, path) }
func (r *recorder) FieldsExtracted(fields []string) { r.fields = append(r.fields, fields...) }
func (r *recorder) SinkSubmission(string)           {}

func fixedNow() time.Time {
	return time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
}

func TestSessionImmediateFlow(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	var completions []State
	var replies int

	s := NewSession("s-1", SessionDeps{
		Machine:    NewMachine(DefaultConfig()),
		Metrics:    rec,
		Now:        fixedNow,
		OnReply:    func(msgs []Message) { replies += len(msgs) },
		OnComplete: func(st State) { completions = append(completions, st) },
	})

	res, err := s.Start()
	if err != nil || !res.Accepted || res.State.Stage != StageResumeUpload || len(res.Messages) != 0 {
		t.Fatalf("unexpected start result: %+v, %v", res, err)
	}

	res, err = s.ContinueManually()
	if err != nil || res.Pending || len(res.Messages) != 1 || !res.Messages[0].FromAssistant {
		t.Fatalf("unexpected manual result: %+v, %v", res, err)
	}

	for _, answer := range []string{"John Smith", "john@example.com", "555", "5", "Dev", "Berlin"} {
		res, err = s.SubmitAnswer(answer)
		if err != nil || !res.Accepted {
			t.Fatalf("answer %q: %+v, %v", answer, res, err)
		}
	}

	res, _ = s.SubmitAnswer("   ")
	if res.Accepted || len(res.Messages) != 0 {
		t.Fatalf("blank answer accepted: %+v", res)
	}

	if _, err := s.ToggleTechnology("React"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := s.ToggleTechnology("COBOL"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	res, err = s.ContinueWithSelectedTechStack()
	if err != nil || res.State.CurrentTechnology != "React" {
		t.Fatalf("unexpected continue result: %+v, %v", res, err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.SubmitAnswer("an answer"); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}

	if !s.Completed() {
		t.Fatalf("expected session to be completed")
	}

	res, err = s.SubmitAnswer("one more")
	if err != nil || res.Accepted || res.State.Stage != StageCompleted {
		t.Fatalf("answer after completion must be a no-op: %+v, %v", res, err)
	}

	if len(completions) != 1 {
		t.Fatalf("expected one completion callback, got %d", len(completions))
	}
	final := completions[0]
	if final.Candidate.Name != "John Smith" || len(final.Candidate.TechStack) != 2 {
		t.Fatalf("unexpected completed candidate: %+v", final.Candidate)
	}

	// 1 manual greeting, 6 scripted replies, 1 intro, 2 follow-up questions, 1 closing.
	if replies != 11 {
		t.Fatalf("expected 11 assistant replies, got %d", replies)
	}

	// 6 answers + 3 technical answers are user messages.
	st := s.State()
	users := 0
	for _, msg := range st.Messages {
		if !msg.FromAssistant {
			users++
		}
		if !msg.Timestamp.Equal(fixedNow()) {
			t.Fatalf("unexpected timestamp %s", msg.Timestamp)
		}
	}
	if users != 9 || len(st.Messages) != 20 {
		t.Fatalf("unexpected transcript: %d user of %d messages", users, len(st.Messages))
	}

	if rec.started != 1 || len(rec.completed) != 1 || rec.completed[0] != PathQuestions {
		t.Fatalf("unexpected metrics: %+v", rec)
	}
	if rec.transitions[0] != "welcome>resumeUpload" || rec.transitions[len(rec.transitions)-1] != "technicalQuestions>completed" {
		t.Fatalf("unexpected transitions: %v", rec.transitions)
	}
}

func TestSessionRejectsInputWhilePending(t *testing.T) {
	t.Parallel()

	sched := &manualScheduler{}
	s := NewSession("s-2", SessionDeps{Machine: NewMachine(DefaultConfig()), Scheduler: sched})

	if _, err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	res, err := s.ContinueManually()
	if err != nil || !res.Pending || len(res.Messages) != 0 {
		t.Fatalf("expected pending reply: %+v, %v", res, err)
	}
	if sched.delays[0] != time.Second {
		t.Fatalf("expected typing delay, got %s", sched.delays[0])
	}

	res, err = s.SubmitAnswer("John")
	if !errors.Is(err, ErrResponsePending) || res.Accepted {
		t.Fatalf("expected ErrResponsePending, got %+v, %v", res, err)
	}
	if st := s.State(); st.Stage != StageName || len(st.Messages) != 0 {
		t.Fatalf("state changed while pending: %+v", st)
	}

	if fired := sched.fire(); fired != 1 {
		t.Fatalf("expected one reply to fire, got %d", fired)
	}
	if s.Pending() {
		t.Fatalf("expected reply to be delivered")
	}

	res, err = s.SubmitAnswer("John")
	if err != nil || !res.Accepted {
		t.Fatalf("answer after delivery: %+v, %v", res, err)
	}

	// The user message is visible immediately; the prompt follows after the delay.
	st := s.State()
	if len(st.Messages) != 2 || st.Messages[1].Text != "John" || st.Messages[1].FromAssistant {
		t.Fatalf("unexpected transcript: %+v", st.Messages)
	}
	sched.fire()
	if st = s.State(); len(st.Messages) != 3 || !st.Messages[2].FromAssistant {
		t.Fatalf("expected assistant prompt, got %+v", st.Messages)
	}
}

func TestSessionCloseDropsPendingReply(t *testing.T) {
	t.Parallel()

	sched := &manualScheduler{}
	var completed int
	s := NewSession("s-3", SessionDeps{
		Scheduler:  sched,
		OnComplete: func(State) { completed++ },
	})

	_, _ = s.Start()
	_, _ = s.UploadExtractedText("Jane Doe\nDocker")

	s.Close()

	if fired := sched.fire(); fired != 0 {
		t.Fatalf("expected cancelled reply, %d fired", fired)
	}
	if completed != 0 {
		t.Fatalf("closed session must not complete")
	}
	if _, err := s.ContinueManually(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestSessionLogsExtraction(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	rec := &recorder{}
	s := NewSession("s-4", SessionDeps{Logger: zap.New(core), Metrics: rec})

	_, _ = s.Start()
	res, err := s.UploadExtractedText("john smith\njohn@example.com\n5 years of experience\nSkills: React, Python")
	if err != nil || res.State.Stage != StageTechnicalQuestions {
		t.Fatalf("unexpected upload result: %+v, %v", res, err)
	}

	entries := logs.FilterMessage("resume extracted").All()
	if len(entries) != 1 {
		t.Fatalf("expected extraction log, got %v", logs.All())
	}
	if entries[0].ContextMap()["session_id"] != "s-4" {
		t.Fatalf("expected session field, got %v", entries[0].ContextMap())
	}
	if len(rec.fields) == 0 {
		t.Fatalf("expected extracted field metrics")
	}
}

func TestTimerSchedulerDelivers(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	cfg := DefaultConfig()
	cfg.TypingDelay = time.Millisecond

	s := NewSession("s-5", SessionDeps{
		Machine:   NewMachine(cfg),
		Scheduler: TimerScheduler{},
		OnReply:   func([]Message) { close(done) },
	})

	_, _ = s.Start()
	if _, err := s.ContinueManually(); err != nil {
		t.Fatalf("continue: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("reply was not delivered")
	}
	if s.Pending() {
		t.Fatalf("expected no pending reply after delivery")
	}
}

func TestSessionSnapshotIsConsistent(t *testing.T) {
	t.Parallel()

	sched := &manualScheduler{}
	s := NewSession("s-1", SessionDeps{
		Machine:   NewMachine(DefaultConfig()),
		Scheduler: sched,
		Now:       fixedNow,
	})

	if _, err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.ContinueManually(); err != nil {
		t.Fatalf("manual: %v", err)
	}

	snap := s.Snapshot()
	if !snap.Pending || snap.Completed || len(snap.State.Messages) != 0 {
		t.Fatalf("unexpected snapshot while pending: %+v", snap)
	}

	sched.fire()
	for _, answer := range []string{"John Smith", "john@example.com", "555", "5", "Dev", "Berlin"} {
		if _, err := s.SubmitAnswer(answer); err != nil {
			t.Fatalf("answer %q: %v", answer, err)
		}
		sched.fire()
	}
	if res, _ := s.ContinueWithSelectedTechStack(); res.Accepted {
		t.Fatalf("empty selection accepted")
	}

	// COBOL has no questions, so continuing closes the interview.
	if _, err := s.ToggleTechnology("COBOL"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := s.ContinueWithSelectedTechStack(); err != nil {
		t.Fatalf("continue: %v", err)
	}

	snap = s.Snapshot()
	if !snap.Pending || snap.Completed {
		t.Fatalf("expected closing reply to be pending: %+v", snap)
	}

	sched.fire()

	snap = s.Snapshot()
	last := snap.State.Messages[len(snap.State.Messages)-1]
	if snap.Pending || !snap.Completed || !last.FromAssistant {
		t.Fatalf("expected closing message with completed flag: %+v", snap)
	}
}
