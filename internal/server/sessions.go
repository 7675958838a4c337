package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/interview"
)

type entry struct {
	session *interview.Session

	mu            sync.Mutex
	applicationID string
	lastSeen      time.Time
}

func (e *entry) touch(now time.Time) {
	e.mu.Lock()
	e.lastSeen = now
	e.mu.Unlock()
}

func (e *entry) idleSince(cutoff time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSeen.Before(cutoff)
}

type registry struct {
	newID func() string
	now   func() time.Time

	mu       sync.RWMutex
	sessions map[string]*entry
}

func newRegistry(newID func() string, now func() time.Time) *registry {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &registry{newID: newID, now: now, sessions: make(map[string]*entry)}
}

func (r *registry) add(e *entry) {
	e.touch(r.now())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[e.session.ID()] = e
}

func (r *registry) get(id string) (*entry, bool) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()

	if ok {
		e.touch(r.now())
	}
	return e, ok
}

// evictIdle closes and removes sessions not requested since cutoff.
func (r *registry) evictIdle(cutoff time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for id, e := range r.sessions {
		if !e.idleSince(cutoff) {
			continue
		}
		e.session.Close()
		delete(r.sessions, id)
		evicted = append(evicted, id)
	}
	return evicted
}

func (r *registry) remove(id string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	return e, ok
}

func (r *registry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.sessions {
		e.session.Close()
		delete(r.sessions, id)
	}
}

// sessionView is the JSON shape of a session.
type sessionView struct {
	ID                   string              `json:"id"`
	Stage                interview.Stage     `json:"stage"`
	Messages             []interview.Message `json:"messages"`
	SelectedTechStack    candidate.TechStack `json:"selectedTechStack"`
	CurrentTechnology    string              `json:"currentTechnology"`
	CurrentQuestionIndex int                 `json:"currentQuestionIndex"`
	Candidate            candidate.Record    `json:"candidate"`
	Keywords             []string            `json:"keywords,omitempty"`
	Pending              bool                `json:"pending"`
	Completed            bool                `json:"completed"`
	Accepted             *bool               `json:"accepted,omitempty"`
	ApplicationID        string              `json:"applicationId,omitempty"`
}

func (s *Server) view(e *entry, accepted *bool) sessionView {
	snap := e.session.Snapshot()
	st := snap.State

	e.mu.Lock()
	appID := e.applicationID
	e.mu.Unlock()

	messages := st.Messages
	if messages == nil {
		messages = []interview.Message{}
	}
	selected := st.Selected
	if selected == nil {
		selected = candidate.TechStack{}
	}

	v := sessionView{
		ID:                   e.session.ID(),
		Stage:                st.Stage,
		Messages:             messages,
		SelectedTechStack:    selected,
		CurrentTechnology:    st.CurrentTechnology,
		CurrentQuestionIndex: st.CurrentQuestionIndex,
		Candidate:            st.Candidate,
		Pending:              snap.Pending,
		Completed:            snap.Completed,
		Accepted:             accepted,
		ApplicationID:        appID,
	}
	if st.Stage == interview.StageTechStackSelection {
		v.Keywords = e.session.Machine().Keywords()
	}

	return v
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	e := &entry{}
	id := s.sessions.newID()

	e.session = interview.NewSession(id, interview.SessionDeps{
		Machine:   s.deps.Machine,
		Scheduler: s.deps.Scheduler,
		Logger:    s.deps.Logger,
		Metrics:   s.deps.Metrics,
		OnComplete: func(st interview.State) {
			s.complete(e, st)
		},
	})
	s.sessions.add(e)

	res, err := e.session.Start()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("session created", zap.String("session_id", id))
	s.respondJSON(w, http.StatusCreated, s.view(e, &res.Accepted))
}

// complete assembles the application and hands it to the sink in the background.
func (s *Server) complete(e *entry, st interview.State) {
	rec := s.deps.Assembler.Assemble(st.Candidate)

	e.mu.Lock()
	e.applicationID = rec.ID
	e.mu.Unlock()

	s.deps.Submitter.Go(context.Background(), rec)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.respondJSON(w, http.StatusOK, s.view(e, nil))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessions.remove(r.PathValue("id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	e.session.Close()
	w.WriteHeader(http.StatusNoContent)
}

type textRequest struct {
	Text       string `json:"text"`
	Technology string `json:"technology"`
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.withText(w, r, func(sess *interview.Session, req textRequest) (interview.Result, error) {
		return sess.UploadExtractedText(req.Text)
	})
}

func (s *Server) handleManual(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, (*interview.Session).ContinueManually)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	s.withText(w, r, func(sess *interview.Session, req textRequest) (interview.Result, error) {
		return sess.SubmitAnswer(req.Text)
	})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.withText(w, r, func(sess *interview.Session, req textRequest) (interview.Result, error) {
		return sess.ToggleTechnology(req.Technology)
	})
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, (*interview.Session).ContinueWithSelectedTechStack)
}

func (s *Server) withText(w http.ResponseWriter, r *http.Request, fn func(*interview.Session, textRequest) (interview.Result, error)) {
	var req textRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.event(w, r, func(sess *interview.Session) (interview.Result, error) {
		return fn(sess, req)
	})
}

func (s *Server) event(w http.ResponseWriter, r *http.Request, fn func(*interview.Session) (interview.Result, error)) {
	e, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}

	res, err := fn(e.session)
	switch {
	case errors.Is(err, interview.ErrResponsePending):
		s.respondError(w, http.StatusConflict, "assistant response is pending")
		return
	case errors.Is(err, interview.ErrSessionClosed):
		s.respondError(w, http.StatusGone, "session is closed")
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, s.view(e, &res.Accepted))
}
