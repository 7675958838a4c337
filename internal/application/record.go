// Package application turns a completed interview into an application record and
// hands it to the log sink.
package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/spigell/talentscout/internal/candidate"
)

// DefaultDateLayout renders the screening date as month/day/year.
const DefaultDateLayout = "1/2/2006"

// Record is the finalized result of a completed session. It is never mutated
// after Assemble returns it.
type Record struct {
	ID          string    `json:"id" mapstructure:"id"`
	Name        string    `json:"name" mapstructure:"name"`
	Email       string    `json:"email" mapstructure:"email"`
	SubmittedAt time.Time `json:"submittedAt" mapstructure:"submittedAt"`
	Summary     string    `json:"summary" mapstructure:"summary"`
}

// Assembler builds records from candidate data.
type Assembler struct {
	now        func() time.Time
	newID      func() string
	dateLayout string
}

// AssemblerOption customizes an Assembler.
type AssemblerOption func(*Assembler)

// WithClock overrides the submission clock.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithIDs overrides record id generation.
func WithIDs(newID func() string) AssemblerOption {
	return func(a *Assembler) {
		if newID != nil {
			a.newID = newID
		}
	}
}

// WithDateLayout sets the layout of the summary screening date.
func WithDateLayout(layout string) AssemblerOption {
	return func(a *Assembler) {
		if layout != "" {
			a.dateLayout = layout
		}
	}
}

func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		now:        time.Now,
		newID:      uuid.NewString,
		dateLayout: DefaultDateLayout,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Assemble snapshots rec into a new Record with a fresh id and timestamp.
func (a *Assembler) Assemble(rec candidate.Record) Record {
	at := a.now()

	return Record{
		ID:          a.newID(),
		Name:        rec.Name,
		Email:       rec.Email,
		SubmittedAt: at.UTC(),
		Summary:     RenderSummary(rec, at, a.dateLayout),
	}
}
