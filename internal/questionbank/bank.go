// Package questionbank provides the read-only per-technology interview questions.
package questionbank

import (
	"errors"
	"fmt"
	"strings"
)

// Entry is the configuration form of a single technology and its ordered questions.
type Entry struct {
	Technology string   `mapstructure:"technology" yaml:"technology" json:"technology"`
	Questions  []string `mapstructure:"questions" yaml:"questions" json:"questions"`
}

// Bank maps technology names to ordered question lists. It is immutable once built.
type Bank struct {
	order     []string
	questions map[string][]string
}

// New builds a bank from entries. Technology names are matched exactly.
// Blank questions are dropped; an entry left without questions is kept but
// contributes nothing.
func New(entries []Entry) (*Bank, error) {
	b := &Bank{questions: make(map[string][]string, len(entries))}

	for i, entry := range entries {
		tech := strings.TrimSpace(entry.Technology)
		if tech == "" {
			return nil, fmt.Errorf("entry %d: technology is required", i)
		}
		if _, ok := b.questions[tech]; ok {
			return nil, fmt.Errorf("entry %d: duplicate technology %q", i, tech)
		}

		questions := make([]string, 0, len(entry.Questions))
		for _, q := range entry.Questions {
			if q = strings.TrimSpace(q); q != "" {
				questions = append(questions, q)
			}
		}

		b.order = append(b.order, tech)
		b.questions[tech] = questions
	}

	return b, nil
}

// MustNew is New for static tables known to be valid.
func MustNew(entries []Entry) *Bank {
	b, err := New(entries)
	if err != nil {
		panic(err)
	}
	return b
}

// Questions returns a copy of the questions registered for tech.
func (b *Bank) Questions(tech string) []string {
	if b == nil {
		return nil
	}
	qs := b.questions[tech]
	if len(qs) == 0 {
		return nil
	}
	out := make([]string, len(qs))
	copy(out, qs)
	return out
}

// Question returns the idx-th question of tech.
func (b *Bank) Question(tech string, idx int) (string, bool) {
	if b == nil {
		return "", false
	}
	qs := b.questions[tech]
	if idx < 0 || idx >= len(qs) {
		return "", false
	}
	return qs[idx], true
}

// Count returns the number of questions registered for tech.
func (b *Bank) Count(tech string) int {
	if b == nil {
		return 0
	}
	return len(b.questions[tech])
}

// HasQuestions reports whether tech has at least one question.
func (b *Bank) HasQuestions(tech string) bool {
	return b.Count(tech) > 0
}

// Technologies lists registered technologies in configuration order.
func (b *Bank) Technologies() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Entries converts the bank back to its configuration form.
func (b *Bank) Entries() []Entry {
	if b == nil {
		return nil
	}
	entries := make([]Entry, 0, len(b.order))
	for _, tech := range b.order {
		entries = append(entries, Entry{Technology: tech, Questions: b.Questions(tech)})
	}
	return entries
}

// Merge appends the questions of extra to base. Unknown technologies are added at the
// end, questions already present for a technology are not duplicated.
func Merge(base, extra []Entry) []Entry {
	out := make([]Entry, 0, len(base)+len(extra))
	index := make(map[string]int, len(base))

	add := func(e Entry) {
		i, ok := index[e.Technology]
		if !ok {
			index[e.Technology] = len(out)
			out = append(out, Entry{Technology: e.Technology})
			i = len(out) - 1
		}
		for _, q := range e.Questions {
			if !contains(out[i].Questions, q) {
				out[i].Questions = append(out[i].Questions, q)
			}
		}
	}

	for _, e := range base {
		add(e)
	}
	for _, e := range extra {
		add(e)
	}

	return out
}

var errNoEntries = errors.New("question bank has no entries")

func contains(items []string, item string) bool {
	for _, i := range items {
		if i == item {
			return true
		}
	}
	return false
}
