// Package ai defines the question drafting contract used to author question banks.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/talentscout/internal/questionbank"
)

// QuestionGenerator drafts technical interview questions for one technology.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, technology string, count int) ([]string, error)
}

// DraftEntries asks gen for count questions per technology and returns bank entries
// in the order of technologies. Blank technologies are skipped.
func DraftEntries(ctx context.Context, gen QuestionGenerator, technologies []string, count int) ([]questionbank.Entry, error) {
	if gen == nil {
		return nil, errors.New("question generator is required")
	}
	if count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", count)
	}

	var entries []questionbank.Entry
	for _, tech := range technologies {
		tech = strings.TrimSpace(tech)
		if tech == "" {
			continue
		}

		questions, err := gen.GenerateQuestions(ctx, tech, count)
		if err != nil {
			return nil, fmt.Errorf("drafting questions for %s: %w", tech, err)
		}
		if len(questions) > count {
			questions = questions[:count]
		}

		entries = append(entries, questionbank.Entry{Technology: tech, Questions: questions})
	}

	if len(entries) == 0 {
		return nil, errors.New("no technologies to draft questions for")
	}

	return entries, nil
}
