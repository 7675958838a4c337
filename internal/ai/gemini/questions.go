package gemini

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/utils"
)

const (
	systemPrompt = "You are a technical interviewer screening job applicants. " +
		"Answer with a numbered list of questions only, one per line, without commentary."

	defaultMaxLogLength = 200
)

var (
	numberedLine = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s+(.+)$`)
	emphasis     = strings.NewReplacer("**", "", "__", "", "`", "")
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// QuestionWriter drafts interview questions with Gemini.
type QuestionWriter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewQuestionWriter(generator contentGenerator, logger *zap.Logger, maxLogLength int) *QuestionWriter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &QuestionWriter{generator: generator, logger: logger, maxLogLen: maxLogLength}
}

// GenerateQuestions returns up to count questions assessing proficiency in technology.
func (w *QuestionWriter) GenerateQuestions(ctx context.Context, technology string, count int) ([]string, error) {
	technology = strings.TrimSpace(technology)
	if technology == "" {
		return nil, errors.New("technology is required")
	}
	if count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", count)
	}

	prompt := buildPrompt(technology, count)

	w.logger.Debug("gemini generate questions request",
		zap.String("technology", technology),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, w.maxLogLen)),
	)

	raw, err := w.generator.GenerateContent(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	w.logger.Debug("gemini generate questions response",
		zap.String("technology", technology),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, w.maxLogLen)),
	)

	questions := parseQuestions(raw)
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions found in gemini response for %s", technology)
	}
	if len(questions) > count {
		questions = questions[:count]
	}

	return questions, nil
}

func buildPrompt(technology string, count int) string {
	return fmt.Sprintf("Generate %d technical questions for a candidate who lists %s in their tech stack. "+
		"Questions should assess practical proficiency in %s. Return them as a numbered list.",
		count, technology, technology)
}

// parseQuestions extracts list items. When the response has no list markers,
// every non-blank line is taken as a question.
func parseQuestions(raw string) []string {
	var listed, plain []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}

		if m := numberedLine.FindStringSubmatch(line); m != nil {
			if q := cleanQuestion(m[1]); q != "" {
				listed = append(listed, q)
			}
			continue
		}

		if q := cleanQuestion(line); q != "" {
			plain = append(plain, q)
		}
	}

	if len(listed) > 0 {
		return listed
	}
	return plain
}

func cleanQuestion(s string) string {
	return strings.TrimSpace(emphasis.Replace(s))
}
