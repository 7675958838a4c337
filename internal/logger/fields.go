package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldSession = "session_id"
	FieldStage   = "stage"
	// FieldProvider and FieldModel describe the question generator backend.
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
)

// Pair is a string key/value destined for a zap field.
type Pair struct {
	Key   string
	Value string
}

// Strings converts pairs into zap fields. Pairs with a blank key or value are
// dropped so log lines stay compact while a session is still anonymous.
func Strings(pairs ...Pair) []zap.Field {
	out := make([]zap.Field, 0, len(pairs))
	for _, p := range pairs {
		key := strings.TrimSpace(p.Key)
		value := strings.TrimSpace(p.Value)
		if key == "" || value == "" {
			continue
		}
		out = append(out, zap.String(key, value))
	}

	return out
}

// WithFields attaches fields to l. A nil logger becomes a no-op logger.
func WithFields(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	if len(fields) == 0 {
		return l
	}

	return l.With(fields...)
}

// SessionFields identifies an interview session and, optionally, its stage.
func SessionFields(id, stage string) []zap.Field {
	return Strings(Pair{Key: FieldSession, Value: id}, Pair{Key: FieldStage, Value: stage})
}

// GeneratorFields identifies the AI backend used for question generation.
func GeneratorFields(provider, model string) []zap.Field {
	return Strings(Pair{Key: FieldProvider, Value: provider}, Pair{Key: FieldModel, Value: model})
}
