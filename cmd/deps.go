package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/application"
	"github.com/spigell/talentscout/internal/extractor"
	"github.com/spigell/talentscout/internal/interview"
	"github.com/spigell/talentscout/internal/metrics"
	"github.com/spigell/talentscout/internal/questionbank"
	"github.com/spigell/talentscout/internal/secrets"
	"github.com/spigell/talentscout/internal/store"
)

// newMachine builds the interview machine from the interview section.
func newMachine(cfg *InterviewConfig) (*interview.Machine, error) {
	bank, err := questionbank.Build(cfg.Questions, cfg.QuestionsFile)
	if err != nil {
		return nil, fmt.Errorf("loading question bank: %w", err)
	}

	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = extractor.Keywords()
	}

	return interview.NewMachine(interview.Config{
		Bank:                      bank,
		Extractor:                 extractor.New(keywords),
		Keywords:                  keywords,
		MaxQuestionsPerTechnology: cfg.MaxQuestionsPerTechnology,
		TypingDelay:               cfg.TypingDelay,
		ClosingDelay:              cfg.ClosingDelay,
	}), nil
}

// newSink returns the HTTP sink when sink.url is set and the local store otherwise.
// The returned close func releases the local store, if any.
func newSink(ctx context.Context, config *Config, logger *zap.Logger) (application.Sink, func(), error) {
	if config.Sink.URL != "" {
		token, err := secrets.Optional(secrets.Source{
			Name: "sink token",
			Env:  "TALENTSCOUT_SINK_TOKEN",
			File: config.Sink.TokenFile,
		})
		if err != nil {
			return nil, nil, err
		}

		logger.Debug("submitting applications over http", zap.String("url", config.Sink.URL))
		return application.NewClient(config.Sink.URL, token, config.Sink.Timeout, logger), func() {}, nil
	}

	st, err := store.Open(ctx, config.Server.Database, logger)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("submitting applications to the local database", zap.String("database", config.Server.Database))
	return st, func() { _ = st.Close() }, nil
}

func newSubmitter(sink application.Sink, config *Config, logger *zap.Logger, rec metrics.Recorder) *application.Submitter {
	return application.NewSubmitter(sink, config.Sink.Timeout, logger, rec)
}
