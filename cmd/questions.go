package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/gemini"
	"github.com/spigell/talentscout/internal/questionbank"
	"github.com/spigell/talentscout/internal/secrets"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Inspect and author the technical question bank",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the question bank the interview would use",
	Run: func(cmd *cobra.Command, _ []string) {
		listQuestions(cmd)
	},
}

var questionsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft questions with Gemini and merge them into a question bank file",
	Run: func(cmd *cobra.Command, _ []string) {
		generateQuestions(cmd)
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)
	questionsCmd.AddCommand(questionsListCmd, questionsGenerateCmd)

	questionsGenerateCmd.Flags().StringSliceP("technology", "t", nil, "technology to draft questions for (repeatable)")
	questionsGenerateCmd.Flags().IntP("count", "n", 3, "questions per technology")
	questionsGenerateCmd.Flags().StringP("out", "o", "", "question bank file to merge into (default interview.questions-file or questions.yaml)")
	questionsGenerateCmd.MarkFlagRequired("technology")
}

func listQuestions(cmd *cobra.Command) {
	logger := newCommandLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	bank, err := questionbank.Build(config.Interview.Questions, config.Interview.QuestionsFile)
	if err != nil {
		logger.Fatal("loading question bank", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	for _, entry := range bank.Entries() {
		fmt.Fprintf(out, "%s:\n", entry.Technology)
		for i, q := range entry.Questions {
			fmt.Fprintf(out, "  %d. %s\n", i+1, q)
		}
	}
}

func generateQuestions(cmd *cobra.Command) {
	ctx := context.Background()
	logger := newCommandLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	technologies, _ := cmd.Flags().GetStringSlice("technology")
	count, _ := cmd.Flags().GetInt("count")

	out, _ := cmd.Flags().GetString("out")
	if out = strings.TrimSpace(out); out == "" {
		out = config.Interview.QuestionsFile
	}
	if out == "" {
		out = "questions.yaml"
	}

	writer, err := newQuestionWriter(ctx, config.AI.Gemini, logger)
	if err != nil {
		logger.Fatal("preparing gemini", zap.Error(err), zap.String("hint", "set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY"))
	}

	drafted, err := ai.DraftEntries(ctx, writer, technologies, count)
	if err != nil {
		logger.Fatal("drafting questions", zap.Error(err))
	}

	existing, err := questionbank.LoadFile(out)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal("reading question bank", zap.String("path", out), zap.Error(err))
	}

	merged := questionbank.Merge(existing, drafted)
	if _, err := questionbank.New(merged); err != nil {
		logger.Fatal("validating question bank", zap.Error(err))
	}

	if err := questionbank.SaveFile(out, merged); err != nil {
		logger.Fatal("writing question bank", zap.String("path", out), zap.Error(err))
	}

	logger.Info("question bank updated",
		zap.String("path", out),
		zap.Strings("technologies", technologies),
		zap.Int("technologies_total", len(merged)),
	)
}

func newQuestionWriter(ctx context.Context, cfg *GeminiConfig, logger *zap.Logger) (*gemini.QuestionWriter, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		Env:  "GEMINI_API_KEY",
		File: cfg.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, logger)
	if err != nil {
		return nil, err
	}

	return gemini.NewQuestionWriter(generator, logger.With(zap.String("model", generator.Model())), cfg.MaxLogLength), nil
}
