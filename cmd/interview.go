package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/application"
	"github.com/spigell/talentscout/internal/ingestion"
	"github.com/spigell/talentscout/internal/interview"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/metrics"
)

const (
	PromptUploadResume     = "Upload my resume (.pdf or .txt)"
	PromptContinueManually = "Continue without a resume"
	PromptContinue         = "Continue with selected technologies"
	PromptOtherTechnology  = "Add another technology"

	typingIndicator = "TalentScout is typing..."
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a screening interview in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().StringP("resume", "r", "", "resume file to upload instead of choosing interactively")
	interviewCmd.Flags().String("summary-dir", "", "write <Name>_screening_summary.txt to this directory on completion")
}

// terminal drives one session from promptui input.
type terminal struct {
	session  *interview.Session
	out      io.Writer
	replies  chan []interview.Message
	loader   *ingestion.Loader
	logger   *zap.Logger
	complete chan interview.State
}

func runInterview(cmd *cobra.Command) {
	ctx := context.Background()

	// Prompts own stdout; logs go to stderr.
	logger, err := logger.NewTo(viper.GetBool("json"), viper.GetBool("debug"), "stderr")
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	machine, err := newMachine(config.Interview)
	if err != nil {
		logger.Fatal("preparing the interview", zap.Error(err))
	}

	sink, closeSink, err := newSink(ctx, config, logger)
	if err != nil {
		logger.Warn("applications will not be submitted", zap.Error(err))
		sink, closeSink = nil, func() {}
	}
	defer closeSink()

	submitter := newSubmitter(sink, config, logger, metrics.Nop{})
	assembler := application.NewAssembler(application.WithDateLayout(config.Interview.DateLayout))

	t := &terminal{
		out:      cmd.OutOrStdout(),
		replies:  make(chan []interview.Message, 1),
		loader:   ingestion.NewLoader(),
		logger:   logger,
		complete: make(chan interview.State, 1),
	}
	t.session = interview.NewSession(uuid.NewString(), interview.SessionDeps{
		Machine:    machine,
		Scheduler:  interview.TimerScheduler{},
		Logger:     logger,
		OnReply:    func(msgs []interview.Message) { t.replies <- msgs },
		OnComplete: func(st interview.State) { t.complete <- st },
	})
	defer t.session.Close()

	resumePath, _ := cmd.Flags().GetString("resume")
	if err := t.run(resumePath); err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			logger.Info("exiting", zap.String("reason", "interview interrupted"))
			return
		}
		logger.Fatal("interview failed", zap.Error(err))
	}

	final := <-t.complete
	rec := assembler.Assemble(final.Candidate)

	fmt.Fprintf(t.out, "\n%s\n", rec.Summary)

	if dir, _ := cmd.Flags().GetString("summary-dir"); dir != "" {
		path := filepath.Join(dir, application.SummaryFileName(rec.Name))
		if err := os.WriteFile(path, []byte(rec.Summary), 0o644); err != nil {
			logger.Error("writing summary", zap.String("path", path), zap.Error(err))
		} else {
			logger.Info("summary written", zap.String("path", path))
		}
	}

	// Submission failures are logged by the submitter and never shown as interview errors.
	res := <-submitter.Go(ctx, rec)
	logger.Debug("submission finished", zap.String("status", res.Status))
}

func (t *terminal) run(resumePath string) error {
	if _, err := t.session.Start(); err != nil {
		return err
	}

	if err := t.begin(resumePath); err != nil {
		return err
	}

	for {
		st := t.session.State()

		switch {
		case st.Stage.IsTerminal():
			return nil
		case st.Stage == interview.StageTechStackSelection:
			if err := t.selectTechnologies(); err != nil {
				return err
			}
		case st.Stage.AcceptsText():
			answer, err := t.ask()
			if err != nil {
				return err
			}
			if err := t.apply(t.session.SubmitAnswer(answer)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected stage %s", st.Stage)
		}
	}
}

// begin handles the resume upload stage. Unsupported or unreadable files send
// the candidate back to the choice between retrying and continuing manually.
func (t *terminal) begin(resumePath string) error {
	for {
		path := resumePath
		resumePath = ""

		if path == "" {
			choice := promptui.Select{
				Label: "Would you like to upload your resume?",
				Items: []string{PromptUploadResume, PromptContinueManually},
			}
			_, selected, err := choice.Run()
			if err != nil {
				return err
			}

			if selected == PromptContinueManually {
				return t.apply(t.session.ContinueManually())
			}

			pathPrompt := promptui.Prompt{Label: "Resume path", Validate: notBlank}
			if path, err = pathPrompt.Run(); err != nil {
				return err
			}
		}

		text, err := t.loader.Load(context.Background(), strings.TrimSpace(path))
		if err != nil {
			if errors.Is(err, ingestion.ErrUnsupportedFileType) {
				fmt.Fprintln(t.out, "Please upload a PDF or TXT file.")
			} else {
				fmt.Fprintf(t.out, "Could not read the resume: %v\n", err)
			}
			continue
		}

		return t.apply(t.session.UploadExtractedText(text))
	}
}

func (t *terminal) selectTechnologies() error {
	keywords := t.session.Machine().Keywords()

	for {
		selected := t.session.State().Selected

		items := make([]string, 0, len(keywords)+len(selected)+2)
		items = append(items, PromptContinue)
		for _, tech := range keywords {
			items = append(items, checkbox(selected.Contains(tech))+tech)
		}
		for _, tech := range selected {
			if !contains(keywords, tech) {
				items = append(items, checkbox(true)+tech)
			}
		}
		items = append(items, PromptOtherTechnology)

		sel := promptui.Select{
			Label: fmt.Sprintf("Technologies (%d selected)", selected.Len()),
			Items: items,
			Size:  12,
		}
		_, choice, err := sel.Run()
		if err != nil {
			return err
		}

		switch choice {
		case PromptContinue:
			res, err := t.session.ContinueWithSelectedTechStack()
			if err != nil {
				return err
			}
			if !res.Accepted {
				fmt.Fprintln(t.out, "Please select at least one technology.")
				continue
			}
			return t.wait(res)
		case PromptOtherTechnology:
			other := promptui.Prompt{Label: "Technology", Validate: notBlank}
			tech, err := other.Run()
			if err != nil {
				return err
			}
			if _, err := t.session.ToggleTechnology(tech); err != nil {
				return err
			}
		default:
			if _, err := t.session.ToggleTechnology(strings.TrimPrefix(strings.TrimPrefix(choice, checkbox(true)), checkbox(false))); err != nil {
				return err
			}
		}
	}
}

func (t *terminal) ask() (string, error) {
	p := promptui.Prompt{Label: "You", Validate: notBlank}
	return p.Run()
}

func (t *terminal) apply(res interview.Result, err error) error {
	if err != nil {
		return err
	}
	return t.wait(res)
}

// wait prints the assistant replies of res. Every scheduled batch arrives
// through OnReply exactly once, even when it was delivered before res returned.
func (t *terminal) wait(res interview.Result) error {
	if !res.Pending && len(res.Messages) == 0 {
		return nil
	}
	if res.Pending {
		fmt.Fprintln(t.out, typingIndicator)
	}
	t.print(<-t.replies)
	return nil
}

func (t *terminal) print(msgs []interview.Message) {
	for _, msg := range msgs {
		fmt.Fprintf(t.out, "\nTalentScout: %s\n\n", msg.Text)
	}
}

func checkbox(checked bool) string {
	if checked {
		return "[x] "
	}
	return "[ ] "
}

func contains(items []string, item string) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}

func notBlank(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("please type an answer")
	}
	return nil
}
