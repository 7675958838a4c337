package interview

import (
	"fmt"
	"strings"

	"github.com/spigell/talentscout/internal/candidate"
)

const (
	manualGreeting = "Hello! I'm the TalentScout AI assistant. I'll help screen your application today. " +
		"Let's start with some basic information."
	resumeGreeting = "Hello! I've processed your resume. Let me ask a few questions to complete your profile."

	techStackPrompt = "Perfect! Now let's talk about your technical skills. " +
		"Please select the technologies you're proficient in from the options below:"

	questionsClosing = "Excellent! That completes our technical screening. Thank you for your time and detailed responses. " +
		"Our team will review your information and get back to you within 2-3 business days.\n\nHave a wonderful day!"
	noQuestionsClosing = "Thank you for sharing your tech stack! While I don't have specific questions for those technologies, " +
		"our team will review your profile. We'll be in touch soon!"
)

// step binds a scripted stage to the field it fills and the prompt that asks for it.
type step struct {
	stage  Stage
	field  candidate.Field
	prompt func(rec candidate.Record) string
}

var steps = []step{
	{stage: StageName, field: candidate.FieldName, prompt: fixed("What's your full name?")},
	{stage: StageEmail, field: candidate.FieldEmail, prompt: func(rec candidate.Record) string {
		return fmt.Sprintf("Nice to meet you, %s! What's your email address?", orThere(rec.Name))
	}},
	{stage: StagePhone, field: candidate.FieldPhone, prompt: fixed("Great! What's your phone number?")},
	{stage: StageExperience, field: candidate.FieldExperience, prompt: fixed("Perfect! How many years of professional experience do you have?")},
	{stage: StagePosition, field: candidate.FieldPosition, prompt: fixed("Excellent! What position(s) are you interested in applying for?")},
	{stage: StageLocation, field: candidate.FieldLocation, prompt: fixed("Great choice! What's your current location?")},
}

func fixed(text string) func(candidate.Record) string {
	return func(candidate.Record) string { return text }
}

func stepIndex(stage Stage) (int, bool) {
	for i, s := range steps {
		if s.stage == stage {
			return i, true
		}
	}
	return 0, false
}

// nextScripted returns the first stage starting at steps[from] whose field is still
// empty, with its prompt. Tech stack selection follows the last scripted stage.
func nextScripted(from int, rec candidate.Record) (Stage, string) {
	for i := from; i < len(steps); i++ {
		if rec.Has(steps[i].field) {
			continue
		}
		return steps[i].stage, steps[i].prompt(rec)
	}
	return StageTechStackSelection, techStackPrompt
}

func orThere(name string) string {
	if name == "" {
		return "there"
	}
	return name
}

func joinTechs(stack candidate.TechStack) string {
	return strings.Join(stack, ", ")
}

func selectionIntro(stack candidate.TechStack, tech, question string) string {
	return fmt.Sprintf("Perfect! I can see you're skilled in %s. Let's dive into some technical questions.\n\nStarting with %s:\n\n%s",
		joinTechs(stack), tech, question)
}

func resumeIntro(name string, stack candidate.TechStack, tech, question string) string {
	return fmt.Sprintf("Hello %s! I've reviewed your resume and can see you're skilled in %s. Let's dive into some technical questions.\n\nStarting with %s:\n\n%s",
		orThere(name), joinTechs(stack), tech, question)
}

func resumeNoQuestions(name string) string {
	return fmt.Sprintf("Thank you for uploading your resume, %s! I've extracted your information successfully. "+
		"Our team will review your profile and get back to you soon.", orThere(name))
}

func nextTechnologyIntro(tech, question string) string {
	return fmt.Sprintf("Great! Now let's move on to %s.\n\n%s", tech, question)
}
