// Package extractor derives a partial candidate record from free-form resume text.
//
// Extraction is pattern based. Every rule runs independently against the whole text,
// any subset may match, and an unmatched rule simply leaves its field absent.
package extractor

import (
	"github.com/spigell/talentscout/internal/candidate"
)

// Rule fills at most one part of the record from the text.
type Rule interface {
	Name() string
	Apply(text string, rec *candidate.Record) bool
}

// Report describes which rules matched during a run.
type Report struct {
	Matched []string
	Skipped []string
}

// Extractor applies its rules in order.
type Extractor struct {
	rules []Rule
}

// New creates an extractor with the standard rules. keywords is the ordered skill
// list; DefaultKeywords is used when it is empty.
func New(keywords []string) *Extractor {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	return &Extractor{
		rules: []Rule{
			newEmailRule(),
			newPhoneRule(),
			newNameRule(),
			newExperienceRule(),
			newLocationRule(),
			newSkillsRule(keywords),
		},
	}
}

// Extract returns the partial record found in text.
func (e *Extractor) Extract(text string) candidate.Record {
	rec, _ := e.Run(text)
	return rec
}

// Run is Extract that also reports per-rule outcomes.
func (e *Extractor) Run(text string) (candidate.Record, Report) {
	var (
		rec    candidate.Record
		report Report
	)

	for _, rule := range e.rules {
		if rule.Apply(text, &rec) {
			report.Matched = append(report.Matched, rule.Name())
			continue
		}
		report.Skipped = append(report.Skipped, rule.Name())
	}

	return rec, report
}

// Extract runs the default extractor.
func Extract(text string) candidate.Record {
	return New(nil).Extract(text)
}
