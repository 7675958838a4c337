package extractor

import (
	"regexp"
	"strings"

	"github.com/spigell/talentscout/internal/candidate"
)

const maxNameLength = 50

var (
	emailPattern      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern      = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	namePattern       = regexp.MustCompile(`^[A-Za-z\s]+$`)
	experiencePattern = regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(of\s*)?(experience|exp)`)
	locationPattern   = regexp.MustCompile(`(?i)(?:location|address|based in|located in)[:\s]+([^\n,]+)`)
)

type emailRule struct{}

func newEmailRule() Rule { return emailRule{} }

func (emailRule) Name() string { return string(candidate.FieldEmail) }

func (emailRule) Apply(text string, rec *candidate.Record) bool {
	match := emailPattern.FindString(text)
	if match == "" {
		return false
	}
	rec.Email = match
	return true
}

type phoneRule struct{}

func newPhoneRule() Rule { return phoneRule{} }

func (phoneRule) Name() string { return string(candidate.FieldPhone) }

func (phoneRule) Apply(text string, rec *candidate.Record) bool {
	match := phonePattern.FindString(text)
	if match == "" {
		return false
	}
	rec.Phone = match
	return true
}

// nameRule only looks at the first non-blank line.
type nameRule struct{}

func newNameRule() Rule { return nameRule{} }

func (nameRule) Name() string { return string(candidate.FieldName) }

func (nameRule) Apply(text string, rec *candidate.Record) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) < maxNameLength && namePattern.MatchString(line) {
			rec.Name = line
			return true
		}
		return false
	}
	return false
}

type experienceRule struct{}

func newExperienceRule() Rule { return experienceRule{} }

func (experienceRule) Name() string { return string(candidate.FieldExperience) }

func (experienceRule) Apply(text string, rec *candidate.Record) bool {
	groups := experiencePattern.FindStringSubmatch(text)
	if groups == nil {
		return false
	}
	rec.Experience = groups[1] + " years"
	return true
}

type locationRule struct{}

func newLocationRule() Rule { return locationRule{} }

func (locationRule) Name() string { return string(candidate.FieldLocation) }

func (locationRule) Apply(text string, rec *candidate.Record) bool {
	groups := locationPattern.FindStringSubmatch(text)
	if groups == nil {
		return false
	}
	location := strings.TrimSpace(groups[1])
	if location == "" {
		return false
	}
	rec.Location = location
	return true
}

// skillsRule matches keywords by case-insensitive containment, so "Java" is also
// found inside "JavaScript". Results follow the keyword list order.
type skillsRule struct {
	keywords []string
}

func newSkillsRule(keywords []string) Rule {
	kw := make([]string, len(keywords))
	copy(kw, keywords)
	return &skillsRule{keywords: kw}
}

func (*skillsRule) Name() string { return "skills" }

func (r *skillsRule) Apply(text string, rec *candidate.Record) bool {
	lower := strings.ToLower(text)

	var found candidate.TechStack
	for _, kw := range r.keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			found = found.Add(kw)
		}
	}

	if len(found) == 0 {
		return false
	}
	rec.TechStack = found
	return true
}
