package application

import (
	"strings"
	"time"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/utils"
)

// RenderSummary renders the plain-text screening summary. Absent fields render
// as empty values.
func RenderSummary(rec candidate.Record, date time.Time, layout string) string {
	if layout == "" {
		layout = DefaultDateLayout
	}

	var b strings.Builder
	b.WriteString("CANDIDATE SCREENING SUMMARY\n")
	b.WriteString("==========================\n")
	b.WriteString("\n")
	b.WriteString("Personal Information:\n")
	b.WriteString("- Name: " + rec.Name + "\n")
	b.WriteString("- Email: " + rec.Email + "\n")
	b.WriteString("- Phone: " + rec.Phone + "\n")
	b.WriteString("- Location: " + rec.Location + "\n")
	b.WriteString("- Experience: " + rec.Experience + "\n")
	b.WriteString("- Position: " + rec.Position + "\n")
	b.WriteString("\n")
	b.WriteString("Technical Stack:\n")
	b.WriteString(stackLines(rec.TechStack) + "\n")
	b.WriteString("\n")
	b.WriteString("Screening Date: " + date.Format(layout) + "\n")

	return b.String()
}

// stackLines renders one "- tech" line per technology without a trailing
// newline, so an empty stack still takes up a line of its own.
func stackLines(stack candidate.TechStack) string {
	lines := make([]string, 0, len(stack))
	for _, tech := range stack {
		lines = append(lines, "- "+tech)
	}
	return strings.Join(lines, "\n")
}

// SummaryFileName is the download name of a candidate summary.
func SummaryFileName(name string) string {
	safe := utils.FileSafeName(name)
	if safe == "" {
		safe = "candidate"
	}
	return safe + "_screening_summary.txt"
}
