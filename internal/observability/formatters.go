// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most width runes.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to limit items under heading, then a "... and N more" line.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintProfile outputs a summary of the merged knowledge base and the
// attachments that accompany it.
func (p *Printer) PrintProfile(profile *types.Profile, attachments []types.Attachment) {
	var sb strings.Builder

	if profile.IsEmpty() {
		sb.WriteString("No knowledge base loaded\n")
	} else {
		if pi := profile.PersonalInfo; pi != nil {
			sb.WriteString(fmt.Sprintf("Name:     %s\n", pi.FullName))
			sb.WriteString(fmt.Sprintf("Email:    %s\n", pi.Email))
			if pi.Location != "" {
				sb.WriteString(fmt.Sprintf("Location: %s\n", pi.Location))
			}
			sb.WriteString("\n")
		}

		roles := make([]string, 0, len(profile.Experience))
		for _, e := range profile.Experience {
			roles = append(roles, fmt.Sprintf("%s @ %s (%s)", e.Role, e.Company, e.Period))
		}
		writeList(&sb, "Experience", roles, maxItemsToShow)

		groups := make([]string, 0, len(profile.Skills))
		for _, g := range profile.Skills {
			groups = append(groups, fmt.Sprintf("%s: %s", g.Category, strings.Join(g.Items, ", ")))
		}
		writeList(&sb, "Skills", groups, maxItemsToShow)

		sb.WriteString(fmt.Sprintf("Education: %d  Projects: %d  Certifications: %d  Languages: %d\n",
			len(profile.Education), len(profile.Projects), len(profile.Certifications), len(profile.Languages)))
	}

	if len(attachments) > 0 {
		names := make([]string, 0, len(attachments))
		for _, a := range attachments {
			names = append(names, fmt.Sprintf("%s (%d page(s), %d KiB)", a.FileName, a.Pages, (a.Size()+1023)/1024))
		}
		sb.WriteString("\n")
		writeList(&sb, "Attachments", names, maxItemsToShow)
	}

	p.printBox("KNOWLEDGE BASE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobDescription outputs the first lines of the stored job description.
func (p *Printer) PrintJobDescription(text string) {
	if text == "" {
		p.printBox("JOB DESCRIPTION", "No job description set")
		return
	}

	lines := strings.Split(text, "\n")
	shown := lines[:min(len(lines), 8)]
	content := strings.Join(shown, "\n")
	if len(lines) > len(shown) {
		content += fmt.Sprintf("\n... %d more line(s)", len(lines)-len(shown))
	}
	content += fmt.Sprintf("\n\n%d characters", len([]rune(text)))
	p.printBox("JOB DESCRIPTION", content)
}

// PrintGeneratedDocument outputs a summary of a tailored resume.
func (p *Printer) PrintGeneratedDocument(doc *types.GeneratedDocument) {
	if doc == nil {
		p.printBox("TAILORED RESUME", "No resume generated yet")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s\n", doc.PersonalInfo.FullName))
	contact := []string{doc.PersonalInfo.Email, doc.PersonalInfo.Phone, doc.PersonalInfo.Location}
	sb.WriteString(strings.Join(nonEmpty(contact), " | ") + "\n\n")

	if doc.Summary != "" {
		sb.WriteString(doc.Summary + "\n\n")
	}

	for _, e := range doc.Experience {
		sb.WriteString(fmt.Sprintf("%s @ %s (%s)\n", e.Role, e.Company, e.Period))
		for _, bullet := range e.Description[:min(len(e.Description), 3)] {
			sb.WriteString(fmt.Sprintf("  • %s\n", bullet))
		}
		if len(e.Description) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(e.Description)-3))
		}
	}

	skills := 0
	for _, g := range doc.Skills {
		skills += len(g.Items)
	}
	sb.WriteString(fmt.Sprintf("\nSkills: %d in %d group(s)  Education: %d\n", skills, len(doc.Skills), len(doc.Education)))

	p.printBox("TAILORED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
