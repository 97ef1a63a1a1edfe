// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/devfolio/internal/content"
	"github.com/jonathan/devfolio/internal/linkcheck"
	"github.com/jonathan/devfolio/internal/snapshot"
	"github.com/jonathan/devfolio/internal/viewer"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted CLI output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBanner(text string) {
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, text)
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// PrintContentSummary outputs counts and highlights of a loaded content store.
func (p *Printer) PrintContentSummary(store *content.Store) {
	if store == nil {
		return
	}

	stats := store.Statistics()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Experience:  %d entries\n", len(store.Experience())))
	sb.WriteString(fmt.Sprintf("Education:   %d entries\n", len(store.Education())))
	sb.WriteString(fmt.Sprintf("Stacks:      %d skills\n", len(store.Stacks())))
	sb.WriteString(fmt.Sprintf("Projects:    %d\n", len(store.Projects())))
	sb.WriteString(fmt.Sprintf("Categories:  %s\n", strings.Join(store.Categories()[1:], ", ")))
	sb.WriteString(fmt.Sprintf("Statistics:  %d projects, %d years, %d clients\n", stats.Projects, stats.Experience, stats.Clients))
	sb.WriteString("\n")

	featured := store.TopProjects()
	if len(featured) > 0 {
		sb.WriteString("Featured:\n")
		for _, proj := range featured {
			sb.WriteString(fmt.Sprintf("  • #%d %s (%s)\n", proj.ID, proj.Name, proj.Category))
		}
	}

	p.printBox("CONTENT SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStacks outputs the top skills of each stack category.
func (p *Printer) PrintStacks(groups []content.StackGroup) {
	if len(groups) == 0 {
		return
	}

	var sb strings.Builder
	for i, group := range groups {
		sb.WriteString(fmt.Sprintf("%s:\n", group.Category))
		if len(group.Stacks) == 0 {
			sb.WriteString("  (none)\n")
		}
		count := min(len(group.Stacks), maxItemsToShow)
		for j := 0; j < count; j++ {
			s := group.Stacks[j]
			sb.WriteString(fmt.Sprintf("  • %-20s %3d%%\n", truncate(s.Name, 20), s.SkillLevel))
		}
		if len(group.Stacks) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(group.Stacks)-maxItemsToShow))
		}
		if i < len(groups)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TECH STACK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLinkReport outputs the broken links of a crawl, or a success banner.
func (p *Printer) PrintLinkReport(report *linkcheck.Report) {
	if report == nil {
		return
	}

	broken := report.Broken()
	if len(broken) == 0 {
		p.printBanner(fmt.Sprintf("✅ ALL %d LINKS OK", len(report.Results)))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Checked %d urls, %d broken:\n\n", len(report.Results), len(broken)))

	for i, res := range broken {
		status := fmt.Sprintf("%d", res.Status)
		if res.Error != "" {
			status = "ERR"
		}
		sb.WriteString(fmt.Sprintf("⚠ %s %s\n", status, truncate(res.URL, 45)))
		if res.Referrer != "" {
			sb.WriteString(fmt.Sprintf("  from %s\n", truncate(res.Referrer, 45)))
		}
		if res.Error != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", truncate(res.Error, 45)))
		}
		if i < len(broken)-1 {
			sb.WriteString("\n")
		}
	}
	if report.Truncated {
		sb.WriteString("\n(page limit reached, crawl incomplete)")
	}

	p.printBox("BROKEN LINKS", strings.TrimSuffix(sb.String(), "\n"))
}

// ThemeRow is the sampled theme of one project image
type ThemeRow struct {
	Project string
	ImageID int
	Path    string
	Theme   viewer.Theme
}

// PrintThemes outputs the control theme chosen for each image.
func (p *Printer) PrintThemes(rows []ThemeRow) {
	if len(rows) == 0 {
		return
	}

	var sb strings.Builder
	counts := map[viewer.Theme]int{}
	for _, row := range rows {
		counts[row.Theme]++
		sb.WriteString(fmt.Sprintf("%-8s %s #%d\n", row.Theme, truncate(row.Project, 20), row.ImageID))
		sb.WriteString(fmt.Sprintf("         %s\n", truncate(row.Path, 45)))
	}
	sb.WriteString(fmt.Sprintf("\nlight: %d  dark: %d  fallback: %d",
		counts[viewer.ThemeLight], counts[viewer.ThemeDark], counts[viewer.ThemeFallback]))

	p.printBox("IMAGE THEMES", sb.String())
}

// PrintSnapshots outputs the screenshots written by a capture run.
func (p *Printer) PrintSnapshots(shots []snapshot.Shot) {
	if len(shots) == 0 {
		return
	}

	var sb strings.Builder
	total := 0
	for _, shot := range shots {
		total += shot.Bytes
		sb.WriteString(fmt.Sprintf("%-24s %6d KB\n", truncate(shot.Route, 24), shot.Bytes/1024))
	}
	sb.WriteString(fmt.Sprintf("\n%d screenshots, %d KB total", len(shots), total/1024))

	p.printBox("SNAPSHOTS", sb.String())
}

// PrintValidation outputs the problems found in a content document.
func (p *Printer) PrintValidation(source string, problems []string) {
	if len(problems) == 0 {
		p.printBanner("✅ CONTENT VALID: " + source)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems in %s:\n\n", len(problems), source))
	for i, problem := range problems {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", truncate(problem, 50)))
		if i == maxItemsToShow*2-1 && len(problems) > maxItemsToShow*2 {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(problems)-maxItemsToShow*2))
			break
		}
	}

	p.printBox("CONTENT PROBLEMS", strings.TrimSuffix(sb.String(), "\n"))
}
