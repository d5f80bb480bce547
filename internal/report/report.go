package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/itsmostafa/yearbook/internal/locate"
)

var (
	// titleStyle for bold red headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for documents that contributed pages
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for documents skipped without error
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// errorStyle for failed documents
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for the run summary
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	// headerBoxStyle for the run header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	// bannerStyle for per-document banners
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("160")).
			Padding(0, 2)
)

// Header describes a run.
type Header struct {
	Query  string
	Input  string
	Output string
	Policy locate.MatchPolicy
	Jobs   int
}

// Row is one document in the run summary.
type Row struct {
	Name    string
	Outcome locate.Outcome
	Err     error
}

// FormatHeader renders the run header
func FormatHeader(w io.Writer, h Header) {
	policy := string(h.Policy)
	if policy == "" {
		policy = string(locate.PolicyAll)
	}

	content := fmt.Sprintf("%s %s\n%s %s\n%s %s\n%s %s  %s %d",
		dimStyle.Render("Query:"), titleStyle.Render(h.Query),
		dimStyle.Render("Input:"), h.Input,
		dimStyle.Render("Output:"), successStyle.Render(h.Output),
		dimStyle.Render("Policy:"), policy,
		dimStyle.Render("Jobs:"), max(h.Jobs, 1),
	)

	fmt.Fprintln(w, headerBoxStyle.Render(content))
}

// FormatDocumentBanner renders the banner shown before a document is searched
func FormatDocumentBanner(w io.Writer, index, total int, name string) {
	banner := fmt.Sprintf(" %d/%d %s ", index, total, name)
	fmt.Fprintln(w)
	fmt.Fprintln(w, bannerStyle.Render(banner))
}

// FormatOutcome renders the result of one document
func FormatOutcome(w io.Writer, row Row) {
	fmt.Fprintf(w, "%s %s\n", status(row), detail(row))
}

// FormatSummary renders the summary box for a run over total documents,
// listing the skipped ones
func FormatSummary(w io.Writer, output string, total int, skipped []Row) {
	lines := make([]string, 0, len(skipped))
	for _, r := range skipped {
		lines = append(lines, fmt.Sprintf("%s %s", status(r), r.Name))
	}

	head := fmt.Sprintf("%s %d  %s %d  %s %d",
		dimStyle.Render("Documents:"), total,
		dimStyle.Render("With pages:"), total-len(skipped),
		dimStyle.Render("Without:"), len(skipped),
	)

	content := titleStyle.Render("Run Complete") + "\n" + head
	if output != "" {
		content += "\n" + dimStyle.Render("Wrote:") + " " + successStyle.Render(output)
	} else {
		content += "\n" + warnStyle.Render("No output written")
	}
	if len(lines) > 0 {
		content += "\n" + dimStyle.Render("Files not contributing:") + "\n" + strings.Join(lines, "\n")
	}

	fmt.Fprintln(w, boxStyle.Render(content))
}

func status(r Row) string {
	switch {
	case r.Err != nil:
		return errorStyle.Render("FAILED")
	case r.Outcome.Contributes():
		return successStyle.Render("OK")
	case r.Outcome.Kind == locate.NoMatch:
		return dimStyle.Render(strings.ToUpper(r.Outcome.Kind.String()))
	default:
		return warnStyle.Render(strings.ToUpper(r.Outcome.Kind.String()))
	}
}

func detail(r Row) string {
	if r.Err != nil {
		return errorStyle.Render(r.Err.Error())
	}

	o := r.Outcome
	parts := []string{dimStyle.Render(string(o.Method))}
	if est, ok := o.Estimate(); ok {
		parts = append(parts, fmt.Sprintf("%s %d", dimStyle.Render("estimate:"), est+1))
	}
	if o.Method != "" && o.Kind != locate.Declined && o.Kind != locate.Undetermined {
		parts = append(parts, fmt.Sprintf("%s %d-%d", dimStyle.Render("searched:"), o.Window.Start+1, o.Window.End))
	}
	if o.Contributes() {
		parts = append(parts, fmt.Sprintf("%s %s", dimStyle.Render("pages:"), pageList(o.Pages)))
	}
	return strings.Join(parts, "  ")
}

// pageList formats zero-based pages as 1-based page numbers
func pageList(pages []int) string {
	nums := make([]string, len(pages))
	for i, p := range pages {
		nums[i] = fmt.Sprintf("%d", p+1)
	}
	return strings.Join(nums, ", ")
}

// FormatRename renders one file rename
func FormatRename(w io.Writer, from, to string, dryRun bool) {
	arrow := successStyle.Render("->")
	if dryRun {
		arrow = dimStyle.Render("->")
	}
	fmt.Fprintf(w, "%s %s %s\n", from, arrow, to)
}
