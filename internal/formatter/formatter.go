// package formatter renders run summaries, item lines and history tables
// for the CLI.
package formatter

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/ShadyBoukhary/traktarr/internal/models"
	"github.com/ShadyBoukhary/traktarr/internal/repositories"
	"github.com/ShadyBoukhary/traktarr/internal/tasks"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true)
)

// RunSummary renders a styled one-block summary of a finished batch run.
func RunSummary(result *tasks.ProcessResult) string {
	if result == nil {
		return dimStyle.Render("Nothing to do: every list item is already managed.")
	}

	var buf bytes.Buffer
	header := fmt.Sprintf("%s / %s", result.Kind.Plural(), result.List)
	if result.DryRun {
		header += " (dry run)"
	}
	buf.WriteString(titleStyle.Render(header))
	buf.WriteString("\n")

	buf.WriteString(fmt.Sprintf("  considered %d, removed %d existing, skipped %d\n",
		result.Considered, result.Removed, result.Skipped))
	buf.WriteString("  " + okStyle.Render(fmt.Sprintf("added %d", result.Added)))
	if result.Failed > 0 {
		buf.WriteString("  " + errStyle.Render(fmt.Sprintf("failed %d", result.Failed)))
	}
	buf.WriteString("\n")
	buf.WriteString(dimStyle.Render("  run " + result.RunID))
	return buf.String()
}

// ItemLine renders one pipeline event for verbose output.
func ItemLine(event tasks.Event) string {
	if event.Item == nil {
		return ""
	}
	name := fmt.Sprintf("%s (%s)", event.Item.Title, event.Item.YearString())

	switch event.Type {
	case tasks.ItemAdded:
		if event.DryRun {
			return warnStyle.Render("WOULD ADD ") + name
		}
		return okStyle.Render("ADDED     ") + name
	case tasks.ItemSkipped:
		return warnStyle.Render("SKIPPED   ") + name + dimStyle.Render("  "+event.Reason)
	case tasks.ItemRemoved:
		return dimStyle.Render("EXISTS    " + name)
	case tasks.ItemFailed:
		return errStyle.Render("FAILED    ") + name + dimStyle.Render(fmt.Sprintf("  %v", event.Err))
	default:
		return ""
	}
}

// HistoryTable renders recorded adds as an aligned table.
func HistoryTable(entries []repositories.HistoryEntry) string {
	if len(entries) == 0 {
		return dimStyle.Render("No adds recorded yet.")
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ADDED\tKIND\tTITLE\tYEAR\tLIST")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			e.AddedAt.Format("2006-01-02 15:04"),
			e.Kind.Singular(),
			e.Title,
			e.Year,
			e.List,
		)
	}
	w.Flush()
	return buf.String()
}

// NotificationMessage builds the plain-text message sent to notification
// agents after a run.
func NotificationMessage(result *tasks.ProcessResult) string {
	if result == nil {
		return ""
	}
	msg := fmt.Sprintf("Added %d %s from the %s list", result.Added, result.Kind.Plural(), result.List)
	if result.Failed > 0 {
		msg += fmt.Sprintf(" (%d failed)", result.Failed)
	}
	return msg
}

// MediaLabel renders the standard "Title (Year)" label used across output.
func MediaLabel(item *models.Media) string {
	return fmt.Sprintf("%s (%s)", item.Title, item.YearString())
}
