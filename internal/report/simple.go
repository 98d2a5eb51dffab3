package report

import (
	"fmt"
	"io"
	"strings"

	"cartsync/internal/model"
)

// SimpleWriter outputs the human-readable text summary shown after a
// run. Plain text, no colors or escape codes: it pipes cleanly into
// files and other tools, and the status words already carry the signal.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the run summary followed by one entry per item.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s  list=%q  dry_run=%v\n",
		report.Timestamp.Format("2006-01-02 15:04:05 MST"), report.ListName, report.DryRun)
	fmt.Fprintf(&b, "Total: %d  Added: %d  Skipped: %d  Failed: %d  Review: %d\n",
		report.Total, report.Added, report.Skipped, report.Failed, report.NeedsReview)
	if report.BotBlocked > 0 {
		fmt.Fprintf(&b, "Bot block cut the run short: %d items were never attempted.\n", report.BotBlocked)
	}
	b.WriteString("\n")

	for i, item := range report.Items {
		tag := string(item.Status)
		if item.Undersized {
			tag += " (undersized)"
		}
		title := item.ChosenTitle
		if title == "" {
			title = "—"
		}
		fmt.Fprintf(&b, "  %d. [%s] %s\n", i+1, tag, item.Raw)
		line := fmt.Sprintf("     → %s  %s", title, item.ChosenPrice)
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}

	return w.output.Write([]byte(b.String()))
}
