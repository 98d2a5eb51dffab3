package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"cartsync/internal/model"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown for
// sharing. A run pasted into an issue or a household wiki reads as a
// table instead of a wall of text.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeStatusSummary(md, report)
	w.writeItems(md, report)
	w.writeAlert(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the run properties table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Cart Sync Report")
	md.PlainText("")

	mode := "live"
	if report.DryRun {
		mode = "dry run"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + report.RunID + "`"},
			{"Shopping List", report.ListName},
			{"Run Date", report.Timestamp.Format("2006-01-02 15:04:05 MST")},
			{"Mode", mode},
			{"Items", strconv.Itoa(report.Total)},
		},
	})
	md.PlainText("")
}

// writeStatusSummary writes the per-status counts.
func (w *MarkdownWriter) writeStatusSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"Added", strconv.Itoa(report.Added)},
			{"Skipped", strconv.Itoa(report.Skipped)},
			{"Failed", strconv.Itoa(report.Failed)},
			{"Needs Review", strconv.Itoa(report.NeedsReview)},
			{"Never Attempted (bot block)", strconv.Itoa(report.BotBlocked)},
		},
	})
	md.PlainText("")
}

// writeItems writes the per-item outcome table.
func (w *MarkdownWriter) writeItems(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Items")
	md.PlainText("")

	if len(report.Items) == 0 {
		md.PlainText("The shopping list was empty.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Items))
	for _, item := range report.Items {
		chosen := item.ChosenTitle
		if chosen == "" {
			chosen = "—"
		} else if item.ChosenURL != "" {
			chosen = fmt.Sprintf("[%s](%s)", chosen, item.ChosenURL)
		}
		size := "—"
		if item.ChosenSizeOz != nil {
			size = strconv.FormatFloat(*item.ChosenSizeOz, 'f', -1, 64) + " oz"
		}
		status := string(item.Status)
		if item.Undersized {
			status += " (undersized)"
		}
		rows = append(rows, []string{item.Raw, item.Query, chosen, size, item.ChosenPrice, status})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Item", "Query", "Chosen Product", "Size", "Price", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes an alert matching the run's worst outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.RunReport) {
	switch {
	case report.BotBlocked > 0:
		md.Warningf("A bot block cut this run short: %d items were never attempted. "+
			"Re-run with `--skip` once the challenge clears.", report.BotBlocked)
	case report.Failed > 0:
		md.Importantf("%d items failed. Check the cart manually before checkout.", report.Failed)
	case report.NeedsReview > 0:
		md.Note(fmt.Sprintf("%d undersized items were added. Verify the quantities cover the recipe.", report.NeedsReview))
	case report.DryRun:
		md.Note("Dry run: nothing was added to the cart.")
	default:
		md.Tip("Every matched item was added and verified.")
	}
	md.PlainText("")
}
