package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"cartsync/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *model.RunReport {
	report := model.NewRunReport("Walmart", false)

	sizeOz := 12.0
	chosen := model.NewOutcome(model.NormalizedItem{
		Raw:   "1 jar (340 grams) peanut butter",
		Query: "peanut butter",
	}, model.StatusAdded)
	chosen.ChosenTitle = "Jif Creamy Peanut Butter, 12 oz"
	chosen.ChosenURL = "https://www.walmart.com/ip/12345"
	chosen.ChosenPrice = "$3.48"
	chosen.ChosenSizeOz = &sizeOz
	chosen.Relevance = 1.0
	report.Append(chosen)

	report.Append(model.NewOutcome(model.NormalizedItem{
		Raw:   "pinch of saffron",
		Query: "saffron",
	}, model.StatusSkippedNoMatch))

	return report
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes run summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, `list="Walmart"`) {
			t.Error("expected output to contain the list name")
		}
		if !strings.Contains(output, "Total: 2  Added: 1  Skipped: 1  Failed: 0  Review: 0") {
			t.Errorf("expected output to contain the status counts, got:\n%s", output)
		}
		if strings.Contains(output, "\x1b[") {
			t.Error("expected output without terminal escape codes")
		}
	})

	t.Run("writes one entry per item", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[ADDED] 1 jar (340 grams) peanut butter") {
			t.Error("expected output to contain the added entry")
		}
		if !strings.Contains(output, "Jif Creamy Peanut Butter, 12 oz  $3.48") {
			t.Error("expected output to contain the chosen product line")
		}
		if !strings.Contains(output, "[SKIPPED_NO_MATCH] pinch of saffron") {
			t.Error("expected output to contain the skipped entry")
		}
	})

	t.Run("marks items with no chosen product", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "→ —") {
			t.Error("expected a placeholder for items without a chosen product")
		}
	})

	t.Run("tags undersized items", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := model.NewRunReport("Walmart", false)
		outcome := model.NewOutcome(model.NormalizedItem{
			Raw:   "honey (1360 grams)",
			Query: "honey",
		}, model.StatusNeedsReview)
		outcome.Undersized = true
		report.Append(outcome)

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "[NEEDS_REVIEW (undersized)]") {
			t.Error("expected output to tag undersized items")
		}
	})

	t.Run("reports bot block cutoff", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()
		report.Append(model.NewOutcome(model.NormalizedItem{
			Raw:   "2 bananas",
			Query: "bananas",
		}, model.StatusSkippedBotBlock))

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "1 items were never attempted") {
			t.Error("expected output to report the bot block cutoff")
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed model.RunReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.ListName != "Walmart" {
			t.Errorf("expected list name %q, got %q", "Walmart", parsed.ListName)
		}
		if parsed.Total != 2 || parsed.Added != 1 {
			t.Errorf("expected counts to survive the round trip, got total=%d added=%d",
				parsed.Total, parsed.Added)
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) > 1 {
			t.Errorf("expected compact output (1 line), got %d lines", len(lines))
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) < 5 {
			t.Errorf("expected multi-line output, got %d lines", len(lines))
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes headings and property table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Cart Sync Report") {
			t.Error("expected output to contain the report title")
		}
		if !strings.Contains(output, "Shopping List") || !strings.Contains(output, "Walmart") {
			t.Error("expected output to contain the shopping list property")
		}
		if !strings.Contains(output, "## Summary") {
			t.Error("expected output to contain the summary heading")
		}
	})

	t.Run("writes item rows with links", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[Jif Creamy Peanut Butter, 12 oz](https://www.walmart.com/ip/12345)") {
			t.Error("expected the chosen product to be linked")
		}
		if !strings.Contains(output, "12 oz") {
			t.Error("expected output to contain the chosen size")
		}
	})

	t.Run("warns on bot block", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()
		report.Append(model.NewOutcome(model.NormalizedItem{
			Raw:   "2 bananas",
			Query: "bananas",
		}, model.StatusSkippedBotBlock))

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "[!WARNING]") {
			t.Error("expected a warning alert after a bot block")
		}
	})

	t.Run("notes dry runs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := model.NewRunReport("Walmart", true)

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "dry run") {
			t.Error("expected the mode row to show a dry run")
		}
		if !strings.Contains(output, "[!NOTE]") {
			t.Error("expected a note alert for dry runs")
		}
		if !strings.Contains(output, "The shopping list was empty.") {
			t.Error("expected the empty list message")
		}
	})
}
