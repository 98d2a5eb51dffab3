// Package report renders a sync run's outcomes for humans and tools:
// a plain-text terminal summary, JSON for scripting, and Markdown for
// sharing.
package report

import (
	"io"

	"cartsync/internal/model"
)

// Writer defines the interface for report output.
// Implementations render the run report in one format.
//
// An interface keeps the output destination orthogonal to the format:
// the same writer renders to stdout, a file, or a buffer in tests.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.RunReport) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
