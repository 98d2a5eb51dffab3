// Package normalize converts free-text shopping-list lines into clean
// search queries plus parsed quantity, unit, and weight metadata.
//
// Normalization never fails: lines without recognizable structure produce
// a cleaned query with nil quantity fields. The function is pure, so
// normalizing the same line twice yields identical results.
package normalize
