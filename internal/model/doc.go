// Package model defines the data structures shared across cartsync.
// It contains the normalized shopping-list item, retailer product candidates,
// the matcher's selection result, per-item outcomes, and the aggregated
// run report.
package model
