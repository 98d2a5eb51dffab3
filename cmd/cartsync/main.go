// Package main provides the entry point for the cartsync CLI.
//
// cartsync reads a Mealie shopping list, matches each free-text item to
// a Walmart product, and adds the matches to the signed-in cart through
// an attached Chrome session.
//
// Usage:
//
//	cartsync sync
//	cartsync sync --dry-run --list Walmart
//
// See --help for all available options.
package main

// main is the entry point for cartsync.
func main() {
	Execute()
}
