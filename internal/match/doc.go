// Package match scores retail product candidates against a normalized
// shopping-list item and selects the product to add to the cart. Sizes
// are compared in ounces; candidates at or above the requested size win,
// with an undersized fallback when nothing is large enough.
package match
