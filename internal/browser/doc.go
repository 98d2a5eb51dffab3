// Package browser drives an already-authenticated Chrome session over
// the DevTools protocol to search the retailer and add products to the
// cart. It attaches to an existing browser (a local Chrome or a remote
// browserless gateway) rather than launching one, so the session keeps
// the cookies, fingerprint, and cart of the signed-in user.
//
// The retailer runs aggressive bot detection. Every interaction here is
// paced like a human: navigations are followed by randomized waits,
// queries are typed into the search bar instead of navigating straight
// to result URLs, and challenge pages are waited out rather than
// retried in a tight loop.
package browser
