// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// cartsync handles three sets of credentials on every run: the Mealie API
// key, the retailer account password, and the browserless gateway token.
// None of them may ever reach log output, even in verbose mode, because
// run logs are routinely pasted into issues and shared for debugging.
//
// The SecureHandler automatically sanitizes:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Credential-shaped values detected by pattern matching (bearer
//     tokens, JWTs, long opaque keys)
//   - Attribute keys whose names suggest secrets (password, token, ...)
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("session attached",
//	    "token", gatewayToken, // sanitized to ***REDACTED***
//	    "url", cdpURL,
//	)
package log
