package middleware

import "strings"

const resetPathPrefix = "/api/auth/reset-password/"

// redactResetToken hides the plaintext token in reset-link URIs so access
// logs never hold a usable credential.
func redactResetToken(uri string) string {
	i := strings.Index(uri, resetPathPrefix)
	if i < 0 {
		return uri
	}
	rest := uri[i+len(resetPathPrefix):]
	end := strings.IndexAny(rest, "/?#")
	if end < 0 {
		end = len(rest)
	}
	if end == 0 {
		return uri
	}
	return uri[:i+len(resetPathPrefix)] + "[redacted]" + rest[end:]
}
