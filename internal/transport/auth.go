package transport

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// isAuthorized checks whether r carries a valid auth token. An empty
// expectedToken, the default, authorizes every request; the server is a
// localhost developer tool and gating is opt-in.
func isAuthorized(expectedToken string, r *http.Request) bool {
	token := strings.TrimSpace(expectedToken)
	if token == "" {
		return true
	}

	if bearer, ok := strings.CutPrefix(strings.TrimSpace(r.Header.Get("Authorization")), "Bearer "); ok {
		if tokensEqual(token, strings.TrimSpace(bearer)) {
			return true
		}
	}

	return tokensEqual(token, strings.TrimSpace(r.URL.Query().Get("token")))
}

func tokensEqual(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
