package auth

import (
	"net/http"
	"strings"
)

// CookieName is the session cookie the server sets on login and clears
// on logout.
const CookieName = "auth_token"

const bearerPrefix = "Bearer "

// ExtractToken locates a raw token in the request: the Authorization
// bearer header wins over the session cookie. The second return value is
// false when no token is present at all, which is distinct from carrying
// an invalid one.
func ExtractToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, bearerPrefix) {
		token := strings.TrimSpace(header[len(bearerPrefix):])
		if token != "" {
			return token, true
		}
	}

	cookie, err := r.Cookie(CookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	return "", false
}
