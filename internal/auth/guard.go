package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const principalKey = "auth.principal"

// Guard turns token verification into gin middleware. Rejections carry
// the same {error, code} envelope as the API handlers so clients see one
// error shape everywhere.
type Guard struct {
	codec *Codec
}

func NewGuard(codec *Codec) *Guard {
	return &Guard{codec: codec}
}

// RequireAuth aborts with 401 before the handler runs unless the request
// carries a verifiable token. Handler errors are not intercepted.
func (g *Guard) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := ExtractToken(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "AUTH_REQUIRED",
			})
			return
		}

		claims, err := g.codec.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
				"code":  "INVALID_TOKEN",
			})
			return
		}

		c.Set(principalKey, Principal{UserID: claims.UserID, Email: claims.Email})
		c.Next()
	}
}

// OptionalAuth attaches a principal when a valid token is present and
// otherwise lets the request through anonymously. It never aborts.
func (g *Guard) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := ExtractToken(c.Request); ok {
			if claims, err := g.codec.Verify(token); err == nil {
				c.Set(principalKey, Principal{UserID: claims.UserID, Email: claims.Email})
			}
		}
		c.Next()
	}
}

// PrincipalFromContext returns the verified identity set by the guard.
func PrincipalFromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
