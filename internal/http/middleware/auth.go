// README: Optional Firebase auth; attaches the caller identity when a valid token is sent.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travelai/internal/infra"
	"travelai/internal/modules/trips"
)

const callerUIDKey = "caller_uid"

// OptionalAuth verifies a "Bearer <id token>" header when one is present. Requests
// without a header, with a malformed one, or with a token the verifier rejects
// continue as anonymous. A nil verifier treats every caller as anonymous.
func OptionalAuth(verifier infra.TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		idToken, ok := strings.CutPrefix(header, "Bearer ")
		idToken = strings.TrimSpace(idToken)
		if !ok || idToken == "" {
			logger.Debug("ignoring malformed authorization header", zap.String("path", c.FullPath()))
			c.Next()
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			logger.Info("id token rejected; continuing anonymously", zap.Error(err))
			c.Next()
			return
		}

		c.Set(callerUIDKey, token.UID)
		c.Next()
	}
}

// CallerUID returns the verified uid, or "" for anonymous callers.
func CallerUID(c *gin.Context) string {
	return c.GetString(callerUIDKey)
}

// CallerIdentity returns the caller identity, or nil for anonymous callers.
func CallerIdentity(c *gin.Context) *trips.Identity {
	uid := CallerUID(c)
	if uid == "" {
		return nil
	}
	return &trips.Identity{UID: uid}
}
