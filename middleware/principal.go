// middleware/principal.go

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/model"
	"github.com/doorward-io/doorward/util"
)

// Headers set by the upstream auth gateway. The gateway owns
// authentication, credential storage, and session issuance; by the time a
// request reaches this service the identity, role, device-trust and
// session-validity flags are already resolved.
const (
	HeaderUserID        = "X-User-Id"
	HeaderRole          = "X-User-Role"
	HeaderDeviceTrusted = "X-Device-Trusted"
	HeaderSessionValid  = "X-Session-Valid"
	HeaderAssignedUsers = "X-Assigned-Users"
)

// Principal extracts the resolved principal from the gateway headers and
// stores it in the request context. Requests without a usable identity are
// rejected before any handler runs.
func Principal() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		role := model.Role(strings.TrimSpace(c.GetHeader(HeaderRole)))

		if userID == "" || !role.Valid() {
			logger.Warn("Request without resolved principal",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		principal := model.Principal{
			UserID:        userID,
			Role:          role,
			DeviceTrusted: c.GetHeader(HeaderDeviceTrusted) == "true",
			SessionValid:  c.GetHeader(HeaderSessionValid) == "true",
		}
		if assigned := strings.TrimSpace(c.GetHeader(HeaderAssignedUsers)); assigned != "" {
			for _, id := range strings.Split(assigned, ",") {
				if id = strings.TrimSpace(id); id != "" {
					principal.AssignedUserIDs = append(principal.AssignedUserIDs, id)
				}
			}
		}

		c.Set(util.PrincipalContextKey, principal)
		c.Next()
	}
}
