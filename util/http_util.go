// util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	doorward_errors "github.com/doorward-io/doorward/errors"
	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/model"
)

// PrincipalContextKey is where the principal middleware stores the resolved
// caller.
const PrincipalContextKey = "principal"

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// GetPrincipalFromContext returns the resolved principal set by the
// principal middleware.
func GetPrincipalFromContext(c *gin.Context) (model.Principal, error) {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		return model.Principal{}, doorward_errors.ErrUnauthorized
	}
	principal, ok := value.(model.Principal)
	if !ok {
		return model.Principal{}, doorward_errors.ErrUnauthorized
	}
	return principal, nil
}
