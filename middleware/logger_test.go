// middleware/logger_test.go
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/middleware"
	"github.com/doorward-io/doorward/model"
)

func TestLogger(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	logger.Log = zap.New(core)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(middleware.Principal())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("ResolvedPrincipalStampedOnRequestLog", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.Header.Set(middleware.HeaderUserID, "user-1")
		req.Header.Set(middleware.HeaderRole, string(model.RoleUser))
		req.Header.Set(middleware.HeaderDeviceTrusted, "true")
		req.Header.Set(middleware.HeaderSessionValid, "true")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		entries := observed.FilterMessage("Request processed").All()
		if assert.NotEmpty(t, entries) {
			fields := entries[len(entries)-1].ContextMap()
			assert.Equal(t, "user-1", fields["userID"])
			assert.Equal(t, "user", fields["role"])
		}
	})

	t.Run("AnonymousRequestLoggedWithoutPrincipalFields", func(t *testing.T) {
		before := len(observed.FilterMessage("Request processed").All())

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		entries := observed.FilterMessage("Request processed").All()
		if assert.Greater(t, len(entries), before) {
			fields := entries[len(entries)-1].ContextMap()
			_, hasUser := fields["userID"]
			assert.False(t, hasUser)
		}
	})
}
