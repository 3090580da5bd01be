// router/router.go

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/doorward-io/doorward/controller"
	"github.com/doorward-io/doorward/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	controllers.Access.RegisterRoutes(api)
	controllers.Permission.RegisterRoutes(api)
	controllers.Schedule.RegisterRoutes(api)
	controllers.Audit.RegisterRoutes(api)

	return router
}
