package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/doorward-io/doorward/actuator"
	"github.com/doorward-io/doorward/audit"
	"github.com/doorward-io/doorward/config"
	"github.com/doorward-io/doorward/controller"
	"github.com/doorward-io/doorward/db"
	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/model"
	"github.com/doorward-io/doorward/router"
	"github.com/doorward-io/doorward/service"
	"github.com/doorward-io/doorward/store"
	"github.com/doorward-io/doorward/store/memory"
	"github.com/doorward-io/doorward/store/redisstore"
	"github.com/doorward-io/doorward/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize utilities
	validationUtil := util.NewValidationUtil()
	notificationService := util.NewNotificationService()
	notificationService.SubscribeTerminalEvents(eventBus)

	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize Elasticsearch", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)

	// Event and guard stores
	eventRetention := config.GetDuration("engine.eventRetention")
	var events store.EventStore
	var guards store.GuardStore
	switch backend := config.GetString("engine.storeBackend"); backend {
	case "redis":
		events = redisstore.NewEventStore(db.RedisClient, eventRetention)
		guards = redisstore.NewGuardStore(db.RedisClient)
	case "memory":
		events = memory.NewEventStore()
		guards = memory.NewGuardStore()
	default:
		logger.Fatal("Unknown store backend", zap.String("backend", backend))
	}

	// Actuator client
	actuatorClient := actuator.NewHTTPClient(
		config.GetString("actuator.url"),
		config.GetDuration("actuator.dispatchTimeout"),
		config.GetInt("actuator.maxRetries"),
		config.GetDuration("actuator.retryBackoff"),
	)

	accessConfig := service.AccessConfig{
		GuardTTL:       config.GetDuration("engine.guardTTL"),
		CallbackWait:   config.GetDuration("actuator.callbackWait"),
		EventRetention: eventRetention,
		SweepInterval:  config.GetDuration("engine.sweepInterval"),
		AuthorizedArea: model.GeoAuthorizedArea{
			Name:         config.GetString("geofence.name"),
			Latitude:     config.GetFloat64("geofence.lat"),
			Longitude:    config.GetFloat64("geofence.lon"),
			RadiusMeters: config.GetFloat64("geofence.radiusMeters"),
		},
	}

	// Initialize services
	services, err := service.InitializeServices(
		db.Neo4jDriver,
		events,
		guards,
		actuatorClient,
		auditService,
		validationUtil,
		eventBus,
		accessConfig,
		scheduleDefaults(),
	)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// The sweeper is the safety net for events nobody polls.
	services.Access.StartSweeper(ctx)

	// Initialize controllers
	controllers := controller.InitializeControllers(services)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(
		controllers,
		config.GetInt("rateLimit.requests"),
		config.GetDuration("rateLimit.window"),
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

// scheduleDefaults is the global schedule used until an administrator stores
// one of their own.
func scheduleDefaults() model.GlobalSchedule {
	window := func(class model.DayClass, prefix string) model.ScheduleWindow {
		return model.ScheduleWindow{
			DayClass:  class,
			Enabled:   config.GetBool(prefix + ".enabled"),
			StartTime: config.GetString(prefix + ".start"),
			EndTime:   config.GetString(prefix + ".end"),
		}
	}
	return model.GlobalSchedule{
		Weekday:  window(model.DayClassWeekday, "schedule.weekday"),
		Saturday: window(model.DayClassSaturday, "schedule.saturday"),
		Sunday:   window(model.DayClassSunday, "schedule.sunday"),
	}
}
