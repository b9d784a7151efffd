package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/handler"
	"github.com/noah-isme/class-planner-api/internal/middleware"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/service"
	"github.com/noah-isme/class-planner-api/internal/timetable"
	"github.com/noah-isme/class-planner-api/pkg/config"
	"github.com/noah-isme/class-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/class-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/class-planner-api/pkg/middleware/requestid"
)

type routerDeps struct {
	metrics   *service.MetricsService
	state     *timetable.State
	database  handler.Pinger
	cache     handler.Pinger
	auth      *service.AuthService
	catalog   *service.CatalogService
	users     *service.UserService
	schedules *service.ScheduleService
	logs      *service.LogService
	timetable *service.TimetableService
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics, "/health", "/ready", "/metrics"))
	r.Use(middleware.WithResponseMeta(deps.state))

	metricsHandler := handler.NewMetricsHandler(deps.metrics, deps.state, deps.database, deps.cache)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(deps.auth)
	catalogHandler := handler.NewCatalogHandler(deps.catalog)
	templateHandler := handler.NewTemplateHandler(deps.catalog)
	userHandler := handler.NewUserHandler(deps.users)
	scheduleHandler := handler.NewScheduleHandler(deps.schedules)
	logHandler := handler.NewLogHandler(deps.logs)
	plannerHandler := handler.NewPlannerHandler(deps.timetable)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.RequireReady(deps.state))
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(deps.auth))
	secured.GET("/auth/me", authHandler.Me)
	secured.GET("/config", catalogHandler.Get)
	secured.GET("/templates", templateHandler.List)
	secured.GET("/templates/:id", templateHandler.Get)
	secured.GET("/assignments/:course", templateHandler.Resolve)
	secured.GET("/courses/grid", plannerHandler.CourseGrid)

	self := secured.Group("/users/:id")
	self.Use(middleware.RBAC(string(models.RoleAdmin), middleware.Self))
	self.GET("/schedule", scheduleHandler.List)
	self.GET("/logs", logHandler.List)
	self.PUT("/logs", logHandler.Save)
	self.GET("/planner/daily", plannerHandler.Daily)
	self.GET("/planner/weekly", plannerHandler.Weekly)

	admin := secured.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/config/:kind", catalogHandler.AddItem)
	admin.PUT("/config/:kind", catalogHandler.EditItem)
	admin.DELETE("/config/:kind/:value", catalogHandler.DeleteItem)

	admin.POST("/templates", templateHandler.Create)
	admin.DELETE("/templates/:id", templateHandler.Delete)
	admin.POST("/templates/:id/slots", templateHandler.AddSlot)
	admin.PUT("/templates/:id/slots/:slotId", templateHandler.EditSlot)
	admin.DELETE("/templates/:id/slots/:slotId", templateHandler.DeleteSlot)
	admin.PUT("/assignments/:course", templateHandler.Assign)

	admin.GET("/users", userHandler.List)
	admin.GET("/users/:id", userHandler.Get)
	admin.POST("/users", userHandler.Create)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.POST("/users/:id/schedule", scheduleHandler.Add)
	admin.DELETE("/users/:id/schedule/:entryId", scheduleHandler.Remove)

	admin.GET("/courses/grid/export", plannerHandler.ExportCourseGrid)
	admin.GET("/reports/load", plannerHandler.LoadReport)
	admin.GET("/reports/load/export", plannerHandler.ExportLoadReport)
	admin.GET("/metrics/system", metricsHandler.System)

	return r
}
