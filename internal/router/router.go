package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/kokurikuler-api/internal/handler"
	"github.com/noah-isme/kokurikuler-api/internal/middleware"
	"github.com/noah-isme/kokurikuler-api/internal/models"
	"github.com/noah-isme/kokurikuler-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/kokurikuler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/kokurikuler-api/pkg/middleware/requestid"
)

// Options configures the engine.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Logger         *zap.Logger
}

// Handlers groups every HTTP handler served by the API.
type Handlers struct {
	Journal     *handler.JournalHandler
	Monitoring  *handler.MonitoringHandler
	Contributor *handler.ContributorHandler
	Student     *handler.StudentHandler
	Parent      *handler.ParentHandler
	Teacher     *handler.TeacherHandler
	Metrics     *handler.MetricsHandler
}

// New builds the gin engine with the global middleware chain and all routes.
func New(opts Options, tokens middleware.TokenValidator, observer middleware.RequestObserver, h Handlers) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(observer, "/metrics", "/health", "/ready"))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)
	// Photo links are signed, so they are served without a bearer token.
	api.GET("/journals/photo/:token", h.Journal.Photo)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))

	journals := secured.Group("/journals")
	journals.POST("", middleware.RequireRoles(models.RoleStudent), h.Journal.Submit)
	journals.GET("/my", middleware.RequireRoles(models.RoleStudent), h.Journal.Mine)
	journals.GET("/class", middleware.RequireRoles(models.RoleTeacher, models.RoleContributor, models.RoleAdmin), h.Journal.ClassDay)
	journals.POST("/validate", middleware.RequireRoles(models.RoleParent, models.RoleTeacher), h.Journal.Validate)

	contributor := secured.Group("/contributor")
	monitoring := contributor.Group("/monitoring")
	monitoring.Use(middleware.RequireRoles(models.RoleContributor, models.RoleTeacher, models.RoleAdmin))
	monitoring.GET("", h.Monitoring.Heatmap)
	monitoring.GET("/detail", h.Monitoring.DailyDetail)

	workspace := contributor.Group("")
	workspace.Use(middleware.RequireRoles(models.RoleContributor, models.RoleAdmin))
	workspace.GET("/search", h.Contributor.Search)
	workspace.POST("/record", h.Contributor.CreateRecord)
	workspace.GET("/history", h.Contributor.History)
	workspace.POST("/task", h.Contributor.CreateTask)
	workspace.GET("/task/report", h.Contributor.TaskReport)
	workspace.POST("/ai-strategy", h.Contributor.Strategy)

	student := secured.Group("/student")
	student.Use(middleware.RequireRoles(models.RoleStudent))
	student.GET("/missions", h.Student.Missions)
	student.POST("/missions/complete", h.Student.CompleteMission)
	student.GET("/progress", h.Student.Progress)

	parent := secured.Group("/parent")
	parent.Use(middleware.RequireRoles(models.RoleParent))
	parent.POST("/link", h.Parent.Link)
	parent.GET("/children", h.Parent.Children)
	parent.POST("/remind", h.Parent.Remind)
	parent.GET("/child/:student_id", h.Parent.ChildProfile)

	teacher := secured.Group("/teacher")
	teacher.GET("/preview", middleware.RequireRoles(models.RoleTeacher), h.Teacher.Preview)
	teacher.GET("/preview/export", middleware.RequireRoles(models.RoleTeacher), h.Teacher.ExportPreview)
	teacher.POST("/report-data", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), h.Teacher.ReportData)
	teacher.GET("/report-data/pdf", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), h.Teacher.ReportPDF)

	return r
}
