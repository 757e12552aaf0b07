package router

import (
	"rentalhub/internal/handlers"
	"rentalhub/internal/middleware"
	"rentalhub/internal/models"
	"rentalhub/internal/services"
	"rentalhub/pkg/config"
	"rentalhub/pkg/jwt"
	"rentalhub/pkg/response"
	"rentalhub/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps everything the routes need, built once in main.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	JWT         *jwt.JWTManager
	Store       storage.Storage
	ViewCounter services.ViewCounter
	RateLimiter *middleware.RateLimiter
	Health      map[string]handlers.Pinger
}

// SetupRouter builds the engine with middleware and every route.
func SetupRouter(d *Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS(&d.Config.CORS))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if local, ok := d.Store.(*storage.LocalStorage); ok {
		router.Static("/uploads", local.Dir())
	}

	registerRoutes(router, d)
	return router
}

func registerRoutes(router *gin.Engine, d *Deps) {
	users := services.NewUserService(d.DB)
	properties := services.NewPropertyService(d.DB)

	auth := middleware.NewAuthMiddleware(users, d.JWT)
	login := auth.RequireLogin()
	manager := auth.CombineRoleMiddleware(models.RoleAdmin, models.RoleLandlord)

	api := router.Group("/api")
	if d.RateLimiter != nil {
		api.Use(d.RateLimiter.Limit())
	}

	api.GET("/health", handlers.NewSystemHandler(d.Health).Health)
	api.GET("/ping", func(c *gin.Context) { response.Success(c, "pong") })

	authHandler := handlers.NewAuthHandler(users, d.JWT)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", login, authHandler.Me)
	}

	propertyHandler := handlers.NewPropertyHandler(properties)
	editorHandler := handlers.NewEditorHandler(services.NewEditorService(d.DB, properties))
	engagementHandler := handlers.NewEngagementHandler(services.NewEngagementService(d.DB, d.ViewCounter), d.Config.CORS.AllowOrigins)
	bookingHandler := handlers.NewBookingHandler(services.NewBookingService(d.DB))
	props := api.Group("/properties")
	{
		props.GET("", propertyHandler.List)
		props.GET("/:id", propertyHandler.Get)
		props.POST("", append(manager, propertyHandler.Create)...)
		props.PUT("/:id", append(manager, propertyHandler.Update)...)
		props.DELETE("/:id", append(manager, propertyHandler.Delete)...)

		props.POST("/:id/images", append(manager, propertyHandler.AddImage)...)
		props.DELETE("/:id/images/:image_id", append(manager, propertyHandler.RemoveImage)...)
		props.PUT("/:id/images/:image_id/primary", append(manager, propertyHandler.SetPrimaryImage)...)

		props.GET("/:id/editor", append(manager, editorHandler.Load)...)
		props.PUT("/:id/editor", append(manager, editorHandler.Save)...)

		props.POST("/:id/view", engagementHandler.RecordView)
		props.GET("/:id/view", engagementHandler.Views)
		props.GET("/:id/views/live", engagementHandler.LiveViews)
		props.GET("/:id/interested", auth.OptionalLogin(), engagementHandler.Interest)
		props.POST("/:id/interested", login, engagementHandler.MarkInterested)
		props.DELETE("/:id/interested", login, engagementHandler.UnmarkInterested)

		props.GET("/:id/bookings", append(manager, bookingHandler.ListForProperty)...)
	}

	api.POST("/forms/property/validate", editorHandler.Validate)

	buildingHandler := handlers.NewBuildingHandler(services.NewBuildingService(d.DB, d.Config.Building.CreationMode))
	unitHandler := handlers.NewUnitHandler(services.NewUnitService(d.DB))
	blocks := api.Group("/blocks")
	{
		blocks.POST("/preview", buildingHandler.Preview)
		blocks.POST("", append(manager, buildingHandler.Create)...)
		blocks.GET("", append(manager, buildingHandler.List)...)
		blocks.GET("/:id", buildingHandler.Get)
		blocks.PUT("/:id", append(manager, buildingHandler.Update)...)
		blocks.DELETE("/:id", append(manager, buildingHandler.Delete)...)
		blocks.GET("/:id/units/:number", unitHandler.Lookup)
	}
	api.GET("/units", unitHandler.List)
	api.PUT("/units/:id", append(manager, unitHandler.Update)...)

	bookings := api.Group("/bookings", login)
	{
		bookings.POST("", auth.RequireRole(models.RoleTenant), bookingHandler.Create)
		bookings.GET("/mine", bookingHandler.ListMine)
		bookings.PUT("/:id/status", bookingHandler.Transition)
	}

	tenantHandler := handlers.NewTenantHandler(services.NewTenantService(d.DB))
	me := api.Group("/tenants/me", login)
	{
		me.GET("", tenantHandler.Me)
		me.PUT("", tenantHandler.UpsertMe)
		me.GET("/completion", tenantHandler.MyCompletion)
		me.POST("/documents", tenantHandler.AddMyDocument)
		me.DELETE("/documents/:doc_id", tenantHandler.DeleteMyDocument)
		me.POST("/references", tenantHandler.AddMyReference)
		me.DELETE("/references/:ref_id", tenantHandler.DeleteMyReference)
	}

	draftHandler := handlers.NewDraftHandler(services.NewDraftService(d.DB))
	drafts := api.Group("/drafts", login)
	{
		drafts.GET("/:key", draftHandler.Get)
		drafts.PUT("/:key", draftHandler.Save)
		drafts.DELETE("/:key", draftHandler.Delete)
	}

	uploadHandler := handlers.NewUploadHandler(services.NewUploadService(d.Store, d.Config.Storage.MaxUploadBytes))
	api.POST("/upload", login, uploadHandler.Upload)

	admin := api.Group("/admin", auth.CombineRoleMiddleware(models.RoleAdmin)...)

	landlordHandler := handlers.NewLandlordHandler(services.NewLandlordService(d.DB, users))
	landlords := admin.Group("/landlords")
	{
		landlords.GET("", landlordHandler.List)
		landlords.GET("/stats", landlordHandler.Stats)
		landlords.POST("", landlordHandler.Create)
		landlords.POST("/create", landlordHandler.CreateAccount)
		landlords.GET("/:id", landlordHandler.Get)
		landlords.PUT("/:id", landlordHandler.Update)
		landlords.DELETE("/:id", landlordHandler.Delete)
		landlords.PUT("/:id/status", landlordHandler.ChangeStatus)
		landlords.PUT("/:id/verification", landlordHandler.ChangeVerification)
		landlords.POST("/:id/documents", landlordHandler.AddDocument)
		landlords.PUT("/:id/documents/:doc_id/review", landlordHandler.ReviewDocument)
		landlords.POST("/:id/payments", landlordHandler.RecordPayment)
		landlords.PUT("/:id/payments/:payment_id/status", landlordHandler.TransitionPayment)
	}

	tenants := admin.Group("/tenants")
	{
		tenants.GET("", tenantHandler.List)
		tenants.GET("/:id", tenantHandler.Get)
		tenants.GET("/:id/completion", tenantHandler.Completion)
		tenants.PUT("/:id/status", tenantHandler.ChangeStatus)
		tenants.PUT("/:id/verification", tenantHandler.ChangeVerification)
		tenants.PUT("/:id/documents/:doc_id/review", tenantHandler.ReviewDocument)
		tenants.PUT("/:id/references/:ref_id/check", tenantHandler.CheckReference)
		tenants.DELETE("/:id", tenantHandler.Delete)
	}
}
