package app

import (
	"bookhive_backend/docs"
	"bookhive_backend/internal/config"
	"bookhive_backend/internal/middleware"
	"bookhive_backend/internal/model"
	"bookhive_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 账号与会话
	a.registerAccountRoutes(router, c, cfg)

	// 3. 访客接口(需要登录)
	a.registerGuestRoutes(router, c, repos, cfg)

	// 4. 管理接口(主办方/管理员)
	a.registerManagementRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	router.GET("/health", c.health.HealthCheck)

	public := router.Group("/products/:hostId/:productId")
	{
		public.GET("", c.product.GetPublic)
		public.GET("/resources", c.resource.GetPublicTree)
		public.GET("/payment-methods", c.product.PublicPaymentMethods)
		public.GET("/sessions", c.product.PublicSessions)
	}
}

func (a *App) registerAccountRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	v2 := router.Group("/v2")
	{
		v2.POST("/users", c.auth.Register)
		v2.POST("/users/sessions", c.auth.Login)
		v2.POST("/users/sessions/providers", c.auth.ProviderLogin)
		v2.POST("/auth/temporal-tokens/exchange", c.auth.ExchangeTemporalToken)

		me := v2.Group("")
		me.Use(middleware.AuthMiddleware(cfg))
		{
			me.POST("/auth/temporal-tokens", c.auth.CreateTemporalToken)
			me.GET("/users/me", c.auth.Profile)
			me.PATCH("/users/me", c.auth.UpdateProfile)
		}
	}
}

func (a *App) registerGuestRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	guests := router.Group("/v2/guests/products/:hostId/:productId")
	guests.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		guests.GET("/resources", c.guest.GetResources)
		guests.GET("/progress", c.guest.GetProgress)
		guests.PUT("/tracking", c.guest.UpdateTracking)
		guests.POST("/completions", c.guest.MarkCompletion)
		guests.POST("/access", c.guest.GrantAccess)
	}
}

func (a *App) registerManagementRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	management := router.Group("/v2/management")
	management.Use(
		middleware.AuthMiddleware(cfg),
		middleware.RoleMiddleware(model.Host),
		middleware.ActivityMiddleware(repos.user),
	)

	products := management.Group("/products/:hostId")
	{
		products.POST("", c.product.Create)
		products.GET("", c.product.List)

		product := products.Group("/:productId")
		{
			product.GET("", c.product.Get)
			product.PATCH("", c.product.Update)
			product.DELETE("", c.product.Delete)

			product.POST("/dates", c.product.AddDate)
			product.DELETE("/dates/:dateId", c.product.RemoveDate)

			product.POST("/notifications", c.product.AddNotification)
			product.PATCH("/notifications/:notificationId", c.product.UpdateNotification)
			product.DELETE("/notifications/:notificationId", c.product.RemoveNotification)

			product.POST("/resources", c.resource.Create)
			product.GET("/resources", c.resource.GetTree)
			product.PUT("/resources/reorder", c.resource.Reorder)
			product.PATCH("/resources/:resourceId", c.resource.Update)
			product.DELETE("/resources/:resourceId", c.resource.Delete)
			product.POST("/resources/:resourceId/video", c.resource.UploadVideo)
		}
	}

	settings := management.Group("/settings")
	{
		settings.GET("/filters", c.settings.Filters)
		settings.GET("/withdrawal-methods", c.settings.WithdrawalMethods)

		settings.GET("/payment-options", c.settings.ListPaymentOptions)
		settings.POST("/payment-options", c.settings.CreatePaymentOption)
		settings.PATCH("/payment-options/:optionId", c.settings.UpdatePaymentOption)
		settings.DELETE("/payment-options/:optionId", c.settings.DeletePaymentOption)

		settings.POST("/files", c.settings.PresignUpload)
		settings.DELETE("/files", c.settings.DeleteFile)
	}
}
