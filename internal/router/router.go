// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/technoshop/technoshop-backend/internal/config"
	"github.com/technoshop/technoshop-backend/internal/handlers"
	"github.com/technoshop/technoshop-backend/internal/middleware"
	"github.com/technoshop/technoshop-backend/internal/services"
	"github.com/technoshop/technoshop-backend/internal/utils"
)

func Initialize(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) (*gin.Engine, error) {
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	emailService := services.NewEmailService(cfg.Email)

	authService := services.NewAuthService(db, cfg.JWT)
	commentService := services.NewCommentService(db)
	feedbackService := services.NewFeedbackService(db)
	productService := services.NewProductService(db)
	articleService := services.NewArticleService(db, storageService)
	newsletterService := services.NewNewsletterService(db, redisClient, emailService)

	authHandler := handlers.NewAuthHandler(authService, cfg.JWT)
	commentHandler := handlers.NewCommentHandler(commentService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	productHandler := handlers.NewProductHandler(productService)
	articleHandler := handlers.NewArticleHandler(articleService, storageService)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(nil))
	r.Use(middleware.GeneralRateLimit())

	// Locally stored uploads are served straight from disk.
	r.Static("/public", cfg.Uploads.LocalDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/signup", middleware.AuthRateLimit(), authHandler.Signup)
		auth.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
		auth.POST("/guest", middleware.AuthRateLimit(), authHandler.Guest)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/find", middleware.AuthRequired(), middleware.AdminRequired(), authHandler.Find)
		auth.GET("", middleware.AuthRequired(), middleware.AdminRequired(), authHandler.GetAll)
		auth.PATCH("/:id", middleware.AuthRequired(), authHandler.Update)
		auth.DELETE("", middleware.AuthRequired(), middleware.AdminRequired(), authHandler.Delete)
	}

	// Public reads run behind OptionalAuth so request logs carry the user id
	// when a token is present.
	comment := r.Group("/comment")
	{
		public := comment.Group("", middleware.OptionalAuth())
		{
			public.GET("/post/:postId", commentHandler.ListForPost)
			public.GET("/:id/replies", commentHandler.ListReplies)
		}

		protected := comment.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("", commentHandler.Create)
			protected.PATCH("/:id", commentHandler.Update)
			protected.DELETE("/:id", commentHandler.Delete)
		}

		admin := comment.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/unapproved", commentHandler.ListUnapproved)
			admin.GET("/admin/all", commentHandler.ListAllForAdmin)
			admin.POST("/bulk-approve", commentHandler.BulkModerate)
			admin.PATCH("/:id/approve", commentHandler.SetApproval)
			admin.PATCH("/:id/answer", commentHandler.Answer)
			admin.PUT("/:id/answer", commentHandler.EditAnswer)
			admin.DELETE("/:id/answer", commentHandler.RemoveAnswer)
		}
	}

	feedback := r.Group("/feedback")
	feedback.Use(middleware.AuthRequired())
	{
		feedback.POST("", feedbackHandler.Create)
		feedback.GET("/mine", feedbackHandler.ListMine)
		feedback.PATCH("/:id", feedbackHandler.Update)
		feedback.DELETE("/:id", feedbackHandler.Delete)

		admin := feedback.Group("")
		admin.Use(middleware.AdminRequired())
		{
			admin.GET("", feedbackHandler.ListAll)
			admin.GET("/unapproved", feedbackHandler.ListUnapproved)
			admin.PATCH("/:id/approve", feedbackHandler.Approve)
			admin.PATCH("/:id/answer", feedbackHandler.Answer)
		}
	}

	product := r.Group("/product")
	{
		public := product.Group("", middleware.OptionalAuth())
		{
			public.GET("", productHandler.List)
			public.GET("/featured", productHandler.Featured)
			public.GET("/discounted", productHandler.Discounted)
			public.GET("/latest", productHandler.Latest)
			public.GET("/filters", productHandler.Filters)
			public.GET("/slug/:slug", productHandler.GetBySlug)
			public.GET("/:id", productHandler.Get)
		}

		admin := product.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.POST("", productHandler.Create)
			admin.PATCH("/:id", productHandler.Update)
			admin.PATCH("/:id/stock", productHandler.UpdateStock)
			admin.DELETE("/:id", productHandler.Delete)
		}
	}

	article := r.Group("/article")
	{
		public := article.Group("", middleware.OptionalAuth())
		{
			public.GET("", articleHandler.GetAll)
			public.GET("/published", articleHandler.Published)
			public.GET("/search", articleHandler.Search)
			public.GET("/category/:category", articleHandler.GetByCategory)
			public.GET("/slug/:slug", articleHandler.GetBySlug)
			public.GET("/:id", articleHandler.GetByID)
		}

		admin := article.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/unpublished", articleHandler.Unpublished)
			admin.POST("", middleware.UploadRateLimit(), articleHandler.Create)
			admin.PATCH("/:id", middleware.UploadRateLimit(), articleHandler.Update)
			admin.PATCH("/:id/toggle-published", articleHandler.TogglePublished)
			admin.DELETE("/:id", articleHandler.Delete)
		}
	}

	newsletter := r.Group("/newsletter")
	{
		newsletter.POST("", middleware.AuthRateLimit(), newsletterHandler.Subscribe)
		newsletter.POST("/verify", middleware.AuthRateLimit(), newsletterHandler.VerifyCode)

		admin := newsletter.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("", newsletterHandler.GetAll)
			admin.POST("/find", newsletterHandler.Find)
			admin.PATCH("", newsletterHandler.Update)
			admin.DELETE("", newsletterHandler.Delete)
		}
	}

	return r, nil
}
