// server/internal/api/routes/routes.go
package routes

import (
	"devcamper-api-server/config"
	"devcamper-api-server/internal/api/handlers"
	"devcamper-api-server/internal/api/middleware"
	"devcamper-api-server/internal/geocoder"
	"devcamper-api-server/internal/mailer"
	"devcamper-api-server/internal/models"
	"devcamper-api-server/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter wires every route with its middleware chain.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	emailService *mailer.EmailService,
	geo geocoder.Geocoder,
	photos storage.PhotoStore,
) *gin.Engine {
	gin.SetMode(ginMode(cfg.Server.Mode))

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.Default())
	router.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	}))
	router.Use(middleware.RateLimit(cfg.RateLimit))

	// Uploaded photos are served as static files when using the disk store.
	router.Static("/uploads", cfg.Upload.Path)

	secret := []byte(cfg.JWT.Secret)
	protect := middleware.Authenticate(db, secret, cfg.JWT.CookieAuth)

	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg, EmailService: emailService}
	bootcampHandler := &handlers.BootcampHandler{DB: db, Cfg: cfg, Geocoder: geo, Photos: photos}
	courseHandler := &handlers.CourseHandler{DB: db}
	reviewHandler := &handlers.ReviewHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}

	apiV1 := router.Group("/api/v1")
	{
		// Authentication
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/logout", authHandler.Logout)
			auth.POST("/forgotpassword", authHandler.ForgotPassword)
			auth.PUT("/resetpassword/:resettoken", authHandler.ResetPassword)
			auth.GET("/singleUser", protect, authHandler.GetSingleUser)
			auth.PUT("/updatedetails", protect, authHandler.UpdateDetails)
			auth.PUT("/updatepassword", protect, authHandler.UpdatePassword)
		}

		// Bootcamps, with nested course and review routes
		bootcamp := apiV1.Group("/bootcamp")
		{
			bootcamp.GET("",
				middleware.AdvancedResults(db, middleware.ListSpec{Collection: "bootcamps"}),
				bootcampHandler.GetBootcamps)
			bootcamp.POST("", protect,
				middleware.Authorize(models.RolePublisher, models.RoleAdmin),
				bootcampHandler.CreateBootcamp)

			bootcamp.GET("/radius/:zipcode/:distance", bootcampHandler.GetBootcampsInRadius)

			bootcamp.GET("/:id", bootcampHandler.GetBootcamp)
			bootcamp.PUT("/:id", protect,
				middleware.Authorize(models.RolePublisher, models.RoleAdmin),
				bootcampHandler.UpdateBootcamp)
			bootcamp.DELETE("/:id", protect,
				middleware.Authorize(models.RolePublisher, models.RoleAdmin),
				bootcampHandler.DeleteBootcamp)
			bootcamp.PUT("/:id/photo", protect,
				middleware.Authorize(models.RolePublisher, models.RoleAdmin),
				bootcampHandler.UploadPhoto)

			bootcamp.GET("/:id/course", courseHandler.GetBootcampCourses)
			bootcamp.POST("/:id/course", protect,
				middleware.Authorize(models.RolePublisher, models.RoleAdmin),
				courseHandler.CreateCourse)

			bootcamp.GET("/:id/review", reviewHandler.GetBootcampReviews)
			bootcamp.POST("/:id/review", protect,
				middleware.Authorize(models.RoleUser, models.RoleAdmin),
				reviewHandler.CreateReview)
		}

		// Top-level courses
		course := apiV1.Group("/course")
		{
			course.GET("",
				middleware.AdvancedResults(db, middleware.ListSpec{Collection: "courses", Populate: true}),
				courseHandler.GetCourses)
			course.GET("/:id", courseHandler.GetCourse)
			course.PUT("/:id", protect,
				middleware.Authorize(models.RolePublisher, models.RoleAdmin),
				courseHandler.UpdateCourse)
			course.DELETE("/:id", protect,
				middleware.Authorize(models.RolePublisher, models.RoleAdmin),
				courseHandler.DeleteCourse)
		}

		// Top-level reviews
		review := apiV1.Group("/review")
		{
			review.GET("",
				middleware.AdvancedResults(db, middleware.ListSpec{Collection: "reviews", Populate: true}),
				reviewHandler.GetReviews)
			review.GET("/:id", reviewHandler.GetReview)
			review.PUT("/:id", protect,
				middleware.Authorize(models.RoleUser, models.RoleAdmin),
				reviewHandler.UpdateReview)
			review.DELETE("/:id", protect,
				middleware.Authorize(models.RoleUser, models.RoleAdmin),
				reviewHandler.DeleteReview)
		}

		// User management, admin only
		user := apiV1.Group("/user")
		user.Use(protect)
		user.Use(middleware.Authorize(models.RoleAdmin))
		{
			user.GET("",
				middleware.AdvancedResults(db, middleware.ListSpec{Collection: "users"}),
				userHandler.GetUsers)
			user.POST("", userHandler.CreateUser)
			user.GET("/:id", userHandler.GetUser)
			user.PUT("/:id", userHandler.UpdateUser)
			user.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	return router
}

func ginMode(mode string) string {
	switch mode {
	case "release", "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
