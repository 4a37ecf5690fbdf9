package routing

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bookmark-server/internal/handlers"
	"bookmark-server/internal/managers"
	"bookmark-server/internal/middleware"
	"bookmark-server/internal/schemas"
	"bookmark-server/internal/stores"
	"bookmark-server/internal/utils"
)

func InitRouter(databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr) *gin.Engine {
	// Initialize router with logging and recovery middleware
	router := gin.New()
	// Initialize middleware
	setupCommonMiddleware(router)
	// Setup routes
	setupRoutes(router, databaseMgr, mailMgr, jwtMgr)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"http://localhost:5173", "http://localhost:19000"},
		AllowMethods:  []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept, Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
	})
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr) {
	// Set up version route
	router.GET("/", func(c *gin.Context) {
		apiVersion := os.Getenv("API_VERSION")
		if apiVersion == "" {
			apiVersion = "main:latest"
		}
		metadata := &schemas.MetadataDTO{
			ApiVersion: apiVersion,
			ApiName:    "Bookmark Server",
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		// Ping the database
		if err := databaseMgr.GetPool().Ping(c); err != nil {
			c.String(http.StatusInternalServerError, "Database not responding")
			return
		}
		c.Status(http.StatusOK)
	})

	tagStore := stores.NewTagStore()
	bookmarkStore := stores.NewBookmarkStore()
	categoryStore := stores.NewCategoryStore()
	sessionStore := stores.NewSessionStore()
	verificationStore := stores.NewVerificationStore()

	// Set up auth and email routes, both live at the root
	authRouter := router.Group("/auth")
	authHdl := handlers.NewAuthHandler(&databaseMgr, &jwtMgr, sessionStore)
	authRouter.POST("/login", middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), authHdl.Login)
	authRouter.POST("/reissue", middleware.ValidateAndSanitizeStruct(&schemas.RefreshTokenRequest{}), authHdl.RefreshToken)

	emailRouter := router.Group("/email")
	emailHdl := handlers.NewEmailHandler(&databaseMgr, &mailMgr, verificationStore)
	emailRouter.POST("/send-code", middleware.ValidateAndSanitizeStruct(&schemas.SendCodeRequest{}), emailHdl.SendCode)
	emailRouter.POST("/verify-code", middleware.ValidateAndSanitizeStruct(&schemas.VerifyCodeRequest{}), emailHdl.VerifyCode)

	// Set up API routes
	apiRouter := router.Group("/api")
	{
		// Set up user routes
		userHdl := handlers.NewUserHandler(&databaseMgr, &jwtMgr, sessionStore, verificationStore)
		apiRouter.POST("/users/signup", middleware.ValidateAndSanitizeStruct(&schemas.SignupRequest{}), userHdl.Signup)

		// Set up tag routes
		tagRouter := apiRouter.Group("/tags")
		tagHdl := handlers.NewTagHandler(&databaseMgr, tagStore)
		tagRoutes(tagRouter, tagHdl, jwtMgr)

		// Set up bookmark routes
		bookmarkRouter := apiRouter.Group("/bookmarks")
		bookmarkHdl := handlers.NewBookmarkHandler(&databaseMgr, bookmarkStore, tagStore)
		categoryHdl := handlers.NewCategoryHandler(&databaseMgr, categoryStore, bookmarkStore, tagStore)
		// The public search stays outside the JWT middleware and must be
		// registered before the group picks it up
		apiRouter.GET("/bookmarks/search/public-categories", categoryHdl.SearchPublicBookmarks)
		bookmarkRoutes(bookmarkRouter, bookmarkHdl, jwtMgr)

		// Set up category routes, the shared view is public while import
		// requires an authenticated caller
		categoryRouter := apiRouter.Group("/categories")
		apiRouter.GET("/categories/share/:token", categoryHdl.GetSharedCategory)
		apiRouter.POST("/categories/share/:token/import", jwtMgr.JWTMiddleware(), categoryHdl.ImportSharedCategory)
		categoryRoutes(categoryRouter, categoryHdl, jwtMgr)
	}
}

func tagRoutes(tagRouter *gin.RouterGroup, tagHdl handlers.TagHdl, jwtMgr managers.JWTMgr) {
	tagRouter.Use(jwtMgr.JWTMiddleware())
	tagRouter.GET("/", tagHdl.ListTags)
	tagRouter.POST("/", middleware.ValidateAndSanitizeStruct(&schemas.CreateTagRequest{}), tagHdl.CreateTag)
	tagRouter.PUT("/:tagId", middleware.ValidateAndSanitizeStruct(&schemas.UpdateTagRequest{}), tagHdl.RenameTag)
	tagRouter.DELETE("/:tagId", tagHdl.DeleteTag)
}

func bookmarkRoutes(bookmarkRouter *gin.RouterGroup, bookmarkHdl handlers.BookmarkHdl, jwtMgr managers.JWTMgr) {
	bookmarkRouter.Use(jwtMgr.JWTMiddleware())
	bookmarkRouter.POST("/", middleware.ValidateAndSanitizeStruct(&schemas.CreateBookmarkRequest{}), bookmarkHdl.CreateBookmark)
	bookmarkRouter.GET("/", bookmarkHdl.ListBookmarks)
	bookmarkRouter.GET("/favorites", bookmarkHdl.ListFavorites)
	bookmarkRouter.GET("/search", bookmarkHdl.SearchBookmarks)
	bookmarkRouter.GET("/:bookmarkId", bookmarkHdl.GetBookmark)
	bookmarkRouter.PUT("/:bookmarkId", middleware.ValidateAndSanitizeStruct(&schemas.UpdateBookmarkRequest{}), bookmarkHdl.UpdateBookmark)
	bookmarkRouter.PATCH("/:bookmarkId/favorite", bookmarkHdl.ToggleFavorite)
	bookmarkRouter.DELETE("/:bookmarkId", bookmarkHdl.DeleteBookmark)
}

func categoryRoutes(categoryRouter *gin.RouterGroup, categoryHdl handlers.CategoryHdl, jwtMgr managers.JWTMgr) {
	categoryRouter.Use(jwtMgr.JWTMiddleware())
	categoryRouter.POST("/", middleware.ValidateAndSanitizeStruct(&schemas.CreateCategoryRequest{}), categoryHdl.CreateCategory)
	categoryRouter.GET("/", categoryHdl.ListCategories)
	categoryRouter.GET("/:categoryId", categoryHdl.GetCategory)
	categoryRouter.GET("/:categoryId/bookmarks", categoryHdl.ListCategoryBookmarks)
	categoryRouter.PUT("/:categoryId", middleware.ValidateAndSanitizeStruct(&schemas.UpdateCategoryRequest{}), categoryHdl.UpdateCategory)
	categoryRouter.PATCH("/:categoryId/visibility", categoryHdl.ToggleVisibility)
	categoryRouter.DELETE("/:categoryId", categoryHdl.DeleteCategory)
	categoryRouter.POST("/:categoryId/share-token", categoryHdl.CreateShareToken)
	categoryRouter.DELETE("/:categoryId/share-token", categoryHdl.DeleteShareToken)
}
