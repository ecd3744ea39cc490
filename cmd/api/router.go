package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/middleware"
	"guidelight-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupDisplayRoutes(v1, c)

		// everything below needs a staff access token
		staff := v1.Group("")
		staff.Use(middleware.Auth(c.JWTManager))

		setupStaffRoutes(staff, c)
		setupCategoryRoutes(staff, c)
		setupProductRoutes(staff, c)
		setupAssetRoutes(staff, c)
		setupPickRoutes(staff, c)
		setupEditorRoutes(staff, c)
		setupBoardRoutes(staff, c)
	}

	return router
}

func managerOnly(action string) gin.HandlerFunc {
	return middleware.RequireRole(action, shared.RoleManager)
}

// ========================================
// AUTH
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.StaffHandler.Login)
		auth.POST("/refresh", c.StaffHandler.Refresh)
		auth.POST("/logout", c.StaffHandler.Logout)
	}
}

// ========================================
// STAFF
// ========================================
func setupStaffRoutes(r *gin.RouterGroup, c *container.Container) {
	r.GET("/staff/me", c.StaffHandler.Me)

	admin := r.Group("/admin/staff")
	admin.Use(managerOnly("manage staff"))
	{
		admin.GET("", c.StaffHandler.List)
		admin.POST("", c.StaffHandler.Create)
		admin.PATCH("/:id", c.StaffHandler.Update)
		admin.PUT("/:id/password", c.StaffHandler.SetPassword)
	}
}

// ========================================
// CATALOG
// ========================================
func setupCategoryRoutes(r *gin.RouterGroup, c *container.Container) {
	categories := r.Group("/categories")
	{
		categories.GET("", c.CategoryHandler.List)
		categories.GET("/:id", c.CategoryHandler.Get)
		categories.POST("", managerOnly("manage categories"), c.CategoryHandler.Create)
		categories.PATCH("/:id", managerOnly("manage categories"), c.CategoryHandler.Update)
	}
}

func setupProductRoutes(r *gin.RouterGroup, c *container.Container) {
	products := r.Group("/products")
	{
		products.GET("", c.ProductHandler.List)
		products.GET("/:id", c.ProductHandler.Get)
		products.POST("", managerOnly("manage products"), c.ProductHandler.Create)
	}
}

func setupAssetRoutes(r *gin.RouterGroup, c *container.Container) {
	assets := r.Group("/assets")
	{
		assets.POST("", c.AssetHandler.Upload)
		assets.GET("/:id", c.AssetHandler.Get)
		assets.DELETE("/:id", c.AssetHandler.Delete)
	}
}

// ========================================
// PICKS
// ========================================
func setupPickRoutes(r *gin.RouterGroup, c *container.Container) {
	picks := r.Group("/picks")
	{
		picks.GET("", c.PickHandler.List)
		picks.GET("/:id", c.PickHandler.Get)
		picks.PATCH("/:id/active", c.PickHandler.SetActive)
		picks.PATCH("/:id/status", c.PickHandler.SetStatus)
		picks.DELETE("/:id", c.PickHandler.Delete)
	}

	r.GET("/admin/picks/export", managerOnly("export picks"), c.PickHandler.Export)
}

// ========================================
// EDITOR (sessions + drafts)
// ========================================
func setupEditorRoutes(r *gin.RouterGroup, c *container.Container) {
	sessions := r.Group("/editor/sessions")
	{
		sessions.POST("", c.DraftHandler.Open)
		sessions.GET("/:id", c.DraftHandler.Get)
		sessions.PATCH("/:id", c.DraftHandler.Patch)
		sessions.POST("/:id/tags", c.DraftHandler.AddTag)
		sessions.DELETE("/:id/tags", c.DraftHandler.RemoveTag)
		sessions.POST("/:id/publish", c.DraftHandler.Publish)
		sessions.DELETE("/:id", c.DraftHandler.Discard)
	}

	drafts := r.Group("/drafts")
	{
		drafts.GET("", c.DraftHandler.ListDrafts)
		drafts.GET("/by-target", c.DraftHandler.GetDraft)
	}
}

// ========================================
// BOARDS
// ========================================
func setupBoardRoutes(r *gin.RouterGroup, c *container.Container) {
	boards := r.Group("/boards")
	{
		boards.GET("", c.BoardHandler.List)
		boards.POST("", c.BoardHandler.Create)
		boards.GET("/:id", c.BoardHandler.Get)
		boards.PATCH("/:id", c.BoardHandler.Update)
		boards.DELETE("/:id", c.BoardHandler.Delete)
		boards.POST("/:id/items", c.BoardHandler.AddItem)
		boards.DELETE("/:id/items/:item_id", c.BoardHandler.RemoveItem)
		boards.PUT("/:id/order", c.BoardHandler.Reorder)
	}
}

// ========================================
// DISPLAY (kiosks, shared token instead of staff login)
// ========================================
func setupDisplayRoutes(v1 *gin.RouterGroup, c *container.Container) {
	display := v1.Group("/display")
	display.Use(middleware.DisplayToken(c.Config.Display.Token))
	{
		display.GET("/picks", c.PickHandler.DisplayFeed)
		display.GET("/boards/:slug", c.BoardHandler.Display)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		services := gin.H{"database": "ok", "redis": "ok"}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := appCtx.DB.Ping(ctx); err != nil {
			services["database"] = "error: " + err.Error()
			status = "degraded"
		}
		// redis down only degrades caching
		if err := appCtx.Cache.Ping(ctx); err != nil {
			services["redis"] = "error: " + err.Error()
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
