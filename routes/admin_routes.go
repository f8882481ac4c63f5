package routes

import (
	"github.com/Goniek94/Motoria/controllers"
	"github.com/Goniek94/Motoria/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-panel routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", controllers.AdminLogin)
		admin.POST("/logout", controllers.AdminLogout)

		// Protected admin routes
		admin.Use(middleware.AdminAuthMiddleware())
		{
			admin.GET("/dashboard", controllers.GetDashboardStats)

			// User management
			admin.GET("/users", controllers.GetUsers)
			admin.PATCH("/users/:id/block", controllers.BlockUser)
			admin.PATCH("/users/:id/unblock", controllers.UnblockUser)

			// Category management
			admin.POST("/categories", controllers.CreateCategory)
			admin.PUT("/categories/:id", controllers.UpdateCategory)
			admin.DELETE("/categories/:id", controllers.DeleteCategory)

			// Listing moderation
			admin.GET("/listings", controllers.GetListingsForModeration)
			admin.PATCH("/listings/:id/approve", controllers.ApproveListing)
			admin.PATCH("/listings/:id/block", controllers.BlockListing)
			admin.PATCH("/listings/:id/unblock", controllers.UnblockListing)

			// Promotion campaigns
			admin.POST("/promotions", controllers.CreatePromotion)
			admin.GET("/promotions", controllers.ListPromotions)
			admin.PUT("/promotions/:id", controllers.UpdatePromotion)
			admin.DELETE("/promotions/:id", controllers.DeletePromotion)
			admin.GET("/promotions/:id/targets", controllers.PreviewPromotionTargets)
			admin.POST("/promotions/:id/apply", controllers.ApplyPromotionHandler)
			admin.POST("/promotions/:id/revoke", controllers.RevokePromotionHandler)

			// Transactions
			admin.GET("/transactions", controllers.GetTransactions)
			admin.GET("/transactions/export", controllers.ExportTransactionsExcel)
		}
	}
}
