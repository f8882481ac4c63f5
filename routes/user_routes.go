package routes

import (
	"github.com/Goniek94/Motoria/controllers"
	"github.com/Goniek94/Motoria/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all user-facing routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public routes (no authentication required)
	router.POST("/register", controllers.RegisterUser)
	router.POST("/verify-otp", controllers.VerifyOTP)
	router.POST("/login", controllers.LoginUser)

	// Marketplace browsing is public
	router.GET("/listings", controllers.BrowseListings)
	router.GET("/listings/:id", controllers.GetListing)
	router.GET("/categories", controllers.ListCategories)
	router.GET("/packages", controllers.ListPromotionPackages)

	// Protected routes
	user := router.Group("/")
	user.Use(middleware.AuthMiddleware())
	{
		// Listings
		user.POST("/listings", controllers.CreateListing)
		user.GET("/my/listings", controllers.GetMyListings)
		user.PUT("/listings/:id", controllers.UpdateListing)
		user.PATCH("/listings/:id/sold", controllers.MarkListingSold)
		user.DELETE("/listings/:id", controllers.DeleteListing)
		user.POST("/listings/:id/images", controllers.UploadListingImage)

		// Favorites
		user.POST("/favorites", controllers.AddToFavorites)
		user.GET("/favorites", controllers.GetFavorites)
		user.DELETE("/favorites/:id", controllers.RemoveFromFavorites)

		// Messaging
		user.POST("/messages", controllers.SendMessage)
		user.GET("/messages", controllers.GetInbox)
		user.GET("/messages/unread", controllers.GetUnreadCount)
		user.GET("/messages/:listingId/:userId", controllers.GetConversation)

		// Paid promotion packages
		user.POST("/packages/purchase", controllers.InitiatePackagePurchase)
		user.POST("/packages/verify", controllers.VerifyPackagePayment)
		user.GET("/my/transactions", controllers.GetMyTransactions)
		user.GET("/my/transactions/:id/invoice", controllers.DownloadInvoice)
	}
}
