package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/wpendl99/jwt-pizza-service/handlers"
	"github.com/wpendl99/jwt-pizza-service/middleware"
)

// Endpoints is the public API surface, served by the docs endpoint.
var Endpoints = []string{
	"[POST] /api/auth",
	"[PUT] /api/auth",
	"[DELETE] /api/auth",
	"[PUT] /api/auth/:userId",
	"[GET] /api/order/menu",
	"[PUT] /api/order/menu",
	"[GET] /api/order",
	"[POST] /api/order",
	"[GET] /api/franchise",
	"[GET] /api/franchise/:userId",
	"[POST] /api/franchise",
	"[DELETE] /api/franchise/:franchiseId",
	"[POST] /api/franchise/:franchiseId/store",
	"[DELETE] /api/franchise/:franchiseId/store/:storeId",
}

func SetupRoutes(r *gin.Engine) {
	// Every API route resolves an optional identity first; routes that
	// need one add AuthRequired on top.
	api := r.Group("/api")
	api.Use(middleware.SetAuthUser())
	{
		// Auth & sessions
		api.POST("/auth", handlers.Register)
		api.PUT("/auth", handlers.Login)
		api.DELETE("/auth", middleware.AuthRequired(), handlers.Logout)
		api.PUT("/auth/:userId", middleware.AuthRequired(), handlers.UpdateUser)

		// Menu & orders
		api.GET("/order/menu", handlers.GetMenu)
		api.PUT("/order/menu", middleware.AuthRequired(), handlers.AddMenuItem)
		api.GET("/order", middleware.AuthRequired(), handlers.GetOrders)
		api.POST("/order", middleware.AuthRequired(), handlers.CreateOrder)

		// Franchises & stores
		api.GET("/franchise", handlers.ListFranchises)
		api.GET("/franchise/:userId", middleware.AuthRequired(), handlers.GetUserFranchises)
		api.POST("/franchise", middleware.AuthRequired(), handlers.CreateFranchise)
		api.DELETE("/franchise/:franchiseId", middleware.AuthRequired(), handlers.DeleteFranchise)
		api.POST("/franchise/:franchiseId/store", middleware.AuthRequired(), handlers.CreateStore)
		api.DELETE("/franchise/:franchiseId/store/:storeId", middleware.AuthRequired(), handlers.DeleteStore)
	}
}
