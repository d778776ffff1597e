package routes

import (
	"toko-online/controllers"
	"toko-online/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(
	router *gin.Engine,
	authCtrl *controllers.AuthController,
	productCtrl *controllers.ProductController,
	cartCtrl *controllers.CartController,
) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)
	router.POST("/auth/google", authCtrl.GoogleLogin)
	router.POST("/auth/forgot-password", authCtrl.ForgotPassword)
	router.POST("/auth/reset-password", authCtrl.ResetPassword)

	router.GET("/products", productCtrl.GetAllProducts)
	router.GET("/products/:id", productCtrl.GetProductByID)

	// Cart routes take an optional token: no token means the shared
	// guest cart, a bad token is rejected.
	cart := router.Group("/cart")
	cart.Use(middleware.IdentityMiddleware())
	{
		cart.POST("", cartCtrl.AddToCart)
		cart.GET("", cartCtrl.GetCart)
		cart.PUT("/:id", cartCtrl.UpdateCartItem)
		cart.DELETE("/:id", cartCtrl.RemoveCartItem)
	}
}
