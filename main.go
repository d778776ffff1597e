package main

import (
	"log"

	"toko-online/config"
	"toko-online/controllers"
	_ "toko-online/docs"
	"toko-online/middleware"
	"toko-online/models"
	"toko-online/repositories"
	"toko-online/routes"
	"toko-online/services"

	"github.com/gin-gonic/gin"
)

// @title Toko Online API
// @version 1.0
// @description E-commerce backend: auth, product catalog and cart.
// @BasePath /
func main() {
	config.LoadConfig()

	if config.AppConfig.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	db := config.ConnectDB()
	defer config.CloseDB(db)

	redisClient := config.InitRedis()
	defer config.CloseRedis(redisClient)

	mailer, err := models.NewEmailService(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUser,
		config.AppConfig.SMTPPass,
		config.AppConfig.SMTPFrom,
	)
	if err != nil {
		log.Println("Email service disabled:", err)
	}

	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	otpStore := repositories.NewRedisOTPStore(redisClient)

	googleVerifier := services.NewGoogleVerifier(config.AppConfig.GoogleClientID)

	var authMailer services.Mailer
	if mailer != nil {
		authMailer = mailer
	}

	authService := services.NewAuthService(userRepo, otpStore, authMailer, googleVerifier)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo)

	authCtrl := controllers.NewAuthController(authService)
	productCtrl := controllers.NewProductController(productService, redisClient)
	cartCtrl := controllers.NewCartController(cartService, redisClient)

	router := gin.Default()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	routes.SetupRoutes(router, authCtrl, productCtrl, cartCtrl)

	port := ":" + config.AppConfig.Port
	log.Printf("Server starting on port %s", port)
	log.Printf("Environment: %s", config.AppConfig.AppEnv)
	log.Printf("Swagger UI: http://localhost:%s/swagger/index.html", config.AppConfig.Port)

	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
