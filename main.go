package main

import (
	"net/http"
	"os"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-orders/config"
	"github.com/kendall-kelly/printshop-orders/controllers"
	"github.com/kendall-kelly/printshop-orders/logger"
	"github.com/kendall-kelly/printshop-orders/middleware"
	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/kendall-kelly/printshop-orders/repositories"
	"github.com/kendall-kelly/printshop-orders/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	log.Info().Str("env", cfg.GoEnv).Msg("Starting Print Shop Orders API server...")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	db := config.GetDB()
	if err := config.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Msg("Database migration completed successfully")

	router := setupRouter(db, cfg, log)

	log.Info().Str("addr", cfg.Addr()).Msg("Server is running")
	if err := router.Run(cfg.Addr()); err != nil {
		log.Error().Err(err).Msg("Failed to start server")
		os.Exit(1)
	}
}

// setupRouter wires repositories, services and controllers onto a gin engine.
func setupRouter(db *gorm.DB, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	orderRepo := repositories.NewOrderRepository(db, log)
	customerRepo := repositories.NewCustomerRepository(db, log)
	userRepo := repositories.NewUserRepository(db, log)

	orderService := services.NewOrderService(orderRepo, customerRepo, log)
	customerService := services.NewCustomerService(customerRepo, log)
	userService := services.NewUserService(userRepo, log)

	orders := controllers.NewOrderController(orderService, log)
	customers := controllers.NewCustomerController(customerService, log)
	users := controllers.NewUserController(userService, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	router.Use(middleware.RequestID(), middleware.RequestLogger(log), middleware.Metrics())

	authenticated := middleware.BasicAuth(userService)
	admin := middleware.RequireRole(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus(db))
		v1.GET("/metrics", gin.WrapH(promhttp.Handler()))

		v1.POST("/auth/login", users.Login)
		v1.GET("/auth/me", authenticated, users.GetMe)

		o := v1.Group("/orders", authenticated)
		{
			o.GET("", orders.ListOrders)
			o.GET("/deleted", admin, orders.ListDeletedOrders)
			o.GET("/dueouts", orders.GetDueouts)
			o.GET("/log/:log", orders.GetOrderByLog)
			o.POST("/log/:log/restore", admin, orders.RestoreOrderByLog)
			o.GET("/:id", orders.GetOrder)
			o.POST("", orders.CreateOrder)
			o.PUT("/:id", orders.UpdateOrder)
			o.DELETE("/:id", orders.DeleteOrder)
			o.POST("/:id/restore", admin, orders.RestoreOrder)
			o.DELETE("/:id/hard", admin, orders.HardDeleteOrder)
		}

		c := v1.Group("/customers", authenticated)
		{
			c.GET("", customers.ListCustomers)
			c.GET("/search", customers.SearchCustomers)
			c.GET("/deleted", admin, customers.ListDeletedCustomers)
			c.GET("/cust_id/:cust_id", customers.GetCustomerByCustID)
			c.GET("/:id", customers.GetCustomer)
			c.POST("", customers.CreateCustomer)
			c.PUT("/:id", customers.UpdateCustomer)
			c.DELETE("/:id", customers.DeleteCustomer)
			c.POST("/:id/restore", admin, customers.RestoreCustomer)
			c.DELETE("/:id/hard", admin, customers.HardDeleteCustomer)
		}

		u := v1.Group("/users", authenticated, admin)
		{
			u.GET("", users.ListUsers)
			u.GET("/:id", users.GetUser)
			u.POST("", users.CreateUser)
			u.PUT("/:id", users.UpdateUser)
			u.DELETE("/:id", users.DeleteUser)
			u.POST("/:id/restore", users.RestoreUser)
		}
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Print Shop Orders API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the underlying SQL database to check connection
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to get database instance",
				},
			})
			return
		}

		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_CONNECTION_ERROR",
					"message": "Database connection failed",
				},
			})
			return
		}

		tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_QUERY_ERROR",
					"message": "Failed to query tables",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
			"tables":  tables,
		})
	}
}
