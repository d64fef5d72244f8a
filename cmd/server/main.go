package main

import (
	"context"
	"log"
	"time"

	"outsite-backend/internal/auth"
	"outsite-backend/internal/config"
	"outsite-backend/internal/database"
	"outsite-backend/internal/handlers"
	"outsite-backend/internal/middleware"
	"outsite-backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.Load()
	auth.Init(cfg.JWTSecret)

	db := database.Connect(cfg.DSN)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Database schema synced")

	database.SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword, cfg.Salt)

	// Redis is optional; without it the dashboard just hits the database.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("Redis unreachable, dashboard cache disabled: %v", err)
			rdb = nil
		} else {
			log.Println("Redis connected")
		}
		cancel()
	}

	inv := services.NewInventory(db)
	authHandler := handlers.NewAuthHandler(db, cfg.Salt)
	productHandler := handlers.NewProductHandler(db, inv)
	purchaseHandler := handlers.NewPurchaseHandler(db, inv)
	salesHandler := handlers.NewSalesHandler(db, inv)
	vehicleHandler := handlers.NewVehicleHandler(db)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)
	userHandler := handlers.NewUserHandler(db, cfg.Salt)
	refHandler := handlers.NewReferenceHandler(db)
	dashHandler := handlers.NewDashboardHandler(db, rdb)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/api/login", middleware.RateLimit("10-M"), authHandler.Login)
	r.GET("/api/logout", authHandler.Logout)
	r.Static("/uploads", cfg.UploadDir)

	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.Authorize())
	{
		api.GET("/me", authHandler.Me)
		api.GET("/dashboard", dashHandler.Stats)

		api.GET("/products", productHandler.List)
		api.POST("/products", productHandler.Create)
		api.GET("/products/low-stock", productHandler.LowStock)
		api.GET("/products/out-of-stock", productHandler.OutOfStock)
		api.POST("/products/check-duplicates", productHandler.CheckDuplicates)
		api.POST("/products/batch-create", productHandler.BatchCreate)
		api.POST("/products/batch", productHandler.CreateBatch)
		api.PUT("/products/batch", productHandler.UpdateBatch)
		api.DELETE("/products/batch", productHandler.DeleteBatch)
		api.GET("/products/:id", productHandler.Get)
		api.DELETE("/products/:id", productHandler.Delete)
		api.GET("/products/:id/barcode", productHandler.Barcode)

		api.GET("/purchases", purchaseHandler.List)
		api.POST("/purchases/create", dashHandler.InvalidateAfter, purchaseHandler.Create)
		api.PATCH("/purchases/delivery", purchaseHandler.SetDelivery)
		api.GET("/purchases/:id", purchaseHandler.Get)
		api.PUT("/purchases/:id", dashHandler.InvalidateAfter, purchaseHandler.Update)
		api.DELETE("/purchases/:id", dashHandler.InvalidateAfter, purchaseHandler.Delete)

		api.GET("/sales-invoices", salesHandler.List)
		api.POST("/sales-invoices", dashHandler.InvalidateAfter, salesHandler.Create)
		api.GET("/sales-invoices/:id", salesHandler.Get)
		api.PATCH("/sales-invoices/:id", dashHandler.InvalidateAfter, salesHandler.Update)
		api.DELETE("/sales-invoices/:id", dashHandler.InvalidateAfter, salesHandler.Delete)
		api.PATCH("/sales-invoices/:id/approval",
			middleware.RequireRole("admin"), dashHandler.InvalidateAfter, salesHandler.SetApproval)
		api.PATCH("/sales-invoices/:id/disburse",
			middleware.RequireRole("admin", "warehouse"), dashHandler.InvalidateAfter, salesHandler.Disburse)
		api.POST("/sales-invoices/:id/return",
			middleware.RequireRole("admin", "warehouse"), dashHandler.InvalidateAfter, salesHandler.Return)

		api.GET("/vehicles", vehicleHandler.List)
		api.POST("/vehicles", vehicleHandler.Create)
		api.POST("/vehicles/import", vehicleHandler.Import)
		api.GET("/vehicles/:id", vehicleHandler.Get)
		api.PUT("/vehicles/:id", vehicleHandler.Update)
		api.DELETE("/vehicles/:id", vehicleHandler.Delete)
		api.GET("/vehicles/:id/work-orders", vehicleHandler.ListWorkOrders)
		api.POST("/vehicles/:id/work-orders", vehicleHandler.CreateWorkOrder)
		api.DELETE("/vehicles/:id/work-orders/:orderID", vehicleHandler.DeleteWorkOrder)

		api.GET("/suppliers", refHandler.ListSuppliers)
		api.POST("/suppliers", refHandler.CreateSupplier)
		api.DELETE("/suppliers/:id", refHandler.DeleteSupplier)
		api.GET("/buyers", refHandler.ListBuyers)
		api.POST("/buyers", refHandler.CreateBuyer)
		api.DELETE("/buyers/:id", refHandler.DeleteBuyer)
		api.GET("/repairman", refHandler.ListRepairMen)
		api.POST("/repairman", refHandler.CreateRepairMan)
		api.DELETE("/repairman/:id", refHandler.DeleteRepairMan)
		api.GET("/bol-repairman", refHandler.ListBolRepairMen)
		api.POST("/bol-repairman", refHandler.CreateBolRepairMan)
		api.DELETE("/bol-repairman/:id", refHandler.DeleteBolRepairMan)

		api.POST("/upload", uploadHandler.Upload)
		api.DELETE("/upload", uploadHandler.Delete)

		admin := api.Group("/users")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.GET("", userHandler.List)
			admin.POST("", userHandler.Create)
			admin.PUT("/:id", userHandler.Update)
			admin.DELETE("/:id", userHandler.Delete)
		}
	}

	log.Println("Server starting on :" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
