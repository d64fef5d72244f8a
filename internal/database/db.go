package database

import (
	"log"
	"time"

	"outsite-backend/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the MySQL connection, waiting for the database to come up.
func Connect(dsn string) *gorm.DB {
	if dsn == "" {
		log.Fatal("empty DSN; configure DB_DSN")
	}

	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	DB = db
	return db
}

// Migrate syncs the schema. Tests call it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.WorkOrder{},
		&models.Product{},
		&models.ProductBatch{},
		&models.PurchaseInvoice{},
		&models.PurchaseInvoiceItem{},
		&models.SalesInvoice{},
		&models.SalesInvoiceItem{},
		&models.Supplier{},
		&models.Buyer{},
		&models.RepairMan{},
		&models.BolRepairMan{},
	)
}
