package services

import (
	"outsite-backend/internal/models"

	"gorm.io/gorm"
)

// ProductWithStock is the listing row: the product plus the summed
// remaining quantity over all its batches.
type ProductWithStock struct {
	models.Product
	TotalQuantity int `json:"total_quantity"`
}

// ListProducts returns all products with their aggregate stock.
func (s *Inventory) ListProducts() ([]ProductWithStock, error) {
	var rows []ProductWithStock
	err := s.DB.Model(&models.Product{}).
		Select("products.*, COALESCE(SUM(product_batches.quantity), 0) AS total_quantity").
		Joins("LEFT JOIN product_batches ON product_batches.product_id = products.id").
		Group("products.id").
		Order("products.id").
		Scan(&rows).Error
	return rows, err
}

// LowStockProducts lists products where any batch is at or below the
// threshold.
func (s *Inventory) LowStockProducts() ([]ProductWithStock, error) {
	var rows []ProductWithStock
	err := s.DB.Model(&models.Product{}).
		Select("products.*, COALESCE(SUM(product_batches.quantity), 0) AS total_quantity").
		Joins("LEFT JOIN product_batches ON product_batches.product_id = products.id").
		Where("products.id IN (?)", s.DB.Model(&models.ProductBatch{}).
			Select("product_id").Where("quantity <= ?", LowStockThreshold)).
		Group("products.id").
		Scan(&rows).Error
	return rows, err
}

// OutOfStockProducts lists products with no batch holding stock.
func (s *Inventory) OutOfStockProducts() ([]models.Product, error) {
	var rows []models.Product
	err := s.DB.
		Where("id NOT IN (?)", s.DB.Model(&models.ProductBatch{}).
			Select("product_id").Where("quantity > 0")).
		Find(&rows).Error
	return rows, err
}

// CheckDuplicateNames returns the subset of candidate names that already
// exist, case-sensitively.
func (s *Inventory) CheckDuplicateNames(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var existing []string
	err := s.DB.Model(&models.Product{}).
		Where("name IN ?", names).
		Pluck("name", &existing).Error
	return existing, err
}

// CreateProducts inserts the products after re-running the duplicate check
// inside the transaction, so the check/create race cannot slip a duplicate
// through.
func (s *Inventory) CreateProducts(products []models.Product) error {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).
			Where("name IN ?", names).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteProduct removes a product unless an invoice item still references
// it.
func (s *Inventory) DeleteProduct(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.PurchaseInvoiceItem{}).
			Where("product_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrProductInUse
		}
		if err := tx.Model(&models.SalesInvoiceItem{}).
			Where("product_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrProductInUse
		}

		if err := tx.Where("product_id = ?", id).
			Delete(&models.ProductBatch{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
}

// CreateBatch records a manual stock adjustment lot outside any purchase
// invoice.
func (s *Inventory) CreateBatch(productID uint, quantity int, price float64, vehicleID *uint) (*models.ProductBatch, error) {
	var product models.Product
	if err := s.DB.First(&product, productID).Error; err != nil {
		return nil, err
	}

	batch := models.ProductBatch{
		ProductID:     productID,
		Quantity:      quantity,
		PurchasePrice: price,
		VehicleID:     vehicleID,
	}
	if err := s.DB.Create(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// UpdateBatch sets the remaining quantity of a batch, CAS-guarded like
// every other stock write.
func (s *Inventory) UpdateBatch(id uint, quantity int, vehicleID *uint) (*models.ProductBatch, error) {
	var batch models.ProductBatch
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&batch, id).Error; err != nil {
			return err
		}
		if quantity < 0 {
			return ErrInsufficientStock
		}
		res := tx.Model(&models.ProductBatch{}).
			Where("id = ? AND version = ?", batch.ID, batch.Version).
			Updates(map[string]interface{}{
				"quantity":   quantity,
				"vehicle_id": vehicleID,
				"version":    batch.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBatchConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.First(&batch, id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// DeleteBatch removes a batch no sales item references and nothing was
// sold from.
func (s *Inventory) DeleteBatch(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var batch models.ProductBatch
		if err := tx.First(&batch, id).Error; err != nil {
			return err
		}
		if batch.SoldQuantity > 0 {
			return ErrBatchInUse
		}

		var count int64
		if err := tx.Model(&models.SalesInvoiceItem{}).
			Where("batch_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrBatchInUse
		}
		return tx.Delete(&batch).Error
	})
}
