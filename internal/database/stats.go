package database

import (
	"outsite-backend/internal/models"
	"outsite-backend/internal/services"

	"gorm.io/gorm"
)

// DashboardStats is the aggregate snapshot shown on the landing page.
type DashboardStats struct {
	Vehicles         int64   `json:"vehicles"`
	Products         int64   `json:"products"`
	LowStockProducts int64   `json:"low_stock_products"`
	OutOfStock       int64   `json:"out_of_stock_products"`
	PendingApprovals int64   `json:"pending_approvals"`
	PendingDisburse  int64   `json:"pending_disbursements"`
	PurchaseTotal    float64 `json:"purchase_total"`
	SalesTotal       float64 `json:"sales_total"`
}

// GetDashboardStats runs the aggregate queries one by one.
// COALESCE keeps the sums at 0 instead of NULL on empty tables.
func GetDashboardStats(db *gorm.DB) (*DashboardStats, error) {
	var stats DashboardStats

	if err := db.Model(&models.Vehicle{}).Count(&stats.Vehicles).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Count(&stats.Products).Error; err != nil {
		return nil, err
	}

	// Products with at least one batch at or below the threshold.
	err := db.Model(&models.Product{}).
		Where("id IN (?)", db.Model(&models.ProductBatch{}).
			Select("product_id").
			Where("quantity <= ?", services.LowStockThreshold)).
		Count(&stats.LowStockProducts).Error
	if err != nil {
		return nil, err
	}

	// Products with no batch holding stock.
	err = db.Model(&models.Product{}).
		Where("id NOT IN (?)", db.Model(&models.ProductBatch{}).
			Select("product_id").
			Where("quantity > 0")).
		Count(&stats.OutOfStock).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.SalesInvoice{}).
		Where("approval_status = ?", models.ApprovalNotApproved).
		Count(&stats.PendingApprovals).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.SalesInvoice{}).
		Where("approval_status = ? AND disbursement_status = ?",
			models.ApprovalApproved, models.DisbursementNot).
		Count(&stats.PendingDisburse).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.PurchaseInvoice{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.PurchaseTotal).Error
	if err != nil {
		return nil, err
	}

	// Only disbursed invoices have actually moved stock and money.
	err = db.Model(&models.SalesInvoice{}).
		Where("disbursement_status = ?", models.DisbursementDone).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.SalesTotal).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
