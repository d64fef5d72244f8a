package services

import (
	"time"

	"outsite-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LowStockThreshold marks a product low on stock when any of its batches
// drops to this quantity or below.
const LowStockThreshold = 10

// Inventory owns the batch lifecycle: purchase creates batches, disbursement
// consumes them, return restores them. Every multi-row mutation runs in a
// single transaction.
type Inventory struct {
	DB *gorm.DB
}

func NewInventory(db *gorm.DB) *Inventory {
	return &Inventory{DB: db}
}

type PurchaseItemInput struct {
	ProductID     uint    `json:"product_id" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	PurchasePrice float64 `json:"purchase_price" binding:"gte=0"`
	VehicleID     *uint   `json:"vehicle_id"`
}

type PurchaseInput struct {
	InvoiceDate time.Time           `json:"invoice_date"`
	SupplierID  uint                `json:"supplier_id" binding:"required"`
	BuyerID     uint                `json:"buyer_id" binding:"required"`
	Items       []PurchaseItemInput `json:"items" binding:"required,min=1,dive"`
}

type SalesItemInput struct {
	ProductID         uint    `json:"product_id" binding:"required"`
	BatchID           uint    `json:"batch_id" binding:"required"`
	SoldQuantity      int     `json:"sold_quantity" binding:"required,gt=0"`
	UnitPrice         float64 `json:"unit_price" binding:"gte=0"`
	AvailableQuantity int     `json:"available_quantity"`
}

type SalesInput struct {
	Number      string           `json:"number" binding:"required"`
	InvoiceDate time.Time        `json:"invoice_date"`
	VehicleID   uint             `json:"vehicle_id" binding:"required"`
	WorkOrderID *uint            `json:"work_order_id"`
	Items       []SalesItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreatePurchase writes the invoice header, its items and one batch per
// item atomically. An item can never exist without its batch.
func (s *Inventory) CreatePurchase(userID uint, in PurchaseInput) (*models.PurchaseInvoice, error) {
	invoice := models.PurchaseInvoice{
		InvoiceDate: in.InvoiceDate,
		SupplierID:  in.SupplierID,
		BuyerID:     in.BuyerID,
		UserID:      userID,
		TotalAmount: purchaseTotal(in.Items),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		return createPurchaseItems(tx, &invoice, in.Items)
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Items.Batch").Preload("Items.Product").
		First(&invoice, invoice.ID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdatePurchase replaces all items and batches of an invoice. Rejected
// once any of its batches has sold stock, since the sold units cannot be
// traced back to the replaced lots.
func (s *Inventory) UpdatePurchase(id uint, in PurchaseInput) (*models.PurchaseInvoice, error) {
	var invoice models.PurchaseInvoice

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&invoice, id).Error; err != nil {
			return err
		}
		if err := purchaseConsumed(tx, invoice.ID); err != nil {
			return err
		}
		if err := deletePurchaseItems(tx, invoice.ID); err != nil {
			return err
		}

		invoice.InvoiceDate = in.InvoiceDate
		invoice.SupplierID = in.SupplierID
		invoice.BuyerID = in.BuyerID
		invoice.TotalAmount = purchaseTotal(in.Items)
		if err := tx.Save(&invoice).Error; err != nil {
			return err
		}
		return createPurchaseItems(tx, &invoice, in.Items)
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Items.Batch").Preload("Items.Product").
		First(&invoice, invoice.ID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// DeletePurchase removes the invoice with its items and batches, with the
// same consumed-stock guard as UpdatePurchase.
func (s *Inventory) DeletePurchase(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var invoice models.PurchaseInvoice
		if err := tx.First(&invoice, id).Error; err != nil {
			return err
		}
		if err := purchaseConsumed(tx, invoice.ID); err != nil {
			return err
		}
		if err := deletePurchaseItems(tx, invoice.ID); err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
}

// CreateSales records the invoice and its items without touching any batch;
// stock only moves at disbursement.
func (s *Inventory) CreateSales(userID uint, in SalesInput) (*models.SalesInvoice, error) {
	invoice := models.SalesInvoice{
		Number:             in.Number,
		InvoiceDate:        in.InvoiceDate,
		VehicleID:          in.VehicleID,
		WorkOrderID:        in.WorkOrderID,
		UserID:             userID,
		ApprovalStatus:     models.ApprovalNotApproved,
		DisbursementStatus: models.DisbursementNot,
		TotalAmount:        salesTotal(in.Items),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		return createSalesItems(tx, invoice.ID, in.Items)
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateSales replaces all items of a not-yet-disbursed invoice and
// recomputes the total. No batch is touched because none was consumed yet.
func (s *Inventory) UpdateSales(id uint, in SalesInput) (*models.SalesInvoice, error) {
	var invoice models.SalesInvoice

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invoice, id).Error; err != nil {
			return err
		}
		if invoice.DisbursementStatus == models.DisbursementDone {
			return ErrAlreadyDisbursed
		}

		if err := tx.Where("invoice_id = ?", invoice.ID).
			Delete(&models.SalesInvoiceItem{}).Error; err != nil {
			return err
		}

		invoice.Number = in.Number
		invoice.InvoiceDate = in.InvoiceDate
		invoice.VehicleID = in.VehicleID
		invoice.WorkOrderID = in.WorkOrderID
		invoice.TotalAmount = salesTotal(in.Items)
		if err := tx.Save(&invoice).Error; err != nil {
			return err
		}
		return createSalesItems(tx, invoice.ID, in.Items)
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// SetApproval flips the administrative sign-off. No inventory effect.
func (s *Inventory) SetApproval(id uint, approved bool) (*models.SalesInvoice, error) {
	var invoice models.SalesInvoice
	if err := s.DB.First(&invoice, id).Error; err != nil {
		return nil, err
	}

	status := models.ApprovalNotApproved
	if approved {
		status = models.ApprovalApproved
	}
	if err := s.DB.Model(&invoice).Update("approval_status", status).Error; err != nil {
		return nil, err
	}
	invoice.ApprovalStatus = status
	return &invoice, nil
}

// Disburse releases the goods: attaches the repairmen, flips the status and
// decrements every referenced batch. The status check and the decrements
// share one transaction, so a second disbursement of the same invoice fails
// with ErrAlreadyDisbursed no matter how the requests interleave.
func (s *Inventory) Disburse(id, repairManID, bolRepairManID uint) (*models.SalesInvoice, error) {
	var invoice models.SalesInvoice

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&invoice, id).Error; err != nil {
			return err
		}
		if invoice.DisbursementStatus == models.DisbursementDone {
			return ErrAlreadyDisbursed
		}
		if invoice.ApprovalStatus != models.ApprovalApproved {
			return ErrNotApproved
		}
		if len(invoice.Items) == 0 {
			return ErrEmptyInvoice
		}

		// Flip first, guarded by the previous state. Under concurrent
		// disbursements only one UPDATE matches; the loser backs out
		// before touching any batch.
		res := tx.Model(&models.SalesInvoice{}).
			Where("id = ? AND disbursement_status = ?", invoice.ID, models.DisbursementNot).
			Updates(map[string]interface{}{
				"disbursement_status": models.DisbursementDone,
				"repair_man_id":       repairManID,
				"bol_repair_man_id":   bolRepairManID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyDisbursed
		}

		for _, item := range invoice.Items {
			if err := applyBatchDelta(tx, item.BatchID, -item.SoldQuantity, item.SoldQuantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Items.Batch").Preload("RepairMan").Preload("BolRepairMan").
		First(&invoice, invoice.ID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Return reverses a disbursed invoice: every batch gets its quantities
// back, then the items and the invoice are deleted. One transaction.
func (s *Inventory) Return(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var invoice models.SalesInvoice
		if err := tx.Preload("Items").First(&invoice, id).Error; err != nil {
			return err
		}
		if invoice.DisbursementStatus != models.DisbursementDone {
			return ErrNotDisbursed
		}

		for _, item := range invoice.Items {
			if err := applyBatchDelta(tx, item.BatchID, item.SoldQuantity, -item.SoldQuantity); err != nil {
				return err
			}
		}

		if err := tx.Where("invoice_id = ?", invoice.ID).
			Delete(&models.SalesInvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
}

// DeleteSales removes a not-yet-disbursed invoice. Disbursed invoices go
// through Return so the stock comes back first.
func (s *Inventory) DeleteSales(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var invoice models.SalesInvoice
		if err := tx.First(&invoice, id).Error; err != nil {
			return err
		}
		if invoice.DisbursementStatus == models.DisbursementDone {
			return ErrAlreadyDisbursed
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).
			Delete(&models.SalesInvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
}

// applyBatchDelta adjusts one batch with an optimistic compare-and-swap on
// the version column. A zero-row UPDATE means another writer got between
// the read and the write; the caller's transaction rolls back and the
// client retries.
func applyBatchDelta(tx *gorm.DB, batchID uint, dq, ds int) error {
	var batch models.ProductBatch
	if err := tx.First(&batch, batchID).Error; err != nil {
		return err
	}

	newQty := batch.Quantity + dq
	newSold := batch.SoldQuantity + ds
	if newQty < 0 {
		return ErrInsufficientStock
	}
	if newSold < 0 {
		newSold = 0
	}

	res := tx.Model(&models.ProductBatch{}).
		Where("id = ? AND version = ?", batch.ID, batch.Version).
		Updates(map[string]interface{}{
			"quantity":      newQty,
			"sold_quantity": newSold,
			"version":       batch.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBatchConflict
	}
	return nil
}

func createPurchaseItems(tx *gorm.DB, invoice *models.PurchaseInvoice, items []PurchaseItemInput) error {
	for _, in := range items {
		item := models.PurchaseInvoiceItem{
			InvoiceID:      invoice.ID,
			ProductID:      in.ProductID,
			Quantity:       in.Quantity,
			PurchasePrice:  in.PurchasePrice,
			VehicleID:      in.VehicleID,
			DeliveryStatus: models.DeliveryPending,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		batch := models.ProductBatch{
			ProductID:      in.ProductID,
			Quantity:       in.Quantity,
			SoldQuantity:   0,
			PurchasePrice:  in.PurchasePrice,
			PurchaseItemID: &item.ID,
			VehicleID:      in.VehicleID,
		}
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}
		if err := tx.Model(&item).Update("batch_id", batch.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

func createSalesItems(tx *gorm.DB, invoiceID uint, items []SalesItemInput) error {
	for _, in := range items {
		item := models.SalesInvoiceItem{
			InvoiceID:         invoiceID,
			ProductID:         in.ProductID,
			BatchID:           in.BatchID,
			SoldQuantity:      in.SoldQuantity,
			UnitPrice:         in.UnitPrice,
			AvailableQuantity: in.AvailableQuantity,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

// purchaseConsumed reports ErrPurchaseConsumed when any batch of the
// invoice has sold stock, and ErrBatchInUse when a sales invoice item
// still references one of its batches. A pending sale on a deleted batch
// could otherwise never be disbursed.
func purchaseConsumed(tx *gorm.DB, invoiceID uint) error {
	var count int64
	err := tx.Model(&models.ProductBatch{}).
		Where("purchase_item_id IN (?) AND sold_quantity > 0",
			tx.Model(&models.PurchaseInvoiceItem{}).
				Select("id").Where("invoice_id = ?", invoiceID)).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPurchaseConsumed
	}

	err = tx.Model(&models.SalesInvoiceItem{}).
		Where("batch_id IN (?)",
			tx.Model(&models.ProductBatch{}).
				Select("id").Where("purchase_item_id IN (?)",
					tx.Model(&models.PurchaseInvoiceItem{}).
						Select("id").Where("invoice_id = ?", invoiceID))).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrBatchInUse
	}
	return nil
}

func deletePurchaseItems(tx *gorm.DB, invoiceID uint) error {
	if err := tx.Where("purchase_item_id IN (?)",
		tx.Model(&models.PurchaseInvoiceItem{}).
			Select("id").Where("invoice_id = ?", invoiceID)).
		Delete(&models.ProductBatch{}).Error; err != nil {
		return err
	}
	return tx.Where("invoice_id = ?", invoiceID).
		Delete(&models.PurchaseInvoiceItem{}).Error
}

// Money math goes through decimal so line totals do not accumulate float
// drift across many items.
func purchaseTotal(items []PurchaseItemInput) float64 {
	total := decimal.Zero
	for _, in := range items {
		line := decimal.NewFromFloat(in.PurchasePrice).
			Mul(decimal.NewFromInt(int64(in.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Round(2).Float64()
	return f
}

func salesTotal(items []SalesItemInput) float64 {
	total := decimal.Zero
	for _, in := range items {
		line := decimal.NewFromFloat(in.UnitPrice).
			Mul(decimal.NewFromInt(int64(in.SoldQuantity)))
		total = total.Add(line)
	}
	f, _ := total.Round(2).Float64()
	return f
}
