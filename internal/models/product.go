package models

import "time"

// Product - a spare part tracked in purchase batches. Stock lives on the
// batches, never on the product row itself.
type Product struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:255;index" json:"name"`
	Barcode        string    `gorm:"uniqueIndex;size:100" json:"barcode"`
	Category       string    `gorm:"size:100" json:"category"`
	Unit           string    `gorm:"size:50" json:"unit"` // قطعة, لتر, عبوة...
	ReceivingParty string    `gorm:"size:100" json:"receiving_party"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Batches       []ProductBatch         `gorm:"foreignKey:ProductID" json:"batches,omitempty"`
	PurchaseItems []PurchaseInvoiceItem  `gorm:"foreignKey:ProductID" json:"-"`
	SalesItems    []SalesInvoiceItem     `gorm:"foreignKey:ProductID" json:"-"`
}

// ProductBatch - one purchased lot of a product. Quantity is what remains,
// SoldQuantity what left through disbursed sales invoices. The invariant
// quantity + sold_quantity == original purchased quantity holds for batches
// created from purchase invoice items; manual adjustment batches start at
// whatever the operator entered. Version backs the compare-and-swap on
// every stock mutation.
type ProductBatch struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProductID      uint      `gorm:"index" json:"product_id"`
	Quantity       int       `json:"quantity"`
	SoldQuantity   int       `json:"sold_quantity"`
	PurchasePrice  float64   `gorm:"type:decimal(12,2)" json:"purchase_price"`
	Version        int64     `json:"-"`
	PurchaseItemID *uint     `gorm:"index" json:"purchase_item_id,omitempty"`
	VehicleID      *uint     `gorm:"index" json:"vehicle_id,omitempty"` // reserving vehicle
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Product Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (ProductBatch) TableName() string {
	return "product_batches"
}
