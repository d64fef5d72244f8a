package models

import "time"

// Sales invoice workflow flags. Approval and disbursement are independent
// two-state toggles; disbursement is the point stock actually moves.
const (
	ApprovalNotApproved = "Notapproved"
	ApprovalApproved    = "Approved"

	DisbursementNot  = "NotDisbursed"
	DisbursementDone = "Disbursed"
)

// Purchase item delivery status.
const (
	DeliveryPending   = "pending"
	DeliveryDelivered = "delivered"
)

// PurchaseInvoice - goods entering the warehouse.
type PurchaseInvoice struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	InvoiceDate time.Time `json:"invoice_date"`
	SupplierID  uint      `gorm:"index" json:"supplier_id"`
	BuyerID     uint      `gorm:"index" json:"buyer_id"`
	UserID      uint      `json:"user_id"` // who recorded it
	TotalAmount float64   `gorm:"type:decimal(12,2)" json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Supplier Supplier              `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Buyer    Buyer                 `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	Items    []PurchaseInvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// PurchaseInvoiceItem owns exactly one ProductBatch, created in the same
// transaction as the item itself.
type PurchaseInvoiceItem struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	InvoiceID      uint    `gorm:"index" json:"invoice_id"`
	ProductID      uint    `gorm:"index" json:"product_id"`
	Quantity       int     `json:"quantity"`
	PurchasePrice  float64 `gorm:"type:decimal(12,2)" json:"purchase_price"`
	VehicleID      *uint   `gorm:"index" json:"vehicle_id,omitempty"` // reservation
	DeliveryStatus string  `gorm:"size:20;default:pending" json:"delivery_status"`
	BatchID        *uint   `gorm:"index" json:"batch_id,omitempty"`

	Product Product       `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Batch   *ProductBatch `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
}

// SalesInvoice - goods leaving the warehouse for a vehicle repair.
type SalesInvoice struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Number             string    `gorm:"size:50;index" json:"number"`
	InvoiceDate        time.Time `json:"invoice_date"`
	VehicleID          uint      `gorm:"index" json:"vehicle_id"`
	WorkOrderID        *uint     `gorm:"index" json:"work_order_id,omitempty"`
	UserID             uint      `json:"user_id"`
	RepairManID        *uint     `gorm:"index" json:"repair_man_id,omitempty"`
	BolRepairManID     *uint     `gorm:"index" json:"bol_repair_man_id,omitempty"`
	ApprovalStatus     string    `gorm:"size:20;default:Notapproved" json:"approval_status"`
	DisbursementStatus string    `gorm:"size:20;default:NotDisbursed" json:"disbursement_status"`
	TotalAmount        float64   `gorm:"type:decimal(12,2)" json:"total_amount"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Vehicle      Vehicle            `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	RepairMan    *RepairMan         `gorm:"foreignKey:RepairManID" json:"repair_man,omitempty"`
	BolRepairMan *BolRepairMan      `gorm:"foreignKey:BolRepairManID" json:"bol_repair_man,omitempty"`
	Items        []SalesInvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// SalesInvoiceItem - AvailableQuantity is the client-supplied snapshot at
// invoice creation; the binding stock check happens at disbursement against
// the live batch row.
type SalesInvoiceItem struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	InvoiceID         uint    `gorm:"index" json:"invoice_id"`
	ProductID         uint    `gorm:"index" json:"product_id"`
	BatchID           uint    `gorm:"index" json:"batch_id"`
	SoldQuantity      int     `json:"sold_quantity"`
	UnitPrice         float64 `gorm:"type:decimal(12,2)" json:"unit_price"`
	AvailableQuantity int     `json:"available_quantity"`

	Product Product      `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Batch   ProductBatch `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
}
