package models

import "time"

// Vehicle - a fleet vehicle identified by its government plate number.
// RoyalNumber is the internal fleet registration.
type Vehicle struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	GovernmentNumber string    `gorm:"uniqueIndex;size:50" json:"government_number"`
	RoyalNumber      string    `gorm:"size:50" json:"royal_number"`
	VehicleType      string    `gorm:"size:100" json:"vehicle_type"`
	Model            string    `gorm:"size:100" json:"model"`
	Color            string    `gorm:"size:50" json:"color"`
	Notes            string    `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	WorkOrders    []WorkOrder           `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"work_orders,omitempty"`
	ReservedItems []PurchaseInvoiceItem `gorm:"foreignKey:VehicleID" json:"reserved_items,omitempty"`
	SalesInvoices []SalesInvoice        `gorm:"foreignKey:VehicleID" json:"sales_invoices,omitempty"`
}

// WorkOrder - a maintenance job on a vehicle; AttachmentPath is the
// relative path of the uploaded document under the public directory.
type WorkOrder struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	VehicleID      uint      `gorm:"index" json:"vehicle_id"`
	Category       string    `gorm:"size:100" json:"category"`
	Description    string    `gorm:"type:text" json:"description"`
	AttachmentPath string    `gorm:"size:255" json:"attachment_path"`
	CreatedAt      time.Time `json:"created_at"`
}
