package models

import "time"

// Simple named reference entities attached to invoices.

type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Phone     string    `gorm:"size:50" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type Buyer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RepairMan receives disbursed parts; BolRepairMan signs the release bol.
type RepairMan struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type BolRepairMan struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (BolRepairMan) TableName() string {
	return "bol_repair_men"
}
