package models

import "time"

// Roles gate route access; see middleware.RolePrefixes.
const (
	RoleAdmin       = "admin"
	RoleWarehouse   = "warehouse"
	RoleMaintenance = "maintenance"
)

// User - who operates the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Role         string    `gorm:"size:20" json:"role"` // admin, warehouse, maintenance
	CreatedAt    time.Time `json:"created_at"`
}
