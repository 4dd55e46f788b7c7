package models

import (
	"time"

	"gorm.io/gorm"
)

// Роли участников инвентаря. Пока одна — manager.
const (
	RoleManager = "manager"
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username     string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
}

// Inventory — именованная коллекция позиций. Владелец один и
// определяется только полем OwnerID; строки membership на владельца
// не заводятся, его права всегда неявные.
type Inventory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"size:255;not null" json:"name"`
	OwnerID uint   `gorm:"index;not null" json:"owner_id"`
}

// InventoryMember — выданный доступ к чужому инвентарю.
// Пара (inventory_id, user_id) уникальна.
type InventoryMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	InventoryID uint   `gorm:"uniqueIndex:uq_inventory_user;not null" json:"inventory_id"`
	UserID      uint   `gorm:"uniqueIndex:uq_inventory_user;not null" json:"user_id"`
	Role        string `gorm:"size:64;not null;default:manager" json:"role"`
}

type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	InventoryID uint   `gorm:"index;not null" json:"inventory_id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Quantity    int    `gorm:"not null;default:0" json:"quantity"`
	ParLevel    int    `gorm:"not null;default:0" json:"par_level"`
	Unit        string `gorm:"size:64" json:"unit,omitempty"`
}
