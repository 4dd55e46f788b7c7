package access

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stockroom/internal/logs"
	"stockroom/internal/models"
)

// Capability — уровень доступа к инвентарю.
// Own ⊃ Manage ⊃ View.
type Capability int

const (
	View Capability = iota
	Manage
	Own
)

func (c Capability) String() string {
	switch c {
	case View:
		return "view"
	case Manage:
		return "manage"
	case Own:
		return "own"
	default:
		return "unknown"
	}
}

// Evaluator — единственная точка принятия решений о доступе.
// Любая неоднозначность (нет инвентаря, ошибка БД) трактуется как отказ.
type Evaluator struct{ db *gorm.DB }

func NewEvaluator(db *gorm.DB) *Evaluator { return &Evaluator{db: db} }

// Can reports whether the user holds the capability on the inventory.
// Fails closed: a missing inventory or a store error is a plain deny.
func (e *Evaluator) Can(ctx context.Context, userID, inventoryID uint, want Capability) bool {
	if userID == 0 || inventoryID == 0 {
		return false
	}

	var inv models.Inventory
	err := e.db.WithContext(ctx).First(&inv, inventoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		logs.Logger.Errorf("access: inventory lookup failed: %v", err)
		return false
	}

	// Владелец держит максимальный уровень без строк membership.
	if inv.OwnerID == userID {
		return true
	}
	if want == Own {
		return false
	}

	// manage и view сейчас эквивалентны: read-only роли нет.
	var m models.InventoryMember
	err = e.db.WithContext(ctx).
		Where(&models.InventoryMember{InventoryID: inventoryID, UserID: userID, Role: models.RoleManager}).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		logs.Logger.Errorf("access: membership lookup failed: %v", err)
		return false
	}
	return true
}
