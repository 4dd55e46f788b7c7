package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"stockroom/internal/access"
	"stockroom/internal/models"
)

type InventoryStore struct {
	db  *gorm.DB
	acl *access.Evaluator
}

func NewInventoryStore(db *gorm.DB, acl *access.Evaluator) *InventoryStore {
	return &InventoryStore{db: db, acl: acl}
}

// MemberSummary — ответ операции AddMember.
type MemberSummary struct {
	ID          uint   `json:"id"`
	InventoryID uint   `json:"inventory_id"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// Create заводит инвентарь. Проверка прав не нужна: любой
// аутентифицированный пользователь создаёт инвентарь себе.
func (s *InventoryStore) Create(ctx context.Context, ownerID uint, name string) (*models.Inventory, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, fmt.Errorf("%w: inventory name must be at least 2 characters", ErrValidation)
	}

	inv := models.Inventory{Name: name, OwnerID: ownerID}
	if err := s.db.WithContext(ctx).Create(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListForUser возвращает инвентари, где пользователь владелец или участник,
// в порядке создания.
func (s *InventoryStore) ListForUser(ctx context.Context, userID uint) ([]models.Inventory, error) {
	memberOf := s.db.Model(&models.InventoryMember{}).
		Select("inventory_id").
		Where("user_id = ?", userID)

	var invs []models.Inventory
	err := s.db.WithContext(ctx).
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Order("id ASC").
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return invs, nil
}

// Delete удаляет инвентарь каскадом (позиции, участники, сам инвентарь)
// одной транзакцией. Требует own; отсутствующий инвентарь маскируется
// под отказ, чтобы не раскрывать существование.
func (s *InventoryStore) Delete(ctx context.Context, requesterID, inventoryID uint) error {
	if !s.acl.Can(ctx, requesterID, inventoryID, access.Own) {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("inventory_id = ?", inventoryID).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("inventory_id = ?", inventoryID).Delete(&models.InventoryMember{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Inventory{}, inventoryID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// проверка прав прошла, но инвентарь успели удалить параллельно
			return fmt.Errorf("%w: inventory", ErrNotFound)
		}
		return nil
	})
}

// AddMember выдаёт доступ по username. Требует manage.
// Владельцу строка membership не заводится никогда.
func (s *InventoryStore) AddMember(ctx context.Context, requesterID, inventoryID uint, targetUsername, role string) (*MemberSummary, error) {
	if !s.acl.Can(ctx, requesterID, inventoryID, access.Manage) {
		return nil, ErrForbidden
	}

	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = models.RoleManager
	}
	if role != models.RoleManager {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	targetUsername = strings.TrimSpace(targetUsername)
	if targetUsername == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}

	var target models.User
	err := s.db.WithContext(ctx).Where(&models.User{Username: targetUsername}).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var inv models.Inventory
	if err := s.db.WithContext(ctx).First(&inv, inventoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: inventory", ErrNotFound)
		}
		return nil, err
	}
	if inv.OwnerID == target.ID {
		return nil, fmt.Errorf("%w: user owns this inventory", ErrConflict)
	}

	var existing models.InventoryMember
	err = s.db.WithContext(ctx).
		Where(&models.InventoryMember{InventoryID: inventoryID, UserID: target.ID}).
		First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: already a member", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m := models.InventoryMember{InventoryID: inventoryID, UserID: target.ID, Role: role}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return &MemberSummary{
		ID:          m.ID,
		InventoryID: m.InventoryID,
		UserID:      m.UserID,
		Username:    target.Username,
		Role:        m.Role,
	}, nil
}

// RemoveMember отзывает доступ. Наружу сейчас не выведено, но модель
// данных ревокацию поддерживает. Владельца отозвать нельзя — его строк
// membership не существует.
func (s *InventoryStore) RemoveMember(ctx context.Context, requesterID, inventoryID, userID uint) error {
	if !s.acl.Can(ctx, requesterID, inventoryID, access.Manage) {
		return ErrForbidden
	}
	res := s.db.WithContext(ctx).
		Where("inventory_id = ? AND user_id = ?", inventoryID, userID).
		Delete(&models.InventoryMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: membership", ErrNotFound)
	}
	return nil
}
