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

type ItemStore struct {
	db  *gorm.DB
	acl *access.Evaluator
}

func NewItemStore(db *gorm.DB, acl *access.Evaluator) *ItemStore {
	return &ItemStore{db: db, acl: acl}
}

// ItemInput — поля создания/полного обновления позиции.
// Указатели отличают "не передано" (дефолт 0) от явного значения.
type ItemInput struct {
	Name     string
	Quantity *int
	ParLevel *int
	Unit     string
}

func (in *ItemInput) validate() (name string, quantity, parLevel int, err error) {
	name = strings.TrimSpace(in.Name)
	if len(name) < 2 {
		return "", 0, 0, fmt.Errorf("%w: item name must be at least 2 characters", ErrValidation)
	}
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if quantity < 0 {
		return "", 0, 0, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	if in.ParLevel != nil {
		parLevel = *in.ParLevel
	}
	if parLevel < 0 {
		return "", 0, 0, fmt.Errorf("%w: par level cannot be negative", ErrValidation)
	}
	return name, quantity, parLevel, nil
}

// ItemPage — страница выдачи List.
type ItemPage struct {
	Items   []models.Item `json:"items"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	Total   int64         `json:"total"`
}

// QuantityPatch — быстрое изменение количества: либо сдвиг (Delta),
// либо абсолютное значение (Set). Ровно одно из двух.
type QuantityPatch struct {
	Delta *int
	Set   *int
}

func (s *ItemStore) Create(ctx context.Context, requesterID, inventoryID uint, in ItemInput) (*models.Item, error) {
	if !s.acl.Can(ctx, requesterID, inventoryID, access.Manage) {
		return nil, ErrForbidden
	}
	name, quantity, parLevel, err := in.validate()
	if err != nil {
		return nil, err
	}

	item := models.Item{
		InventoryID: inventoryID,
		Name:        name,
		Quantity:    quantity,
		ParLevel:    parLevel,
		Unit:        strings.TrimSpace(in.Unit),
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List выдаёт страницу позиций инвентаря, новые сверху (id DESC —
// стабильный порядок между страницами). Страница за пределами
// диапазона — пустой список, не ошибка.
func (s *ItemStore) List(ctx context.Context, requesterID, inventoryID uint, page, perPage int) (*ItemPage, error) {
	if !s.acl.Can(ctx, requesterID, inventoryID, access.View) {
		return nil, ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	var total int64
	err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("inventory_id = ?", inventoryID).
		Count(&total).Error
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, perPage)
	err = s.db.WithContext(ctx).
		Where("inventory_id = ?", inventoryID).
		Order("id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &ItemPage{Items: items, Page: page, PerPage: perPage, Total: total}, nil
}

// Update — полное обновление полей; требует manage на владеющем инвентаре.
func (s *ItemStore) Update(ctx context.Context, requesterID, itemID uint, in ItemInput) (*models.Item, error) {
	item, err := s.getForManage(ctx, requesterID, itemID)
	if err != nil {
		return nil, err
	}
	name, quantity, parLevel, err := in.validate()
	if err != nil {
		return nil, err
	}

	item.Name = name
	item.Quantity = quantity
	item.ParLevel = parLevel
	item.Unit = strings.TrimSpace(in.Unit)
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// PatchQuantity — быстрый путь инкремента/декремента. Результат
// прижимается к нулю: декремент ниже нуля даёт 0, а не ошибку.
func (s *ItemStore) PatchQuantity(ctx context.Context, requesterID, itemID uint, patch QuantityPatch) (*models.Item, error) {
	if (patch.Delta == nil) == (patch.Set == nil) {
		return nil, fmt.Errorf("%w: exactly one of delta or set is required", ErrValidation)
	}

	item, err := s.getForManage(ctx, requesterID, itemID)
	if err != nil {
		return nil, err
	}

	q := item.Quantity
	if patch.Delta != nil {
		q += *patch.Delta
	} else {
		q = *patch.Set
	}
	if q < 0 {
		q = 0
	}

	item.Quantity = q
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemStore) Delete(ctx context.Context, requesterID, itemID uint) error {
	item, err := s.getForManage(ctx, requesterID, itemID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(item).Error
}

// getForManage находит позицию и проверяет manage на её инвентаре.
// Неизвестный id позиции — NotFound: сам по себе он существования
// чужих инвентарей не раскрывает.
func (s *ItemStore) getForManage(ctx context.Context, requesterID, itemID uint) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: item", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !s.acl.Can(ctx, requesterID, item.InventoryID, access.Manage) {
		return nil, ErrForbidden
	}
	return &item, nil
}
