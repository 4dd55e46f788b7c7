package repo

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stockroom/internal/access"
	"stockroom/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Inventory{}, &models.InventoryMember{}, &models.Item{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newStores(t *testing.T) (*gorm.DB, *UserStore, *InventoryStore, *ItemStore) {
	t.Helper()
	db := newTestDB(t)
	acl := access.NewEvaluator(db)
	return db, NewUserStore(db), NewInventoryStore(db, acl), NewItemStore(db, acl)
}

func mustUser(t *testing.T, users *UserStore, name string) *models.User {
	t.Helper()
	u, err := users.Create(context.Background(), name, "hash")
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}
