package access

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

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

func TestCapabilityMatrix(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := models.User{Username: "alice", PasswordHash: "x"}
	manager := models.User{Username: "bob", PasswordHash: "x"}
	stranger := models.User{Username: "carol", PasswordHash: "x"}
	for _, u := range []*models.User{&owner, &manager, &stranger} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	inv := models.Inventory{Name: "Bar Stock", OwnerID: owner.ID}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	// у владельца строк membership нет — права только из OwnerID
	mem := models.InventoryMember{InventoryID: inv.ID, UserID: manager.ID, Role: models.RoleManager}
	if err := db.Create(&mem).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}

	e := NewEvaluator(db)

	cases := []struct {
		name   string
		userID uint
		want   Capability
		allow  bool
	}{
		{"owner view", owner.ID, View, true},
		{"owner manage", owner.ID, Manage, true},
		{"owner own", owner.ID, Own, true},
		{"manager view", manager.ID, View, true},
		{"manager manage", manager.ID, Manage, true},
		{"manager own", manager.ID, Own, false},
		{"stranger view", stranger.ID, View, false},
		{"stranger manage", stranger.ID, Manage, false},
		{"stranger own", stranger.ID, Own, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := e.Can(ctx, tc.userID, inv.ID, tc.want); got != tc.allow {
				t.Errorf("Can(%d, %d, %s) = %v, want %v", tc.userID, inv.ID, tc.want, got, tc.allow)
			}
		})
	}
}

func TestFailsClosed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	e := NewEvaluator(db)

	u := models.User{Username: "alice", PasswordHash: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	if e.Can(ctx, u.ID, 12345, View) {
		t.Error("missing inventory must deny, not error")
	}
	if e.Can(ctx, 0, 1, View) {
		t.Error("zero user id must deny")
	}
	if e.Can(ctx, u.ID, 0, Own) {
		t.Error("zero inventory id must deny")
	}
}
