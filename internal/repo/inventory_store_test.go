package repo

import (
	"context"
	"errors"
	"testing"

	"stockroom/internal/models"
)

func TestInventoryCreateValidation(t *testing.T) {
	_, users, invs, _ := newStores(t)
	alice := mustUser(t, users, "alice")

	for _, name := range []string{"", "   ", "x"} {
		if _, err := invs.Create(context.Background(), alice.ID, name); !errors.Is(err, ErrValidation) {
			t.Errorf("Create(%q): got %v, want ErrValidation", name, err)
		}
	}

	inv, err := invs.Create(context.Background(), alice.ID, "  Bar Stock  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if inv.Name != "Bar Stock" {
		t.Errorf("name not trimmed: %q", inv.Name)
	}
	if inv.OwnerID != alice.ID {
		t.Errorf("owner = %d, want %d", inv.OwnerID, alice.ID)
	}
}

func TestListForUser(t *testing.T) {
	_, users, invs, _ := newStores(t)
	alice := mustUser(t, users, "alice")
	bob := mustUser(t, users, "bob")

	first, err := invs.Create(context.Background(), alice.ID, "Pantry")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := invs.Create(context.Background(), bob.ID, "Bar Stock")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := invs.AddMember(context.Background(), bob.ID, second.ID, "alice", ""); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	got, err := invs.ListForUser(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d inventories, want 2", len(got))
	}
	// порядок создания
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("order = [%d %d], want [%d %d]", got[0].ID, got[1].ID, first.ID, second.ID)
	}

	got, err = invs.ListForUser(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(got) != 1 || got[0].ID != second.ID {
		t.Errorf("bob sees %v, want only inventory %d", got, second.ID)
	}
}

func TestDeleteCascades(t *testing.T) {
	db, users, invs, items := newStores(t)
	alice := mustUser(t, users, "alice")
	bob := mustUser(t, users, "bob")

	inv, err := invs.Create(context.Background(), alice.ID, "Bar Stock")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := invs.AddMember(context.Background(), alice.ID, inv.ID, "bob", ""); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	for _, name := range []string{"Vodka", "Gin", "Rum"} {
		if _, err := items.Create(context.Background(), alice.ID, inv.ID, ItemInput{Name: name}); err != nil {
			t.Fatalf("create item %s: %v", name, err)
		}
	}

	// manager не может удалить инвентарь
	if err := invs.Delete(context.Background(), bob.ID, inv.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("manager delete: got %v, want ErrForbidden", err)
	}

	if err := invs.Delete(context.Background(), alice.ID, inv.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	var n int64
	db.Model(&models.Item{}).Where("inventory_id = ?", inv.ID).Count(&n)
	if n != 0 {
		t.Errorf("%d items survived the cascade", n)
	}
	db.Model(&models.InventoryMember{}).Where("inventory_id = ?", inv.ID).Count(&n)
	if n != 0 {
		t.Errorf("%d memberships survived the cascade", n)
	}

	// после удаления все операции по этому id — отказ, не частичные данные
	if _, err := items.List(context.Background(), alice.ID, inv.ID, 1, 10); !errors.Is(err, ErrForbidden) {
		t.Errorf("list after delete: got %v, want ErrForbidden", err)
	}
}

func TestDeleteMasksExistence(t *testing.T) {
	_, users, invs, _ := newStores(t)
	alice := mustUser(t, users, "alice")

	// несуществующий инвентарь — такой же отказ, как чужой
	if err := invs.Delete(context.Background(), alice.ID, 999); !errors.Is(err, ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
}

func TestAddMember(t *testing.T) {
	db, users, invs, _ := newStores(t)
	alice := mustUser(t, users, "alice")
	bob := mustUser(t, users, "bob")

	inv, err := invs.Create(context.Background(), alice.ID, "Bar Stock")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	m, err := invs.AddMember(context.Background(), alice.ID, inv.ID, "bob", "")
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if m.Role != models.RoleManager || m.Username != "bob" || m.InventoryID != inv.ID {
		t.Errorf("summary = %+v", m)
	}

	// повторное добавление — конфликт, вторая строка не появляется
	if _, err := invs.AddMember(context.Background(), alice.ID, inv.ID, "bob", ""); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate: got %v, want ErrConflict", err)
	}
	var n int64
	db.Model(&models.InventoryMember{}).Where("inventory_id = ?", inv.ID).Count(&n)
	if n != 1 {
		t.Errorf("membership rows = %d, want 1", n)
	}

	// владельца добавить нельзя
	if _, err := invs.AddMember(context.Background(), alice.ID, inv.ID, "alice", ""); !errors.Is(err, ErrConflict) {
		t.Errorf("owner as member: got %v, want ErrConflict", err)
	}

	// неизвестный пользователь
	if _, err := invs.AddMember(context.Background(), alice.ID, inv.ID, "nobody", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user: got %v, want ErrNotFound", err)
	}

	// неизвестная роль
	if _, err := invs.AddMember(context.Background(), alice.ID, inv.ID, "bob", "admin"); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown role: got %v, want ErrValidation", err)
	}

	// manager может расшаривать дальше
	mustUser(t, users, "carol")
	if _, err := invs.AddMember(context.Background(), bob.ID, inv.ID, "carol", models.RoleManager); err != nil {
		t.Errorf("manager sharing: %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	_, users, invs, items := newStores(t)
	alice := mustUser(t, users, "alice")
	bob := mustUser(t, users, "bob")

	inv, err := invs.Create(context.Background(), alice.ID, "Bar Stock")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := invs.AddMember(context.Background(), alice.ID, inv.ID, "bob", ""); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	if err := invs.RemoveMember(context.Background(), alice.ID, inv.ID, bob.ID); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if _, err := items.List(context.Background(), bob.ID, inv.ID, 1, 10); !errors.Is(err, ErrForbidden) {
		t.Errorf("revoked member list: got %v, want ErrForbidden", err)
	}

	// владельца ревокация не касается — его строк нет
	if err := invs.RemoveMember(context.Background(), alice.ID, inv.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("revoke owner: got %v, want ErrNotFound", err)
	}
	if _, err := items.List(context.Background(), alice.ID, inv.ID, 1, 10); err != nil {
		t.Errorf("owner list after failed revoke: %v", err)
	}
}
