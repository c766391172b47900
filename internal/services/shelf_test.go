package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowist/glowist-backend/internal/realtime/bus"
	"github.com/glowist/glowist-backend/internal/repos"
	"github.com/glowist/glowist-backend/internal/types"
)

func newShelfService(t *testing.T) (ShelfService, *gorm.DB) {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	b := bus.NewLocalBus(log)
	t.Cleanup(func() { _ = b.Close() })
	svc := NewShelfService(gdb, log, repos.NewUserProductRepo(gdb, log), repos.NewProductRepo(gdb, log), b)
	return svc, gdb
}

func seedProduct(t *testing.T, gdb *gorm.DB) *types.Product {
	t.Helper()
	product := &types.Product{
		ID:       uuid.New(),
		Name:     "Hydrating Serum",
		Brand:    "Glow Labs",
		Category: types.CategorySerum,
	}
	if err := gdb.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestShelfAddAndList(t *testing.T) {
	svc, gdb := newShelfService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, gdb)

	opened := time.Now().AddDate(0, 0, -3)
	item, err := svc.Add(ctx, userID, ShelfAddInput{
		ProductID:  product.ID,
		Status:     types.ShelfStatusOpened,
		DateOpened: &opened,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if item.Badge.Text != "3 days ago" {
		t.Fatalf("badge = %q, want %q", item.Badge.Text, "3 days ago")
	}

	items, err := svc.List(ctx, userID, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Product == nil || items[0].Product.Name != product.Name {
		t.Fatalf("product not preloaded on shelf item: %+v", items[0].Product)
	}

	// Another user's shelf stays empty.
	other, err := svc.List(ctx, uuid.New(), "")
	if err != nil {
		t.Fatalf("List other user: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other user's shelf has %d items, want 0", len(other))
	}
}

func TestShelfAddUnknownProduct(t *testing.T) {
	svc, _ := newShelfService(t)
	_, err := svc.Add(context.Background(), uuid.New(), ShelfAddInput{
		ProductID: uuid.New(),
		Status:    types.ShelfStatusWishlist,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Add unknown product err = %v, want ErrNotFound", err)
	}
}

func TestShelfUpdateScopedToOwner(t *testing.T) {
	svc, gdb := newShelfService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, gdb)

	item, err := svc.Add(ctx, userID, ShelfAddInput{ProductID: product.ID, Status: types.ShelfStatusWishlist})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	status := types.ShelfStatusOpened
	updated, err := svc.Update(ctx, userID, item.ID, ShelfPatch{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated == nil || updated.Status != types.ShelfStatusOpened {
		t.Fatalf("updated = %+v, want status opened", updated)
	}

	// A different user cannot touch the item.
	stranger, err := svc.Update(ctx, uuid.New(), item.ID, ShelfPatch{Status: &status})
	if err != nil {
		t.Fatalf("Update as stranger: %v", err)
	}
	if stranger != nil {
		t.Fatal("stranger update returned an item, want nil")
	}
}

func TestShelfRemove(t *testing.T) {
	svc, gdb := newShelfService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, gdb)

	item, err := svc.Add(ctx, userID, ShelfAddInput{ProductID: product.ID, Status: types.ShelfStatusEmpty})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := svc.Remove(ctx, uuid.New(), item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Remove as stranger err = %v, want ErrNotFound", err)
	}
	if err := svc.Remove(ctx, userID, item.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	items, err := svc.List(ctx, userID, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("shelf has %d items after remove, want 0", len(items))
	}
}

func TestShelfListStatusFilter(t *testing.T) {
	svc, gdb := newShelfService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := seedProduct(t, gdb)

	if _, err := svc.Add(ctx, userID, ShelfAddInput{ProductID: product.ID, Status: types.ShelfStatusOpened}); err != nil {
		t.Fatalf("Add opened: %v", err)
	}
	if _, err := svc.Add(ctx, userID, ShelfAddInput{ProductID: product.ID, Status: types.ShelfStatusWishlist}); err != nil {
		t.Fatalf("Add wishlist: %v", err)
	}

	wishlist, err := svc.List(ctx, userID, types.ShelfStatusWishlist)
	if err != nil {
		t.Fatalf("List wishlist: %v", err)
	}
	if len(wishlist) != 1 || wishlist[0].Status != types.ShelfStatusWishlist {
		t.Fatalf("wishlist filter returned %+v", wishlist)
	}
	if wishlist[0].Badge.Text != "Wishlist" {
		t.Fatalf("wishlist badge = %q, want Wishlist", wishlist[0].Badge.Text)
	}

	if _, err := svc.List(ctx, userID, "hoard"); err == nil {
		t.Fatal("List with bad status succeeded, want error")
	}
}
