package store

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/tableside/pos-api/internal/store/storetest"
)

func newInventoryStore(mock *storetest.MockDynamo) *Inventory {
	s := NewInventory(mock, "inventory")
	s.nowFunc = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func seedInventoryItem(t *testing.T, mock *storetest.MockDynamo, it InventoryItem) {
	t.Helper()
	item, err := attributevalue.MarshalMap(it)
	if err != nil {
		t.Fatalf("marshal inventory item: %v", err)
	}
	if err := mock.Seed("inventory", item); err != nil {
		t.Fatalf("seed inventory item: %v", err)
	}
}

func TestInventoryRestock(t *testing.T) {
	mock := storetest.NewMockDynamo()
	s := newInventoryStore(mock)
	seedInventoryItem(t, mock, InventoryItem{ItemID: "item-1", ItemName: "Flour", Quantity: 3.5})

	if err := s.Restock(context.Background(), "item-1", 10); err != nil {
		t.Fatalf("restock: %v", err)
	}

	got, err := s.Get(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Quantity != 13.5 {
		t.Fatalf("quantity = %v, want 13.5", got.Quantity)
	}
	if got.LastRestocked.IsZero() {
		t.Fatal("lastRestocked not stamped")
	}
}

func TestInventoryRestockMissing(t *testing.T) {
	s := newInventoryStore(storetest.NewMockDynamo())

	if err := s.Restock(context.Background(), "nope", 5); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInventoryListLowStock(t *testing.T) {
	mock := storetest.NewMockDynamo()
	s := newInventoryStore(mock)

	seedInventoryItem(t, mock, InventoryItem{ItemID: "item-1", ItemName: "Flour", Category: "dry", Quantity: 2, ReorderLevel: 5})
	seedInventoryItem(t, mock, InventoryItem{ItemID: "item-2", ItemName: "Salt", Category: "dry", Quantity: 5, ReorderLevel: 5})
	seedInventoryItem(t, mock, InventoryItem{ItemID: "item-3", ItemName: "Milk", Category: "dairy", Quantity: 20, ReorderLevel: 5})

	low, err := s.List(context.Background(), InventoryFilter{LowStock: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// At or below reorder level counts as low.
	if len(low) != 2 || low[0].ItemName != "Flour" || low[1].ItemName != "Salt" {
		t.Fatalf("unexpected low stock: %+v", low)
	}

	dairy, err := s.List(context.Background(), InventoryFilter{Category: "dairy"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dairy) != 1 || dairy[0].ItemName != "Milk" {
		t.Fatalf("unexpected category filter: %+v", dairy)
	}
}
