package store

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/tableside/pos-api/internal/store/storetest"
)

func newTablesStore(mock *storetest.MockDynamo) *Tables {
	s := NewTables(mock, "tables")
	s.nowFunc = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func seedTable(t *testing.T, mock *storetest.MockDynamo, tbl Table) {
	t.Helper()
	item, err := attributevalue.MarshalMap(tbl)
	if err != nil {
		t.Fatalf("marshal table: %v", err)
	}
	if err := mock.Seed("tables", item); err != nil {
		t.Fatalf("seed table: %v", err)
	}
}

func strPtr(s string) *string { return &s }

func TestTablesSetStatusOrderRef(t *testing.T) {
	mock := storetest.NewMockDynamo()
	s := newTablesStore(mock)
	seedTable(t, mock, Table{TableID: "tbl-1", TableNumber: 4, Status: TableAvailable})

	// Set status and attach an order.
	if err := s.SetStatus(context.Background(), "tbl-1", TableOccupied, strPtr("ord-1")); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, _ := s.Get(context.Background(), "tbl-1")
	if got.Status != TableOccupied || got.CurrentOrderID != "ord-1" {
		t.Fatalf("table = %q/%q, want occupied/ord-1", got.Status, got.CurrentOrderID)
	}

	// nil leaves the back-reference untouched.
	if err := s.SetStatus(context.Background(), "tbl-1", TableCleaning, nil); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, _ = s.Get(context.Background(), "tbl-1")
	if got.Status != TableCleaning || got.CurrentOrderID != "ord-1" {
		t.Fatalf("table = %q/%q, want cleaning/ord-1", got.Status, got.CurrentOrderID)
	}

	// Empty string clears it.
	if err := s.SetStatus(context.Background(), "tbl-1", TableAvailable, strPtr("")); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, _ = s.Get(context.Background(), "tbl-1")
	if got.Status != TableAvailable || got.CurrentOrderID != "" {
		t.Fatalf("table = %q/%q, want available/empty", got.Status, got.CurrentOrderID)
	}
}

func TestTablesSetStatusMissing(t *testing.T) {
	s := newTablesStore(storetest.NewMockDynamo())

	if err := s.SetStatus(context.Background(), "nope", TableOccupied, nil); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTablesListSortsByNumber(t *testing.T) {
	mock := storetest.NewMockDynamo()
	s := newTablesStore(mock)

	seedTable(t, mock, Table{TableID: "tbl-1", TableNumber: 7, Status: TableAvailable, Location: "patio"})
	seedTable(t, mock, Table{TableID: "tbl-2", TableNumber: 2, Status: TableOccupied, Location: "main"})
	seedTable(t, mock, Table{TableID: "tbl-3", TableNumber: 5, Status: TableAvailable, Location: "main"})

	all, err := s.List(context.Background(), TableFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].TableNumber != 2 || all[2].TableNumber != 7 {
		t.Fatalf("unexpected sort: %+v", all)
	}

	available, err := s.List(context.Background(), TableFilter{Status: TableAvailable, Location: "main"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(available) != 1 || available[0].TableID != "tbl-3" {
		t.Fatalf("unexpected filter result: %+v", available)
	}
}
