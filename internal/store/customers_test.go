package store

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/tableside/pos-api/internal/store/storetest"
)

func newCustomersStore(mock *storetest.MockDynamo) *Customers {
	s := NewCustomers(mock, "customers")
	s.nowFunc = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func seedCustomer(t *testing.T, mock *storetest.MockDynamo, c Customer) {
	t.Helper()
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		t.Fatalf("marshal customer: %v", err)
	}
	if err := mock.Seed("customers", item); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
}

func TestCustomersApplyOrderAccrual(t *testing.T) {
	mock := storetest.NewMockDynamo()
	s := newCustomersStore(mock)
	seedCustomer(t, mock, Customer{
		CustomerID:    "cust-1",
		FirstName:     "Ada",
		LastName:      "Okafor",
		TotalOrders:   2,
		TotalSpent:    50,
		LoyaltyPoints: 50,
	})

	if err := s.ApplyOrderAccrual(context.Background(), "cust-1", 24.75); err != nil {
		t.Fatalf("accrual: %v", err)
	}

	got, err := s.Get(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalOrders != 3 {
		t.Fatalf("totalOrders = %d, want 3", got.TotalOrders)
	}
	if got.TotalSpent != 74.75 {
		t.Fatalf("totalSpent = %v, want 74.75", got.TotalSpent)
	}
	// Points accrue as floor(total), not rounded.
	if got.LoyaltyPoints != 74 {
		t.Fatalf("loyaltyPoints = %d, want 74", got.LoyaltyPoints)
	}
}

func TestCustomersApplyOrderAccrualTwice(t *testing.T) {
	mock := storetest.NewMockDynamo()
	s := newCustomersStore(mock)
	seedCustomer(t, mock, Customer{CustomerID: "cust-1"})

	for i := 0; i < 2; i++ {
		if err := s.ApplyOrderAccrual(context.Background(), "cust-1", 10); err != nil {
			t.Fatalf("accrual %d: %v", i, err)
		}
	}

	got, _ := s.Get(context.Background(), "cust-1")
	if got.TotalOrders != 2 || got.TotalSpent != 20 || got.LoyaltyPoints != 20 {
		t.Fatalf("counters = %d/%v/%d, want 2/20/20", got.TotalOrders, got.TotalSpent, got.LoyaltyPoints)
	}
}

func TestCustomersApplyOrderAccrualMissing(t *testing.T) {
	s := newCustomersStore(storetest.NewMockDynamo())

	if err := s.ApplyOrderAccrual(context.Background(), "nope", 10); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCustomersUpdateMissing(t *testing.T) {
	s := newCustomersStore(storetest.NewMockDynamo())

	err := s.Update(context.Background(), Customer{CustomerID: "nope", FirstName: "Ada"})
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCustomersListNewestFirst(t *testing.T) {
	mock := storetest.NewMockDynamo()
	s := newCustomersStore(mock)

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	seedCustomer(t, mock, Customer{CustomerID: "cust-1", CreatedAt: base})
	seedCustomer(t, mock, Customer{CustomerID: "cust-2", CreatedAt: base.Add(time.Hour)})

	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].CustomerID != "cust-2" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestCustomersDelete(t *testing.T) {
	mock := storetest.NewMockDynamo()
	s := newCustomersStore(mock)
	seedCustomer(t, mock, Customer{CustomerID: "cust-1"})

	if err := s.Delete(context.Background(), "cust-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(context.Background(), "cust-1"); err != ErrNotFound {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}
