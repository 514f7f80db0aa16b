package validation

import (
	"testing"
	"time"
)

func TestCreateOrderRequest_Valid(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		OrderType: "dine-in",
		Items: []OrderItemInput{
			{MenuItemID: "menu-1", Quantity: 2, Price: 10.0},
			{MenuItemID: "menu-2", Quantity: 1, Price: 5.5},
		},
		Subtotal: 25.5,
		Tax:      2.55,
		Total:    28.05,
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestCreateOrderRequest_TotalNotRecomputed(t *testing.T) {
	v := New()

	// total deliberately disagrees with subtotal+tax-discount: the server
	// trusts the caller, so this must pass validation.
	req := CreateOrderRequest{
		OrderType: "takeaway",
		Items:     []OrderItemInput{{MenuItemID: "menu-1", Quantity: 1, Price: 10.0}},
		Subtotal:  10.0,
		Tax:       1.0,
		Total:     999.0,
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected caller-trusted total to pass, got: %v", err)
	}
}

func TestCreateOrderRequest_Invalid(t *testing.T) {
	v := New()

	cases := map[string]CreateOrderRequest{
		"missing order type": {
			Items: []OrderItemInput{{MenuItemID: "menu-1", Quantity: 1, Price: 1}},
		},
		"bad order type": {
			OrderType: "drive-through",
			Items:     []OrderItemInput{{MenuItemID: "menu-1", Quantity: 1, Price: 1}},
		},
		"no items": {
			OrderType: "dine-in",
			Items:     []OrderItemInput{},
		},
		"zero quantity": {
			OrderType: "dine-in",
			Items:     []OrderItemInput{{MenuItemID: "menu-1", Quantity: 0, Price: 1}},
		},
	}

	for name, req := range cases {
		if err := v.Struct(req); err == nil {
			t.Errorf("%s: expected validation error, got nil", name)
		}
	}
}

func TestUpdateOrderStatusRequest_EnumMembershipOnly(t *testing.T) {
	v := New()

	for _, status := range []string{"pending", "preparing", "ready", "served", "completed", "cancelled"} {
		if err := v.Struct(UpdateOrderStatusRequest{Status: status}); err != nil {
			t.Errorf("status %q: expected valid, got %v", status, err)
		}
	}
	if err := v.Struct(UpdateOrderStatusRequest{Status: "archived"}); err == nil {
		t.Error("expected error for out-of-enum status")
	}
}

func TestCreateReservationRequest(t *testing.T) {
	v := New()

	req := CreateReservationRequest{
		CustomerID:      "cust-1",
		TableID:         "table-1",
		ReservationDate: time.Now().Add(24 * time.Hour),
		NumberOfGuests:  4,
	}
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got: %v", err)
	}

	req.NumberOfGuests = 0
	if err := v.Struct(req); err == nil {
		t.Fatal("expected error for zero guests")
	}
}
