package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/tableside/pos-api/internal/auth"
	"github.com/tableside/pos-api/internal/store"
)

var orderNumberRe = regexp.MustCompile(`^ORD\d{9}$`)

func TestCreateOrderAccruesCustomerStats(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "menu", store.MenuItem{MenuItemID: "menu-1", Name: "Margherita", Price: 12.5, Available: true})
	env.seed(t, "customers", store.Customer{CustomerID: "cust-1", FirstName: "Ada", TotalOrders: 1, TotalSpent: 20, LoyaltyPoints: 20})
	token := env.token(t, "user-1", auth.RoleWaiter)

	w := env.do(t, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"customerId": "cust-1",
		"orderType":  "dine-in",
		"items": []map[string]interface{}{
			{"menuItemId": "menu-1", "quantity": 2, "price": 12.5},
		},
		"subtotal": 25,
		"tax":      2.5,
		"total":    27.5,
	})
	requireStatus(t, w, http.StatusCreated)

	env2 := decodeEnvelope(t, w)
	var created struct {
		ID          string `json:"id"`
		OrderNumber string `json:"orderNumber"`
		Status      string `json:"status"`
		Items       []struct {
			MenuItem *store.MenuItem `json:"menuItem"`
		} `json:"items"`
		Customer *store.Customer `json:"customer"`
	}
	if err := json.Unmarshal(env2.Data, &created); err != nil {
		t.Fatalf("decode order: %v", err)
	}

	if !orderNumberRe.MatchString(created.OrderNumber) {
		t.Fatalf("orderNumber %q does not match %s", created.OrderNumber, orderNumberRe)
	}
	if created.Status != store.OrderPending {
		t.Fatalf("status = %q, want pending", created.Status)
	}
	if len(created.Items) != 1 || created.Items[0].MenuItem == nil || created.Items[0].MenuItem.Name != "Margherita" {
		t.Fatalf("menu item not resolved: %+v", created.Items)
	}
	if created.Customer == nil {
		t.Fatal("customer not resolved")
	}

	cust := env.getCustomer(t, "cust-1")
	if cust.TotalOrders != 2 {
		t.Fatalf("totalOrders = %d, want 2", cust.TotalOrders)
	}
	if cust.TotalSpent != 47.5 {
		t.Fatalf("totalSpent = %v, want 47.5", cust.TotalSpent)
	}
	if cust.LoyaltyPoints != 47 {
		t.Fatalf("loyaltyPoints = %d, want 47", cust.LoyaltyPoints)
	}
}

func TestCreateOrderWithoutCustomer(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "menu", store.MenuItem{MenuItemID: "menu-1", Name: "Pad Thai", Price: 11, Available: true})
	token := env.token(t, "user-1", auth.RoleCashier)

	w := env.do(t, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"orderType": "takeaway",
		"items": []map[string]interface{}{
			{"menuItemId": "menu-1", "quantity": 1, "price": 11},
		},
		"subtotal": 11,
		"total":    11,
	})
	requireStatus(t, w, http.StatusCreated)
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", auth.RoleWaiter)

	cases := map[string]map[string]interface{}{
		"no items": {
			"orderType": "dine-in",
			"items":     []map[string]interface{}{},
		},
		"bad order type": {
			"orderType": "drive-thru",
			"items": []map[string]interface{}{
				{"menuItemId": "menu-1", "quantity": 1, "price": 5},
			},
		},
		"zero quantity": {
			"orderType": "dine-in",
			"items": []map[string]interface{}{
				{"menuItemId": "menu-1", "quantity": 0, "price": 5},
			},
		},
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/orders", token, body)
			requireStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestOrdersRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/orders", "", nil)
	requireStatus(t, w, http.StatusUnauthorized)
	if env2 := decodeEnvelope(t, w); env2.Error != "Authentication required" {
		t.Fatalf("error = %q", env2.Error)
	}
}

func TestUpdateOrderStatusBackwards(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "orders", store.Order{OrderID: "ord-1", Status: store.OrderCompleted, OrderType: "dine-in", CreatedAt: time.Now().UTC()})
	token := env.token(t, "user-1", auth.RoleChef)

	// completed -> pending is accepted; there is no transition table.
	w := env.do(t, http.MethodPatch, "/api/orders/ord-1/status", token, map[string]string{"status": "pending"})
	requireStatus(t, w, http.StatusOK)

	if got := env.getOrder(t, "ord-1"); got.Status != store.OrderPending {
		t.Fatalf("status = %q, want pending", got.Status)
	}
}

func TestUpdateOrderStatusUnknownValue(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "orders", store.Order{OrderID: "ord-1", Status: store.OrderPending, OrderType: "dine-in"})
	token := env.token(t, "user-1", auth.RoleChef)

	w := env.do(t, http.MethodPatch, "/api/orders/ord-1/status", token, map[string]string{"status": "misplaced"})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestUpdatePaymentRequiresCashierRole(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "orders", store.Order{OrderID: "ord-1", Status: store.OrderServed, PaymentStatus: store.PaymentPending, OrderType: "dine-in"})

	waiter := env.token(t, "user-1", auth.RoleWaiter)
	w := env.do(t, http.MethodPatch, "/api/orders/ord-1/payment", waiter, map[string]string{"paymentStatus": "paid"})
	requireStatus(t, w, http.StatusForbidden)

	cashier := env.token(t, "user-2", auth.RoleCashier)
	w = env.do(t, http.MethodPatch, "/api/orders/ord-1/payment", cashier, map[string]string{"paymentStatus": "paid", "paymentMethod": "card"})
	requireStatus(t, w, http.StatusOK)

	if got := env.getOrder(t, "ord-1"); got.PaymentStatus != store.PaymentPaid || got.PaymentMethod != "card" {
		t.Fatalf("payment = %q/%q, want paid/card", got.PaymentStatus, got.PaymentMethod)
	}
}

func TestCancelPaidOrderRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "orders", store.Order{OrderID: "ord-1", Status: store.OrderServed, PaymentStatus: store.PaymentPaid, OrderType: "dine-in"})
	token := env.token(t, "user-1", auth.RoleWaiter)

	w := env.do(t, http.MethodPatch, "/api/orders/ord-1/cancel", token, nil)
	requireStatus(t, w, http.StatusBadRequest)
	if env2 := decodeEnvelope(t, w); env2.Error != "Cannot cancel paid order. Refund required." {
		t.Fatalf("error = %q", env2.Error)
	}

	// Order untouched.
	if got := env.getOrder(t, "ord-1"); got.Status != store.OrderServed {
		t.Fatalf("status = %q, want served", got.Status)
	}
}

func TestCancelUnpaidOrder(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "orders", store.Order{OrderID: "ord-1", Status: store.OrderPreparing, PaymentStatus: store.PaymentPending, OrderType: "dine-in"})
	token := env.token(t, "user-1", auth.RoleWaiter)

	w := env.do(t, http.MethodPatch, "/api/orders/ord-1/cancel", token, nil)
	requireStatus(t, w, http.StatusOK)

	if got := env.getOrder(t, "ord-1"); got.Status != store.OrderCancelled {
		t.Fatalf("status = %q, want cancelled", got.Status)
	}
}

func TestCancelMissingOrder(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", auth.RoleWaiter)

	w := env.do(t, http.MethodPatch, "/api/orders/nope/cancel", token, nil)
	requireStatus(t, w, http.StatusNotFound)
	if env2 := decodeEnvelope(t, w); env2.Error != "Order not found" {
		t.Fatalf("error = %q", env2.Error)
	}
}
