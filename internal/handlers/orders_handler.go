package handlers

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/tableside/pos-api/internal/auth"
	"github.com/tableside/pos-api/internal/store"
	"github.com/tableside/pos-api/internal/validation"
)

// ordersHandler owns the order lifecycle: creation with computed order
// numbers and customer accrual, free-form status/payment updates, and
// cancellation guarded only by payment state.
type ordersHandler struct {
	cfg       HandlerConfig
	v         *validatorv10.Validate
	orders    *store.Orders
	customers *store.Customers
	menu      *store.Menu
}

// RegisterOrdersRoutes registers routes for the orders API.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	h := &ordersHandler{
		cfg:       cfg,
		v:         validation.New(),
		orders:    store.NewOrders(cfg.DynamoDBClient, cfg.OrdersTable),
		customers: store.NewCustomers(cfg.DynamoDBClient, cfg.CustomersTable),
		menu:      store.NewMenu(cfg.DynamoDBClient, cfg.MenuTable),
	}

	grp := r.Group("/api/orders", auth.Authenticate(cfg.TokenIssuer))
	grp.POST("", h.create)
	grp.GET("", h.list)
	grp.GET("/:id", h.get)
	grp.PATCH("/:id/status", h.setStatus)
	grp.PATCH("/:id/payment", auth.Authorize(auth.RoleAdmin, auth.RoleManager, auth.RoleCashier), h.setPayment)
	grp.PATCH("/:id/cancel", h.cancel)
}

// generateOrderNumber concatenates the last six digits of the unix-ms
// timestamp with a zero-padded random 3-digit suffix. Best-effort
// uniqueness only; a collision is not retried.
func generateOrderNumber() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return fmt.Sprintf("ORD%s%03d", ts[len(ts)-6:], rand.Intn(1000))
}

func (h *ordersHandler) create(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	items := make([]store.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, store.OrderItem{
			MenuItemID:          it.MenuItemID,
			Quantity:            it.Quantity,
			Price:               it.Price,
			SpecialInstructions: it.SpecialInstructions,
		})
	}

	now := time.Now().UTC()
	order := store.Order{
		OrderID:       uuid.NewString(),
		OrderNumber:   generateOrderNumber(),
		TableNumber:   req.TableNumber,
		CustomerID:    req.CustomerID,
		Items:         items,
		Status:        store.OrderPending,
		OrderType:     req.OrderType,
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Discount:      req.Discount,
		Total:         req.Total,
		PaymentStatus: store.PaymentPending,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.orders.Create(ctx, order); err != nil {
		h.cfg.Log.Error("order_create", "failed to persist order", err, "order_id", order.OrderID)
		respondError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	// Accrue customer stats. This is a second, independent write: if it
	// fails the order above stays persisted.
	if order.CustomerID != "" {
		if err := h.customers.ApplyOrderAccrual(ctx, order.CustomerID, order.Total); err != nil {
			h.cfg.Log.Error("order_create", "failed to apply customer accrual", err,
				"order_id", order.OrderID, "customer_id", order.CustomerID)
			respondError(c, http.StatusInternalServerError, "Failed to update customer stats")
			return
		}
	}

	if err := h.cfg.Metrics.Count(ctx, "OrderCreated", 1, map[string]string{"OrderType": order.OrderType}); err != nil {
		h.cfg.Log.Error("order_create", "metric emit failed", err)
	}

	view, err := h.resolver().order(ctx, order)
	if err != nil {
		h.cfg.Log.Error("order_create", "failed to resolve order references", err, "order_id", order.OrderID)
		respondError(c, http.StatusInternalServerError, "Failed to load order")
		return
	}
	respondCreated(c, view)
}

func (h *ordersHandler) list(c *gin.Context) {
	ctx := c.Request.Context()

	filter := store.OrderFilter{
		Status:    c.Query("status"),
		OrderType: c.Query("orderType"),
	}
	if tn := c.Query("tableNumber"); tn != "" {
		n, err := strconv.Atoi(tn)
		if err != nil {
			respondError(c, http.StatusBadRequest, "tableNumber must be a number")
			return
		}
		filter.TableNumber = n
	}

	orders, err := h.orders.List(ctx, filter)
	if err != nil {
		h.cfg.Log.Error("order_list", "failed to list orders", err)
		respondError(c, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	views, err := h.resolver().orders(ctx, orders)
	if err != nil {
		h.cfg.Log.Error("order_list", "failed to resolve order references", err)
		respondError(c, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	respondOK(c, views)
}

func (h *ordersHandler) get(c *gin.Context) {
	ctx := c.Request.Context()

	order, err := h.orders.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("order_get", "failed to fetch order", err, "order_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load order")
		return
	}
	if order == nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}

	view, err := h.resolver().order(ctx, *order)
	if err != nil {
		h.cfg.Log.Error("order_get", "failed to resolve order references", err, "order_id", order.OrderID)
		respondError(c, http.StatusInternalServerError, "Failed to load order")
		return
	}
	respondOK(c, view)
}

// setStatus overwrites the status with any enumerated value. There is no
// transition table: completed -> pending is as valid as pending -> preparing.
func (h *ordersHandler) setStatus(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.UpdateOrderStatusRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	order, err := h.orders.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("order_set_status", "failed to fetch order", err, "order_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load order")
		return
	}
	if order == nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}

	if err := h.orders.SetStatus(ctx, order.OrderID, req.Status); err != nil {
		h.cfg.Log.Error("order_set_status", "failed to update status", err, "order_id", order.OrderID)
		respondError(c, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	order.Status = req.Status
	view, err := h.resolver().order(ctx, *order)
	if err != nil {
		h.cfg.Log.Error("order_set_status", "failed to resolve order references", err, "order_id", order.OrderID)
		respondError(c, http.StatusInternalServerError, "Failed to load order")
		return
	}
	respondOK(c, view)
}

// setPayment overwrites payment fields with no check against order status.
func (h *ordersHandler) setPayment(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.UpdatePaymentRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	order, err := h.orders.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("order_set_payment", "failed to fetch order", err, "order_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load order")
		return
	}
	if order == nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}

	if err := h.orders.SetPayment(ctx, order.OrderID, req.PaymentStatus, req.PaymentMethod); err != nil {
		h.cfg.Log.Error("order_set_payment", "failed to update payment", err, "order_id", order.OrderID)
		respondError(c, http.StatusInternalServerError, "Failed to update payment status")
		return
	}

	order.PaymentStatus = req.PaymentStatus
	if req.PaymentMethod != "" {
		order.PaymentMethod = req.PaymentMethod
	}
	respondOK(c, order)
}

// cancel rejects paid orders; anything else flips the status to cancelled.
// Customer accrual applied at creation is not reversed.
func (h *ordersHandler) cancel(c *gin.Context) {
	ctx := c.Request.Context()

	order, err := h.orders.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("order_cancel", "failed to fetch order", err, "order_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load order")
		return
	}
	if order == nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}

	if order.PaymentStatus == store.PaymentPaid {
		respondError(c, http.StatusBadRequest, "Cannot cancel paid order. Refund required.")
		return
	}

	if err := h.orders.SetStatus(ctx, order.OrderID, store.OrderCancelled); err != nil {
		h.cfg.Log.Error("order_cancel", "failed to cancel order", err, "order_id", order.OrderID)
		respondError(c, http.StatusInternalServerError, "Failed to cancel order")
		return
	}

	order.Status = store.OrderCancelled
	respondOK(c, order)
}

func (h *ordersHandler) resolver() *orderResolver {
	return newOrderResolver(h.menu, h.customers)
}

// orderItemView is a line item with its menu item reference resolved.
type orderItemView struct {
	MenuItemID          string          `json:"menuItemId"`
	MenuItem            *store.MenuItem `json:"menuItem,omitempty"`
	Quantity            int             `json:"quantity"`
	Price               float64         `json:"price"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
}

// orderView is an order with menu item and customer references resolved to
// full records.
type orderView struct {
	store.Order
	Items    []orderItemView `json:"items"`
	Customer *store.Customer `json:"customer,omitempty"`
}

// orderResolver memoizes reference lookups across one response.
type orderResolver struct {
	menu      *store.Menu
	customers *store.Customers
	menuCache map[string]*store.MenuItem
	custCache map[string]*store.Customer
}

func newOrderResolver(menu *store.Menu, customers *store.Customers) *orderResolver {
	return &orderResolver{
		menu:      menu,
		customers: customers,
		menuCache: map[string]*store.MenuItem{},
		custCache: map[string]*store.Customer{},
	}
}

func (r *orderResolver) menuItem(ctx context.Context, id string) (*store.MenuItem, error) {
	if m, ok := r.menuCache[id]; ok {
		return m, nil
	}
	m, err := r.menu.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.menuCache[id] = m
	return m, nil
}

func (r *orderResolver) customer(ctx context.Context, id string) (*store.Customer, error) {
	if c, ok := r.custCache[id]; ok {
		return c, nil
	}
	c, err := r.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.custCache[id] = c
	return c, nil
}

func (r *orderResolver) order(ctx context.Context, o store.Order) (orderView, error) {
	view := orderView{Order: o, Items: make([]orderItemView, 0, len(o.Items))}
	for _, it := range o.Items {
		m, err := r.menuItem(ctx, it.MenuItemID)
		if err != nil {
			return orderView{}, err
		}
		view.Items = append(view.Items, orderItemView{
			MenuItemID:          it.MenuItemID,
			MenuItem:            m,
			Quantity:            it.Quantity,
			Price:               it.Price,
			SpecialInstructions: it.SpecialInstructions,
		})
	}
	if o.CustomerID != "" {
		cust, err := r.customer(ctx, o.CustomerID)
		if err != nil {
			return orderView{}, err
		}
		view.Customer = cust
	}
	return view, nil
}

func (r *orderResolver) orders(ctx context.Context, orders []store.Order) ([]orderView, error) {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		v, err := r.order(ctx, o)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
