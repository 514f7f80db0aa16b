package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/tableside/pos-api/internal/auth"
	"github.com/tableside/pos-api/internal/store"
	"github.com/tableside/pos-api/internal/validation"
)

type customersHandler struct {
	cfg       HandlerConfig
	v         *validatorv10.Validate
	customers *store.Customers
	orders    *store.Orders
	menu      *store.Menu
}

// RegisterCustomersRoutes registers routes for the customers API.
func RegisterCustomersRoutes(r *gin.Engine, cfg HandlerConfig) {
	h := &customersHandler{
		cfg:       cfg,
		v:         validation.New(),
		customers: store.NewCustomers(cfg.DynamoDBClient, cfg.CustomersTable),
		orders:    store.NewOrders(cfg.DynamoDBClient, cfg.OrdersTable),
		menu:      store.NewMenu(cfg.DynamoDBClient, cfg.MenuTable),
	}

	grp := r.Group("/api/customers", auth.Authenticate(cfg.TokenIssuer))
	grp.POST("", h.create)
	grp.GET("", h.list)
	grp.GET("/:id", h.get)
	grp.GET("/:id/orders", h.orderHistory)
	grp.PUT("/:id", h.update)
	grp.DELETE("/:id", auth.Authorize(auth.RoleAdmin, auth.RoleManager), h.delete)
}

func (h *customersHandler) create(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.CustomerRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	now := time.Now().UTC()
	customer := store.Customer{
		CustomerID:  uuid.NewString(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Preferences: req.Preferences,
		Allergies:   req.Allergies,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Address != nil {
		customer.Address = &store.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			ZipCode: req.Address.ZipCode,
		}
	}

	if err := h.customers.Create(ctx, customer); err != nil {
		h.cfg.Log.Error("customer_create", "failed to persist customer", err, "customer_id", customer.CustomerID)
		respondError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}
	respondCreated(c, customer)
}

func (h *customersHandler) list(c *gin.Context) {
	ctx := c.Request.Context()

	customers, err := h.customers.List(ctx)
	if err != nil {
		h.cfg.Log.Error("customer_list", "failed to list customers", err)
		respondError(c, http.StatusInternalServerError, "Failed to list customers")
		return
	}
	respondOK(c, customers)
}

func (h *customersHandler) get(c *gin.Context) {
	ctx := c.Request.Context()

	customer, err := h.customers.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("customer_get", "failed to fetch customer", err, "customer_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load customer")
		return
	}
	if customer == nil {
		respondError(c, http.StatusNotFound, "Customer not found")
		return
	}
	respondOK(c, customer)
}

// orderHistory returns the customer's orders, newest first, with menu item
// references resolved the same way the orders API does.
func (h *customersHandler) orderHistory(c *gin.Context) {
	ctx := c.Request.Context()

	customer, err := h.customers.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("customer_orders", "failed to fetch customer", err, "customer_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load customer")
		return
	}
	if customer == nil {
		respondError(c, http.StatusNotFound, "Customer not found")
		return
	}

	orders, err := h.orders.List(ctx, store.OrderFilter{CustomerID: customer.CustomerID})
	if err != nil {
		h.cfg.Log.Error("customer_orders", "failed to list orders", err, "customer_id", customer.CustomerID)
		respondError(c, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	views, err := newOrderResolver(h.menu, h.customers).orders(ctx, orders)
	if err != nil {
		h.cfg.Log.Error("customer_orders", "failed to resolve order references", err, "customer_id", customer.CustomerID)
		respondError(c, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	respondOK(c, views)
}

func (h *customersHandler) update(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.CustomerRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	customer, err := h.customers.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("customer_update", "failed to fetch customer", err, "customer_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load customer")
		return
	}
	if customer == nil {
		respondError(c, http.StatusNotFound, "Customer not found")
		return
	}

	// Identity fields only; the accrued counters carry over untouched.
	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Preferences = req.Preferences
	customer.Allergies = req.Allergies
	customer.Address = nil
	if req.Address != nil {
		customer.Address = &store.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			ZipCode: req.Address.ZipCode,
		}
	}

	if err := h.customers.Update(ctx, *customer); err != nil {
		h.cfg.Log.Error("customer_update", "failed to update customer", err, "customer_id", customer.CustomerID)
		respondError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}
	respondOK(c, customer)
}

func (h *customersHandler) delete(c *gin.Context) {
	ctx := c.Request.Context()

	err := h.customers.Delete(ctx, c.Param("id"))
	if err == store.ErrNotFound {
		respondError(c, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		h.cfg.Log.Error("customer_delete", "failed to delete customer", err, "customer_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	respondMessage(c, "Customer deleted successfully")
}
