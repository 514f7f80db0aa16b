package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tableside/pos-api/internal/analytics"
	"github.com/tableside/pos-api/internal/auth"
	"github.com/tableside/pos-api/internal/store"
)

type analyticsHandler struct {
	cfg HandlerConfig
	svc *analytics.Service
}

// RegisterAnalyticsRoutes registers the reporting endpoints. Reports are
// admin/manager only; the dashboard is visible to any authenticated staff.
func RegisterAnalyticsRoutes(r *gin.Engine, cfg HandlerConfig) {
	h := &analyticsHandler{
		cfg: cfg,
		svc: analytics.NewService(
			store.NewOrders(cfg.DynamoDBClient, cfg.OrdersTable),
			store.NewCustomers(cfg.DynamoDBClient, cfg.CustomersTable),
			store.NewMenu(cfg.DynamoDBClient, cfg.MenuTable),
		),
	}

	grp := r.Group("/api/analytics", auth.Authenticate(cfg.TokenIssuer))
	grp.GET("/dashboard", h.dashboard)

	reports := grp.Group("", auth.Authorize(auth.RoleAdmin, auth.RoleManager))
	reports.GET("/sales", h.sales)
	reports.GET("/popular-items", h.popularItems)
	reports.GET("/customers", h.customers)
}

func (h *analyticsHandler) sales(c *gin.Context) {
	ctx := c.Request.Context()

	var startDate, endDate *time.Time
	if sd := c.Query("startDate"); sd != "" {
		t, err := time.Parse("2006-01-02", sd)
		if err != nil {
			respondError(c, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
			return
		}
		startDate = &t
	}
	if ed := c.Query("endDate"); ed != "" {
		t, err := time.Parse("2006-01-02", ed)
		if err != nil {
			respondError(c, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
			return
		}
		// Inclusive through the end of the named day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		endDate = &t
	}

	report, err := h.svc.SalesReport(ctx, startDate, endDate)
	if err != nil {
		h.cfg.Log.Error("analytics_sales", "failed to build sales report", err)
		respondError(c, http.StatusInternalServerError, "Failed to build sales report")
		return
	}
	respondOK(c, report)
}

func (h *analyticsHandler) popularItems(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 10
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	items, err := h.svc.PopularItems(ctx, limit)
	if err != nil {
		h.cfg.Log.Error("analytics_popular_items", "failed to build popular items report", err)
		respondError(c, http.StatusInternalServerError, "Failed to build popular items report")
		return
	}
	respondOK(c, items)
}

func (h *analyticsHandler) customers(c *gin.Context) {
	ctx := c.Request.Context()

	report, err := h.svc.CustomerReport(ctx)
	if err != nil {
		h.cfg.Log.Error("analytics_customers", "failed to build customer report", err)
		respondError(c, http.StatusInternalServerError, "Failed to build customer report")
		return
	}
	respondOK(c, report)
}

func (h *analyticsHandler) dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.svc.DashboardStats(ctx)
	if err != nil {
		h.cfg.Log.Error("analytics_dashboard", "failed to build dashboard stats", err)
		respondError(c, http.StatusInternalServerError, "Failed to build dashboard stats")
		return
	}
	respondOK(c, stats)
}
