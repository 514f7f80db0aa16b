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

type tablesHandler struct {
	cfg    HandlerConfig
	v      *validatorv10.Validate
	tables *store.Tables
}

// RegisterTablesRoutes registers routes for the tables API.
func RegisterTablesRoutes(r *gin.Engine, cfg HandlerConfig) {
	h := &tablesHandler{
		cfg:    cfg,
		v:      validation.New(),
		tables: store.NewTables(cfg.DynamoDBClient, cfg.TablesTable),
	}

	grp := r.Group("/api/tables", auth.Authenticate(cfg.TokenIssuer))
	grp.POST("", auth.Authorize(auth.RoleAdmin, auth.RoleManager), h.create)
	grp.GET("", h.list)
	grp.GET("/:id", h.get)
	grp.PATCH("/:id/status", h.setStatus)
	grp.PUT("/:id", auth.Authorize(auth.RoleAdmin, auth.RoleManager), h.update)
	grp.DELETE("/:id", auth.Authorize(auth.RoleAdmin, auth.RoleManager), h.delete)
}

func (h *tablesHandler) create(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.TableRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	status := req.Status
	if status == "" {
		status = store.TableAvailable
	}

	now := time.Now().UTC()
	table := store.Table{
		TableID:     uuid.NewString(),
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      status,
		Location:    req.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.tables.Create(ctx, table); err != nil {
		h.cfg.Log.Error("table_create", "failed to persist table", err, "table_id", table.TableID)
		respondError(c, http.StatusInternalServerError, "Failed to create table")
		return
	}
	respondCreated(c, table)
}

func (h *tablesHandler) list(c *gin.Context) {
	ctx := c.Request.Context()

	tables, err := h.tables.List(ctx, store.TableFilter{
		Status:   c.Query("status"),
		Location: c.Query("location"),
	})
	if err != nil {
		h.cfg.Log.Error("table_list", "failed to list tables", err)
		respondError(c, http.StatusInternalServerError, "Failed to list tables")
		return
	}
	respondOK(c, tables)
}

func (h *tablesHandler) get(c *gin.Context) {
	ctx := c.Request.Context()

	table, err := h.tables.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("table_get", "failed to fetch table", err, "table_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load table")
		return
	}
	if table == nil {
		respondError(c, http.StatusNotFound, "Table not found")
		return
	}
	respondOK(c, table)
}

// setStatus writes the status directly; the reservation lifecycle writes it
// too, and the last writer wins.
func (h *tablesHandler) setStatus(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.UpdateTableStatusRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	table, err := h.tables.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("table_set_status", "failed to fetch table", err, "table_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load table")
		return
	}
	if table == nil {
		respondError(c, http.StatusNotFound, "Table not found")
		return
	}

	if err := h.tables.SetStatus(ctx, table.TableID, req.Status, req.CurrentOrderID); err != nil {
		h.cfg.Log.Error("table_set_status", "failed to update status", err, "table_id", table.TableID)
		respondError(c, http.StatusInternalServerError, "Failed to update table status")
		return
	}

	table.Status = req.Status
	if req.CurrentOrderID != nil {
		table.CurrentOrderID = *req.CurrentOrderID
	}
	respondOK(c, table)
}

func (h *tablesHandler) update(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.TableRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	table, err := h.tables.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("table_update", "failed to fetch table", err, "table_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load table")
		return
	}
	if table == nil {
		respondError(c, http.StatusNotFound, "Table not found")
		return
	}

	table.TableNumber = req.TableNumber
	table.Capacity = req.Capacity
	table.Location = req.Location
	if req.Status != "" {
		table.Status = req.Status
	}

	if err := h.tables.Update(ctx, *table); err != nil {
		h.cfg.Log.Error("table_update", "failed to update table", err, "table_id", table.TableID)
		respondError(c, http.StatusInternalServerError, "Failed to update table")
		return
	}
	respondOK(c, table)
}

func (h *tablesHandler) delete(c *gin.Context) {
	ctx := c.Request.Context()

	err := h.tables.Delete(ctx, c.Param("id"))
	if err == store.ErrNotFound {
		respondError(c, http.StatusNotFound, "Table not found")
		return
	}
	if err != nil {
		h.cfg.Log.Error("table_delete", "failed to delete table", err, "table_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to delete table")
		return
	}
	respondMessage(c, "Table deleted successfully")
}
