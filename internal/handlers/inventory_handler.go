package handlers

import (
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

type inventoryHandler struct {
	cfg       HandlerConfig
	v         *validatorv10.Validate
	inventory *store.Inventory
}

// RegisterInventoryRoutes registers routes for the inventory API. Reads are
// open to any authenticated staff; writes are admin/manager only.
func RegisterInventoryRoutes(r *gin.Engine, cfg HandlerConfig) {
	h := &inventoryHandler{
		cfg:       cfg,
		v:         validation.New(),
		inventory: store.NewInventory(cfg.DynamoDBClient, cfg.InventoryTable),
	}

	grp := r.Group("/api/inventory", auth.Authenticate(cfg.TokenIssuer))
	grp.GET("", h.list)
	grp.GET("/:id", h.get)

	staff := grp.Group("", auth.Authorize(auth.RoleAdmin, auth.RoleManager))
	staff.POST("", h.create)
	staff.PUT("/:id", h.update)
	staff.PATCH("/:id/restock", h.restock)
	staff.DELETE("/:id", h.delete)
}

func inventoryItemFromRequest(req validation.InventoryItemRequest) store.InventoryItem {
	return store.InventoryItem{
		ItemName:     req.ItemName,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
		Supplier:     req.Supplier,
		CostPerUnit:  req.CostPerUnit,
		ExpiryDate:   req.ExpiryDate,
	}
}

func (h *inventoryHandler) create(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.InventoryItemRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	item := inventoryItemFromRequest(req)
	item.ItemID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt
	item.LastRestocked = item.CreatedAt

	if err := h.inventory.Create(ctx, item); err != nil {
		h.cfg.Log.Error("inventory_create", "failed to persist inventory item", err, "item_id", item.ItemID)
		respondError(c, http.StatusInternalServerError, "Failed to create inventory item")
		return
	}
	respondCreated(c, item)
}

func (h *inventoryHandler) list(c *gin.Context) {
	ctx := c.Request.Context()

	filter := store.InventoryFilter{Category: c.Query("category")}
	if ls := c.Query("lowStock"); ls != "" {
		b, err := strconv.ParseBool(ls)
		if err != nil {
			respondError(c, http.StatusBadRequest, "lowStock must be true or false")
			return
		}
		filter.LowStock = b
	}

	items, err := h.inventory.List(ctx, filter)
	if err != nil {
		h.cfg.Log.Error("inventory_list", "failed to list inventory items", err)
		respondError(c, http.StatusInternalServerError, "Failed to list inventory items")
		return
	}
	respondOK(c, items)
}

func (h *inventoryHandler) get(c *gin.Context) {
	ctx := c.Request.Context()

	item, err := h.inventory.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("inventory_get", "failed to fetch inventory item", err, "item_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load inventory item")
		return
	}
	if item == nil {
		respondError(c, http.StatusNotFound, "Inventory item not found")
		return
	}
	respondOK(c, item)
}

func (h *inventoryHandler) update(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.InventoryItemRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	existing, err := h.inventory.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("inventory_update", "failed to fetch inventory item", err, "item_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load inventory item")
		return
	}
	if existing == nil {
		respondError(c, http.StatusNotFound, "Inventory item not found")
		return
	}

	item := inventoryItemFromRequest(req)
	item.ItemID = existing.ItemID
	item.CreatedAt = existing.CreatedAt
	item.LastRestocked = existing.LastRestocked

	if err := h.inventory.Update(ctx, item); err != nil {
		h.cfg.Log.Error("inventory_update", "failed to update inventory item", err, "item_id", item.ItemID)
		respondError(c, http.StatusInternalServerError, "Failed to update inventory item")
		return
	}
	respondOK(c, item)
}

func (h *inventoryHandler) restock(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.RestockRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	err := h.inventory.Restock(ctx, c.Param("id"), req.Quantity)
	if err == store.ErrNotFound {
		respondError(c, http.StatusNotFound, "Inventory item not found")
		return
	}
	if err != nil {
		h.cfg.Log.Error("inventory_restock", "failed to restock inventory item", err, "item_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to restock inventory item")
		return
	}

	item, err := h.inventory.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("inventory_restock", "failed to fetch inventory item", err, "item_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load inventory item")
		return
	}
	respondOK(c, item)
}

func (h *inventoryHandler) delete(c *gin.Context) {
	ctx := c.Request.Context()

	err := h.inventory.Delete(ctx, c.Param("id"))
	if err == store.ErrNotFound {
		respondError(c, http.StatusNotFound, "Inventory item not found")
		return
	}
	if err != nil {
		h.cfg.Log.Error("inventory_delete", "failed to delete inventory item", err, "item_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to delete inventory item")
		return
	}
	respondMessage(c, "Inventory item deleted successfully")
}
