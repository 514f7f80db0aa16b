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

type menuHandler struct {
	cfg  HandlerConfig
	v    *validatorv10.Validate
	menu *store.Menu
}

// RegisterMenuRoutes registers routes for the menu catalog. Reads are
// public so the customer-facing menu can render without a session.
func RegisterMenuRoutes(r *gin.Engine, cfg HandlerConfig) {
	h := &menuHandler{
		cfg:  cfg,
		v:    validation.New(),
		menu: store.NewMenu(cfg.DynamoDBClient, cfg.MenuTable),
	}

	r.GET("/api/menu", h.list)
	r.GET("/api/menu/:id", h.get)

	staff := r.Group("/api/menu", auth.Authenticate(cfg.TokenIssuer), auth.Authorize(auth.RoleAdmin, auth.RoleManager))
	staff.POST("", h.create)
	staff.PUT("/:id", h.update)
	staff.DELETE("/:id", h.delete)
}

func menuItemFromRequest(req validation.MenuItemRequest) store.MenuItem {
	item := store.MenuItem{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Price:           req.Price,
		ImageURL:        req.ImageURL,
		Available:       true,
		PreparationTime: req.PreparationTime,
		Ingredients:     req.Ingredients,
		Allergens:       req.Allergens,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if req.NutritionalInfo != nil {
		item.NutritionalInfo = &store.NutritionalInfo{
			Calories: req.NutritionalInfo.Calories,
			Protein:  req.NutritionalInfo.Protein,
			Carbs:    req.NutritionalInfo.Carbs,
			Fat:      req.NutritionalInfo.Fat,
		}
	}
	return item
}

func (h *menuHandler) create(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.MenuItemRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	item := menuItemFromRequest(req)
	item.MenuItemID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt

	if err := h.menu.Create(ctx, item); err != nil {
		h.cfg.Log.Error("menu_create", "failed to persist menu item", err, "menu_item_id", item.MenuItemID)
		respondError(c, http.StatusInternalServerError, "Failed to create menu item")
		return
	}
	respondCreated(c, item)
}

func (h *menuHandler) list(c *gin.Context) {
	ctx := c.Request.Context()

	filter := store.MenuFilter{Category: c.Query("category")}
	if av := c.Query("available"); av != "" {
		b, err := strconv.ParseBool(av)
		if err != nil {
			respondError(c, http.StatusBadRequest, "available must be true or false")
			return
		}
		filter.Available = &b
	}

	items, err := h.menu.List(ctx, filter)
	if err != nil {
		h.cfg.Log.Error("menu_list", "failed to list menu items", err)
		respondError(c, http.StatusInternalServerError, "Failed to list menu items")
		return
	}
	respondOK(c, items)
}

func (h *menuHandler) get(c *gin.Context) {
	ctx := c.Request.Context()

	item, err := h.menu.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("menu_get", "failed to fetch menu item", err, "menu_item_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load menu item")
		return
	}
	if item == nil {
		respondError(c, http.StatusNotFound, "Menu item not found")
		return
	}
	respondOK(c, item)
}

func (h *menuHandler) update(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.MenuItemRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	existing, err := h.menu.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("menu_update", "failed to fetch menu item", err, "menu_item_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load menu item")
		return
	}
	if existing == nil {
		respondError(c, http.StatusNotFound, "Menu item not found")
		return
	}

	item := menuItemFromRequest(req)
	item.MenuItemID = existing.MenuItemID
	item.CreatedAt = existing.CreatedAt

	if err := h.menu.Update(ctx, item); err != nil {
		h.cfg.Log.Error("menu_update", "failed to update menu item", err, "menu_item_id", item.MenuItemID)
		respondError(c, http.StatusInternalServerError, "Failed to update menu item")
		return
	}
	respondOK(c, item)
}

func (h *menuHandler) delete(c *gin.Context) {
	ctx := c.Request.Context()

	err := h.menu.Delete(ctx, c.Param("id"))
	if err == store.ErrNotFound {
		respondError(c, http.StatusNotFound, "Menu item not found")
		return
	}
	if err != nil {
		h.cfg.Log.Error("menu_delete", "failed to delete menu item", err, "menu_item_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to delete menu item")
		return
	}
	respondMessage(c, "Menu item deleted successfully")
}
