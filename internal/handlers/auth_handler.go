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

type authHandler struct {
	cfg   HandlerConfig
	v     *validatorv10.Validate
	users *store.Users
}

// RegisterAuthRoutes registers authentication and staff account routes.
// Login is the only public endpoint; registration requires an existing
// admin or manager session.
func RegisterAuthRoutes(r *gin.Engine, cfg HandlerConfig) {
	h := &authHandler{
		cfg:   cfg,
		v:     validation.New(),
		users: store.NewUsers(cfg.DynamoDBClient, cfg.UsersTable),
	}

	r.POST("/api/auth/login", h.login)

	grp := r.Group("/api/auth", auth.Authenticate(cfg.TokenIssuer))
	grp.POST("/register", auth.Authorize(auth.RoleAdmin, auth.RoleManager), h.register)
	grp.GET("/me", h.me)
	grp.GET("/users", auth.Authorize(auth.RoleAdmin, auth.RoleManager), h.listUsers)
	grp.GET("/users/:id", auth.Authorize(auth.RoleAdmin, auth.RoleManager), h.getUser)
	grp.PUT("/users/:id", auth.Authorize(auth.RoleAdmin, auth.RoleManager), h.updateUser)
	grp.DELETE("/users/:id", auth.Authorize(auth.RoleAdmin), h.deleteUser)
}

func (h *authHandler) register(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.RegisterRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	existing, err := h.users.GetActiveByUsername(ctx, req.Username)
	if err != nil {
		h.cfg.Log.Error("auth_register", "failed to check username", err, "username", req.Username)
		respondError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}
	if existing != nil {
		respondError(c, http.StatusBadRequest, "Username already taken")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.cfg.Log.Error("auth_register", "failed to hash password", err)
		respondError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	now := time.Now().UTC()
	user := store.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.Create(ctx, user); err != nil {
		h.cfg.Log.Error("auth_register", "failed to persist user", err, "user_id", user.UserID)
		respondError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}
	respondCreated(c, user)
}

func (h *authHandler) login(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.LoginRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	user, err := h.users.GetActiveByUsername(ctx, req.Username)
	if err != nil {
		h.cfg.Log.Error("auth_login", "failed to look up user", err, "username", req.Username)
		respondError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.cfg.TokenIssuer.Issue(user.UserID, user.Role)
	if err != nil {
		h.cfg.Log.Error("auth_login", "failed to issue token", err, "user_id", user.UserID)
		respondError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	respondOK(c, gin.H{"user": user, "token": token})
}

func (h *authHandler) me(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := auth.IdentityFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.users.Get(ctx, id.UserID)
	if err != nil {
		h.cfg.Log.Error("auth_me", "failed to fetch user", err, "user_id", id.UserID)
		respondError(c, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	respondOK(c, user)
}

func (h *authHandler) listUsers(c *gin.Context) {
	ctx := c.Request.Context()

	filter := store.UserFilter{Role: c.Query("role")}
	if ac := c.Query("active"); ac != "" {
		b, err := strconv.ParseBool(ac)
		if err != nil {
			respondError(c, http.StatusBadRequest, "active must be true or false")
			return
		}
		filter.Active = &b
	}

	users, err := h.users.List(ctx, filter)
	if err != nil {
		h.cfg.Log.Error("auth_list_users", "failed to list users", err)
		respondError(c, http.StatusInternalServerError, "Failed to list users")
		return
	}
	respondOK(c, users)
}

func (h *authHandler) getUser(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.users.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("auth_get_user", "failed to fetch user", err, "user_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	respondOK(c, user)
}

func (h *authHandler) updateUser(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.UpdateUserRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	user, err := h.users.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("auth_update_user", "failed to fetch user", err, "user_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := h.users.Update(ctx, *user); err != nil {
		h.cfg.Log.Error("auth_update_user", "failed to update user", err, "user_id", user.UserID)
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	respondOK(c, user)
}

func (h *authHandler) deleteUser(c *gin.Context) {
	ctx := c.Request.Context()

	err := h.users.Delete(ctx, c.Param("id"))
	if err == store.ErrNotFound {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.cfg.Log.Error("auth_delete_user", "failed to delete user", err, "user_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	respondMessage(c, "User deleted successfully")
}
