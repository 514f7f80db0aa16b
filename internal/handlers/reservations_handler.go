package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/tableside/pos-api/internal/auth"
	"github.com/tableside/pos-api/internal/store"
	"github.com/tableside/pos-api/internal/validation"
)

// reservationsHandler keeps a table's status synchronized with its
// reservation's lifecycle. The conflict check before insert is a point read,
// not a lock; the documented race between concurrent creators is accepted.
type reservationsHandler struct {
	cfg          HandlerConfig
	v            *validatorv10.Validate
	reservations *store.Reservations
	tables       *store.Tables
	customers    *store.Customers
}

// RegisterReservationsRoutes registers routes for the reservations API.
func RegisterReservationsRoutes(r *gin.Engine, cfg HandlerConfig) {
	h := &reservationsHandler{
		cfg:          cfg,
		v:            validation.New(),
		reservations: store.NewReservations(cfg.DynamoDBClient, cfg.ReservationsTable),
		tables:       store.NewTables(cfg.DynamoDBClient, cfg.TablesTable),
		customers:    store.NewCustomers(cfg.DynamoDBClient, cfg.CustomersTable),
	}

	grp := r.Group("/api/reservations", auth.Authenticate(cfg.TokenIssuer))
	grp.POST("", h.create)
	grp.GET("", h.list)
	grp.GET("/:id", h.get)
	grp.PATCH("/:id/status", h.setStatus)
	grp.DELETE("/:id", auth.Authorize(auth.RoleAdmin, auth.RoleManager), h.delete)
}

func (h *reservationsHandler) create(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.CreateReservationRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	conflict, err := h.reservations.FindConflict(ctx, req.TableID, req.ReservationDate)
	if err != nil {
		h.cfg.Log.Error("reservation_create", "conflict check failed", err, "table_id", req.TableID)
		respondError(c, http.StatusInternalServerError, "Failed to create reservation")
		return
	}
	if conflict != nil {
		respondError(c, http.StatusBadRequest, "Table is already reserved for this time slot")
		return
	}

	now := time.Now().UTC()
	reservation := store.Reservation{
		ReservationID:   uuid.NewString(),
		CustomerID:      req.CustomerID,
		TableID:         req.TableID,
		ReservationDate: req.ReservationDate,
		NumberOfGuests:  req.NumberOfGuests,
		Status:          store.ReservationPending,
		SpecialRequests: req.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.reservations.Create(ctx, reservation); err != nil {
		h.cfg.Log.Error("reservation_create", "failed to persist reservation", err, "reservation_id", reservation.ReservationID)
		respondError(c, http.StatusInternalServerError, "Failed to create reservation")
		return
	}

	// Second write, no shared transaction with the insert above.
	if err := h.tables.SetStatus(ctx, req.TableID, store.TableReserved, nil); err != nil {
		h.cfg.Log.Error("reservation_create", "failed to mark table reserved", err, "table_id", req.TableID)
		respondError(c, http.StatusInternalServerError, "Failed to update table status")
		return
	}

	view, err := h.resolve(ctx, reservation)
	if err != nil {
		h.cfg.Log.Error("reservation_create", "failed to resolve references", err, "reservation_id", reservation.ReservationID)
		respondError(c, http.StatusInternalServerError, "Failed to load reservation")
		return
	}
	respondCreated(c, view)
}

func (h *reservationsHandler) list(c *gin.Context) {
	ctx := c.Request.Context()

	filter := store.ReservationFilter{Status: c.Query("status")}
	if d := c.Query("date"); d != "" {
		date, err := time.Parse("2006-01-02", d)
		if err != nil {
			respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		filter.Date = date
	}

	reservations, err := h.reservations.List(ctx, filter)
	if err != nil {
		h.cfg.Log.Error("reservation_list", "failed to list reservations", err)
		respondError(c, http.StatusInternalServerError, "Failed to list reservations")
		return
	}

	views := make([]reservationView, 0, len(reservations))
	for _, r := range reservations {
		v, err := h.resolve(ctx, r)
		if err != nil {
			h.cfg.Log.Error("reservation_list", "failed to resolve references", err, "reservation_id", r.ReservationID)
			respondError(c, http.StatusInternalServerError, "Failed to load reservations")
			return
		}
		views = append(views, v)
	}
	respondOK(c, views)
}

func (h *reservationsHandler) get(c *gin.Context) {
	ctx := c.Request.Context()

	reservation, err := h.reservations.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("reservation_get", "failed to fetch reservation", err, "reservation_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load reservation")
		return
	}
	if reservation == nil {
		respondError(c, http.StatusNotFound, "Reservation not found")
		return
	}

	view, err := h.resolve(ctx, *reservation)
	if err != nil {
		h.cfg.Log.Error("reservation_get", "failed to resolve references", err, "reservation_id", reservation.ReservationID)
		respondError(c, http.StatusInternalServerError, "Failed to load reservation")
		return
	}
	respondOK(c, view)
}

// setStatus overwrites the reservation status unconditionally, then applies
// the table side effect: seated -> occupied, completed/cancelled ->
// available, anything else leaves the table alone.
func (h *reservationsHandler) setStatus(c *gin.Context) {
	ctx := c.Request.Context()

	var req validation.UpdateReservationStatusRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	reservation, err := h.reservations.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("reservation_set_status", "failed to fetch reservation", err, "reservation_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load reservation")
		return
	}
	if reservation == nil {
		respondError(c, http.StatusNotFound, "Reservation not found")
		return
	}

	if err := h.reservations.SetStatus(ctx, reservation.ReservationID, req.Status); err != nil {
		h.cfg.Log.Error("reservation_set_status", "failed to update status", err, "reservation_id", reservation.ReservationID)
		respondError(c, http.StatusInternalServerError, "Failed to update reservation status")
		return
	}
	reservation.Status = req.Status

	switch req.Status {
	case store.ReservationSeated:
		err = h.tables.SetStatus(ctx, reservation.TableID, store.TableOccupied, nil)
	case store.ReservationCompleted, store.ReservationCancelled:
		err = h.tables.SetStatus(ctx, reservation.TableID, store.TableAvailable, nil)
	}
	if err != nil {
		h.cfg.Log.Error("reservation_set_status", "failed to sync table status", err,
			"reservation_id", reservation.ReservationID, "table_id", reservation.TableID)
		respondError(c, http.StatusInternalServerError, "Failed to update table status")
		return
	}

	view, err := h.resolve(ctx, *reservation)
	if err != nil {
		h.cfg.Log.Error("reservation_set_status", "failed to resolve references", err, "reservation_id", reservation.ReservationID)
		respondError(c, http.StatusInternalServerError, "Failed to load reservation")
		return
	}
	respondOK(c, view)
}

// delete removes the reservation and forces the table back to available,
// whatever state the table was in.
func (h *reservationsHandler) delete(c *gin.Context) {
	ctx := c.Request.Context()

	reservation, err := h.reservations.Get(ctx, c.Param("id"))
	if err != nil {
		h.cfg.Log.Error("reservation_delete", "failed to fetch reservation", err, "reservation_id", c.Param("id"))
		respondError(c, http.StatusInternalServerError, "Failed to load reservation")
		return
	}
	if reservation == nil {
		respondError(c, http.StatusNotFound, "Reservation not found")
		return
	}

	if err := h.reservations.Delete(ctx, reservation.ReservationID); err != nil {
		h.cfg.Log.Error("reservation_delete", "failed to delete reservation", err, "reservation_id", reservation.ReservationID)
		respondError(c, http.StatusInternalServerError, "Failed to delete reservation")
		return
	}

	if err := h.tables.SetStatus(ctx, reservation.TableID, store.TableAvailable, nil); err != nil {
		h.cfg.Log.Error("reservation_delete", "failed to release table", err, "table_id", reservation.TableID)
		respondError(c, http.StatusInternalServerError, "Failed to update table status")
		return
	}

	respondMessage(c, "Reservation deleted successfully")
}

// reservationView is a reservation with customer and table resolved.
type reservationView struct {
	store.Reservation
	Customer *store.Customer `json:"customer,omitempty"`
	Table    *store.Table    `json:"table,omitempty"`
}

func (h *reservationsHandler) resolve(ctx context.Context, r store.Reservation) (reservationView, error) {
	view := reservationView{Reservation: r}

	customer, err := h.customers.Get(ctx, r.CustomerID)
	if err != nil {
		return reservationView{}, err
	}
	view.Customer = customer

	table, err := h.tables.Get(ctx, r.TableID)
	if err != nil {
		return reservationView{}, err
	}
	view.Table = table

	return view, nil
}
