package validation

import "time"

// OrderItemInput is a single order line item. Price is the unit price
// snapshot the client captured from the menu.
type OrderItemInput struct {
	MenuItemID          string  `json:"menuItemId" validate:"required"`
	Quantity            int     `json:"quantity" validate:"required,min=1"`
	Price               float64 `json:"price" validate:"gte=0"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
}

// CreateOrderRequest is the payload for POST /api/orders. The money fields
// are caller-supplied and trusted; the server does not recompute total from
// subtotal, tax and discount.
type CreateOrderRequest struct {
	TableNumber   int              `json:"tableNumber,omitempty"`
	CustomerID    string           `json:"customerId,omitempty"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	OrderType     string           `json:"orderType" validate:"required,oneof=dine-in takeaway delivery"`
	Subtotal      float64          `json:"subtotal" validate:"gte=0"`
	Tax           float64          `json:"tax" validate:"gte=0"`
	Discount      float64          `json:"discount" validate:"gte=0"`
	Total         float64          `json:"total" validate:"gte=0"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// UpdateOrderStatusRequest is the payload for PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending preparing ready served completed cancelled"`
}

// UpdatePaymentRequest is the payload for PATCH /api/orders/:id/payment.
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=pending paid refunded"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// CreateReservationRequest is the payload for POST /api/reservations.
type CreateReservationRequest struct {
	CustomerID      string    `json:"customerId" validate:"required"`
	TableID         string    `json:"tableId" validate:"required"`
	ReservationDate time.Time `json:"reservationDate" validate:"required"`
	NumberOfGuests  int       `json:"numberOfGuests" validate:"required,min=1"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
}

// UpdateReservationStatusRequest is the payload for PATCH /api/reservations/:id/status.
type UpdateReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed seated completed cancelled"`
}

// TableRequest creates or replaces a table.
type TableRequest struct {
	TableNumber int    `json:"tableNumber" validate:"required,min=1"`
	Capacity    int    `json:"capacity" validate:"required,min=1"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=available occupied reserved cleaning"`
	Location    string `json:"location" validate:"required"`
}

// UpdateTableStatusRequest is the payload for PATCH /api/tables/:id/status.
// CurrentOrderID: absent leaves the back-reference alone, empty clears it.
type UpdateTableStatusRequest struct {
	Status         string  `json:"status" validate:"required,oneof=available occupied reserved cleaning"`
	CurrentOrderID *string `json:"currentOrderId,omitempty"`
}

// NutritionalInfoInput mirrors the optional nutrition block on a menu item.
type NutritionalInfoInput struct {
	Calories float64 `json:"calories,omitempty" validate:"gte=0"`
	Protein  float64 `json:"protein,omitempty" validate:"gte=0"`
	Carbs    float64 `json:"carbs,omitempty" validate:"gte=0"`
	Fat      float64 `json:"fat,omitempty" validate:"gte=0"`
}

// MenuItemRequest creates or replaces a menu item.
type MenuItemRequest struct {
	Name            string                `json:"name" validate:"required"`
	Description     string                `json:"description" validate:"required"`
	Category        string                `json:"category" validate:"required"`
	Price           float64               `json:"price" validate:"gte=0"`
	ImageURL        string                `json:"imageUrl,omitempty"`
	Available       *bool                 `json:"available,omitempty"`
	PreparationTime int                   `json:"preparationTime" validate:"gte=0"`
	Ingredients     []string              `json:"ingredients,omitempty"`
	Allergens       []string              `json:"allergens,omitempty"`
	NutritionalInfo *NutritionalInfoInput `json:"nutritionalInfo,omitempty"`
}

// AddressInput mirrors the optional customer address block.
type AddressInput struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// CustomerRequest creates or replaces a customer's identity fields. The
// accrued counters are never writable through this payload.
type CustomerRequest struct {
	FirstName   string        `json:"firstName" validate:"required"`
	LastName    string        `json:"lastName" validate:"required"`
	Email       string        `json:"email" validate:"required,email"`
	Phone       string        `json:"phone" validate:"required"`
	Address     *AddressInput `json:"address,omitempty"`
	Preferences []string      `json:"preferences,omitempty"`
	Allergies   []string      `json:"allergies,omitempty"`
}

// InventoryItemRequest creates or replaces an inventory item.
type InventoryItemRequest struct {
	ItemName     string     `json:"itemName" validate:"required"`
	Category     string     `json:"category" validate:"required"`
	Quantity     float64    `json:"quantity" validate:"gte=0"`
	Unit         string     `json:"unit" validate:"required"`
	ReorderLevel float64    `json:"reorderLevel" validate:"gte=0"`
	Supplier     string     `json:"supplier" validate:"required"`
	CostPerUnit  float64    `json:"costPerUnit" validate:"gte=0"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
}

// RestockRequest is the payload for PATCH /api/inventory/:id/restock.
type RestockRequest struct {
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

// RegisterRequest creates a staff account.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=admin manager cashier waiter chef"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest partially updates a staff account. Password is
// deliberately absent; it cannot be changed through this endpoint.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=admin manager cashier waiter chef"`
	Active    *bool   `json:"active,omitempty"`
}
