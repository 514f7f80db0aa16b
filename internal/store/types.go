package store

import "time"

// Order statuses
const (
	OrderPending   = "pending"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderServed    = "served"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// Order types
const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeTakeaway = "takeaway"
	OrderTypeDelivery = "delivery"
)

// Payment statuses
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Table statuses
const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableReserved  = "reserved"
	TableCleaning  = "cleaning"
)

// Reservation statuses
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationSeated    = "seated"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
)

// OrderItem is one line item embedded in an order. Price is a snapshot of
// the menu item's price at order time.
type OrderItem struct {
	MenuItemID          string  `dynamodbav:"menu_item_id" json:"menuItemId"`
	Quantity            int     `dynamodbav:"quantity" json:"quantity"`
	Price               float64 `dynamodbav:"price" json:"price"`
	SpecialInstructions string  `dynamodbav:"special_instructions,omitempty" json:"specialInstructions,omitempty"`
}

// Order is the item stored in the orders table.
type Order struct {
	OrderID       string      `dynamodbav:"order_id" json:"id"` // PK
	OrderNumber   string      `dynamodbav:"order_number" json:"orderNumber"`
	TableNumber   int         `dynamodbav:"table_number,omitempty" json:"tableNumber,omitempty"`
	CustomerID    string      `dynamodbav:"customer_id,omitempty" json:"customerId,omitempty"`
	Items         []OrderItem `dynamodbav:"items" json:"items"`
	Status        string      `dynamodbav:"status" json:"status"`
	OrderType     string      `dynamodbav:"order_type" json:"orderType"`
	Subtotal      float64     `dynamodbav:"subtotal" json:"subtotal"`
	Tax           float64     `dynamodbav:"tax" json:"tax"`
	Discount      float64     `dynamodbav:"discount" json:"discount"`
	Total         float64     `dynamodbav:"total" json:"total"`
	PaymentStatus string      `dynamodbav:"payment_status" json:"paymentStatus"`
	PaymentMethod string      `dynamodbav:"payment_method,omitempty" json:"paymentMethod,omitempty"`
	Notes         string      `dynamodbav:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time   `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `dynamodbav:"updated_at" json:"updatedAt"`
}

// Address is the optional postal address embedded in a customer record.
type Address struct {
	Street  string `dynamodbav:"street,omitempty" json:"street,omitempty"`
	City    string `dynamodbav:"city,omitempty" json:"city,omitempty"`
	State   string `dynamodbav:"state,omitempty" json:"state,omitempty"`
	ZipCode string `dynamodbav:"zip_code,omitempty" json:"zipCode,omitempty"`
}

// Customer carries contact details plus counters accrued at order creation.
// The counters only ever go up; cancellation does not reverse them.
type Customer struct {
	CustomerID    string    `dynamodbav:"customer_id" json:"id"` // PK
	FirstName     string    `dynamodbav:"first_name" json:"firstName"`
	LastName      string    `dynamodbav:"last_name" json:"lastName"`
	Email         string    `dynamodbav:"email" json:"email"`
	Phone         string    `dynamodbav:"phone" json:"phone"`
	Address       *Address  `dynamodbav:"address,omitempty" json:"address,omitempty"`
	LoyaltyPoints int       `dynamodbav:"loyalty_points" json:"loyaltyPoints"`
	TotalOrders   int       `dynamodbav:"total_orders" json:"totalOrders"`
	TotalSpent    float64   `dynamodbav:"total_spent" json:"totalSpent"`
	Preferences   []string  `dynamodbav:"preferences,omitempty" json:"preferences,omitempty"`
	Allergies     []string  `dynamodbav:"allergies,omitempty" json:"allergies,omitempty"`
	CreatedAt     time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}

// NutritionalInfo is optional per-item nutrition data.
type NutritionalInfo struct {
	Calories float64 `dynamodbav:"calories,omitempty" json:"calories,omitempty"`
	Protein  float64 `dynamodbav:"protein,omitempty" json:"protein,omitempty"`
	Carbs    float64 `dynamodbav:"carbs,omitempty" json:"carbs,omitempty"`
	Fat      float64 `dynamodbav:"fat,omitempty" json:"fat,omitempty"`
}

// MenuItem is one catalog entry.
type MenuItem struct {
	MenuItemID      string           `dynamodbav:"menu_item_id" json:"id"` // PK
	Name            string           `dynamodbav:"name" json:"name"`
	Description     string           `dynamodbav:"description" json:"description"`
	Category        string           `dynamodbav:"category" json:"category"`
	Price           float64          `dynamodbav:"price" json:"price"`
	ImageURL        string           `dynamodbav:"image_url,omitempty" json:"imageUrl,omitempty"`
	Available       bool             `dynamodbav:"available" json:"available"`
	PreparationTime int              `dynamodbav:"preparation_time" json:"preparationTime"` // minutes
	Ingredients     []string         `dynamodbav:"ingredients,omitempty" json:"ingredients,omitempty"`
	Allergens       []string         `dynamodbav:"allergens,omitempty" json:"allergens,omitempty"`
	NutritionalInfo *NutritionalInfo `dynamodbav:"nutritional_info,omitempty" json:"nutritionalInfo,omitempty"`
	CreatedAt       time.Time        `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `dynamodbav:"updated_at" json:"updatedAt"`
}

// Table is a physical table. CurrentOrderID is a back-reference to the order
// occupying it, never traversed the other way for ownership.
type Table struct {
	TableID        string    `dynamodbav:"table_id" json:"id"` // PK
	TableNumber    int       `dynamodbav:"table_number" json:"tableNumber"`
	Capacity       int       `dynamodbav:"capacity" json:"capacity"`
	Status         string    `dynamodbav:"status" json:"status"`
	CurrentOrderID string    `dynamodbav:"current_order_id,omitempty" json:"currentOrderId,omitempty"`
	Location       string    `dynamodbav:"location" json:"location"`
	CreatedAt      time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}

// Reservation is a customer's claim on a table for a specific date/time.
type Reservation struct {
	ReservationID   string    `dynamodbav:"reservation_id" json:"id"` // PK
	CustomerID      string    `dynamodbav:"customer_id" json:"customerId"`
	TableID         string    `dynamodbav:"table_id" json:"tableId"`
	ReservationDate time.Time `dynamodbav:"reservation_date" json:"reservationDate"`
	NumberOfGuests  int       `dynamodbav:"number_of_guests" json:"numberOfGuests"`
	Status          string    `dynamodbav:"status" json:"status"`
	SpecialRequests string    `dynamodbav:"special_requests,omitempty" json:"specialRequests,omitempty"`
	CreatedAt       time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}

// InventoryItem is one stock record.
type InventoryItem struct {
	ItemID        string     `dynamodbav:"item_id" json:"id"` // PK
	ItemName      string     `dynamodbav:"item_name" json:"itemName"`
	Category      string     `dynamodbav:"category" json:"category"`
	Quantity      float64    `dynamodbav:"quantity" json:"quantity"`
	Unit          string     `dynamodbav:"unit" json:"unit"`
	ReorderLevel  float64    `dynamodbav:"reorder_level" json:"reorderLevel"`
	Supplier      string     `dynamodbav:"supplier" json:"supplier"`
	CostPerUnit   float64    `dynamodbav:"cost_per_unit" json:"costPerUnit"`
	LastRestocked time.Time  `dynamodbav:"last_restocked" json:"lastRestocked"`
	ExpiryDate    *time.Time `dynamodbav:"expiry_date,omitempty" json:"expiryDate,omitempty"`
	CreatedAt     time.Time  `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `dynamodbav:"updated_at" json:"updatedAt"`
}

// User is a staff account. The password hash never leaves the API.
type User struct {
	UserID       string    `dynamodbav:"user_id" json:"id"` // PK
	Username     string    `dynamodbav:"username" json:"username"`
	Email        string    `dynamodbav:"email" json:"email"`
	PasswordHash string    `dynamodbav:"password_hash" json:"-"`
	FirstName    string    `dynamodbav:"first_name" json:"firstName"`
	LastName     string    `dynamodbav:"last_name" json:"lastName"`
	Role         string    `dynamodbav:"role" json:"role"`
	Active       bool      `dynamodbav:"active" json:"active"`
	CreatedAt    time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}
