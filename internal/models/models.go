package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money and quantities are emitted as JSON numbers, matching the public API.
	decimal.MarshalJSONWithoutQuotes = true
}

type TableStatus string

const (
	TableAvailable TableStatus = "AVAILABLE"
	TableOccupied  TableStatus = "OCCUPIED"
	TableReserved  TableStatus = "RESERVED"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved:
		return true
	}
	return false
}

type Table struct {
	ID          int64       `json:"id"`
	TableNumber int32       `json:"tableNumber"`
	Capacity    int32       `json:"capacity"`
	Status      TableStatus `json:"status"`
}

type MenuItem struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	IsAvailable  bool            `json:"isAvailable"`
	ImageURL     *string         `json:"imageUrl"`
	ThumbnailURL *string         `json:"thumbnailUrl"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderServed    OrderStatus = "SERVED"
	OrderCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderServed, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether the order no longer keeps its table session open.
func (s OrderStatus) Terminal() bool {
	return s == OrderServed || s == OrderCancelled
}

type Order struct {
	ID          int64           `json:"id"`
	TableID     int64           `json:"tableId"`
	SessionID   string          `json:"sessionId"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	Items       []OrderItem     `json:"items"`
}

// OrderItem carries the menu name and price captured when the line was added.
type OrderItem struct {
	ID                  int64           `json:"id"`
	OrderID             int64           `json:"orderId"`
	MenuItemID          int64           `json:"menuItemId"`
	MenuItemName        string          `json:"menuItemName"`
	Quantity            int32           `json:"quantity"`
	ItemPrice           decimal.Decimal `json:"itemPrice"`
	SpecialInstructions *string         `json:"specialInstructions"`
}

// LineTotal is the snapshotted price multiplied by quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.ItemPrice.Mul(decimal.NewFromInt32(i.Quantity))
}

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentWallet     PaymentMethod = "WALLET"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentWallet:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Payment struct {
	ID                   int64           `json:"id"`
	OrderID              int64           `json:"orderId"`
	Amount               decimal.Decimal `json:"amount"`
	PaymentMethod        PaymentMethod   `json:"paymentMethod"`
	PaymentStatus        PaymentStatus   `json:"paymentStatus"`
	TransactionReference *string         `json:"transactionReference"`
	CreatedAt            time.Time       `json:"createdAt"`
}

type TablePaymentSummary struct {
	TableID         int64           `json:"tableId"`
	TableNumber     int32           `json:"tableNumber"`
	SessionID       string          `json:"sessionId"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	Payments        []Payment       `json:"payments"`
	LastPaymentAt   *time.Time      `json:"lastPaymentAt"`
}

type UnitType string

const (
	UnitKilogram   UnitType = "KILOGRAM"
	UnitGram       UnitType = "GRAM"
	UnitLiter      UnitType = "LITER"
	UnitMilliliter UnitType = "MILLILITER"
	UnitPiece      UnitType = "PIECE"
	UnitPacket     UnitType = "PACKET"
	UnitBox        UnitType = "BOX"
)

func (u UnitType) Valid() bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPiece, UnitPacket, UnitBox:
		return true
	}
	return false
}

type StockStatus string

const (
	StockIn  StockStatus = "IN_STOCK"
	StockLow StockStatus = "LOW_STOCK"
	StockOut StockStatus = "OUT_OF_STOCK"
)

type InventoryItem struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitType          UnitType        `json:"unitType"`
	MinimumStockLevel decimal.Decimal `json:"minimumStockLevel"`
	MaximumStockLevel decimal.Decimal `json:"maximumStockLevel"`
	Status            StockStatus     `json:"status"`
	Cost              decimal.Decimal `json:"cost"`
	Supplier          *string         `json:"supplier"`
	Location          *string         `json:"location"`
	LastRestockedAt   *time.Time      `json:"lastRestockedAt"`
}

type TransactionType string

const (
	TransactionStockIn    TransactionType = "STOCK_IN"
	TransactionStockOut   TransactionType = "STOCK_OUT"
	TransactionAdjustment TransactionType = "ADJUSTMENT"
	TransactionWastage    TransactionType = "WASTAGE"
)

type InventoryTransaction struct {
	ID               int64           `json:"id"`
	ItemID           int64           `json:"itemId"`
	Type             TransactionType `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	PreviousQuantity decimal.Decimal `json:"previousQuantity"`
	NewQuantity      decimal.Decimal `json:"newQuantity"`
	Reason           *string         `json:"reason"`
	TransactionDate  time.Time       `json:"transactionDate"`
	UserID           *int64          `json:"userId"`
}

type KitchenStatus string

const (
	KitchenNew           KitchenStatus = "NEW"
	KitchenInPreparation KitchenStatus = "IN_PREPARATION"
	KitchenReadyToServe  KitchenStatus = "READY_TO_SERVE"
	KitchenServed        KitchenStatus = "SERVED"
	KitchenCancelled     KitchenStatus = "CANCELLED"
)

func (s KitchenStatus) Valid() bool {
	switch s {
	case KitchenNew, KitchenInPreparation, KitchenReadyToServe, KitchenServed, KitchenCancelled:
		return true
	}
	return false
}

// ActiveKitchenStatuses are the states shown on the kitchen display.
var ActiveKitchenStatuses = []KitchenStatus{KitchenNew, KitchenInPreparation, KitchenReadyToServe}

type KitchenOrder struct {
	ID                int64              `json:"id"`
	OrderID           int64              `json:"orderId"`
	TableNumber       int32              `json:"tableNumber"`
	Items             []KitchenOrderItem `json:"items"`
	Status            KitchenStatus      `json:"status"`
	Priority          int32              `json:"priority"`
	EstimatedPrepTime *int32             `json:"estimatedPrepTime"`
	StartedAt         *time.Time         `json:"startedAt"`
	CompletedAt       *time.Time         `json:"completedAt"`
}

type KitchenOrderItem struct {
	ID                  int64         `json:"id"`
	KitchenOrderID      int64         `json:"kitchenOrderId"`
	MenuItemName        string        `json:"menuItemName"`
	Quantity            int32         `json:"quantity"`
	SpecialInstructions *string       `json:"specialInstructions"`
	Status              KitchenStatus `json:"status"`
}

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

type Reservation struct {
	ID              int64             `json:"id"`
	CustomerName    string            `json:"customerName"`
	CustomerEmail   string            `json:"customerEmail"`
	CustomerPhone   string            `json:"customerPhone"`
	NumberOfGuests  int32             `json:"numberOfGuests"`
	ReservationDate string            `json:"reservationDate"`
	ReservationTime string            `json:"reservationTime"`
	Status          ReservationStatus `json:"status"`
	SpecialRequests *string           `json:"specialRequests"`
	CreatedAt       time.Time         `json:"createdAt"`
}

type Feedback struct {
	ID             int64     `json:"id"`
	OrderID        int64     `json:"orderId"`
	UserID         *int64    `json:"userId"`
	Rating         int32     `json:"rating"`
	Comment        *string   `json:"comment"`
	FoodQuality    *int32    `json:"foodQuality"`
	ServiceQuality *int32    `json:"serviceQuality"`
	Ambience       *int32    `json:"ambience"`
	Cleanliness    *int32    `json:"cleanliness"`
	IsAnonymous    bool      `json:"isAnonymous"`
	CreatedAt      time.Time `json:"createdAt"`
	Sentiment      string    `json:"sentiment,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
}

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleManager  UserRole = "MANAGER"
	RoleStaff    UserRole = "STAFF"
	RoleCustomer UserRole = "CUSTOMER"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}
