package models

// OrderStatus is where an order stands. Any status may follow any other.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every known status in display order.
var OrderStatuses = []OrderStatus{StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Order is the orders table. UserID is nil for guest checkouts.
type Order struct {
	Base
	Ref             string      `gorm:"uniqueIndex;not null" json:"ref"`
	UserID          *uint       `gorm:"index" json:"user_id"`
	CustomerName    string      `gorm:"not null" json:"customer_name"`
	CustomerEmail   string      `gorm:"index;not null" json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	ShippingAddress string      `gorm:"type:text" json:"shipping_address"`
	Status          OrderStatus `gorm:"type:varchar(16);index;not null;default:'pending'" json:"status"`
	TotalCents      int         `gorm:"not null" json:"total_cents"`
	Items           []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is one order line; name and price are copied at checkout.
type OrderItem struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrderID        uint   `gorm:"index;not null" json:"order_id"`
	ProductID      uint   `gorm:"index;not null" json:"product_id"`
	ProductName    string `gorm:"not null" json:"product_name"`
	Color          string `json:"color"`
	Size           string `json:"size"`
	Quantity       int    `gorm:"not null" json:"quantity"`
	UnitPriceCents int    `gorm:"not null" json:"unit_price_cents"`
}

// SubtotalCents is quantity times unit price.
func (i OrderItem) SubtotalCents() int { return i.Quantity * i.UnitPriceCents }
