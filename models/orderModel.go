package models

import "gorm.io/gorm"

// Order lifecycle. Status moves pending -> payment_confirmed; payment status
// moves pending -> confirming -> paid | failed. The confirming state is the
// idempotency gate for payment confirmation.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "payment_confirmed"
	// Set by the admin dashboard once the order has been delivered.
	OrderStatusCompleted = "completed"

	PaymentStatusPending    = "pending"
	PaymentStatusConfirming = "confirming"
	PaymentStatusPaid       = "paid"
	PaymentStatusFailed     = "failed"
)

type Order struct {
	gorm.Model
	UserID           int         `json:"userId"`
	Status           string      `json:"status"`
	PaymentStatus    string      `json:"paymentStatus"`
	OrderReference   string      `json:"orderReference" gorm:"uniqueIndex"`
	TotalAmount      int         `json:"totalAmount"`
	CustomerName     string      `json:"customerName"`
	CustomerEmail    string      `json:"customerEmail"`
	CustomerPhone    string      `json:"customerPhone"`
	ShippingAddress  string      `json:"shippingAddress"`
	ShippingPostcode string      `json:"shippingPostcode"`
	PaymentMethod    string      `json:"paymentMethod"`
	PaymentKey       string      `json:"paymentKey"`
	ReceiptNumber    string      `json:"receiptNumber"`
	OrderItems       []OrderItem `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	gorm.Model
	OrderID   int `json:"orderId"`
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
	// Price is the effective unit price at order time, frozen on creation.
	Price   int     `json:"price"`
	Product Product `json:"product" gorm:"foreignKey:ProductID"`
}
