package domain

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

// Order status constants.
const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderListing is the listing summary embedded in an order.
type OrderListing struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url,omitempty"`
}

// OrderUser is the buyer or seller summary embedded in an order.
type OrderUser struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ShippingAddress is a postal address attached to an order.
type ShippingAddress struct {
	Name    string `json:"name"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Order is created by checkout and advanced by seller and buyer actions.
type Order struct {
	ID              int64            `json:"id"`
	OrderNumber     string           `json:"order_number"`
	Listing         OrderListing     `json:"listing"`
	Buyer           OrderUser        `json:"buyer"`
	Seller          OrderUser        `json:"seller"`
	Total           string           `json:"total"`
	Status          OrderStatus      `json:"status"`
	StatusDisplay   string           `json:"status_display"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
	TrackingNumber  *string          `json:"tracking_number,omitempty"`
	TrackingCarrier *string          `json:"tracking_carrier,omitempty"`
	Created         *Timestamp       `json:"created,omitempty"`
	PaidAt          *Timestamp       `json:"paid_at,omitempty"`
	ShippedAt       *Timestamp       `json:"shipped_at,omitempty"`
	DeliveredAt     *Timestamp       `json:"delivered_at,omitempty"`
}

// Reviewable reports whether the buyer may leave a review.
func (o *Order) Reviewable() bool {
	return o.Status == OrderDelivered || o.Status == OrderCompleted
}

// ShipRequest is the body for marking an order shipped.
type ShipRequest struct {
	TrackingNumber  string `json:"tracking_number"  validate:"required,max=100"`
	TrackingCarrier string `json:"tracking_carrier" validate:"required,max=50"`
}

// ReviewRequest is the body for reviewing a completed order.
type ReviewRequest struct {
	Rating  int    `json:"rating"            validate:"min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"max=2000"`
}

// Review is a buyer's one-time review of a completed order.
type Review struct {
	ID       int64      `json:"id"`
	Rating   int        `json:"rating"`
	Comment  string     `json:"comment,omitempty"`
	Reviewer string     `json:"reviewer"`
	Created  *Timestamp `json:"created,omitempty"`
}

// CheckoutResult is the pending order created by reserving a listing.
type CheckoutResult struct {
	OrderID  int64  `json:"order_id"`
	Total    string `json:"total"`
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Fee      string `json:"fee"`
	Status   string `json:"status"`
}

// CheckoutRequest is the optional body for reserving a listing.
type CheckoutRequest struct {
	ShippingAddressID *int64 `json:"shipping_address_id,omitempty"`
}

// PaymentIntentRequest asks for an intent against a pending order.
type PaymentIntentRequest struct {
	OrderID         int64  `json:"order_id"                    validate:"required,gt=0"`
	PaymentMethodID string `json:"payment_method_id,omitempty"`
}

// PaymentConfirmRequest reports a processor-confirmed intent.
type PaymentConfirmRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

// PaymentIntent is the processor intent created for a pending order.
// Amount is in minor currency units.
type PaymentIntent struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

// PaymentConfirmation is the marketplace's view of a confirmed intent.
type PaymentConfirmation struct {
	Success bool   `json:"success"`
	OrderID *int64 `json:"order_id,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
