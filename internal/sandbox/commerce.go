package sandbox

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/labstack/echo/v4"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

// OrdersHandler serves checkout, payment and order fulfilment.
type OrdersHandler struct {
	market *Market
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(m *Market) *OrdersHandler {
	return &OrdersHandler{market: m}
}

// CheckoutInput reserves a listing.
type CheckoutInput struct {
	IDInput
	IdempotencyKey string                 `header:"Idempotency-Key" doc:"Repeating a key returns the original order"`
	Body           domain.CheckoutRequest `required:"false"`
}

// PaymentIntentInput asks for a payment intent.
type PaymentIntentInput struct {
	Body domain.PaymentIntentRequest
}

// PaymentConfirmInput reports a confirmed intent.
type PaymentConfirmInput struct {
	Body domain.PaymentConfirmRequest
}

// ListOrdersInput selects purchases or sales.
type ListOrdersInput struct {
	PageInput
	Type string `query:"type" enum:"bought,sold" default:"bought" doc:"Purchases or sales"`
}

// ShipInput adds tracking to an order.
type ShipInput struct {
	IDInput
	Body domain.ShipRequest
}

// ReviewInput reviews a completed order.
type ReviewInput struct {
	IDInput
	Body domain.ReviewRequest
}

func (h *OrdersHandler) Checkout(ctx context.Context, in *CheckoutInput) (*body[domain.CheckoutResult], error) {
	return respond(h.market.Checkout(viewer(ctx), in.ID, in.IdempotencyKey))
}

func (h *OrdersHandler) PaymentIntent(ctx context.Context, in *PaymentIntentInput) (*body[domain.PaymentIntent], error) {
	return respond(h.market.CreatePaymentIntent(viewer(ctx), in.Body))
}

func (h *OrdersHandler) ConfirmPayment(
	ctx context.Context,
	in *PaymentConfirmInput,
) (*body[domain.PaymentConfirmation], error) {
	return respond(h.market.ConfirmPayment(viewer(ctx), in.Body.PaymentIntentID))
}

func (h *OrdersHandler) List(ctx context.Context, in *ListOrdersInput) (*body[domain.Page[domain.Order]], error) {
	return respond(h.market.Orders(viewer(ctx), in.Type, in.Page))
}

func (h *OrdersHandler) Get(ctx context.Context, in *IDInput) (*body[domain.Order], error) {
	return respond(h.market.Order(viewer(ctx), in.ID))
}

func (h *OrdersHandler) Ship(ctx context.Context, in *ShipInput) (*body[domain.Order], error) {
	return respond(h.market.MarkShipped(viewer(ctx), in.ID, in.Body))
}

func (h *OrdersHandler) Received(ctx context.Context, in *IDInput) (*body[domain.Order], error) {
	return respond(h.market.MarkReceived(viewer(ctx), in.ID))
}

func (h *OrdersHandler) Review(ctx context.Context, in *ReviewInput) (*body[domain.Review], error) {
	return respond(h.market.LeaveReview(viewer(ctx), in.ID, in.Body))
}

// RegisterOrderRoutes registers checkout, payment and order endpoints.
func RegisterOrderRoutes(api huma.API, h *OrdersHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "checkout",
		Method:        http.MethodPost,
		Path:          "/api/v1/marketplace/checkout/{id}/",
		Summary:       "Reserve a listing",
		Description:   "Reserves the listing for the caller and opens a pending order.",
		Tags:          []string{"checkout"},
		Security:      authenticated,
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict},
	}, h.Checkout)

	huma.Register(api, huma.Operation{
		OperationID: "payment-intent",
		Method:      http.MethodPost,
		Path:        "/api/v1/marketplace/payment/intent/",
		Summary:     "Create a payment intent",
		Tags:        []string{"checkout"},
		Security:    authenticated,
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.PaymentIntent)

	huma.Register(api, huma.Operation{
		OperationID: "payment-confirm",
		Method:      http.MethodPost,
		Path:        "/api/v1/marketplace/payment/confirm/",
		Summary:     "Confirm a payment",
		Tags:        []string{"checkout"},
		Security:    authenticated,
		Errors:      []int{http.StatusNotFound},
	}, h.ConfirmPayment)

	huma.Register(api, huma.Operation{
		OperationID: "list-orders",
		Method:      http.MethodGet,
		Path:        "/api/v1/marketplace/orders/",
		Summary:     "My orders",
		Tags:        []string{"orders"},
		Security:    authenticated,
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-order",
		Method:      http.MethodGet,
		Path:        "/api/v1/marketplace/orders/{id}/",
		Summary:     "Order detail",
		Tags:        []string{"orders"},
		Security:    authenticated,
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "ship-order",
		Method:      http.MethodPost,
		Path:        "/api/v1/marketplace/orders/{id}/ship/",
		Summary:     "Mark shipped",
		Tags:        []string{"orders"},
		Security:    authenticated,
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, h.Ship)

	huma.Register(api, huma.Operation{
		OperationID: "order-received",
		Method:      http.MethodPost,
		Path:        "/api/v1/marketplace/orders/{id}/received/",
		Summary:     "Mark received",
		Tags:        []string{"orders"},
		Security:    authenticated,
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, h.Received)

	huma.Register(api, huma.Operation{
		OperationID:   "review-order",
		Method:        http.MethodPost,
		Path:          "/api/v1/marketplace/orders/{id}/review/",
		Summary:       "Review a completed order",
		Tags:          []string{"orders"},
		Security:      authenticated,
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, h.Review)
}

// CollectionsHandler serves collection listing, export and import.
type CollectionsHandler struct {
	market *Market
}

// NewCollectionsHandler creates a new CollectionsHandler.
func NewCollectionsHandler(m *Market) *CollectionsHandler {
	return &CollectionsHandler{market: m}
}

// ExportInput selects a collection and format.
type ExportInput struct {
	IDInput
	Format string `query:"export_format" enum:"json,csv" default:"json"`
}

// ExportOutput is a raw collection export.
type ExportOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func (h *CollectionsHandler) Mine(ctx context.Context, in *PageInput) (*body[domain.Page[domain.Collection]], error) {
	return respond(h.market.MyCollections(viewer(ctx), in.Page))
}

func (h *CollectionsHandler) Export(ctx context.Context, in *ExportInput) (*ExportOutput, error) {
	data, contentType, err := h.market.ExportCollection(viewer(ctx), in.ID, in.Format)
	if err != nil {
		return nil, err
	}
	return &ExportOutput{ContentType: contentType, Body: data}, nil
}

// Import handles POST /api/v1/collections/import/ as a multipart upload
// with a "file" part and an optional "name" field.
func (h *CollectionsHandler) Import(c echo.Context) error {
	userID, err := h.market.Authenticate(c.Request().Header.Get("Authorization"))
	if err != nil {
		return writeProblem(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return writeProblem(c, huma.Error400BadRequest("A file is required."))
	}
	f, err := fh.Open()
	if err != nil {
		return writeProblem(c, huma.Error400BadRequest("Unreadable upload."))
	}
	defer f.Close()

	res, err := h.market.ImportCollection(userID, fh.Filename, f, c.FormValue("name"))
	if err != nil {
		return writeProblem(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// RegisterCollectionRoutes registers collection endpoints. The multipart
// import is served by Echo directly.
func RegisterCollectionRoutes(api huma.API, h *CollectionsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "my-collections",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/mine/",
		Summary:     "My collections",
		Tags:        []string{"collections"},
		Security:    authenticated,
	}, h.Mine)

	huma.Register(api, huma.Operation{
		OperationID: "export-collection",
		Method:      http.MethodGet,
		Path:        "/api/v1/collections/{id}/export/",
		Summary:     "Export a collection",
		Tags:        []string{"collections"},
		Errors:      []int{http.StatusNotFound},
	}, h.Export)
}

// writeProblem renders err as the same problem body huma uses.
func writeProblem(c echo.Context, err error) error {
	var se huma.StatusError
	if !errors.As(err, &se) {
		se = huma.Error500InternalServerError("internal server error")
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
	return c.JSON(se.GetStatus(), se)
}
