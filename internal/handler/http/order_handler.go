package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"

	"github.com/vasiliy-maslov/storefront/internal/auth"
	"github.com/vasiliy-maslov/storefront/internal/order"
)

type OrderItemResponse struct {
	ID          uuid.UUID   `json:"id"`
	ProductID   *int64      `json:"productId"`
	ProductName string      `json:"productName"`
	UnitPrice   json.Number `json:"unitPrice"`
	Quantity    int         `json:"quantity"`
}

type OrderResponse struct {
	ID                uuid.UUID           `json:"id"`
	CheckoutSessionID string              `json:"checkoutSessionId"`
	Customer          CustomerRequest     `json:"customer"`
	Subtotal          json.Number         `json:"subtotal"`
	ShippingCost      json.Number         `json:"shippingCost"`
	Total             json.Number         `json:"total"`
	CreatedAt         time.Time           `json:"createdAt"`
	Items             []OrderItemResponse `json:"items"`
}

func newOrderResponse(o order.Order) OrderResponse {
	resp := OrderResponse{
		ID:                o.ID,
		CheckoutSessionID: o.CheckoutSessionID,
		Customer: CustomerRequest{
			FullName:     o.FullName,
			Email:        o.Email,
			Phone:        o.Phone,
			AddressLine1: o.AddressLine1,
			AddressLine2: o.AddressLine2,
			City:         o.City,
			PostalCode:   o.PostalCode,
			Country:      o.Country,
		},
		Subtotal:     json.Number(o.Subtotal.StringFixed(2)),
		ShippingCost: json.Number(o.ShippingCost.StringFixed(2)),
		Total:        json.Number(o.Total.StringFixed(2)),
		CreatedAt:    o.CreatedAt,
		Items:        make([]OrderItemResponse, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   json.Number(item.UnitPrice.String()),
			Quantity:    item.Quantity,
		})
	}
	return resp
}

type OrderHandler struct {
	errorResponder
	service  order.Service
	sessions *auth.Manager
}

func NewOrderHandler(service order.Service, sessions *auth.Manager, exposeErrorDetail bool) *OrderHandler {
	return &OrderHandler{
		errorResponder: errorResponder{exposeDetail: exposeErrorDetail},
		service:        service,
		sessions:       sessions,
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Get("/api/orders", requireAdmin(h.sessions, h.handleListOrders))
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request, _ *auth.Session) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, newOrderResponse(o))
	}
	respondWithJSON(w, http.StatusOK, response)
}
