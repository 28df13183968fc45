package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vasiliy-maslov/storefront/internal/apperr"
	"github.com/vasiliy-maslov/storefront/internal/checkout"
	"github.com/vasiliy-maslov/storefront/internal/order"
)

// CartItemRequest is one untrusted cart entry. Any price or name the
// client sends is not decoded.
type CartItemRequest struct {
	ID       json.Number `json:"id" validate:"required"`
	Quantity int         `json:"quantity"`
}

type CheckoutRequest struct {
	CartItems []CartItemRequest `json:"cartItems" validate:"required,min=1,dive"`
}

type CheckoutResponse struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

type CustomerRequest struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

type ConfirmOrderRequest struct {
	SessionID string          `json:"sessionId"`
	Customer  CustomerRequest `json:"customer"`
}

type CheckoutHandler struct {
	errorResponder
	service  checkout.Service
	validate *validator.Validate
}

func NewCheckoutHandler(service checkout.Service, exposeErrorDetail bool) *CheckoutHandler {
	return &CheckoutHandler{
		errorResponder: errorResponder{exposeDetail: exposeErrorDetail},
		service:        service,
		validate:       validator.New(),
	}
}

func (h *CheckoutHandler) RegisterRoutes(router chi.Router) {
	router.Post("/create-checkout-session", h.handleCreateCheckoutSession)
	router.Post("/api/orders/confirm", h.handleConfirmOrder)
}

func (h *CheckoutHandler) handleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondWithServiceError(w, r, apperr.Validation("cartItems must be a non-empty list of {id, quantity}"))
		return
	}

	cart := make([]order.Line, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		id, err := strconv.ParseInt(item.ID.String(), 10, 64)
		if err != nil {
			h.respondWithServiceError(w, r, apperr.Validation("product id %q is not an integer", item.ID.String()))
			return
		}
		cart = append(cart, order.Line{ProductID: id, Quantity: item.Quantity})
	}

	session, err := h.service.CreateSession(r.Context(), cart)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, CheckoutResponse{ID: session.ID, URL: session.URL})
}

func (h *CheckoutHandler) handleConfirmOrder(w http.ResponseWriter, r *http.Request) {
	var req ConfirmOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	created, err := h.service.Confirm(r.Context(), req.SessionID, order.Customer{
		FullName:     req.Customer.FullName,
		Email:        req.Customer.Email,
		Phone:        req.Customer.Phone,
		AddressLine1: req.Customer.AddressLine1,
		AddressLine2: req.Customer.AddressLine2,
		City:         req.Customer.City,
		PostalCode:   req.Customer.PostalCode,
		Country:      req.Customer.Country,
	})
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newOrderResponse(*created))
}
