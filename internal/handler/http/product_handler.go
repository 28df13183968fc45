package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/vasiliy-maslov/storefront/internal/auth"
	"github.com/vasiliy-maslov/storefront/internal/product"
)

type CreateProductRequest struct {
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
	// Both spellings are accepted; imageUrl wins when both are set.
	ImageURL      string `json:"imageUrl"`
	ImageURLSnake string `json:"image_url"`
}

type ProductResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	ImageURL  *string     `json:"imageUrl"`
	CreatedAt time.Time   `json:"createdAt"`
}

func newProductResponse(p product.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     json.Number(p.Price.String()),
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}

type ProductHandler struct {
	errorResponder
	service  product.Service
	sessions *auth.Manager
}

func NewProductHandler(service product.Service, sessions *auth.Manager, exposeErrorDetail bool) *ProductHandler {
	return &ProductHandler{
		errorResponder: errorResponder{exposeDetail: exposeErrorDetail},
		service:        service,
		sessions:       sessions,
	}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Get("/api/products", h.handleListProducts)
	router.Post("/api/products", requireAdmin(h.sessions, h.handleCreateProduct))
	router.Delete("/api/products/{id}", requireAdmin(h.sessions, h.handleDeleteProduct))
}

func (h *ProductHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	response := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, newProductResponse(p))
	}
	respondWithJSON(w, http.StatusOK, response)
}

func (h *ProductHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request, _ *auth.Session) {
	var req CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = req.ImageURLSnake
	}

	created, err := h.service.Create(r.Context(), product.CreateInput{
		Name:     req.Name,
		Price:    req.Price.String(),
		ImageURL: imageURL,
	})
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, newProductResponse(*created))
}

func (h *ProductHandler) handleDeleteProduct(w http.ResponseWriter, r *http.Request, _ *auth.Session) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		// Non-integer ids can never match a product.
		hlog.FromRequest(r).Warn().Str("product_id", idParam).Msg("Non-integer product id")
		respondWithError(w, http.StatusNotFound, product.ErrNotFound.Error())
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
