package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type ProductHandler struct {
	render  *render.Render
	catalog repositories.ProductRepositoryImpl
	logger  *zap.Logger
}

func NewProductHandler(r *render.Render, catalog repositories.ProductRepositoryImpl, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{render: r, catalog: catalog, logger: logger}
}

// List serves the products page: ?category=&q=&min=&max=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("q"),
	}

	var err error
	if filter.MinPrice, err = parsePrice(q.Get("min")); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "min must be a number"})
		return
	}
	if filter.MaxPrice, err = parsePrice(q.Get("max")); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "max must be a number"})
		return
	}

	products, err := h.catalog.Filter(r.Context(), filter)
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{"products": products, "count": len(products)})
}

func parsePrice(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Get looks a product up by id, then by slug.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["id"]
	product, err := h.catalog.GetByID(r.Context(), key)
	if errors.Is(err, repositories.ErrProductNotFound) {
		product, err = h.catalog.GetBySlug(r.Context(), key)
	}
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{"product": product})
}

func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetFeaturedProducts(r.Context())
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *ProductHandler) Trending(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetTrendingProducts(r.Context())
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.GetCategories(r.Context())
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	products, err := h.catalog.SearchProducts(r.Context(), keyword)
	if err != nil {
		respondError(h.render, h.logger, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]any{
		"query":    strings.TrimSpace(keyword),
		"products": products,
		"count":    len(products),
	})
}
