package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/catalog"
)

type CatalogStore interface {
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	GetCategory(ctx context.Context, slug string) (catalog.Category, error)
	CreateCategory(ctx context.Context, in catalog.CategoryInput) (catalog.Category, error)
	UpdateCategory(ctx context.Context, slug, name string) (catalog.Category, error)
	DeleteCategory(ctx context.Context, slug string) error
	ListProducts(ctx context.Context, f catalog.ProductFilter) ([]catalog.Product, error)
	GetProduct(ctx context.Context, slug string) (catalog.Product, error)
	CreateProduct(ctx context.Context, in catalog.ProductInput) (catalog.Product, error)
	UpdateProduct(ctx context.Context, slug string, in catalog.ProductInput) (catalog.Product, error)
	DeleteProduct(ctx context.Context, slug string) error
}

type CatalogHandler struct {
	Store CatalogStore
	Log   *zap.Logger
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Store.ListCategories(r.Context())
	if err != nil {
		h.Log.Error("list categories", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *CatalogHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.GetCategory(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	c, err := h.Store.CreateCategory(r.Context(), in)
	if errors.Is(err, catalog.ErrDuplicate) {
		writeError(w, http.StatusBadRequest, "category already exists")
		return
	}
	if err != nil {
		h.Log.Error("create category", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	c, err := h.Store.UpdateCategory(r.Context(), chi.URLParam(r, "slug"), in.Name)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, catalog.ErrDuplicate):
		writeError(w, http.StatusBadRequest, "category already exists")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "update failed")
	default:
		writeJSON(w, http.StatusOK, c)
	}
}

func (h *CatalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteCategory(r.Context(), chi.URLParam(r, "slug"))
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, catalog.ErrProductInUse):
		writeError(w, http.StatusBadRequest, "category has products referenced by orders")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "delete failed")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.ProductFilter{
		CategorySlug: q.Get("category"),
		Search:       q.Get("search"),
		Ordering:     q.Get("ordering"),
	}
	if v := q.Get("stock_gte"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid stock_gte")
			return
		}
		f.StockGTE = &n
	}
	if v := q.Get("limit"); v != "" {
		f.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		f.Offset, _ = strconv.Atoi(v)
	}

	ps, err := h.Store.ListProducts(r.Context(), f)
	if err != nil {
		h.Log.Error("list products", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetProduct(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Name == "" || in.CategorySlug == "" {
		writeError(w, http.StatusBadRequest, "name and category_slug required")
		return
	}
	if in.PriceCents < 0 || in.Stock < 0 {
		writeError(w, http.StatusBadRequest, "price_cents and stock must be non-negative")
		return
	}
	p, err := h.Store.CreateProduct(r.Context(), in)
	switch {
	// only the category lookup can miss here
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusBadRequest, "Invalid category_slug")
	case errors.Is(err, catalog.ErrDuplicate):
		writeError(w, http.StatusBadRequest, "product already exists")
	case err != nil:
		h.Log.Error("create product", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "create failed")
	default:
		writeJSON(w, http.StatusCreated, p)
	}
}

func (h *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Name == "" || in.CategorySlug == "" {
		writeError(w, http.StatusBadRequest, "name and category_slug required")
		return
	}
	p, err := h.Store.UpdateProduct(r.Context(), chi.URLParam(r, "slug"), in)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "update failed")
	default:
		writeJSON(w, http.StatusOK, p)
	}
}

func (h *CatalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteProduct(r.Context(), chi.URLParam(r, "slug"))
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, catalog.ErrProductInUse):
		writeError(w, http.StatusBadRequest, "product is referenced by order history")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "delete failed")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
