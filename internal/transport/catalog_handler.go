package transport

import (
	"errors"
	"net/http"
	"strconv"

	"shopcore/internal/domain"
	"shopcore/internal/middleware"
	"shopcore/internal/repository"
	"shopcore/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name  string  `json:"name" validate:"required"`
	Image *string `json:"image,omitempty"`
}

// CreateProductRequest represents the product creation payload. Price uses a
// pointer so a missing field is distinguishable from an explicit zero.
type CreateProductRequest struct {
	Name           string        `json:"name" validate:"required"`
	Price          *float64      `json:"price" validate:"required,gte=0"`
	CategoryID     *int64        `json:"category_id,omitempty"`
	CategoryName   *string       `json:"category_name,omitempty"`
	Color          *string       `json:"color,omitempty"`
	Colors         []string      `json:"colors,omitempty"`
	Rating         *float64      `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	ReviewCount    *int          `json:"review_count,omitempty" validate:"omitempty,gte=0"`
	Description    *string       `json:"description,omitempty"`
	Image          *string       `json:"image,omitempty"`
	Features       []string      `json:"features,omitempty"`
	Specifications []domain.Spec `json:"specifications,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	InStock        *bool         `json:"in_stock,omitempty"`
}

// UpdateProductRequest represents a sparse product update; absent fields are
// left untouched.
type UpdateProductRequest struct {
	Name           *string       `json:"name,omitempty"`
	Price          *float64      `json:"price,omitempty" validate:"omitempty,gte=0"`
	CategoryID     *int64        `json:"category_id,omitempty"`
	CategoryName   *string       `json:"category_name,omitempty"`
	Color          *string       `json:"color,omitempty"`
	Colors         []string      `json:"colors,omitempty"`
	Rating         *float64      `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	ReviewCount    *int          `json:"review_count,omitempty" validate:"omitempty,gte=0"`
	Description    *string       `json:"description,omitempty"`
	Image          *string       `json:"image,omitempty"`
	Features       []string      `json:"features,omitempty"`
	Specifications []domain.Spec `json:"specifications,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	InStock        *bool         `json:"in_stock,omitempty"`
}

// CatalogHandler handles HTTP requests for categories and products
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Post("/", h.CreateCategory)
		r.Get("/", h.ListCategories)
		r.Get("/{id}", h.GetCategory)
	})

	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
	})
}

// CreateCategory handles explicit category creation
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), service.CreateCategoryInput{
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		h.respondCatalogError(w, err, "failed to create category")
		return
	}

	h.logger.Info("Category created", zap.Int64("category_id", category.ID), zap.String("name", category.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// ListCategories handles the paginated category listing
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := parsePagination(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	categories, err := h.catalogService.ListCategories(r.Context(), offset, limit)
	if err != nil {
		h.respondCatalogError(w, err, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// GetCategory handles fetching a single category
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := h.catalogService.GetCategory(r.Context(), id)
	if err != nil {
		h.respondCatalogError(w, err, "failed to get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// CreateProduct handles product creation
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), service.CreateProductInput{
		Name:           req.Name,
		Price:          *req.Price,
		CategoryID:     req.CategoryID,
		CategoryName:   req.CategoryName,
		Color:          req.Color,
		Colors:         req.Colors,
		Rating:         req.Rating,
		ReviewCount:    req.ReviewCount,
		Description:    req.Description,
		Image:          req.Image,
		Features:       req.Features,
		Specifications: req.Specifications,
		Tags:           req.Tags,
		InStock:        req.InStock,
	})
	if err != nil {
		h.respondCatalogError(w, err, "failed to create product")
		return
	}

	h.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Int64("category_id", product.CategoryID),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles a sparse product update
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), id, service.UpdateProductInput{
		Name:           req.Name,
		Price:          req.Price,
		CategoryID:     req.CategoryID,
		CategoryName:   req.CategoryName,
		Color:          req.Color,
		Colors:         req.Colors,
		Rating:         req.Rating,
		ReviewCount:    req.ReviewCount,
		Description:    req.Description,
		Image:          req.Image,
		Features:       req.Features,
		Specifications: req.Specifications,
		Tags:           req.Tags,
		InStock:        req.InStock,
	})
	if err != nil {
		h.respondCatalogError(w, err, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.Int64("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// GetProduct handles fetching a single product
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		h.respondCatalogError(w, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListProducts handles the paginated product listing with an optional
// category filter
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := parsePagination(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var categoryID *int64
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category_id filter")
			return
		}
		categoryID = &id
	}

	products, err := h.catalogService.ListProducts(r.Context(), categoryID, offset, limit)
	if err != nil {
		h.respondCatalogError(w, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// respondCatalogError maps service and repository errors onto the error
// taxonomy: validation 400, not found 404, conflict 409, everything else 500.
func (h *CatalogHandler) respondCatalogError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidPrice), errors.Is(err, service.ErrCategoryRequired):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrProductCategoryMissing):
		middleware.RespondWithError(w, http.StatusNotFound, "referenced category does not exist")
	case errors.Is(err, repository.ErrCategoryAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, "category with this name already exists")
	default:
		h.logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// parsePagination reads offset/limit query parameters. Malformed or negative
// values are an error, answered as 400 like the category_id filter; an
// oversized limit is clamped rather than rejected.
func parsePagination(r *http.Request) (offset, limit int, err error) {
	limit = defaultPageLimit

	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, errors.New("invalid offset")
		}
		offset = v
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return 0, 0, errors.New("invalid limit")
		}
		limit = v
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return offset, limit, nil
}
