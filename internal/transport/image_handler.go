package transport

import (
	"errors"
	"net/http"
	"strconv"

	"shopcore/internal/middleware"
	"shopcore/internal/repository"
	"shopcore/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadMemory caps the in-memory portion of multipart parsing (32 MiB)
const maxUploadMemory = 32 << 20

// ImageHandler handles HTTP requests for image uploads
type ImageHandler struct {
	imageService service.ImageService
	logger       *zap.Logger
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(imageService service.ImageService, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		logger:       logger,
	}
}

// RegisterRoutes registers the upload routes behind the given rate limiter
func (h *ImageHandler) RegisterRoutes(r chi.Router, rateLimiter func(http.Handler) http.Handler) {
	r.Route("/upload-image", func(r chi.Router) {
		if rateLimiter != nil {
			r.Use(rateLimiter)
		}
		r.Post("/single", h.UploadSingle)
		r.Post("/multiple", h.UploadMultiple)
	})
}

// UploadSingle handles a single-file upload
func (h *ImageHandler) UploadSingle(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, false)
}

// UploadMultiple handles a multi-file upload
func (h *ImageHandler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, true)
}

func (h *ImageHandler) upload(w http.ResponseWriter, r *http.Request, multiple bool) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	owner, err := parseOwnerRef(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	headers := r.MultipartForm.File["file"]
	if multiple {
		headers = append(headers, r.MultipartForm.File["files"]...)
	}
	if len(headers) == 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "no file provided")
		return
	}
	if !multiple && len(headers) > 1 {
		middleware.RespondWithError(w, http.StatusBadRequest, "single upload accepts exactly one file")
		return
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		defer f.Close()

		files = append(files, service.UploadFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      f,
		})
	}

	images, err := h.imageService.Upload(r.Context(), files, owner)
	if err != nil {
		h.respondUploadError(w, err)
		return
	}

	h.logger.Info("Images uploaded", zap.Int("count", len(images)))

	if multiple {
		middleware.RespondWithJSON(w, http.StatusCreated, images)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, images[0])
}

// respondUploadError maps upload errors onto the taxonomy: owner and content
// type problems are 400, missing owners 404, host failures 502.
func (h *ImageHandler) respondUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrOwnerRequired), errors.Is(err, service.ErrMultipleOwners), errors.Is(err, service.ErrNotAnImage):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrUserNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
	case errors.Is(err, service.ErrUploadFailed):
		h.logger.Error("Image host upload failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, err.Error())
	default:
		h.logger.Error("Image upload failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to upload image")
	}
}

func parseOwnerRef(r *http.Request) (service.OwnerRef, error) {
	owner := service.OwnerRef{}

	parse := func(name string) (*int64, error) {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return nil, nil
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("invalid " + name)
		}
		return &id, nil
	}

	var err error
	if owner.UserID, err = parse("user_id"); err != nil {
		return owner, err
	}
	if owner.ProductID, err = parse("product_id"); err != nil {
		return owner, err
	}
	if owner.CategoryID, err = parse("category_id"); err != nil {
		return owner, err
	}

	return owner, nil
}
