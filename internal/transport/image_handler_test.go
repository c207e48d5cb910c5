package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"shopcore/internal/domain"
	"shopcore/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newImageTestRouter(t *testing.T) (chi.Router, *fakeImageRepo, *fakeUploader) {
	t.Helper()

	categoryRepo := newFakeCategoryRepo()
	productRepo := newFakeProductRepo(categoryRepo)
	userRepo := newFakeUserRepo()
	imageRepo := &fakeImageRepo{}
	uploader := &fakeUploader{}

	if err := userRepo.Create(context.Background(), &domain.User{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Phone: "+1000000", PasswordHash: "x", IsActive: true, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	imageService := service.NewImageService(imageRepo, userRepo, productRepo, categoryRepo, uploader)
	handler := NewImageHandler(imageService, zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router, nil)
	return router, imageRepo, uploader
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for filename, contentType := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create multipart part: %v", err)
		}
		part.Write([]byte("fake image bytes"))
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadSingle_PersistsImageForUser(t *testing.T) {
	router, imageRepo, uploader := newImageTestRouter(t)

	body, contentType := multipartBody(t, "file", map[string]string{"avatar.png": "image/png"})
	req := httptest.NewRequest("POST", "/upload-image/single?user_id=1", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var image domain.Image
	if err := json.Unmarshal(w.Body.Bytes(), &image); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if image.URL == "" || image.PublicID == "" {
		t.Fatalf("response missing url or public id: %+v", image)
	}
	if image.UserID == nil || *image.UserID != 1 {
		t.Fatalf("image has wrong owner: %+v", image)
	}
	if !strings.HasPrefix(image.PublicID, "users/1/") {
		t.Fatalf("expected public id under users/1/, got %q", image.PublicID)
	}
	if len(imageRepo.images) != 1 || len(uploader.uploads) != 1 {
		t.Fatalf("expected one record and one host upload, got %d and %d", len(imageRepo.images), len(uploader.uploads))
	}
}

func TestUploadMultiple_ReturnsAllRecords(t *testing.T) {
	router, imageRepo, _ := newImageTestRouter(t)

	body, contentType := multipartBody(t, "files", map[string]string{
		"a.png": "image/png",
		"b.jpg": "image/jpeg",
	})
	req := httptest.NewRequest("POST", "/upload-image/multiple?user_id=1", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var images []domain.Image
	if err := json.Unmarshal(w.Body.Bytes(), &images); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(images) != 2 || len(imageRepo.images) != 2 {
		t.Fatalf("expected 2 image records, got %d returned, %d stored", len(images), len(imageRepo.images))
	}
}

func TestUpload_OwnerExclusivityOverHTTP(t *testing.T) {
	router, _, uploader := newImageTestRouter(t)

	cases := []struct {
		name  string
		query string
	}{
		{"no owner", ""},
		{"two owners", "?user_id=1&category_id=2"},
	}

	for _, tc := range cases {
		body, contentType := multipartBody(t, "file", map[string]string{"a.png": "image/png"})
		req := httptest.NewRequest("POST", "/upload-image/single"+tc.query, body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, w.Code)
		}
	}

	if len(uploader.uploads) != 0 {
		t.Fatalf("expected no host uploads for rejected requests, got %d", len(uploader.uploads))
	}
}

func TestUpload_MissingOwnerIs404(t *testing.T) {
	router, _, _ := newImageTestRouter(t)

	body, contentType := multipartBody(t, "file", map[string]string{"a.png": "image/png"})
	req := httptest.NewRequest("POST", "/upload-image/single?user_id=999", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing owner, got %d", w.Code)
	}
}

func TestUpload_NonImageContentTypeOverHTTP(t *testing.T) {
	router, imageRepo, uploader := newImageTestRouter(t)

	body, contentType := multipartBody(t, "file", map[string]string{"notes.pdf": "application/pdf"})
	req := httptest.NewRequest("POST", "/upload-image/single?user_id=1", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-image file, got %d: %s", w.Code, w.Body.String())
	}
	if len(uploader.uploads) != 0 || len(imageRepo.images) != 0 {
		t.Fatalf("rejected upload reached the host or the database")
	}
}

func TestUpload_NoFileProvided(t *testing.T) {
	router, _, _ := newImageTestRouter(t)

	body, contentType := multipartBody(t, "unrelated", map[string]string{"a.png": "image/png"})
	req := httptest.NewRequest("POST", "/upload-image/single?user_id=1", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when no file field is present, got %d", w.Code)
	}
}
