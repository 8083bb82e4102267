// files.go — HTTP handlers каталога файлов: upload, show, index.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/gofilesmanager/internal/api/errors"
	"github.com/bigkaa/gofilesmanager/internal/api/middleware"
	"github.com/bigkaa/gofilesmanager/internal/domain/model"
	"github.com/bigkaa/gofilesmanager/internal/service"
)

// FileOperations — операции каталога файлов сервисного слоя.
type FileOperations interface {
	Upload(ctx context.Context, owner *model.User, req service.UploadRequest) (*service.FileView, *service.Error)
	Show(ctx context.Context, owner *model.User, idHex string) (*service.FileView, *service.Error)
	List(ctx context.Context, owner *model.User, parent model.ParentRef, page int) ([]service.FileView, *service.Error)
}

// FilesHandler — обработчик файловых endpoints.
type FilesHandler struct {
	files FileOperations
}

// NewFilesHandler создаёт обработчик файловых endpoints.
func NewFilesHandler(files FileOperations) *FilesHandler {
	return &FilesHandler{files: files}
}

// PostUpload обрабатывает POST /files.
// Тело: {name, type, parentId?, isPublic?, data?}; data — base64
// содержимого для file/image.
func (h *FilesHandler) PostUpload(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserFromContext(r.Context())
	if owner == nil {
		apierrors.Unauthorized(w)
		return
	}

	var req service.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Invalid JSON")
		return
	}

	view, svcErr := h.files.Upload(r.Context(), owner, req)
	if svcErr != nil {
		apierrors.WriteError(w, svcErr.StatusCode, svcErr.Message)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// GetShow обрабатывает GET /files/{id}.
// Запись другого владельца и несуществующая запись дают одинаковый 404.
func (h *FilesHandler) GetShow(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserFromContext(r.Context())
	if owner == nil {
		apierrors.Unauthorized(w)
		return
	}

	view, svcErr := h.files.Show(r.Context(), owner, chi.URLParam(r, "id"))
	if svcErr != nil {
		apierrors.WriteError(w, svcErr.StatusCode, svcErr.Message)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// GetIndex обрабатывает GET /files?parentId=&page=.
// По умолчанию parentId — корень, page — 0. Страница за пределами
// данных — пустой массив.
func (h *FilesHandler) GetIndex(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserFromContext(r.Context())
	if owner == nil {
		apierrors.Unauthorized(w)
		return
	}

	parent := model.ParseParentRef(r.URL.Query().Get("parentId"))

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	views, svcErr := h.files.List(r.Context(), owner, parent, page)
	if svcErr != nil {
		apierrors.WriteError(w, svcErr.StatusCode, svcErr.Message)
		return
	}

	writeJSON(w, http.StatusOK, views)
}
