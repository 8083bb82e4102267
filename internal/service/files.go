// files.go — оркестрация операций каталога файлов:
// upload, show, list. Аутентификация выполняется до вызова
// (middleware → AuthService), сюда приходит уже известный владелец.
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	apierrors "github.com/bigkaa/gofilesmanager/internal/api/errors"
	"github.com/bigkaa/gofilesmanager/internal/domain/model"
	"github.com/bigkaa/gofilesmanager/internal/repository"
)

// FileCatalog — каталог метаданных файлов и папок.
type FileCatalog interface {
	Create(ctx context.Context, entry *model.FileEntry) (*model.FileEntry, error)
	FindByID(ctx context.Context, id, ownerID bson.ObjectID) (*model.FileEntry, error)
	FindFolder(ctx context.Context, id bson.ObjectID) (*model.FileEntry, error)
	List(ctx context.Context, ownerID bson.ObjectID, parent model.ParentRef, page int) ([]*model.FileEntry, error)
}

// BlobWriter — запись содержимого файла в blob-хранилище.
type BlobWriter interface {
	Write(data []byte) (string, error)
}

// UploadRequest — тело запроса POST /files.
type UploadRequest struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	ParentID model.ParentRef `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

// FileView — каноническая проекция FileEntry для клиента.
// Выводится исчерпывающе из FileEntry; LocalPath не отдаётся никогда.
type FileView struct {
	ID       string          `json:"id"`
	UserID   string          `json:"userId"`
	Name     string          `json:"name"`
	Type     model.FileType  `json:"type"`
	IsPublic bool            `json:"isPublic"`
	ParentID model.ParentRef `json:"parentId"`
}

// NewFileView строит проекцию записи каталога.
// Корневой родитель сериализуется литералом 0, иначе — hex-идентификатор.
func NewFileView(entry *model.FileEntry) FileView {
	return FileView{
		ID:       entry.ID.Hex(),
		UserID:   entry.OwnerID.Hex(),
		Name:     entry.Name,
		Type:     entry.Type,
		IsPublic: entry.IsPublic,
		ParentID: entry.Parent(),
	}
}

// FileService — оркестрация операций каталога.
type FileService struct {
	catalog FileCatalog
	blobs   BlobWriter
	logger  *slog.Logger
}

// NewFileService создаёт сервис каталога файлов.
func NewFileService(catalog FileCatalog, blobs BlobWriter, logger *slog.Logger) *FileService {
	return &FileService{
		catalog: catalog,
		blobs:   blobs,
		logger:  logger.With(slog.String("component", "file_service")),
	}
}

// Upload создаёт запись каталога, при необходимости записав содержимое
// в blob-хранилище.
//
// Порядок состояний: Validate → ParentCheck → Persist (blob до
// метаданных) → Respond. Blob пишется раньше записи каталога, чтобы
// метаданные никогда не ссылались на несуществующее содержимое;
// осиротевший blob после неудачной вставки — принятый, логируемый
// пробел без компенсирующего отката.
func (s *FileService) Upload(ctx context.Context, owner *model.User, req UploadRequest) (*FileView, *Error) {
	// Валидация полей: первое нарушение останавливает обработку
	// до каких-либо записей.
	if req.Name == "" {
		return nil, errValidation(apierrors.MsgMissingName)
	}
	fileType := model.FileType(req.Type)
	if !fileType.Valid() {
		return nil, errValidation(apierrors.MsgMissingType)
	}
	if fileType.RequiresBlob() && req.Data == "" {
		return nil, errValidation(apierrors.MsgMissingData)
	}

	// Проверка родителя: неразобранный и отсутствующий идентификаторы
	// отклоняются одинаково, до обращения к blob-хранилищу.
	if req.ParentID.IsInvalid() {
		return nil, errValidation(apierrors.MsgParentNotFound)
	}
	if parentID, ok := req.ParentID.ObjectID(); ok {
		_, err := s.catalog.FindFolder(ctx, parentID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, errValidation(apierrors.MsgParentNotFound)
		case errors.Is(err, repository.ErrNotAFolder):
			return nil, errValidation(apierrors.MsgParentNotFolder)
		case err != nil:
			s.logger.Error("Ошибка проверки родителя", slog.String("error", err.Error()))
			observeOperation("upload", err)
			return nil, errInternal()
		}
	}

	// Содержимое пишется до метаданных.
	var localPath string
	if fileType.RequiresBlob() {
		decoded, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, errValidation(apierrors.MsgInvalidData)
		}
		localPath, err = s.blobs.Write(decoded)
		if err != nil {
			s.logger.Error("Ошибка записи blob", slog.String("error", err.Error()))
			observeOperation("upload", err)
			return nil, errInternal()
		}
	}

	entry := &model.FileEntry{
		OwnerID:   owner.ID,
		Name:      req.Name,
		Type:      fileType,
		ParentID:  req.ParentID.StorageID(),
		IsPublic:  req.IsPublic,
		LocalPath: localPath,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.catalog.Create(ctx, entry)
	observeOperation("upload", err)
	if err != nil {
		if localPath != "" {
			s.logger.Warn("Осиротевший blob после неудачной вставки метаданных",
				slog.String("local_path", localPath),
			)
		}
		s.logger.Error("Ошибка создания записи каталога", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	view := NewFileView(created)
	return &view, nil
}

// Show возвращает проекцию записи владельца по идентификатору.
// Некорректный формат идентификатора отклоняется до обращения
// к хранилищу; чужая запись неотличима от отсутствующей.
func (s *FileService) Show(ctx context.Context, owner *model.User, idHex string) (*FileView, *Error) {
	id, err := bson.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, errNotFound()
	}

	entry, err := s.catalog.FindByID(ctx, id, owner.ID)
	observeOperation("show", err)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errNotFound()
	}
	if err != nil {
		s.logger.Error("Ошибка чтения записи каталога", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	view := NewFileView(entry)
	return &view, nil
}

// List возвращает страницу проекций в порядке каталога
// (повторная сортировка на этом уровне не выполняется).
// Неразобранный parentId не матчит ни одну запись — пустая страница.
func (s *FileService) List(ctx context.Context, owner *model.User, parent model.ParentRef, page int) ([]FileView, *Error) {
	if parent.IsInvalid() {
		return []FileView{}, nil
	}

	entries, err := s.catalog.List(ctx, owner.ID, parent, page)
	observeOperation("list", err)
	if err != nil {
		s.logger.Error("Ошибка листинга каталога", slog.String("error", err.Error()))
		return nil, errInternal()
	}

	views := make([]FileView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, NewFileView(entry))
	}
	return views, nil
}
