package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/bigkaa/gofilesmanager/internal/domain/model"
	"github.com/bigkaa/gofilesmanager/internal/repository"
)

// fakeCatalog — каталог в памяти для unit-тестов сервиса.
// Поле calls фиксирует порядок обращений к коллабораторам.
type fakeCatalog struct {
	entries   map[bson.ObjectID]*model.FileEntry
	createErr error
	calls     *[]string
}

func newFakeCatalog(calls *[]string) *fakeCatalog {
	return &fakeCatalog{
		entries: make(map[bson.ObjectID]*model.FileEntry),
		calls:   calls,
	}
}

func (f *fakeCatalog) put(entry *model.FileEntry) *model.FileEntry {
	if entry.ID.IsZero() {
		entry.ID = bson.NewObjectID()
	}
	f.entries[entry.ID] = entry
	return entry
}

func (f *fakeCatalog) Create(_ context.Context, entry *model.FileEntry) (*model.FileEntry, error) {
	*f.calls = append(*f.calls, "catalog.Create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.put(entry), nil
}

func (f *fakeCatalog) FindByID(_ context.Context, id, ownerID bson.ObjectID) (*model.FileEntry, error) {
	entry, ok := f.entries[id]
	if !ok || entry.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return entry, nil
}

func (f *fakeCatalog) FindFolder(_ context.Context, id bson.ObjectID) (*model.FileEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if entry.Type != model.TypeFolder {
		return nil, repository.ErrNotAFolder
	}
	return entry, nil
}

func (f *fakeCatalog) List(_ context.Context, ownerID bson.ObjectID, parent model.ParentRef, page int) ([]*model.FileEntry, error) {
	var out []*model.FileEntry
	for _, entry := range f.entries {
		if entry.OwnerID == ownerID && entry.ParentID == parent.StorageID() {
			out = append(out, entry)
		}
	}
	return out, nil
}

// fakeBlobs — blob-хранилище в памяти.
type fakeBlobs struct {
	written  [][]byte
	writeErr error
	calls    *[]string
}

func (f *fakeBlobs) Write(data []byte) (string, error) {
	*f.calls = append(*f.calls, "blobs.Write")
	if f.writeErr != nil {
		return "", f.writeErr
	}
	f.written = append(f.written, data)
	return "/data/blob-fake", nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOwner() *model.User {
	return &model.User{
		ID:        bson.NewObjectID(),
		Email:     "bob@dylan.com",
		CreatedAt: time.Now().UTC(),
	}
}

// TestUpload_Validation проверяет сообщения валидации полей,
// первое нарушение останавливает обработку.
func TestUpload_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     UploadRequest
		wantMsg string
	}{
		{
			name:    "пустое имя",
			req:     UploadRequest{Type: "file", Data: "aGk="},
			wantMsg: "Missing name",
		},
		{
			name:    "пустой тип",
			req:     UploadRequest{Name: "notes.txt", Data: "aGk="},
			wantMsg: "Missing type",
		},
		{
			name:    "неизвестный тип",
			req:     UploadRequest{Name: "notes.txt", Type: "directory", Data: "aGk="},
			wantMsg: "Missing type",
		},
		{
			name:    "файл без данных",
			req:     UploadRequest{Name: "notes.txt", Type: "file"},
			wantMsg: "Missing data",
		},
		{
			name:    "изображение без данных",
			req:     UploadRequest{Name: "cat.png", Type: "image"},
			wantMsg: "Missing data",
		},
		{
			name:    "некорректный base64",
			req:     UploadRequest{Name: "notes.txt", Type: "file", Data: "не base64"},
			wantMsg: "Invalid data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			catalog := newFakeCatalog(&calls)
			blobs := &fakeBlobs{calls: &calls}
			svc := NewFileService(catalog, blobs, testLogger())

			_, svcErr := svc.Upload(context.Background(), testOwner(), tt.req)
			if svcErr == nil {
				t.Fatal("ожидалась ошибка валидации")
			}
			if svcErr.StatusCode != http.StatusBadRequest {
				t.Errorf("StatusCode = %d, ожидали 400", svcErr.StatusCode)
			}
			if svcErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, ожидали %q", svcErr.Message, tt.wantMsg)
			}
			if len(catalog.entries) != 0 {
				t.Error("валидация не должна создавать записи каталога")
			}
			if len(blobs.written) != 0 {
				t.Error("валидация не должна записывать blob")
			}
		})
	}
}

// TestUpload_ParentChecks проверяет сообщения проверки родителя.
func TestUpload_ParentChecks(t *testing.T) {
	var calls []string
	catalog := newFakeCatalog(&calls)
	blobs := &fakeBlobs{calls: &calls}
	svc := NewFileService(catalog, blobs, testLogger())
	owner := testOwner()

	file := catalog.put(&model.FileEntry{
		OwnerID: owner.ID,
		Name:    "notes.txt",
		Type:    model.TypeFile,
	})

	tests := []struct {
		name    string
		parent  model.ParentRef
		wantMsg string
	}{
		{
			name:    "неразобранный идентификатор",
			parent:  model.ParseParentRef("not-a-hex"),
			wantMsg: "Parent not found",
		},
		{
			name:    "несуществующий родитель",
			parent:  model.ParentOf(bson.NewObjectID()),
			wantMsg: "Parent not found",
		},
		{
			name:    "родитель не папка",
			parent:  model.ParentOf(file.ID),
			wantMsg: "Parent is not a folder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := UploadRequest{Name: "a.txt", Type: "file", Data: "aGk=", ParentID: tt.parent}
			_, svcErr := svc.Upload(context.Background(), owner, req)
			if svcErr == nil {
				t.Fatal("ожидалась ошибка проверки родителя")
			}
			if svcErr.StatusCode != http.StatusBadRequest {
				t.Errorf("StatusCode = %d, ожидали 400", svcErr.StatusCode)
			}
			if svcErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, ожидали %q", svcErr.Message, tt.wantMsg)
			}
			if len(blobs.written) != 0 {
				t.Error("проверка родителя должна выполняться до записи blob")
			}
		})
	}
}

// TestUpload_File проверяет загрузку файла: декодирование base64,
// порядок blob → метаданные, проекцию ответа.
func TestUpload_File(t *testing.T) {
	var calls []string
	catalog := newFakeCatalog(&calls)
	blobs := &fakeBlobs{calls: &calls}
	svc := NewFileService(catalog, blobs, testLogger())
	owner := testOwner()

	content := []byte("Hello Webstack!")
	req := UploadRequest{
		Name: "myText.txt",
		Type: "file",
		Data: base64.StdEncoding.EncodeToString(content),
	}

	view, svcErr := svc.Upload(context.Background(), owner, req)
	if svcErr != nil {
		t.Fatalf("Upload() вернул ошибку: %v", svcErr)
	}

	// Blob записан до метаданных
	if len(calls) != 2 || calls[0] != "blobs.Write" || calls[1] != "catalog.Create" {
		t.Errorf("порядок вызовов %v, ожидали [blobs.Write catalog.Create]", calls)
	}
	if len(blobs.written) != 1 || string(blobs.written[0]) != string(content) {
		t.Error("в blob-хранилище записано не декодированное содержимое")
	}

	if view.Name != "myText.txt" || view.Type != model.TypeFile {
		t.Errorf("проекция %q/%q, ожидали myText.txt/file", view.Name, view.Type)
	}
	if view.UserID != owner.ID.Hex() {
		t.Errorf("UserID = %q, ожидали %q", view.UserID, owner.ID.Hex())
	}
	if !view.ParentID.IsRoot() {
		t.Error("родитель по умолчанию должен быть корнем")
	}

	// Путь blob не попадает в проекцию
	body, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("ошибка сериализации проекции: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("ошибка разбора проекции: %v", err)
	}
	if _, ok := raw["localPath"]; ok {
		t.Error("localPath не должен сериализоваться в ответ")
	}
	if string(raw["parentId"]) != "0" {
		t.Errorf("parentId сериализован как %s, ожидали литерал 0", raw["parentId"])
	}
}

// TestUpload_Folder проверяет, что папка создаётся без обращения
// к blob-хранилищу.
func TestUpload_Folder(t *testing.T) {
	var calls []string
	catalog := newFakeCatalog(&calls)
	blobs := &fakeBlobs{calls: &calls}
	svc := NewFileService(catalog, blobs, testLogger())
	owner := testOwner()

	view, svcErr := svc.Upload(context.Background(), owner, UploadRequest{
		Name: "images",
		Type: "folder",
	})
	if svcErr != nil {
		t.Fatalf("Upload() вернул ошибку: %v", svcErr)
	}
	if view.Type != model.TypeFolder {
		t.Errorf("Type = %q, ожидали folder", view.Type)
	}
	if len(blobs.written) != 0 {
		t.Error("папка не должна записывать blob")
	}

	entry := catalog.entries[mustObjectID(t, view.ID)]
	if entry.LocalPath != "" {
		t.Errorf("LocalPath папки = %q, ожидали пустой", entry.LocalPath)
	}
}

// TestUpload_InFolder проверяет загрузку внутрь существующей папки.
func TestUpload_InFolder(t *testing.T) {
	var calls []string
	catalog := newFakeCatalog(&calls)
	blobs := &fakeBlobs{calls: &calls}
	svc := NewFileService(catalog, blobs, testLogger())
	owner := testOwner()

	folder := catalog.put(&model.FileEntry{
		OwnerID: owner.ID,
		Name:    "documents",
		Type:    model.TypeFolder,
	})

	view, svcErr := svc.Upload(context.Background(), owner, UploadRequest{
		Name:     "notes.txt",
		Type:     "file",
		Data:     "aGk=",
		ParentID: model.ParentOf(folder.ID),
		IsPublic: true,
	})
	if svcErr != nil {
		t.Fatalf("Upload() вернул ошибку: %v", svcErr)
	}
	if !view.IsPublic {
		t.Error("IsPublic не сохранён")
	}
	parentID, ok := view.ParentID.ObjectID()
	if !ok || parentID != folder.ID {
		t.Errorf("родитель проекции не совпадает с папкой %s", folder.ID.Hex())
	}
}

// TestUpload_CreateFailure проверяет 500 при сбое вставки метаданных
// после записи blob.
func TestUpload_CreateFailure(t *testing.T) {
	var calls []string
	catalog := newFakeCatalog(&calls)
	catalog.createErr = errors.New("приехала авария")
	blobs := &fakeBlobs{calls: &calls}
	svc := NewFileService(catalog, blobs, testLogger())

	_, svcErr := svc.Upload(context.Background(), testOwner(), UploadRequest{
		Name: "notes.txt",
		Type: "file",
		Data: "aGk=",
	})
	if svcErr == nil {
		t.Fatal("ожидалась ошибка")
	}
	if svcErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, ожидали 500", svcErr.StatusCode)
	}
	if svcErr.Message != "Internal server error" {
		t.Errorf("Message = %q: внутренние детали не должны утекать", svcErr.Message)
	}
}

// TestShow проверяет чтение записи: владелец, чужая запись,
// некорректный идентификатор.
func TestShow(t *testing.T) {
	var calls []string
	catalog := newFakeCatalog(&calls)
	svc := NewFileService(catalog, &fakeBlobs{calls: &calls}, testLogger())
	owner := testOwner()

	entry := catalog.put(&model.FileEntry{
		OwnerID:   owner.ID,
		Name:      "notes.txt",
		Type:      model.TypeFile,
		LocalPath: "/data/blob-1",
	})

	view, svcErr := svc.Show(context.Background(), owner, entry.ID.Hex())
	if svcErr != nil {
		t.Fatalf("Show() вернул ошибку: %v", svcErr)
	}
	if view.ID != entry.ID.Hex() || view.Name != "notes.txt" {
		t.Errorf("Show() вернул %q/%q", view.ID, view.Name)
	}

	// Некорректный формат — 404 без обращения к каталогу
	if _, svcErr := svc.Show(context.Background(), owner, "not-a-hex"); svcErr == nil || svcErr.StatusCode != http.StatusNotFound {
		t.Errorf("Show() некорректного ID = %v, ожидали 404", svcErr)
	}

	// Чужая запись — 404 с тем же сообщением
	stranger := testOwner()
	_, svcErr = svc.Show(context.Background(), stranger, entry.ID.Hex())
	if svcErr == nil || svcErr.StatusCode != http.StatusNotFound {
		t.Fatalf("Show() чужой записи = %v, ожидали 404", svcErr)
	}
	if svcErr.Message != "Not found" {
		t.Errorf("Message = %q, ожидали %q", svcErr.Message, "Not found")
	}
}

// TestList проверяет листинг: проекции, пустая страница для
// неразобранного parentId.
func TestList(t *testing.T) {
	var calls []string
	catalog := newFakeCatalog(&calls)
	svc := NewFileService(catalog, &fakeBlobs{calls: &calls}, testLogger())
	owner := testOwner()

	catalog.put(&model.FileEntry{
		OwnerID: owner.ID,
		Name:    "a.txt",
		Type:    model.TypeFile,
	})
	catalog.put(&model.FileEntry{
		OwnerID: owner.ID,
		Name:    "documents",
		Type:    model.TypeFolder,
	})

	views, svcErr := svc.List(context.Background(), owner, model.RootParent(), 0)
	if svcErr != nil {
		t.Fatalf("List() вернул ошибку: %v", svcErr)
	}
	if len(views) != 2 {
		t.Errorf("List() вернул %d проекций, ожидали 2", len(views))
	}

	// Неразобранный parentId не матчит ни одну запись
	views, svcErr = svc.List(context.Background(), owner, model.ParseParentRef("garbage"), 0)
	if svcErr != nil {
		t.Fatalf("List() с неразобранным parentId вернул ошибку: %v", svcErr)
	}
	if views == nil {
		t.Fatal("List() вернул nil, ожидали пустой срез (JSON [])")
	}
	if len(views) != 0 {
		t.Errorf("List() вернул %d проекций, ожидали 0", len(views))
	}
}

func mustObjectID(t *testing.T, hex string) bson.ObjectID {
	t.Helper()
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("некорректный ObjectID %q: %v", hex, err)
	}
	return id
}
