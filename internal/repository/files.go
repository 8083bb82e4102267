package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/bigkaa/gofilesmanager/internal/domain/model"
)

// PageSize — фиксированный размер страницы листинга.
const PageSize = 20

// FileRepository — доступ к коллекции files (каталог метаданных).
type FileRepository struct {
	coll *mongo.Collection
}

// NewFileRepository создаёт репозиторий каталога файлов.
func NewFileRepository(db *mongo.Database) *FileRepository {
	return &FileRepository{coll: db.Collection(filesCollection)}
}

// Create сохраняет запись каталога и присваивает ей идентификатор.
func (r *FileRepository) Create(ctx context.Context, entry *model.FileEntry) (*model.FileEntry, error) {
	res, err := r.coll.InsertOne(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания записи каталога: %w", err)
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, fmt.Errorf("неожиданный тип InsertedID: %T", res.InsertedID)
	}
	entry.ID = id
	return entry, nil
}

// FindByID возвращает запись по идентификатору и владельцу.
// Запись чужого владельца неотличима от отсутствующей: ErrNotFound
// в обоих случаях, существование не утекает.
func (r *FileRepository) FindByID(ctx context.Context, id, ownerID bson.ObjectID) (*model.FileEntry, error) {
	var entry model.FileEntry
	err := r.coll.FindOne(ctx, bson.M{
		"_id":      id,
		"owner_id": ownerID,
	}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска записи каталога: %w", err)
	}
	return &entry, nil
}

// FindFolder возвращает папку по идентификатору.
// ErrNotFound — записи нет; ErrNotAFolder — запись есть, но её тип
// не folder. Различие нужно для сообщений Parent not found /
// Parent is not a folder.
func (r *FileRepository) FindFolder(ctx context.Context, id bson.ObjectID) (*model.FileEntry, error) {
	var entry model.FileEntry
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска папки: %w", err)
	}
	if entry.Type != model.TypeFolder {
		return nil, ErrNotAFolder
	}
	return &entry, nil
}

// List возвращает страницу записей владельца внутри родителя.
// Точный матч owner_id+parent_id (корневой сентинел — нулевой
// ObjectID), сортировка по _id по убыванию (новые первыми),
// skip = page*PageSize. Страница за пределами данных — пустой
// срез, не ошибка.
//
// Snapshot-стабильность между конкурентными вставками не
// гарантируется (skip/limit по живой коллекции) — принятое
// ограничение.
func (r *FileRepository) List(ctx context.Context, ownerID bson.ObjectID, parent model.ParentRef, page int) ([]*model.FileEntry, error) {
	if page < 0 {
		page = 0
	}

	filter := bson.M{
		"owner_id":  ownerID,
		"parent_id": parent.StorageID(),
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(int64(page) * PageSize).
		SetLimit(PageSize)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка листинга каталога: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]*model.FileEntry, 0, PageSize)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("ошибка чтения курсора: %w", err)
	}
	return entries, nil
}

// Count возвращает количество записей каталога (/stats).
func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта записей каталога: %w", err)
	}
	return n, nil
}
