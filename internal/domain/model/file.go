// Пакет model — доменные модели files manager.
// FileEntry — запись каталога файлов/папок, User — учётная запись.
// ParentRef — явный двухвариантный тип "корень или существующая папка",
// чтобы сравнения были исчерпывающими, без жонглирования строками и числами.
package model

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FileType — тип записи каталога.
type FileType string

const (
	// TypeFolder — папка, не ссылается на blob-хранилище
	TypeFolder FileType = "folder"
	// TypeFile — обычный файл с содержимым на диске
	TypeFile FileType = "file"
	// TypeImage — изображение, хранится так же, как файл
	TypeImage FileType = "image"
)

// Valid проверяет, что тип входит в допустимое множество.
func (t FileType) Valid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// RequiresBlob возвращает true, если записи этого типа обязательно
// соответствует содержимое в blob-хранилище.
func (t FileType) RequiresBlob() bool {
	return t == TypeFile || t == TypeImage
}

// FileEntry — метаданные файла или папки в каталоге.
// Поле LocalPath заполняется только для file/image и никогда
// не отдаётся клиенту (см. проекции в handlers).
type FileEntry struct {
	// ID — идентификатор записи (ObjectID, 24 hex-символа)
	ID bson.ObjectID `bson:"_id,omitempty"`

	// OwnerID — владелец записи; фиксируется при создании
	OwnerID bson.ObjectID `bson:"owner_id"`

	// Name — имя файла или папки (непустое)
	Name string `bson:"name"`

	// Type — folder, file или image
	Type FileType `bson:"type"`

	// ParentID — родительская папка; нулевой ObjectID означает корень
	ParentID bson.ObjectID `bson:"parent_id"`

	// IsPublic — флаг публичности (по умолчанию false)
	IsPublic bool `bson:"is_public"`

	// LocalPath — абсолютный путь к blob на диске (только file/image)
	LocalPath string `bson:"local_path,omitempty"`

	// CreatedAt — момент создания записи (UTC)
	CreatedAt time.Time `bson:"created_at"`
}

// Parent возвращает ParentRef записи.
func (f *FileEntry) Parent() ParentRef {
	if f.ParentID.IsZero() {
		return RootParent()
	}
	return ParentOf(f.ParentID)
}

// parentState — внутреннее состояние ParentRef.
type parentState uint8

const (
	parentRoot parentState = iota
	parentEntry
	parentInvalid
)

// ParentRef — ссылка на родителя: корневой сентинел или идентификатор
// существующей записи. Неразобранное значение из запроса переходит в
// состояние invalid и отклоняется до обращения к хранилищу.
//
// Нулевое значение — корень, поэтому ParentRef{} безопасен как default.
type ParentRef struct {
	state parentState
	id    bson.ObjectID
}

// RootParent возвращает ссылку на корень ("нет родителя").
func RootParent() ParentRef {
	return ParentRef{state: parentRoot}
}

// ParentOf возвращает ссылку на запись с указанным идентификатором.
func ParentOf(id bson.ObjectID) ParentRef {
	if id.IsZero() {
		return RootParent()
	}
	return ParentRef{state: parentEntry, id: id}
}

// ParseParentRef разбирает строковое представление родителя.
// "" и "0" — корень; 24 hex-символа — идентификатор записи;
// всё остальное — invalid.
func ParseParentRef(s string) ParentRef {
	if s == "" || s == "0" {
		return RootParent()
	}
	id, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return ParentRef{state: parentInvalid}
	}
	return ParentOf(id)
}

// IsRoot возвращает true для корневого сентинела.
func (p ParentRef) IsRoot() bool { return p.state == parentRoot }

// IsInvalid возвращает true для неразобранного значения.
func (p ParentRef) IsInvalid() bool { return p.state == parentInvalid }

// ObjectID возвращает идентификатор родителя и true, если ссылка
// указывает на запись (не корень и не invalid).
func (p ParentRef) ObjectID() (bson.ObjectID, bool) {
	if p.state != parentEntry {
		return bson.ObjectID{}, false
	}
	return p.id, true
}

// StorageID возвращает значение для поля parent_id в документе:
// нулевой ObjectID для корня, иначе идентификатор родителя.
func (p ParentRef) StorageID() bson.ObjectID {
	if p.state == parentEntry {
		return p.id
	}
	return bson.ObjectID{}
}

// MarshalJSON сериализует корень как литерал 0 (контракт API),
// запись — как 24-символьную hex-строку.
func (p ParentRef) MarshalJSON() ([]byte, error) {
	if p.state == parentEntry {
		return json.Marshal(p.id.Hex())
	}
	return []byte("0"), nil
}

// UnmarshalJSON принимает число 0, строку "0", null и hex-строку.
// Неразобранное значение не считается ошибкой декодирования тела:
// ссылка переходит в состояние invalid и отклоняется на уровне
// сервиса с сообщением контракта, а не общей ошибкой JSON.
func (p *ParentRef) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "0", "null":
		*p = RootParent()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*p = ParentRef{state: parentInvalid}
		return nil
	}
	*p = ParseParentRef(s)
	return nil
}
