// Пакет blobstore — хранение содержимого файлов на диске.
// Плоская раскладка под корневой директорией: случайные uuid-имена,
// без расширений и шардирования. Запись атомарна: temp файл → rename,
// частично записанный blob никогда не виден под финальным именем.
package blobstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// BlobStore — управление физическими blob на диске.
type BlobStore struct {
	// root — корневая директория хранения (FM_FOLDER_PATH)
	root string
}

// New создаёт BlobStore. Создаёт корневую директорию, если она
// не существует.
func New(root string) (*BlobStore, error) {
	if root == "" {
		return nil, fmt.Errorf("корень blob-хранилища не задан")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию blob-хранилища %s: %w", root, err)
	}
	return &BlobStore{root: root}, nil
}

// Root возвращает корневую директорию хранилища.
func (b *BlobStore) Root() string {
	return b.root
}

// Write сохраняет содержимое под новым случайным именем и возвращает
// абсолютный путь blob. Данные полностью записаны и синхронизированы
// на диск до возврата.
//
// Паттерн: temp файл → запись → fsync → атомарный rename.
// При ошибке temp файл удаляется.
func (b *BlobStore) Write(data []byte) (string, error) {
	fullPath := filepath.Join(b.root, uuid.New().String())
	tmpPath := fullPath + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка записи данных: %w", err)
	}

	// fsync для гарантии записи на диск
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	// Атомарный rename
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return fullPath, nil
}

// Read возвращает содержимое blob по абсолютному пути.
func (b *BlobStore) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения blob %s: %w", path, err)
	}
	return data, nil
}
