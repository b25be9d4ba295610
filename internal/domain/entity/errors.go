package entity

import "errors"

// Ошибки доменного уровня. HTTP-слой превращает их в коды ответов через errors.Is.
var (
	// ErrArtistNameRequired — пустое или отсутствующее имя автора.
	ErrArtistNameRequired = errors.New("artist name is required")

	// ErrImageRequired — в запросе нет файла картинки.
	ErrImageRequired = errors.New("image file is required")

	// ErrUnsupportedImage — формат файла не jpg/jpeg/png.
	ErrUnsupportedImage = errors.New("unsupported image format")

	// ErrThemeRequired — попытка записать полностью пустую тему.
	ErrThemeRequired = errors.New("theme text is required")

	// ErrGridFull — свободных слотов не осталось, вставка не выполнялась.
	ErrGridFull = errors.New("grid is full")

	// ErrSlotTaken — нарушение уникальности slot_index (проигранная гонка).
	ErrSlotTaken = errors.New("slot index already taken")

	// ErrStorageFailure — внешнее объектное хранилище отклонило операцию.
	ErrStorageFailure = errors.New("object storage failure")

	// ErrPersistenceFailure — сбой реляционного хранилища вне ожидаемой гонки.
	ErrPersistenceFailure = errors.New("persistence failure")
)
