package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/artcollab/drawgrid/internal/domain/valueobject"
)

const maxArtistNameRunes = 64

// Slot — одна занятая позиция доски: картинка одного автора.
// Слот создается один раз и не редактируется; исчезает только при полном сбросе доски.
type Slot struct {
	index      valueobject.SlotIndex
	artistName string
	imageURL   string
	createdAt  time.Time
}

// NewSlot создает слот после успешного назначения индекса (Factory Method).
func NewSlot(index valueobject.SlotIndex, artistName, imageURL string) (*Slot, error) {
	artistName = strings.TrimSpace(artistName)
	if artistName == "" {
		return nil, ErrArtistNameRequired
	}
	if utf8.RuneCountInString(artistName) > maxArtistNameRunes {
		return nil, ErrArtistNameRequired
	}
	if strings.TrimSpace(imageURL) == "" {
		return nil, ErrImageRequired
	}

	return &Slot{
		index:      index,
		artistName: artistName,
		imageURL:   imageURL,
		createdAt:  time.Now().UTC(),
	}, nil
}

// ReconstructSlot восстанавливает слот из строки хранилища (для Repository).
func ReconstructSlot(index valueobject.SlotIndex, artistName, imageURL string, createdAt time.Time) *Slot {
	return &Slot{
		index:      index,
		artistName: artistName,
		imageURL:   imageURL,
		createdAt:  createdAt,
	}
}

func (s *Slot) Index() valueobject.SlotIndex { return s.index }
func (s *Slot) ArtistName() string           { return s.artistName }
func (s *Slot) ImageURL() string             { return s.imageURL }
func (s *Slot) CreatedAt() time.Time         { return s.createdAt }
