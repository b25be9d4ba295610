package handler

import (
	"errors"
	"net/http"

	"github.com/artcollab/drawgrid/internal/domain/entity"
	"github.com/artcollab/drawgrid/internal/interfaces/http/middleware"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeDomainError переводит доменную ошибку в HTTP ответ.
// Таксономия: невалидный ввод и полная доска — 400, сбои хранилищ — 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrArtistNameRequired):
		middleware.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Artist name is required"})
	case errors.Is(err, entity.ErrImageRequired):
		middleware.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "No image uploaded"})
	case errors.Is(err, entity.ErrUnsupportedImage):
		middleware.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Only jpg, jpeg and png images are allowed"})
	case errors.Is(err, entity.ErrThemeRequired):
		middleware.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Theme must not be empty"})
	case errors.Is(err, entity.ErrGridFull):
		middleware.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Grid is full!"})
	case errors.Is(err, entity.ErrSlotTaken):
		middleware.WriteJSON(w, http.StatusConflict, errorResponse{Error: "Slot was taken by a concurrent upload, please retry"})
	case errors.Is(err, entity.ErrStorageFailure):
		middleware.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "Upload failed"})
	default:
		middleware.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "Database error"})
	}
}
