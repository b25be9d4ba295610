package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/artcollab/drawgrid/internal/application/usecase"
	"github.com/artcollab/drawgrid/internal/interfaces/http/middleware"
	"github.com/artcollab/drawgrid/pkg/logger"
)

// UploadLimiter — лимит загрузок на ключ (обычно IP). Nil означает "без лимита".
type UploadLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type uploadResponse struct {
	Success   bool   `json:"success"`
	Slot      int    `json:"slot"`
	ImagePath string `json:"imagePath"`
}

// UploadAPIHandler принимает multipart-загрузку работы.
type UploadAPIHandler struct {
	submitUC        *usecase.SubmitArtworkUseCase
	limiter         UploadLimiter
	maxPayloadBytes int64
	logger          *logger.Logger
}

func NewUploadAPIHandler(
	submitUC *usecase.SubmitArtworkUseCase,
	limiter UploadLimiter,
	maxPayloadBytes int64,
	log *logger.Logger,
) *UploadAPIHandler {
	if maxPayloadBytes <= 0 {
		maxPayloadBytes = 8 * 1024 * 1024
	}
	return &UploadAPIHandler{
		submitUC:        submitUC,
		limiter:         limiter,
		maxPayloadBytes: maxPayloadBytes,
		logger:          log,
	}
}

// Upload обрабатывает POST /api/upload (multipart form: artist_name + image).
func (h *UploadAPIHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(r.Context(), middleware.ClientIP(r))
		if err != nil {
			// Недоступный лимитер не должен блокировать доску.
			h.logger.Warn("Upload limiter unavailable, allowing request", "error", err.Error())
		} else if !allowed {
			middleware.WriteJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many uploads, try again later"})
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxPayloadBytes)
	defer r.Body.Close()

	if err := r.ParseMultipartForm(h.maxPayloadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			middleware.WriteJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Image too large"})
			return
		}
		middleware.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid multipart form"})
		return
	}

	artistName := r.FormValue("artist_name")

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "No image uploaded"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", err)
		middleware.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Failed to read uploaded file"})
		return
	}

	result, err := h.submitUC.Execute(r.Context(), usecase.SubmitArtworkCommand{
		ArtistName:  artistName,
		ImageData:   data,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	})
	if err != nil {
		h.logger.Error("Failed to submit artwork", err, "artist_name", artistName)
		writeDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, uploadResponse{
		Success:   true,
		Slot:      result.SlotIndex,
		ImagePath: result.ImageURL,
	})
}
