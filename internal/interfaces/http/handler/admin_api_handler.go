package handler

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/artcollab/drawgrid/internal/application/usecase"
	"github.com/artcollab/drawgrid/internal/interfaces/http/middleware"
	"github.com/artcollab/drawgrid/pkg/logger"
)

// AdminAPIHandler — операции, защищенные паролем из конфигурации.
type AdminAPIHandler struct {
	resetUC       *usecase.ResetBoardUseCase
	themeUC       *usecase.UpdateThemeUseCase
	resetPassword string
	logger        *logger.Logger
}

func NewAdminAPIHandler(
	resetUC *usecase.ResetBoardUseCase,
	themeUC *usecase.UpdateThemeUseCase,
	resetPassword string,
	log *logger.Logger,
) *AdminAPIHandler {
	return &AdminAPIHandler{
		resetUC:       resetUC,
		themeUC:       themeUC,
		resetPassword: resetPassword,
		logger:        log,
	}
}

func (h *AdminAPIHandler) authorized(r *http.Request) bool {
	pwd := r.URL.Query().Get("pwd")
	if h.resetPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pwd), []byte(h.resetPassword)) == 1
}

// Reset обрабатывает GET /api/reset?pwd=... Ответ текстовый, как и ошибка.
func (h *AdminAPIHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.authorized(r) {
		h.logger.Warn("Rejected reset attempt", "remote_addr", middleware.ClientIP(r))
		http.Error(w, "Wrong password", http.StatusForbidden)
		return
	}

	cleared, err := h.resetUC.Execute(r.Context())
	if err != nil {
		h.logger.Error("Failed to reset board", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Board reset", "cleared_slots", cleared)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Board cleared, %d slots removed", cleared)
}

type updateThemeRequest struct {
	MainTheme string `json:"main_theme"`
	SubTitle  string `json:"sub_title"`
}

// UpdateTheme обрабатывает POST /api/theme?pwd=... с JSON телом.
func (h *AdminAPIHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.authorized(r) {
		h.logger.Warn("Rejected theme update attempt", "remote_addr", middleware.ClientIP(r))
		middleware.WriteJSON(w, http.StatusForbidden, errorResponse{Error: "Wrong password"})
		return
	}

	var req updateThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}

	err := h.themeUC.Execute(r.Context(), usecase.UpdateThemeCommand{
		MainTheme: req.MainTheme,
		SubTitle:  req.SubTitle,
	})
	if err != nil {
		h.logger.Error("Failed to update theme", err)
		writeDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
