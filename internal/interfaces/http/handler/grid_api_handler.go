package handler

import (
	"net/http"

	"github.com/artcollab/drawgrid/internal/application/usecase"
	"github.com/artcollab/drawgrid/internal/interfaces/http/middleware"
	"github.com/artcollab/drawgrid/pkg/logger"
)

// GridAPIHandler отдает текущее состояние доски.
type GridAPIHandler struct {
	getGridUC *usecase.GetGridUseCase
	logger    *logger.Logger
}

func NewGridAPIHandler(getGridUC *usecase.GetGridUseCase, log *logger.Logger) *GridAPIHandler {
	return &GridAPIHandler{
		getGridUC: getGridUC,
		logger:    log,
	}
}

// GetGrid обрабатывает GET /api/grid.
func (h *GridAPIHandler) GetGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	grid, err := h.getGridUC.Execute(r.Context())
	if err != nil {
		h.logger.Error("Failed to load grid", err)
		writeDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, grid)
}
