package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/artcollab/drawgrid/internal/application/usecase"
	"github.com/artcollab/drawgrid/pkg/logger"
)

// ExportAPIHandler отдает доску одной PNG-картинкой.
type ExportAPIHandler struct {
	exportUC *usecase.ExportGridUseCase
	logger   *logger.Logger
}

func NewExportAPIHandler(exportUC *usecase.ExportGridUseCase, log *logger.Logger) *ExportAPIHandler {
	return &ExportAPIHandler{exportUC: exportUC, logger: log}
}

// Export обрабатывает GET /api/grid/export.
func (h *ExportAPIHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := h.exportUC.Execute(r.Context())
	if err != nil {
		h.logger.Error("Failed to export grid", err)
		writeDomainError(w, err)
		return
	}

	if len(result.FailedTiles) > 0 {
		parts := make([]string, 0, len(result.FailedTiles))
		for _, idx := range result.FailedTiles {
			parts = append(parts, strconv.Itoa(idx))
		}
		w.Header().Set("X-Export-Failed-Tiles", strings.Join(parts, ","))
		h.logger.Warn("Export rendered with missing tiles", "failed_tiles", strings.Join(parts, ","))
	}

	filename := fmt.Sprintf("board-%s.png", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PNG)))
	_, _ = w.Write(result.PNG)
}
