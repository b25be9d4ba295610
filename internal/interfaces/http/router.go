package http

import (
	"io"
	"io/fs"
	"net/http"

	"github.com/artcollab/drawgrid/internal/interfaces/http/handler"
	"github.com/artcollab/drawgrid/internal/interfaces/http/middleware"
	"github.com/artcollab/drawgrid/pkg/config"
	"github.com/artcollab/drawgrid/pkg/logger"
)

// Router настраивает маршруты приложения
type Router struct {
	mux              *http.ServeMux
	gridAPIHandler   *handler.GridAPIHandler
	uploadAPIHandler *handler.UploadAPIHandler
	adminAPIHandler  *handler.AdminAPIHandler
	exportAPIHandler *handler.ExportAPIHandler
	security         config.SecurityConfig
	logger           *logger.Logger
}

// NewRouter создает новый router
func NewRouter(
	gridAPIHandler *handler.GridAPIHandler,
	uploadAPIHandler *handler.UploadAPIHandler,
	adminAPIHandler *handler.AdminAPIHandler,
	exportAPIHandler *handler.ExportAPIHandler,
	security config.SecurityConfig,
	logger *logger.Logger,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		gridAPIHandler:   gridAPIHandler,
		uploadAPIHandler: uploadAPIHandler,
		adminAPIHandler:  adminAPIHandler,
		exportAPIHandler: exportAPIHandler,
		security:         security,
		logger:           logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	// Static assets are embedded into the binary.
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("failed to initialize embedded static assets: " + err.Error())
	}
	rt.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health endpoints are intentionally unauthenticated for probes.
	rt.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	rt.mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// Board UI
	rt.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		// http.ServeFileFS equivalent for toolchains before Go 1.22.
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()
		st, err := f.Stat()
		if err != nil {
			http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
			return
		}
		http.ServeContent(w, r, "index.html", st.ModTime(), f.(io.ReadSeeker))
	})

	// API endpoints
	rt.mux.HandleFunc("/api/grid", rt.gridAPIHandler.GetGrid)
	rt.mux.HandleFunc("/api/grid/export", rt.exportAPIHandler.Export)
	rt.mux.HandleFunc("/api/upload", rt.uploadAPIHandler.Upload)
	rt.mux.HandleFunc("/api/reset", rt.adminAPIHandler.Reset)
	rt.mux.HandleFunc("/api/theme", rt.adminAPIHandler.UpdateTheme)

	// Применяем middleware
	var h http.Handler = rt.mux
	if rt.security.APIRatePerSec > 0 {
		limiter := middleware.NewIPRateLimiter(rt.security.APIRatePerSec, rt.security.APIRateBurst)
		h = middleware.RateLimit(limiter)(h)
	}
	h = middleware.Logger(rt.logger)(h)
	h = middleware.Recovery(rt.logger)(h)

	return h
}
