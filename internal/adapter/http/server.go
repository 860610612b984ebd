// Package adapthttp is the loopback JSON API and static file server the
// browser UI talks to.
package adapthttp

import (
	"net/http"
	"time"

	"glicosmart/internal/advice"
	"glicosmart/internal/app"

	"go.uber.org/zap"
)

// Server is the driving HTTP adapter that routes requests to the store and
// its projections.
type Server struct {
	store   *app.Store
	charts  *app.ChartsService
	advisor *advice.Responder
	loc     *time.Location
	webDir  string
	log     *zap.Logger
	now     func() time.Time
}

// New creates a Server. Calendar days are cut in loc (time.Local when nil).
func New(store *app.Store, advisor *advice.Responder, webDir string, loc *time.Location, log *zap.Logger) *Server {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	if advisor == nil {
		advisor = advice.NewResponder(nil)
	}
	return &Server{
		store:   store,
		charts:  app.NewChartsService(store, loc),
		advisor: advisor,
		loc:     loc,
		webDir:  webDir,
		log:     log,
		now:     time.Now,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("GET /session", s.handleSession)
	api.HandleFunc("POST /session/active", s.handleSetActive)
	api.HandleFunc("POST /session/logout", s.handleLogout)
	api.HandleFunc("POST /account", s.handleCreateAccount)
	api.HandleFunc("PATCH /profile", s.handleUpdateProfile)
	api.HandleFunc("POST /account/reset", s.handleResetReadings)
	api.HandleFunc("POST /data/wipe", s.handleWipe)

	api.HandleFunc("GET /readings", s.handleListReadings)
	api.HandleFunc("POST /readings", s.handleAddReading)
	api.HandleFunc("PUT /readings/{id}", s.handleUpdateReading)
	api.HandleFunc("DELETE /readings/{id}", s.handleDeleteReading)
	api.HandleFunc("GET /classify", s.handleClassify)

	api.HandleFunc("GET /stats", s.handleStats)
	api.HandleFunc("GET /charts/daily", s.handleChartsDaily)
	api.HandleFunc("GET /charts/timeline", s.handleChartsTimeline)
	api.HandleFunc("GET /export.csv", s.handleExportCSV)

	api.HandleFunc("GET /advice/latest", s.handleLatestAdvice)
	api.HandleFunc("POST /chat", s.handleChat)
	api.HandleFunc("GET /tips", s.handleTips)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}
