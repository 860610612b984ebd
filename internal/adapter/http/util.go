package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"
	"time"

	"glicosmart/internal/app"
	"glicosmart/internal/domain"
)

// maxBodyBytes leaves room for a profile photo data-URL.
const maxBodyBytes = 12 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeStoreError maps store errors to HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case app.IsUserError(err):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrUnknownAccount):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

// writeNoSession answers a mutation attempted while logged out.
func writeNoSession(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": false})
}

func parseJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// filterFromQuery reads from, to (YYYY-MM-DD) and period.
func (s *Server) filterFromQuery(r *http.Request) (app.Filter, error) {
	q := r.URL.Query()
	f := app.Filter{Period: q.Get("period"), Location: s.loc}
	if f.Period != "" && f.Period != "all" && !domain.Period(f.Period).Valid() {
		return app.Filter{}, fmt.Errorf("%w: unknown period %q", domain.ErrInvalidReading, f.Period)
	}
	for key, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		day, err := time.ParseInLocation(time.DateOnly, v, s.loc)
		if err != nil {
			return app.Filter{}, fmt.Errorf("%w: bad %s date %q", domain.ErrInvalidReading, key, v)
		}
		*dst = &day
	}
	return f, nil
}

func (s *Server) localDayString(t time.Time) string {
	return t.In(s.loc).Format(time.DateOnly)
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// spaFromDisk serves files from dir and falls back to index.html so the
// client-side router can handle deep links.
func spaFromDisk(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	indexPath := path.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := path.Clean(r.URL.Path)
		if reqPath == "/" {
			http.ServeFile(w, r, indexPath)
			return
		}

		staticPath := path.Join(dir, reqPath)
		if info, err := os.Stat(staticPath); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, indexPath)
	})
}
