package adapthttp

import (
	"errors"
	"net/http"

	"glicosmart/internal/app"
	"glicosmart/internal/domain"
)

type readingView struct {
	domain.Reading
	Classification domain.Classification `json:"classification"`
}

func viewOf(r domain.Reading) readingView {
	return readingView{Reading: r, Classification: domain.Classify(float64(r.Value))}
}

func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	readings := f.Apply(s.store.Readings())
	if limit := intQuery(r, "limit", 0); limit > 0 && len(readings) > limit {
		readings = readings[:limit]
	}
	items := make([]readingView, 0, len(readings))
	for _, rd := range readings {
		items = append(items, viewOf(rd))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleAddReading(w http.ResponseWriter, r *http.Request) {
	var form app.ReadingForm
	if err := parseJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	in, err := form.NewReading(s.loc)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	reading, err := s.store.AddReading(r.Context(), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if reading.ID == "" {
		writeNoSession(w)
		return
	}
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":      true,
		"reading": viewOf(reading),
		"advice":  s.advisor.ForReading(snap.Profile, reading),
		"unsaved": snap.Unsaved,
	})
}

func (s *Server) handleUpdateReading(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var form app.ReadingForm
	if err := parseJSON(w, r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	patch, err := form.Patch(s.loc)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	change, err := s.store.UpdateReading(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeChange(w, change)
}

func (s *Server) handleDeleteReading(w http.ResponseWriter, r *http.Request) {
	writeChange(w, s.store.DeleteReading(r.Context(), r.PathValue("id")))
}

func writeChange(w http.ResponseWriter, c app.Change) {
	switch c {
	case app.ChangeNoSession:
		writeNoSession(w)
	case app.ChangeNotFound:
		writeError(w, http.StatusNotFound, errors.New("reading not found"))
	default:
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	c, err := domain.ClassifyString(r.URL.Query().Get("value"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
