package adapthttp

import (
	"errors"
	"net/http"

	"glicosmart/internal/app"
	"glicosmart/internal/domain"
)

var errBadUnit = errors.New(`unit must be "mg/dL" or "mmol/L"`)

func unitQuery(r *http.Request) domain.Unit {
	if u, ok := domain.ParseUnit(r.URL.Query().Get("unit")); ok {
		return u
	}
	return domain.Unit(r.URL.Query().Get("unit"))
}

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 7)
	unit := unitQuery(r)

	points, err := s.charts.GetDaily(days, unit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":  len(points),
		"unit":  unit,
		"today": s.localDayString(s.now()),
		"items": points,
	})
}

func (s *Server) handleChartsTimeline(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	unit := unitQuery(r)
	if unit != domain.UnitMgDL && unit != domain.UnitMmolL {
		writeError(w, http.StatusBadRequest, errBadUnit)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"unit":  unit,
		"items": s.charts.Timeline(intQuery(r, "limit", 30), f, unit),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, app.Summarize(f.Apply(s.store.Readings())))
}
