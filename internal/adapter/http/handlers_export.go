package adapthttp

import (
	"encoding/csv"
	"net/http"

	"glicosmart/internal/app"

	"go.uber.org/zap"
)

// handleExportCSV streams the filtered history as a CSV spreadsheet. A UTF-8
// BOM is written first so spreadsheet apps detect the encoding.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rows := app.ExportRows(f.Apply(s.store.Readings()), s.loc)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="historico_glicemia.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("\ufeff"))

	cw := csv.NewWriter(w)
	records := make([][]string, 0, len(rows)+1)
	records = append(records, app.ExportColumns)
	for _, row := range rows {
		records = append(records, row.Record())
	}
	if err := cw.WriteAll(records); err != nil {
		s.log.Warn("csv export interrupted", zap.Error(err))
	}
}
