package app

import (
	"strconv"
	"time"

	"glicosmart/internal/domain"
)

// ExportColumns are the column headers of the tabular export.
var ExportColumns = []string{"Valor", "Periodo", "Data", "Horario", "Status", "Mensagem"}

// ExportRow is one reading flattened for tabular export.
type ExportRow struct {
	Value   int           `json:"value"`
	Period  domain.Period `json:"period"`
	Date    string        `json:"date"`
	Time    string        `json:"time"`
	Status  domain.Status `json:"status"`
	Message string        `json:"message"`
}

// Record returns the row as strings in ExportColumns order.
func (r ExportRow) Record() []string {
	return []string{strconv.Itoa(r.Value), string(r.Period), r.Date, r.Time, string(r.Status), r.Message}
}

// ExportRows flattens readings for export, formatting dates in loc
// (time.Local when nil) as dd/MM/yyyy and HH:mm.
func ExportRows(readings []domain.Reading, loc *time.Location) []ExportRow {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]ExportRow, 0, len(readings))
	for _, r := range readings {
		c := domain.Classify(float64(r.Value))
		ts := r.Timestamp.In(loc)
		rows = append(rows, ExportRow{
			Value:   r.Value,
			Period:  r.Period,
			Date:    ts.Format("02/01/2006"),
			Time:    ts.Format("15:04"),
			Status:  c.Status,
			Message: c.Message,
		})
	}
	return rows
}
