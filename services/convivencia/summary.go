package convivencia

import (
	"sort"
	"time"

	"asistencia_colegio_go/models"
)

// PeriodCounts groups attendance counts for one time window.
type PeriodCounts struct {
	Total     int `json:"total"`
	Presentes int `json:"presentes"`
	Faltas    int `json:"faltas"`
	Retardos  int `json:"retardos"`
	Salidas   int `json:"salidas"`
}

// AttendanceSummary is the normalized reduction of a student's full history.
type AttendanceSummary struct {
	TotalRegistros int                      `json:"totalRegistros"`
	Presentes      int                      `json:"presentes"`
	Faltas         int                      `json:"faltas"`
	Retardos       int                      `json:"retardos"`
	Salidas        int                      `json:"salidas"`
	UltimoRegistro *models.AttendanceRecord `json:"ultimoRegistro"`
	Ultimos30Dias  PeriodCounts             `json:"ultimos30dias"`
}

// Summarize reduces a student's attendance history to all-time and trailing
// 30-day counts per category. The input order does not matter: the history is
// sorted internally, so UltimoRegistro is always the most recent record (nil
// for an empty history).
func Summarize(history []models.AttendanceRecord) AttendanceSummary {
	return summarizeAt(history, time.Now())
}

func summarizeAt(history []models.AttendanceRecord, now time.Time) AttendanceSummary {
	sorted := SortedByDateDesc(history)
	cutoff := now.Add(-30 * 24 * time.Hour)

	var s AttendanceSummary
	s.TotalRegistros = len(sorted)
	for i := range sorted {
		r := &sorted[i]
		countType(r.Tipo, &s.Presentes, &s.Faltas, &s.Retardos, &s.Salidas)

		// The window has no upper bound: future-dated records past the cutoff
		// count too. Records with a zero (unparsable) date are excluded here
		// but still appear in the all-time totals.
		if !r.Fecha.IsZero() && !r.Fecha.Before(cutoff) {
			s.Ultimos30Dias.Total++
			countType(r.Tipo, &s.Ultimos30Dias.Presentes, &s.Ultimos30Dias.Faltas,
				&s.Ultimos30Dias.Retardos, &s.Ultimos30Dias.Salidas)
		}
	}
	if len(sorted) > 0 {
		s.UltimoRegistro = &sorted[0]
	}
	return s
}

func countType(tipo string, presentes, faltas, retardos, salidas *int) {
	switch NormalizeAttendanceType(tipo) {
	case TipoPresente:
		*presentes++
	case TipoFalta:
		*faltas++
	case TipoRetardo:
		*retardos++
	case TipoSalida:
		*salidas++
	}
}

// SortedByDateDesc returns a copy of the history ordered newest first. The
// sort is stable so records sharing a date keep their incoming order; zero
// dates end up last.
func SortedByDateDesc(history []models.AttendanceRecord) []models.AttendanceRecord {
	sorted := make([]models.AttendanceRecord, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fecha.After(sorted[j].Fecha)
	})
	return sorted
}

// SortedReportsByDateDesc is the conduct-report counterpart.
func SortedReportsByDateDesc(reports []models.ConductReport) []models.ConductReport {
	sorted := make([]models.ConductReport, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fecha.After(sorted[j].Fecha)
	})
	return sorted
}
