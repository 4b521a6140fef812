package convivencia

import (
	"sort"
	"time"

	"asistencia_colegio_go/models"
)

// DateRange bounds an attendance query. Zero values mean unbounded on that
// side; both bounds are inclusive.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range. Zero record dates are
// outside every bounded range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() {
		if t.IsZero() || t.Before(r.From) {
			return false
		}
	}
	if !r.To.IsZero() {
		if t.IsZero() || t.After(r.To) {
			return false
		}
	}
	return true
}

// FilterByRange returns the records dated inside the range, keeping order.
func FilterByRange(history []models.AttendanceRecord, r DateRange) []models.AttendanceRecord {
	if r.From.IsZero() && r.To.IsZero() {
		return history
	}
	filtered := make([]models.AttendanceRecord, 0, len(history))
	for _, h := range history {
		if r.Contains(h.Fecha) {
			filtered = append(filtered, h)
		}
	}
	return filtered
}

// StudentTally is one row of the general attendance report. Total counts only
// the notable categories (faltas + retardos + salidas), matching the report
// the school reads: presentes are listed but not totaled.
type StudentTally struct {
	ID        uint   `json:"id"`
	Nombre    string `json:"nombre"`
	Grado     string `json:"grado"`
	Grupo     string `json:"grupo"`
	Presentes int    `json:"presentes"`
	Faltas    int    `json:"faltas"`
	Retardos  int    `json:"retardos"`
	Salidas   int    `json:"salidas"`
	Total     int    `json:"total"`
}

// StudentRows builds the per-student tally rows over range-filtered histories.
func StudentRows(students []models.Student, r DateRange) []StudentTally {
	rows := make([]StudentTally, 0, len(students))
	for i := range students {
		st := &students[i]
		row := StudentTally{
			ID:     st.ID,
			Nombre: st.Nombre,
			Grado:  st.Grado,
			Grupo:  st.Grupo,
		}
		for _, h := range FilterByRange(st.Historial, r) {
			countType(h.Tipo, &row.Presentes, &row.Faltas, &row.Retardos, &row.Salidas)
		}
		row.Total = row.Faltas + row.Retardos + row.Salidas
		rows = append(rows, row)
	}
	return rows
}

// GroupRollup aggregates one (grado, grupo) pair.
type GroupRollup struct {
	Grado            string `json:"grado"`
	Grupo            string `json:"grupo"`
	TotalEstudiantes int    `json:"totalEstudiantes"`
	TotalPresentes   int    `json:"totalPresentes"`
	TotalFaltas      int    `json:"totalFaltas"`
	TotalRetardos    int    `json:"totalRetardos"`
	TotalSalidas     int    `json:"totalSalidas"`
}

// RollupByGroup groups students by normalized (grado, grupo) and sums their
// range-filtered attendance. Output is sorted by grado then grupo so the
// report is deterministic.
func RollupByGroup(students []models.Student, r DateRange) []GroupRollup {
	byKey := make(map[[2]string]*GroupRollup)
	for i := range students {
		st := &students[i]
		key := [2]string{NormalizeGrade(st.Grado), NormalizeGroup(st.Grupo)}
		rollup, ok := byKey[key]
		if !ok {
			rollup = &GroupRollup{Grado: key[0], Grupo: key[1]}
			byKey[key] = rollup
		}
		rollup.TotalEstudiantes++
		for _, h := range FilterByRange(st.Historial, r) {
			countType(h.Tipo, &rollup.TotalPresentes, &rollup.TotalFaltas,
				&rollup.TotalRetardos, &rollup.TotalSalidas)
		}
	}

	rollups := make([]GroupRollup, 0, len(byKey))
	for _, rollup := range byKey {
		rollups = append(rollups, *rollup)
	}
	sort.Slice(rollups, func(i, j int) bool {
		if rollups[i].Grado != rollups[j].Grado {
			return rollups[i].Grado < rollups[j].Grado
		}
		return rollups[i].Grupo < rollups[j].Grupo
	})
	return rollups
}

// GlobalTally is the single whole-school rollup.
type GlobalTally struct {
	TotalEstudiantes int `json:"totalEstudiantes"`
	TotalPresentes   int `json:"totalPresentes"`
	TotalFaltas      int `json:"totalFaltas"`
	TotalRetardos    int `json:"totalRetardos"`
	TotalSalidas     int `json:"totalSalidas"`
	TotalRegistros   int `json:"totalRegistros"`
}

// GlobalStats sums every student's range-filtered history into one tally.
func GlobalStats(students []models.Student, r DateRange) GlobalTally {
	var t GlobalTally
	t.TotalEstudiantes = len(students)
	for i := range students {
		filtered := FilterByRange(students[i].Historial, r)
		t.TotalRegistros += len(filtered)
		for _, h := range filtered {
			countType(h.Tipo, &t.TotalPresentes, &t.TotalFaltas, &t.TotalRetardos, &t.TotalSalidas)
		}
	}
	return t
}
