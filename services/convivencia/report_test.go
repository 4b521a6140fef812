package convivencia

import (
	"testing"
	"time"

	"asistencia_colegio_go/models"
)

func testStudents(now time.Time) []models.Student {
	return []models.Student{
		{
			BaseModel: models.BaseModel{ID: 1},
			Nombre:    "Ana", Grado: "8°", Grupo: "a",
			Historial: []models.AttendanceRecord{
				record(now.AddDate(0, 0, -1), "presente"),
				record(now.AddDate(0, 0, -2), "falta"),
				record(now.AddDate(0, 0, -90), "retardo"),
			},
		},
		{
			BaseModel: models.BaseModel{ID: 2},
			Nombre:    "Luis", Grado: "8", Grupo: "A",
			Historial: []models.AttendanceRecord{
				record(now.AddDate(0, 0, -3), "salida"),
			},
		},
		{
			BaseModel: models.BaseModel{ID: 3},
			Nombre:    "Sofia", Grado: "9", Grupo: "B",
			Historial: []models.AttendanceRecord{
				record(now.AddDate(0, 0, -1), "falta"),
				record(now.AddDate(0, 0, -2), "falta"),
			},
		},
	}
}

func TestStudentRows(t *testing.T) {
	now := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	r := DateRange{From: now.AddDate(0, 0, -7), To: now}
	rows := StudentRows(testStudents(now), r)

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	ana := rows[0]
	if ana.Presentes != 1 || ana.Faltas != 1 || ana.Retardos != 0 {
		t.Fatalf("expected the 90-day-old retardo filtered out, got %+v", ana)
	}
	// Total counts only notable categories, presentes excluded.
	if ana.Total != 1 {
		t.Fatalf("expected total 1, got %d", ana.Total)
	}
}

func TestRollupByGroupNormalizesKeys(t *testing.T) {
	now := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	rollups := RollupByGroup(testStudents(now), DateRange{})

	if len(rollups) != 2 {
		t.Fatalf("expected \"8°/a\" and \"8/A\" merged into one group, got %d groups", len(rollups))
	}
	first := rollups[0]
	if first.Grado != "8" || first.Grupo != "A" {
		t.Fatalf("expected normalized 8/A first, got %+v", first)
	}
	if first.TotalEstudiantes != 2 || first.TotalPresentes != 1 || first.TotalFaltas != 1 || first.TotalSalidas != 1 {
		t.Fatalf("unexpected rollup: %+v", first)
	}
}

func TestGlobalStats(t *testing.T) {
	now := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	tally := GlobalStats(testStudents(now), DateRange{})

	if tally.TotalEstudiantes != 3 {
		t.Fatalf("expected 3 students, got %d", tally.TotalEstudiantes)
	}
	if tally.TotalRegistros != 6 {
		t.Fatalf("expected 6 records, got %d", tally.TotalRegistros)
	}
	if tally.TotalFaltas != 3 || tally.TotalPresentes != 1 || tally.TotalRetardos != 1 || tally.TotalSalidas != 1 {
		t.Fatalf("unexpected tally: %+v", tally)
	}
}

func TestDateRangeContains(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	r := DateRange{From: from, To: to}

	if !r.Contains(from) || !r.Contains(to) {
		t.Fatalf("bounds must be inclusive")
	}
	if r.Contains(from.AddDate(0, 0, -1)) || r.Contains(to.AddDate(0, 0, 1)) {
		t.Fatalf("out-of-range dates must be excluded")
	}
	if r.Contains(time.Time{}) {
		t.Fatalf("zero dates are outside every bounded range")
	}
	if !(DateRange{}).Contains(time.Time{}) {
		t.Fatalf("unbounded range matches everything")
	}
}
