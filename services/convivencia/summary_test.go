package convivencia

import (
	"testing"
	"time"

	"asistencia_colegio_go/models"
)

func record(fecha time.Time, tipo string) models.AttendanceRecord {
	return models.AttendanceRecord{Fecha: fecha, Tipo: tipo}
}

func TestSummarizeCounts(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	history := []models.AttendanceRecord{
		record(now.AddDate(0, 0, -2), "presente"),
		record(now.AddDate(0, 0, -10), "falta"),
		record(now.AddDate(0, 0, -10), "falta"),
		record(now.AddDate(0, 0, -40), "falta"),
		record(now.AddDate(0, 0, -5), "retardo"),
		record(now.AddDate(0, 0, -45), "salida"),
	}

	s := summarizeAt(history, now)

	if s.TotalRegistros != 6 {
		t.Fatalf("expected 6 records, got %d", s.TotalRegistros)
	}
	if s.Presentes != 1 || s.Faltas != 3 || s.Retardos != 1 || s.Salidas != 1 {
		t.Fatalf("unexpected all-time counts: %+v", s)
	}
	if sum := s.Presentes + s.Faltas + s.Retardos + s.Salidas; sum != s.TotalRegistros {
		t.Fatalf("category counts %d do not add up to total %d", sum, s.TotalRegistros)
	}
	if s.Ultimos30Dias.Total != 4 || s.Ultimos30Dias.Faltas != 2 {
		t.Fatalf("unexpected 30-day counts: %+v", s.Ultimos30Dias)
	}
}

func TestSummarize30DaySubset(t *testing.T) {
	now := time.Now()
	history := []models.AttendanceRecord{
		record(now.AddDate(0, 0, -1), "falta"),
		record(now.AddDate(0, 0, -31), "falta"),
		record(now.AddDate(0, 0, -60), "retardo"),
		// Future-dated records past the cutoff are deliberately included.
		record(now.AddDate(0, 0, 3), "salida"),
	}

	s := Summarize(history)

	if s.Ultimos30Dias.Total > s.TotalRegistros {
		t.Fatalf("30-day total %d exceeds all-time total %d", s.Ultimos30Dias.Total, s.TotalRegistros)
	}
	if s.Ultimos30Dias.Faltas > s.Faltas || s.Ultimos30Dias.Retardos > s.Retardos || s.Ultimos30Dias.Salidas > s.Salidas {
		t.Fatalf("a 30-day category count exceeds its all-time count: %+v", s)
	}
	if s.Ultimos30Dias.Salidas != 1 {
		t.Fatalf("expected the future-dated salida inside the window, got %+v", s.Ultimos30Dias)
	}
}

func TestSummarizeSortsInternally(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	// Oldest first on purpose: the summarizer must not rely on input order.
	history := []models.AttendanceRecord{
		record(now.AddDate(0, 0, -40), "falta"),
		record(now.AddDate(0, 0, -1), "retardo"),
		record(now.AddDate(0, 0, -10), "presente"),
	}

	s := summarizeAt(history, now)

	if s.UltimoRegistro == nil {
		t.Fatalf("expected a latest record")
	}
	if s.UltimoRegistro.Tipo != "retardo" {
		t.Fatalf("expected the newest record, got tipo %q", s.UltimoRegistro.Tipo)
	}
}

func TestSummarizeEmptyHistory(t *testing.T) {
	s := Summarize(nil)
	if s.TotalRegistros != 0 || s.Ultimos30Dias.Total != 0 {
		t.Fatalf("expected all-zero summary, got %+v", s)
	}
	if s.UltimoRegistro != nil {
		t.Fatalf("expected nil ultimoRegistro for empty history")
	}
}

func TestSummarizeZeroDateExcludedFromWindow(t *testing.T) {
	now := time.Now()
	history := []models.AttendanceRecord{
		record(time.Time{}, "falta"),
		record(now.AddDate(0, 0, -1), "falta"),
	}

	s := Summarize(history)

	if s.Faltas != 2 {
		t.Fatalf("zero-date record must still count in the all-time totals, got %d", s.Faltas)
	}
	if s.Ultimos30Dias.Faltas != 1 {
		t.Fatalf("zero-date record must stay out of the 30-day window, got %d", s.Ultimos30Dias.Faltas)
	}
}
