package convivencia

import (
	"testing"
	"time"

	"asistencia_colegio_go/models"
)

func conductReport(fecha time.Time, gravedad, estado, descripcion string) models.ConductReport {
	return models.ConductReport{
		Fecha:       fecha,
		Categoria:   "convivencia",
		Gravedad:    gravedad,
		Estado:      estado,
		Descripcion: descripcion,
	}
}

func TestBuildRiskReportEndToEnd(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	history := []models.AttendanceRecord{
		record(now.AddDate(0, 0, -10), "falta"),
		record(now.AddDate(0, 0, -10), "falta"),
		record(now.AddDate(0, 0, -40), "falta"),
	}
	reports := []models.ConductReport{
		conductReport(now.AddDate(0, 0, -5), "tipo3", "abierto", "x"),
	}

	summary := summarizeAt(history, now)
	if summary.Ultimos30Dias.Faltas != 2 || summary.Faltas != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	r := buildRiskReportAt(history, summary, reports, now)

	if len(r.ObservacionesRelevantes) != 1 {
		t.Fatalf("expected 1 observation (report only, no keyword match), got %d", len(r.ObservacionesRelevantes))
	}
	if r.ReportesAbiertos != 1 || r.TotalReportesConvivencia != 1 {
		t.Fatalf("unexpected report counts: %+v", r)
	}
	// 3*faltas30 + 3*observaciones + 5*altos30 + 2*abiertos = 6+3+5+2 = 16
	if r.PuntajeRiesgo != 16 {
		t.Fatalf("expected score 16, got %d", r.PuntajeRiesgo)
	}
	if r.Nivel != NivelMedio {
		t.Fatalf("expected nivel medio, got %q", r.Nivel)
	}
}

func TestRiskTierBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{11, NivelBajo},
		{12, NivelMedio},
		{24, NivelMedio},
		{25, NivelAlto},
	}

	now := time.Now()
	for _, tc := range tests {
		// retardos carry weight 1, so the 30-day retardo count sets the
		// score directly.
		summary := AttendanceSummary{Ultimos30Dias: PeriodCounts{Retardos: tc.score}}
		r := buildRiskReportAt(nil, summary, nil, now)
		if r.PuntajeRiesgo != tc.score {
			t.Fatalf("expected score %d, got %d", tc.score, r.PuntajeRiesgo)
		}
		if r.Nivel != tc.want {
			t.Fatalf("score %d: expected nivel %q, got %q", tc.score, tc.want, r.Nivel)
		}
	}
}

func TestRiskScoreMonotonicity(t *testing.T) {
	now := time.Now()
	summary := AttendanceSummary{}
	reports := []models.ConductReport{
		conductReport(now.AddDate(0, 0, -3), "tipo2", "cerrado", "registro previo"),
	}

	before := buildRiskReportAt(nil, summary, reports, now)

	// One more tier-3 open report dated today adds at least the high-severity
	// weight. While the observation feed is below its cap it also adds the
	// observation weight; once the feed saturates at 15 entries, only the
	// severity and open-state terms keep growing.
	extra := append(append([]models.ConductReport{}, reports...),
		conductReport(now, "tipo3", "abierto", "agresion fisica"))
	after := buildRiskReportAt(nil, summary, extra, now)

	if after.PuntajeRiesgo < before.PuntajeRiesgo+5 {
		t.Fatalf("expected score to grow by at least 5, got %d -> %d", before.PuntajeRiesgo, after.PuntajeRiesgo)
	}
}

func TestRiskObservationCapSaturatesScore(t *testing.T) {
	now := time.Now()
	many := make([]models.ConductReport, 0, 30)
	old := now.AddDate(0, 0, -60) // outside every 30-day aggregate
	for i := 0; i < 30; i++ {
		many = append(many, conductReport(old, "tipo1", "cerrado", "incidente"))
	}

	r := buildRiskReportAt(nil, AttendanceSummary{}, many, now)

	if len(r.ObservacionesRelevantes) != maxObservaciones {
		t.Fatalf("expected feed capped at %d, got %d", maxObservaciones, len(r.ObservacionesRelevantes))
	}
	// 30 closed old reports score exactly like 15: the term saturates.
	if r.PuntajeRiesgo != maxObservaciones*weightObservaciones {
		t.Fatalf("expected saturated score %d, got %d", maxObservaciones*weightObservaciones, r.PuntajeRiesgo)
	}
	if r.TotalReportesConvivencia != 30 {
		t.Fatalf("total report count must not be capped, got %d", r.TotalReportesConvivencia)
	}
}

func TestRiskMergeOrderAndTieBreak(t *testing.T) {
	now := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	history := []models.AttendanceRecord{
		{Fecha: now, Tipo: "retardo", Observacion: "pelea en el pasillo"},
		{Fecha: now.AddDate(0, 0, -2), Tipo: "falta", Observacion: "sin novedad"},
	}
	reports := []models.ConductReport{
		conductReport(now, "tipo2", "abierto", "reporte del mismo dia"),
		conductReport(now.AddDate(0, 0, -1), "tipo1", "cerrado", "reporte anterior"),
	}

	r := buildRiskReportAt(history, summarizeAt(history, now), reports, now)

	if len(r.ObservacionesRelevantes) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(r.ObservacionesRelevantes))
	}
	// Same-date tie: the conduct report sorts ahead of the flagged
	// attendance entry because reports are concatenated first and the sort
	// is stable.
	if r.ObservacionesRelevantes[0].Fuente != FuenteReporte {
		t.Fatalf("expected reporte first on date tie, got %q", r.ObservacionesRelevantes[0].Fuente)
	}
	if r.ObservacionesRelevantes[1].Fuente != FuenteAsistencia {
		t.Fatalf("expected flagged attendance second, got %q", r.ObservacionesRelevantes[1].Fuente)
	}
	if r.ObservacionesRelevantes[2].Observacion != "reporte anterior" {
		t.Fatalf("expected older report last, got %q", r.ObservacionesRelevantes[2].Observacion)
	}
}

func TestRiskAlerts(t *testing.T) {
	now := time.Now()

	t.Run("empty inputs produce the fallback alert", func(t *testing.T) {
		r := buildRiskReportAt(nil, AttendanceSummary{}, nil, now)
		if r.PuntajeRiesgo != 0 || r.Nivel != NivelBajo {
			t.Fatalf("expected zero low-risk report, got %+v", r)
		}
		if len(r.Alertas) != 1 || r.Alertas[0] != "Sin alertas relevantes de convivencia." {
			t.Fatalf("unexpected alerts: %v", r.Alertas)
		}
	})

	t.Run("thresholds fire independently", func(t *testing.T) {
		summary := AttendanceSummary{Ultimos30Dias: PeriodCounts{Faltas: 3, Retardos: 5, Salidas: 3}}
		reports := []models.ConductReport{
			conductReport(now.AddDate(0, 0, -1), "tipo3", "en seguimiento", "acoso reiterado"),
		}
		r := buildRiskReportAt(nil, summary, reports, now)
		if len(r.Alertas) != 5 {
			t.Fatalf("expected all 5 alerts, got %v", r.Alertas)
		}
	})

	t.Run("keyword matching is substring and case-insensitive", func(t *testing.T) {
		history := []models.AttendanceRecord{
			{Fecha: now, Tipo: "falta", Observacion: "Se reporta AGRESION verbal"},
			{Fecha: now, Tipo: "falta", Observacion: "llego tarde por transporte"},
		}
		r := buildRiskReportAt(history, AttendanceSummary{}, nil, now)
		if len(r.ObservacionesRelevantes) != 1 {
			t.Fatalf("expected exactly the keyword-flagged record, got %d", len(r.ObservacionesRelevantes))
		}
		if r.ObservacionesRelevantes[0].Fuente != FuenteAsistencia {
			t.Fatalf("expected fuente asistencia, got %q", r.ObservacionesRelevantes[0].Fuente)
		}
	})
}
