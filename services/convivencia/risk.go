package convivencia

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"asistencia_colegio_go/models"
)

// Observation is one entry of the relevance feed: either a conduct report or
// an attendance record whose free-text observation matched a conduct keyword.
type Observation struct {
	Fecha         time.Time `json:"fecha"`
	Tipo          string    `json:"tipo"`
	Observacion   string    `json:"observacion"`
	RegistradoPor string    `json:"registradoPor"`
	Gravedad      string    `json:"gravedad,omitempty"`
	Estado        string    `json:"estado,omitempty"`
	Fuente        string    `json:"fuente"` // "reporte" or "asistencia"
}

// Observation sources.
const (
	FuenteAsistencia = "asistencia"
	FuenteReporte    = "reporte"
)

// RiskReport is the composed conduct output: tier, score, generated alerts and
// the ranked relevance feed.
type RiskReport struct {
	Nivel                    string        `json:"nivel"`
	PuntajeRiesgo            int           `json:"puntajeRiesgo"`
	Alertas                  []string      `json:"alertas"`
	ObservacionesRelevantes  []Observation `json:"observacionesRelevantes"`
	TotalReportesConvivencia int           `json:"totalReportesConvivencia"`
	ReportesAbiertos         int           `json:"reportesAbiertos"`
}

// Attendance observations are flagged when their text contains any of these
// fragments (substring match, case-insensitive).
var conductKeywords = []string{
	"pelea", "agres", "acoso", "bully", "insulto",
	"violencia", "indisciplina", "irrespeto", "conflicto", "disciplina",
}

// Risk score weights and tier cutoffs.
const (
	weightFaltas30        = 3
	weightRetardos30      = 1
	weightSalidas30       = 2
	weightObservaciones   = 3
	weightReportesAltos30 = 5
	weightAbiertos        = 2

	maxObservaciones = 15

	umbralAlto  = 25
	umbralMedio = 12
)

// Risk tiers.
const (
	NivelBajo  = "bajo"
	NivelMedio = "medio"
	NivelAlto  = "alto"
)

// BuildRiskReport merges conduct reports and keyword-flagged attendance
// observations into a ranked feed, scores the student and generates alerts.
// It never fails: empty inputs produce an all-zero report with the fallback
// alert.
func BuildRiskReport(history []models.AttendanceRecord, summary AttendanceSummary, reports []models.ConductReport) RiskReport {
	return buildRiskReportAt(history, summary, reports, time.Now())
}

func buildRiskReportAt(history []models.AttendanceRecord, summary AttendanceSummary, reports []models.ConductReport, now time.Time) RiskReport {
	// Conduct reports go first so the stable sort keeps them ahead of
	// attendance entries sharing the same date.
	observaciones := make([]Observation, 0, len(reports))
	for _, r := range reports {
		categoria := strings.TrimSpace(r.Categoria)
		if categoria == "" {
			categoria = CategoriaConvivencia
		}
		estado := strings.TrimSpace(r.Estado)
		if estado == "" {
			estado = EstadoAbierto
		}
		observaciones = append(observaciones, Observation{
			Fecha:         r.Fecha,
			Tipo:          categoria,
			Observacion:   r.Descripcion,
			RegistradoPor: r.RegistradoPor,
			Gravedad:      NormalizeSeverity(r.Gravedad),
			Estado:        estado,
			Fuente:        FuenteReporte,
		})
	}
	for _, h := range history {
		if matchesConductKeyword(h.Observacion) {
			observaciones = append(observaciones, Observation{
				Fecha:         h.Fecha,
				Tipo:          h.Tipo,
				Observacion:   h.Observacion,
				RegistradoPor: h.RegistradoPor,
				Fuente:        FuenteAsistencia,
			})
		}
	}

	sort.SliceStable(observaciones, func(i, j int) bool {
		return observaciones[i].Fecha.After(observaciones[j].Fecha)
	})
	if len(observaciones) > maxObservaciones {
		observaciones = observaciones[:maxObservaciones]
	}

	cutoff := now.Add(-30 * 24 * time.Hour)
	reportes30 := 0
	reportesAltos30 := 0
	reportesAbiertos := 0
	for _, r := range reports {
		// Zero dates mirror the unparsable-date guard: out of every window.
		in30 := !r.Fecha.IsZero() && !r.Fecha.Before(cutoff)
		if in30 {
			reportes30++
			if NormalizeSeverity(r.Gravedad) == GravedadTipo3 {
				reportesAltos30++
			}
		}
		if NormalizeText(r.Estado) != EstadoCerrado {
			reportesAbiertos++
		}
	}

	faltas30 := summary.Ultimos30Dias.Faltas
	retardos30 := summary.Ultimos30Dias.Retardos
	salidas30 := summary.Ultimos30Dias.Salidas

	// The observation term saturates at the feed cap: incidents beyond the
	// top 15 do not raise the score further.
	puntaje := faltas30*weightFaltas30 +
		retardos30*weightRetardos30 +
		salidas30*weightSalidas30 +
		len(observaciones)*weightObservaciones +
		reportesAltos30*weightReportesAltos30 +
		reportesAbiertos*weightAbiertos

	nivel := NivelBajo
	if puntaje >= umbralAlto {
		nivel = NivelAlto
	} else if puntaje >= umbralMedio {
		nivel = NivelMedio
	}

	alertas := []string{}
	if faltas30 >= 3 {
		alertas = append(alertas, "Acumula 3 o mas faltas en los ultimos 30 dias.")
	}
	if retardos30 >= 5 {
		alertas = append(alertas, "Acumula 5 o mas retardos en los ultimos 30 dias.")
	}
	if salidas30 >= 3 {
		alertas = append(alertas, "Acumula 3 o mas salidas anticipadas en los ultimos 30 dias.")
	}
	if reportes30 > 0 {
		alertas = append(alertas, fmt.Sprintf("Tiene %d reporte(s) de convivencia en los ultimos 30 dias.", reportes30))
	}
	if reportesAbiertos > 0 {
		alertas = append(alertas, fmt.Sprintf("Tiene %d reporte(s) de convivencia abiertos/en seguimiento.", reportesAbiertos))
	}
	if len(alertas) == 0 {
		alertas = append(alertas, "Sin alertas relevantes de convivencia.")
	}

	return RiskReport{
		Nivel:                    nivel,
		PuntajeRiesgo:            puntaje,
		Alertas:                  alertas,
		ObservacionesRelevantes:  observaciones,
		TotalReportesConvivencia: len(reports),
		ReportesAbiertos:         reportesAbiertos,
	}
}

func matchesConductKeyword(observacion string) bool {
	if observacion == "" {
		return false
	}
	lower := strings.ToLower(observacion)
	for _, kw := range conductKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
