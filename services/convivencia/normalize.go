// Package convivencia holds the attendance summarization, duplicate detection,
// conduct risk scoring and access-scope rules. Every function here is a pure
// computation over collections the caller already fetched: no I/O, no global
// state, no clocks besides time.Now at the exported entry points.
package convivencia

import (
	"strings"
	"time"
)

// Canonical attendance types.
const (
	TipoPresente = "presente"
	TipoFalta    = "falta"
	TipoRetardo  = "retardo"
	TipoSalida   = "salida"
)

// Canonical conduct severity tiers. The legacy baja/media/alta vocabulary maps
// 1:1 and stays accepted on input permanently (old records never migrate).
const (
	GravedadTipo1 = "tipo1"
	GravedadTipo2 = "tipo2"
	GravedadTipo3 = "tipo3"
)

// Conduct report states.
const (
	EstadoAbierto     = "abierto"
	EstadoSeguimiento = "en seguimiento"
	EstadoCerrado     = "cerrado"
)

// Conduct report categories.
const (
	CategoriaConvivencia   = "convivencia"
	CategoriaDisciplinario = "disciplinario"
	CategoriaAcoso         = "acoso"
	CategoriaAgresion      = "agresion"
	CategoriaOtro          = "otro"
)

// User roles.
const (
	RolAdmin    = "admin"
	RolProfesor = "profesor"
)

// NormalizeGrade strips everything that is not a letter or digit, so "8°",
// " 8 " and "8" all compare equal.
func NormalizeGrade(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeGroup trims and uppercases a group label.
func NormalizeGroup(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NormalizeSeverity maps any accepted severity token to the canonical tier.
// Unknown or empty input falls back to the middle tier.
func NormalizeSeverity(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case GravedadTipo1, "1", "baja":
		return GravedadTipo1
	case GravedadTipo3, "3", "alta":
		return GravedadTipo3
	default:
		return GravedadTipo2
	}
}

// NormalizeAttendanceType returns the canonical attendance token, or "" when
// the input matches none of the four types. Callers must treat "" as invalid.
func NormalizeAttendanceType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case TipoPresente:
		return TipoPresente
	case TipoFalta:
		return TipoFalta
	case TipoRetardo:
		return TipoRetardo
	case TipoSalida:
		return TipoSalida
	default:
		return ""
	}
}

// NormalizeText prepares free text for equality checks: trim, lowercase,
// collapse internal whitespace runs. Never used for display.
func NormalizeText(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseDate parses the date formats the API accepts (ISO-8601 with or without
// time, MySQL datetime, DD/MM/YYYY as used by the CSV import).
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateKey extracts the UTC calendar day of a timestamp string as YYYY-MM-DD,
// or "" when the input cannot be parsed.
func DateKey(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return ""
	}
	return DayKey(t)
}

// DayKey is DateKey for native times. The zero value yields "", mirroring an
// unparsable timestamp.
func DayKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
