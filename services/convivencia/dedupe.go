package convivencia

import "asistencia_colegio_go/models"

// IsDuplicateAttendance reports whether the candidate matches an existing
// record of the same student on the same calendar day, on all normalized
// fields. excludeID skips the record being edited so it never collides with
// itself; pass 0 on create. Linear scan: a single student's history is small
// enough that no index is worth keeping.
func IsDuplicateAttendance(existing []models.AttendanceRecord, candidate models.AttendanceRecord, excludeID uint) bool {
	day := DayKey(candidate.Fecha)
	tipo := NormalizeAttendanceType(candidate.Tipo)
	hora := NormalizeText(candidate.Hora)
	observacion := NormalizeText(candidate.Observacion)

	for _, r := range existing {
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if DayKey(r.Fecha) != day {
			continue
		}
		if NormalizeAttendanceType(r.Tipo) != tipo {
			continue
		}
		if NormalizeText(r.Hora) != hora || NormalizeText(r.Observacion) != observacion {
			continue
		}
		return true
	}
	return false
}

// IsDuplicateConduct is the conduct-report counterpart: same calendar day plus
// matching categoria, gravedad, estado, descripcion and acciones after
// normalization.
func IsDuplicateConduct(existing []models.ConductReport, candidate models.ConductReport, excludeID uint) bool {
	day := DayKey(candidate.Fecha)
	categoria := NormalizeText(candidate.Categoria)
	gravedad := NormalizeSeverity(candidate.Gravedad)
	estado := NormalizeText(candidate.Estado)
	descripcion := NormalizeText(candidate.Descripcion)
	acciones := NormalizeText(candidate.Acciones)

	for _, r := range existing {
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if DayKey(r.Fecha) != day {
			continue
		}
		if NormalizeText(r.Categoria) != categoria || NormalizeSeverity(r.Gravedad) != gravedad {
			continue
		}
		if NormalizeText(r.Estado) != estado {
			continue
		}
		if NormalizeText(r.Descripcion) != descripcion || NormalizeText(r.Acciones) != acciones {
			continue
		}
		return true
	}
	return false
}
