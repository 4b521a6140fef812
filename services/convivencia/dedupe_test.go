package convivencia

import (
	"testing"
	"time"

	"asistencia_colegio_go/models"
)

func attendanceAt(id uint, fecha time.Time, tipo, hora, observacion string) models.AttendanceRecord {
	return models.AttendanceRecord{
		ChildModel:  models.ChildModel{ID: id},
		Fecha:       fecha,
		Tipo:        tipo,
		Hora:        hora,
		Observacion: observacion,
	}
}

func TestIsDuplicateAttendance(t *testing.T) {
	day := time.Date(2026, 4, 10, 7, 30, 0, 0, time.UTC)
	existing := []models.AttendanceRecord{
		attendanceAt(1, day, "falta", "07:30", "Sin excusa"),
	}

	tests := []struct {
		name      string
		candidate models.AttendanceRecord
		excludeID uint
		want      bool
	}{
		{
			name:      "identical",
			candidate: attendanceAt(0, day, "falta", "07:30", "Sin excusa"),
			want:      true,
		},
		{
			name: "same day different clock time",
			// The comparison is per calendar day, not per timestamp.
			candidate: attendanceAt(0, day.Add(5*time.Hour), "falta", "07:30", "Sin excusa"),
			want:      true,
		},
		{
			name:      "casing and whitespace differ",
			candidate: attendanceAt(0, day, "FALTA", " 07:30 ", "  sin   EXCUSA "),
			want:      true,
		},
		{
			name:      "different type",
			candidate: attendanceAt(0, day, "retardo", "07:30", "Sin excusa"),
			want:      false,
		},
		{
			name:      "different day",
			candidate: attendanceAt(0, day.AddDate(0, 0, 1), "falta", "07:30", "Sin excusa"),
			want:      false,
		},
		{
			name:      "different observation",
			candidate: attendanceAt(0, day, "falta", "07:30", "Con excusa medica"),
			want:      false,
		},
		{
			name:      "edit excludes itself",
			candidate: attendanceAt(1, day, "falta", "07:30", "Sin excusa"),
			excludeID: 1,
			want:      false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := IsDuplicateAttendance(existing, tc.candidate, tc.excludeID)
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestIsDuplicateConduct(t *testing.T) {
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	base := models.ConductReport{
		ChildModel:  models.ChildModel{ID: 7},
		Fecha:       day,
		Categoria:   "acoso",
		Gravedad:    "tipo3",
		Estado:      "abierto",
		Descripcion: "Incidente en el recreo",
		Acciones:    "Citacion a acudientes",
	}
	existing := []models.ConductReport{base}

	t.Run("legacy severity alias matches canonical", func(t *testing.T) {
		candidate := base
		candidate.ID = 0
		candidate.Gravedad = "alta"
		candidate.Fecha = day.Add(10 * time.Hour)
		if !IsDuplicateConduct(existing, candidate, 0) {
			t.Fatalf("expected duplicate for aliased severity on the same day")
		}
	})

	t.Run("different state is not a duplicate", func(t *testing.T) {
		candidate := base
		candidate.ID = 0
		candidate.Estado = "cerrado"
		if IsDuplicateConduct(existing, candidate, 0) {
			t.Fatalf("did not expect duplicate for a different state")
		}
	})

	t.Run("self exclusion during edit", func(t *testing.T) {
		if IsDuplicateConduct(existing, base, base.ID) {
			t.Fatalf("record must not collide with itself when editing")
		}
	})

	t.Run("empty collection", func(t *testing.T) {
		if IsDuplicateConduct(nil, base, 0) {
			t.Fatalf("no siblings means no duplicate")
		}
	})
}
