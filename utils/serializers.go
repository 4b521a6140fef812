package utils

import (
	"time"

	"asistencia_colegio_go/models"
	"asistencia_colegio_go/services/convivencia"
)

// Compact representations used across APIs
type StudentShort struct {
	ID             uint   `json:"id"`
	Nombre         string `json:"nombre"`
	Grado          string `json:"grado"`
	Grupo          string `json:"grupo"`
	Identificacion string `json:"identificacion"`
}

type UserShort struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	Nombre        string `json:"nombre"`
	Rol           string `json:"rol"`
	GradoAsignado string `json:"grado_asignado,omitempty"`
	GrupoAsignado string `json:"grupo_asignado,omitempty"`
}

// StudentProfileDTO is the composed profile response: identity, sorted
// collections and the core engine outputs.
type StudentProfileDTO struct {
	Estudiante         StudentDetail                 `json:"estudiante"`
	Historial          []models.AttendanceRecord     `json:"historial"`
	Reportes           []models.ConductReport        `json:"reportesConvivencia"`
	ResumenAsistencia  convivencia.AttendanceSummary `json:"resumenAsistencia"`
	ReporteConvivencia convivencia.RiskReport        `json:"reporteConvivencia"`
}

type StudentDetail struct {
	ID              uint            `json:"id"`
	Nombre          string          `json:"nombre"`
	Grado           string          `json:"grado"`
	Grupo           string          `json:"grupo"`
	Identificacion  string          `json:"identificacion"`
	FechaNacimiento *time.Time      `json:"fechaNacimiento,omitempty"`
	Direccion       string          `json:"direccion,omitempty"`
	Telefono        string          `json:"telefono,omitempty"`
	Email           string          `json:"email,omitempty"`
	Padre           models.Guardian `json:"padre"`
	Madre           models.Guardian `json:"madre"`
	Tutor           models.Guardian `json:"tutor"`
}

// ToStudentShort maps a student to its list representation with normalized
// grado/grupo, so every listing shows the canonical labels.
func ToStudentShort(s models.Student) StudentShort {
	return StudentShort{
		ID:             s.ID,
		Nombre:         s.Nombre,
		Grado:          convivencia.NormalizeGrade(s.Grado),
		Grupo:          convivencia.NormalizeGroup(s.Grupo),
		Identificacion: s.Identificacion,
	}
}

func ToStudentDetail(s models.Student) StudentDetail {
	return StudentDetail{
		ID:              s.ID,
		Nombre:          s.Nombre,
		Grado:           s.Grado,
		Grupo:           s.Grupo,
		Identificacion:  s.Identificacion,
		FechaNacimiento: s.FechaNacimiento,
		Direccion:       s.Direccion,
		Telefono:        s.Telefono,
		Email:           s.Email,
		Padre:           s.Padre,
		Madre:           s.Madre,
		Tutor:           s.Tutor,
	}
}

func ToUserShort(u models.User) UserShort {
	return UserShort{
		ID:            u.ID,
		Username:      u.Username,
		Nombre:        u.Nombre,
		Rol:           u.Rol,
		GradoAsignado: u.GradoAsignado,
		GrupoAsignado: u.GrupoAsignado,
	}
}
