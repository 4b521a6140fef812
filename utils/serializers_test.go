package utils

import (
	"testing"

	"asistencia_colegio_go/models"
)

func TestToStudentShortNormalizesLabels(t *testing.T) {
	s := models.Student{
		Nombre:         "Ana Lopez",
		Identificacion: "TI-1001",
		Grado:          " 8° ",
		Grupo:          " b ",
	}
	s.ID = 7

	short := ToStudentShort(s)
	if short.ID != 7 || short.Nombre != "Ana Lopez" || short.Identificacion != "TI-1001" {
		t.Fatalf("identity fields not carried over: %+v", short)
	}
	if short.Grado != "8" {
		t.Errorf("Grado = %q, want %q", short.Grado, "8")
	}
	if short.Grupo != "B" {
		t.Errorf("Grupo = %q, want %q", short.Grupo, "B")
	}
}

func TestToStudentDetailKeepsRawLabels(t *testing.T) {
	s := models.Student{
		Nombre: "Ana Lopez",
		Grado:  "8°",
		Grupo:  "b",
		Padre:  models.Guardian{Nombre: "Carlos Lopez", Telefono: "3001112233"},
	}

	detail := ToStudentDetail(s)
	if detail.Grado != "8°" || detail.Grupo != "b" {
		t.Errorf("detail labels were normalized: grado=%q grupo=%q", detail.Grado, detail.Grupo)
	}
	if detail.Padre.Nombre != "Carlos Lopez" {
		t.Errorf("Padre not carried over: %+v", detail.Padre)
	}
}

func TestToUserShortOmitsPassword(t *testing.T) {
	u := models.User{
		Username:      "profe1",
		Nombre:        "Profesora Uno",
		Rol:           "profesor",
		GradoAsignado: "8",
		GrupoAsignado: "B",
		Password:      "hash",
	}
	u.ID = 3

	short := ToUserShort(u)
	if short.ID != 3 || short.Username != "profe1" || short.Rol != "profesor" {
		t.Fatalf("unexpected mapping: %+v", short)
	}
	if short.GradoAsignado != "8" || short.GrupoAsignado != "B" {
		t.Errorf("assignment not carried over: %+v", short)
	}
}
