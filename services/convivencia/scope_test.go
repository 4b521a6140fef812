package convivencia

import (
	"testing"

	"asistencia_colegio_go/models"
)

func profesor(grado, grupo string) *models.User {
	return &models.User{Rol: RolProfesor, GradoAsignado: grado, GrupoAsignado: grupo}
}

func TestComputeScope(t *testing.T) {
	if scope := ComputeScope(&models.User{Rol: RolAdmin}); scope != nil {
		t.Fatalf("admin must be unrestricted, got %+v", scope)
	}

	scope := ComputeScope(profesor(" 8° ", "b"))
	if scope == nil {
		t.Fatalf("expected a scope for profesor")
	}
	if scope.Grado != "8" || scope.Grupo != "B" {
		t.Fatalf("expected normalized scope 8/B, got %+v", scope)
	}
}

func TestScopeFilter(t *testing.T) {
	tests := []struct {
		name    string
		user    *models.User
		wantErr bool
		wantNil bool
	}{
		{name: "admin gets match-all", user: &models.User{Rol: RolAdmin}, wantNil: true},
		{name: "complete assignment", user: profesor("8", "B")},
		{name: "missing grado rejected", user: profesor("", "B"), wantErr: true},
		{name: "missing grupo rejected", user: profesor("8", ""), wantErr: true},
		{name: "symbol-only grado rejected", user: profesor("°", "B"), wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			scope, err := ScopeFilter(tc.user)
			if tc.wantErr {
				if err != ErrScopeIncomplete {
					t.Fatalf("expected ErrScopeIncomplete, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantNil != (scope == nil) {
				t.Fatalf("expected nil=%v, got %+v", tc.wantNil, scope)
			}
		})
	}
}

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name         string
		user         *models.User
		grado, grupo string
		want         bool
	}{
		{name: "admin sees everything", user: &models.User{Rol: RolAdmin}, grado: "11", grupo: "C", want: true},
		{name: "matching assignment", user: profesor("8", "B"), grado: "8°", grupo: " b ", want: true},
		{name: "wrong grupo", user: profesor("8", "B"), grado: "8", grupo: "A", want: false},
		{name: "wrong grado", user: profesor("8", "B"), grado: "9", grupo: "B", want: false},
		// A scoped caller with an empty assignment is denied everything,
		// including students whose fields are also empty.
		{name: "empty assignment denied outright", user: profesor("", "B"), grado: "", grupo: "B", want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAccess(tc.user, tc.grado, tc.grupo); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
