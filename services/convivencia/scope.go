package convivencia

import (
	"errors"

	"asistencia_colegio_go/models"
)

// Scope restricts a caller to one (grado, grupo) pair. Values are stored
// normalized.
type Scope struct {
	Grado string
	Grupo string
}

// ErrScopeIncomplete is returned when a profesor has no usable assignment:
// such callers are denied everything rather than given a partial view.
var ErrScopeIncomplete = errors.New("asignacion de grado/grupo incompleta")

// ComputeScope returns the caller's scope, or nil for admins (unrestricted).
// The returned scope may be incomplete; ScopeFilter is the checked variant.
func ComputeScope(user *models.User) *Scope {
	if user == nil || user.Rol == RolAdmin {
		return nil
	}
	return &Scope{
		Grado: NormalizeGrade(user.GradoAsignado),
		Grupo: NormalizeGroup(user.GrupoAsignado),
	}
}

// ScopeFilter returns the filter every list/aggregate operation must apply
// before returning data. Admins get nil (match all); scoped callers with an
// incomplete assignment get ErrScopeIncomplete.
func ScopeFilter(user *models.User) (*Scope, error) {
	scope := ComputeScope(user)
	if scope == nil {
		return nil, nil
	}
	if scope.Grado == "" || scope.Grupo == "" {
		return nil, ErrScopeIncomplete
	}
	return scope, nil
}

// CanAccess decides whether the caller may see or mutate one student. Admins
// always can; a profesor needs a complete assignment matching the student's
// normalized grado and grupo exactly.
func CanAccess(user *models.User, grado, grupo string) bool {
	scope, err := ScopeFilter(user)
	if err != nil {
		return false
	}
	if scope == nil {
		return true
	}
	return scope.Grado == NormalizeGrade(grado) && scope.Grupo == NormalizeGroup(grupo)
}

// Matches reports whether a student falls inside the scope. A nil scope
// matches everything.
func (s *Scope) Matches(grado, grupo string) bool {
	if s == nil {
		return true
	}
	return s.Grado == NormalizeGrade(grado) && s.Grupo == NormalizeGroup(grupo)
}
