package controllers

import (
	"errors"
	"sort"
	"strings"

	"asistencia_colegio_go/database"
	"asistencia_colegio_go/models"
	"asistencia_colegio_go/services/convivencia"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct{}

// parseRange reads the optional desde/hasta query parameters.
// An unparsable bound is reported, not silently ignored.
func parseRange(c *fiber.Ctx) (convivencia.DateRange, bool) {
	var r convivencia.DateRange
	if desde := c.Query("desde"); desde != "" {
		from, ok := convivencia.ParseDate(desde)
		if !ok {
			return r, false
		}
		r.From = from
	}
	if hasta := c.Query("hasta"); hasta != "" {
		to, ok := convivencia.ParseDate(hasta)
		if !ok {
			return r, false
		}
		r.To = to
	}
	return r, true
}

// respondScopeError maps a loadScopedStudents failure to its status:
// an incomplete assignment is a denial, anything else is a storage error.
func respondScopeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, convivencia.ErrScopeIncomplete) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "No tiene un grado y grupo asignados",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "No se pudieron obtener los estudiantes",
	})
}

// loadScopedStudents fetches students with their attendance history,
// restricted to the caller's scope.
func loadScopedStudents(c *fiber.Ctx) ([]models.Student, error) {
	scope, _, err := resolveScope(c)
	if err != nil {
		return nil, err
	}

	var students []models.Student
	if err := database.DB.Preload("Historial").Order("nombre ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	if scope == nil {
		return students, nil
	}

	scoped := students[:0]
	for _, s := range students {
		if scope.Matches(s.Grado, s.Grupo) {
			scoped = append(scoped, s)
		}
	}
	return scoped, nil
}

// GetGeneralReport returns the per-student tally rows
func (rc *ReportController) GetGeneralReport(c *fiber.Ctx) error {
	r, ok := parseRange(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rango de fechas invalido"})
	}

	students, err := loadScopedStudents(c)
	if err != nil {
		return respondScopeError(c, err)
	}

	rows := convivencia.StudentRows(students, r)
	return c.JSON(fiber.Map{"reporte": rows, "total": len(rows)})
}

// GetGroupReport returns attendance rolled up by (grado, grupo)
func (rc *ReportController) GetGroupReport(c *fiber.Ctx) error {
	r, ok := parseRange(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rango de fechas invalido"})
	}

	students, err := loadScopedStudents(c)
	if err != nil {
		return respondScopeError(c, err)
	}

	rollups := convivencia.RollupByGroup(students, r)
	return c.JSON(fiber.Map{"grupos": rollups, "total": len(rollups)})
}

// GetGlobalStats returns the whole-scope attendance totals
func (rc *ReportController) GetGlobalStats(c *fiber.Ctx) error {
	r, ok := parseRange(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rango de fechas invalido"})
	}

	students, err := loadScopedStudents(c)
	if err != nil {
		return respondScopeError(c, err)
	}

	stats := convivencia.GlobalStats(students, r)
	return c.JSON(fiber.Map{"estadisticas": stats})
}

// RiskRow is one student's entry in the risk report
type RiskRow struct {
	ID       uint     `json:"id"`
	Nombre   string   `json:"nombre"`
	Grado    string   `json:"grado"`
	Grupo    string   `json:"grupo"`
	Nivel    string   `json:"nivel"`
	Puntaje  int      `json:"puntajeRiesgo"`
	Alertas  []string `json:"alertas"`
	Abiertos int      `json:"reportesAbiertos"`
}

// GetRiskReport scores every visible student and returns them ordered
// by descending risk. The optional nivel query filters by tier.
func (rc *ReportController) GetRiskReport(c *fiber.Ctx) error {
	scope, _, err := resolveScope(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "No tiene un grado y grupo asignados",
		})
	}

	var students []models.Student
	if err := database.DB.Preload("Historial").Preload("Reportes").Order("nombre ASC").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error interno"})
	}

	nivelFilter := strings.ToLower(strings.TrimSpace(c.Query("nivel")))

	rows := make([]RiskRow, 0, len(students))
	for _, s := range students {
		if scope != nil && !scope.Matches(s.Grado, s.Grupo) {
			continue
		}

		resumen := convivencia.Summarize(s.Historial)
		report := convivencia.BuildRiskReport(s.Historial, resumen, s.Reportes)

		if nivelFilter != "" && report.Nivel != nivelFilter {
			continue
		}

		rows = append(rows, RiskRow{
			ID:       s.ID,
			Nombre:   s.Nombre,
			Grado:    convivencia.NormalizeGrade(s.Grado),
			Grupo:    convivencia.NormalizeGroup(s.Grupo),
			Nivel:    report.Nivel,
			Puntaje:  report.PuntajeRiesgo,
			Alertas:  report.Alertas,
			Abiertos: report.ReportesAbiertos,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Puntaje > rows[j].Puntaje
	})

	return c.JSON(fiber.Map{"riesgo": rows, "total": len(rows)})
}
