package controllers

import (
	"strconv"

	"asistencia_colegio_go/database"
	"asistencia_colegio_go/middleware"
	"asistencia_colegio_go/models"
	"asistencia_colegio_go/services/convivencia"
	"asistencia_colegio_go/utils"

	"github.com/gofiber/fiber/v2"
)

type ProfileController struct{}

// GetStudentProfile returns the full profile for a student: identity,
// date-sorted history and reports, the attendance summary and the
// conduct risk report.
func (pc *ProfileController) GetStudentProfile(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID invalido"})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Estudiante no encontrado"})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil || !convivencia.CanAccess(user, student.Grado, student.Grupo) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "No tiene acceso a este estudiante",
		})
	}

	var history []models.AttendanceRecord
	if err := database.DB.Where("student_id = ?", student.ID).Find(&history).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error interno"})
	}

	var reports []models.ConductReport
	if err := database.DB.Where("student_id = ?", student.ID).Find(&reports).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error interno"})
	}

	resumen := convivencia.Summarize(history)

	profile := utils.StudentProfileDTO{
		Estudiante:         utils.ToStudentDetail(student),
		Historial:          convivencia.SortedByDateDesc(history),
		Reportes:           convivencia.SortedReportsByDateDesc(reports),
		ResumenAsistencia:  resumen,
		ReporteConvivencia: convivencia.BuildRiskReport(history, resumen, reports),
	}

	return c.JSON(profile)
}
