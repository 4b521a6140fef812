package controllers

import (
	"strconv"
	"strings"

	"asistencia_colegio_go/database"
	"asistencia_colegio_go/middleware"
	"asistencia_colegio_go/models"
	"asistencia_colegio_go/services/convivencia"
	"asistencia_colegio_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConductController struct{}

// ConductRequest represents the create/update payload for a conduct report
type ConductRequest struct {
	Fecha       string `json:"fecha" validate:"required"`
	Categoria   string `json:"categoria"`
	Gravedad    string `json:"gravedad"`
	Estado      string `json:"estado"`
	Descripcion string `json:"descripcion" validate:"required"`
	Acciones    string `json:"acciones"`
}

// CreateConductReport files a conduct report for a student
func (cc *ConductController) CreateConductReport(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID invalido"})
	}

	var req ConductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cuerpo de la peticion invalido",
		})
	}

	if strings.TrimSpace(req.Descripcion) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "La descripcion es requerida",
		})
	}

	fecha, ok := convivencia.ParseDate(req.Fecha)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Fecha invalida",
		})
	}

	categoria := strings.ToLower(strings.TrimSpace(req.Categoria))
	if categoria == "" {
		categoria = convivencia.CategoriaConvivencia
	}
	if !utils.IsValidCategoria(categoria) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Categoria invalida",
		})
	}

	estado := strings.ToLower(strings.TrimSpace(req.Estado))
	if estado == "" {
		estado = convivencia.EstadoAbierto
	}
	if !utils.IsValidEstado(estado) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Estado invalido",
		})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Usuario no encontrado"})
	}

	report := models.ConductReport{
		StudentID:     uint(studentID),
		Fecha:         fecha,
		Categoria:     categoria,
		Gravedad:      convivencia.NormalizeSeverity(req.Gravedad),
		Estado:        estado,
		Descripcion:   utils.SanitizeString(req.Descripcion),
		Acciones:      utils.SanitizeString(req.Acciones),
		RegistradoPor: user.Nombre,
	}

	status, payload := cc.writeConductReport(c, user, uint(studentID), &report, 0)
	return c.Status(status).JSON(payload)
}

// UpdateConductReport edits an existing report, typically to move its
// estado through the follow-up lifecycle.
func (cc *ConductController) UpdateConductReport(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID invalido"})
	}
	reportID, err := strconv.ParseUint(c.Params("reportId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID de reporte invalido"})
	}

	var existing models.ConductReport
	if err := database.DB.Where("id = ? AND student_id = ?", uint(reportID), uint(studentID)).First(&existing).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reporte no encontrado"})
	}

	var req ConductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cuerpo de la peticion invalido",
		})
	}

	if req.Fecha != "" {
		fecha, ok := convivencia.ParseDate(req.Fecha)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Fecha invalida"})
		}
		existing.Fecha = fecha
	}
	if req.Categoria != "" {
		categoria := strings.ToLower(strings.TrimSpace(req.Categoria))
		if !utils.IsValidCategoria(categoria) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Categoria invalida"})
		}
		existing.Categoria = categoria
	}
	if req.Gravedad != "" {
		existing.Gravedad = convivencia.NormalizeSeverity(req.Gravedad)
	}
	if req.Estado != "" {
		estado := strings.ToLower(strings.TrimSpace(req.Estado))
		if !utils.IsValidEstado(estado) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Estado invalido"})
		}
		existing.Estado = estado
	}
	if req.Descripcion != "" {
		existing.Descripcion = utils.SanitizeString(req.Descripcion)
	}
	if req.Acciones != "" {
		existing.Acciones = utils.SanitizeString(req.Acciones)
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Usuario no encontrado"})
	}

	status, payload := cc.writeConductReport(c, user, uint(studentID), &existing, existing.ID)
	return c.Status(status).JSON(payload)
}

// writeConductReport mirrors the attendance write path: scope check,
// duplicate check and save under a row lock on the student.
func (cc *ConductController) writeConductReport(c *fiber.Ctx, user *models.User, studentID uint, report *models.ConductReport, excludeID uint) (int, fiber.Map) {
	var status int
	var payload fiber.Map

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&student, studentID).Error; err != nil {
			status = fiber.StatusNotFound
			payload = fiber.Map{"error": "Estudiante no encontrado"}
			return err
		}

		if !convivencia.CanAccess(user, student.Grado, student.Grupo) {
			status = fiber.StatusForbidden
			payload = fiber.Map{"error": "No tiene acceso a este estudiante"}
			return gorm.ErrInvalidData
		}

		var reports []models.ConductReport
		if err := tx.Where("student_id = ?", studentID).Find(&reports).Error; err != nil {
			status = fiber.StatusInternalServerError
			payload = fiber.Map{"error": "Error interno"}
			return err
		}

		if convivencia.IsDuplicateConduct(reports, *report, excludeID) {
			status = fiber.StatusConflict
			payload = fiber.Map{"error": "Ya existe un reporte identico para ese dia"}
			return gorm.ErrDuplicatedKey
		}

		if err := tx.Save(report).Error; err != nil {
			status = fiber.StatusInternalServerError
			payload = fiber.Map{"error": "No se pudo guardar el reporte"}
			return err
		}

		status = fiber.StatusOK
		if excludeID == 0 {
			status = fiber.StatusCreated
		}
		payload = fiber.Map{
			"message": "Reporte de convivencia guardado",
			"reporte": report,
		}
		return nil
	})
	if err != nil && status == 0 {
		status = fiber.StatusInternalServerError
		payload = fiber.Map{"error": "Error interno"}
	}

	if status < 400 {
		action := "UPDATE"
		if excludeID == 0 {
			action = "CREATE"
		}
		middleware.LogActivity(c, action, "convivencia", report.ID, fiber.Map{
			"student_id": studentID,
			"gravedad":   report.Gravedad,
			"estado":     report.Estado,
		})
	}

	return status, payload
}

// DeleteConductReport removes a report (admin only)
func (cc *ConductController) DeleteConductReport(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID invalido"})
	}
	reportID, err := strconv.ParseUint(c.Params("reportId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID de reporte invalido"})
	}

	var report models.ConductReport
	if err := database.DB.Where("id = ? AND student_id = ?", uint(reportID), uint(studentID)).First(&report).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reporte no encontrado"})
	}

	if err := database.DB.Delete(&report).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudo eliminar el reporte",
		})
	}

	middleware.LogActivity(c, "DELETE", "convivencia", report.ID, fiber.Map{
		"student_id": studentID,
	})

	return c.JSON(fiber.Map{"message": "Reporte eliminado correctamente"})
}
