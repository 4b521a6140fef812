package controllers

import (
	"strconv"

	"asistencia_colegio_go/database"
	"asistencia_colegio_go/middleware"
	"asistencia_colegio_go/models"
	"asistencia_colegio_go/services/convivencia"
	"asistencia_colegio_go/storage"
	"asistencia_colegio_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceController struct{}

// AttendanceRequest represents the create/update payload for an
// attendance record. Fecha accepts the supported date layouts.
type AttendanceRequest struct {
	Fecha       string `json:"fecha" validate:"required"`
	Tipo        string `json:"tipo" validate:"required"`
	Hora        string `json:"hora"`
	Observacion string `json:"observacion"`
}

// CreateAttendance appends a record to a student's history.
// Per-day duplicates are rejected with 409.
func (ac *AttendanceController) CreateAttendance(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID invalido"})
	}

	var req AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cuerpo de la peticion invalido",
		})
	}

	tipo := convivencia.NormalizeAttendanceType(req.Tipo)
	if tipo == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Tipo de asistencia invalido",
		})
	}

	fecha, ok := convivencia.ParseDate(req.Fecha)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Fecha invalida",
		})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Usuario no encontrado"})
	}

	record := models.AttendanceRecord{
		StudentID:     uint(studentID),
		Fecha:         fecha,
		Tipo:          tipo,
		Hora:          utils.SanitizeString(req.Hora),
		Observacion:   utils.SanitizeString(req.Observacion),
		RegistradoPor: user.Nombre,
	}

	status, payload := ac.writeAttendance(c, user, uint(studentID), &record, 0)
	return c.Status(status).JSON(payload)
}

// UpdateAttendance edits an existing record. The record itself is
// excluded from the duplicate check so saving without changes works.
func (ac *AttendanceController) UpdateAttendance(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID invalido"})
	}
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID de registro invalido"})
	}

	var existing models.AttendanceRecord
	if err := database.DB.Where("id = ? AND student_id = ?", uint(recordID), uint(studentID)).First(&existing).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registro no encontrado"})
	}

	var req AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cuerpo de la peticion invalido",
		})
	}

	if req.Tipo != "" {
		tipo := convivencia.NormalizeAttendanceType(req.Tipo)
		if tipo == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Tipo de asistencia invalido",
			})
		}
		existing.Tipo = tipo
	}
	if req.Fecha != "" {
		fecha, ok := convivencia.ParseDate(req.Fecha)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Fecha invalida",
			})
		}
		existing.Fecha = fecha
	}
	if req.Hora != "" {
		existing.Hora = utils.SanitizeString(req.Hora)
	}
	if req.Observacion != "" {
		existing.Observacion = utils.SanitizeString(req.Observacion)
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Usuario no encontrado"})
	}

	status, payload := ac.writeAttendance(c, user, uint(studentID), &existing, existing.ID)
	return c.Status(status).JSON(payload)
}

// writeAttendance runs the scope check, the duplicate check and the save
// inside one transaction. The student row is locked so two concurrent
// writes for the same day cannot both pass the duplicate check.
func (ac *AttendanceController) writeAttendance(c *fiber.Ctx, user *models.User, studentID uint, record *models.AttendanceRecord, excludeID uint) (int, fiber.Map) {
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

		var history []models.AttendanceRecord
		if err := tx.Where("student_id = ?", studentID).Find(&history).Error; err != nil {
			status = fiber.StatusInternalServerError
			payload = fiber.Map{"error": "Error interno"}
			return err
		}

		if convivencia.IsDuplicateAttendance(history, *record, excludeID) {
			status = fiber.StatusConflict
			payload = fiber.Map{"error": "Ya existe un registro identico para ese dia"}
			return gorm.ErrDuplicatedKey
		}

		if err := tx.Save(record).Error; err != nil {
			status = fiber.StatusInternalServerError
			payload = fiber.Map{"error": "No se pudo guardar el registro"}
			return err
		}

		status = fiber.StatusOK
		if excludeID == 0 {
			status = fiber.StatusCreated
		}
		payload = fiber.Map{
			"message":  "Registro de asistencia guardado",
			"registro": record,
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
		middleware.LogActivity(c, action, "asistencia", record.ID, fiber.Map{
			"student_id": studentID,
			"tipo":       record.Tipo,
		})
	}

	return status, payload
}

// DeleteAttendance removes a record from a student's history
func (ac *AttendanceController) DeleteAttendance(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID invalido"})
	}
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID de registro invalido"})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(studentID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Estudiante no encontrado"})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil || !convivencia.CanAccess(user, student.Grado, student.Grupo) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "No tiene acceso a este estudiante",
		})
	}

	var record models.AttendanceRecord
	if err := database.DB.Where("id = ? AND student_id = ?", uint(recordID), uint(studentID)).First(&record).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registro no encontrado"})
	}

	if record.FotoURL != "" {
		if svc, err := storage.NewStorageService(); err == nil {
			if err := svc.DeleteFile(record.FotoURL); err != nil {
				logrus.WithError(err).Warn("No se pudo eliminar la foto de evidencia")
			}
		}
	}

	if err := database.DB.Delete(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudo eliminar el registro",
		})
	}

	middleware.LogActivity(c, "DELETE", "asistencia", record.ID, fiber.Map{
		"student_id": studentID,
	})

	return c.JSON(fiber.Map{"message": "Registro eliminado correctamente"})
}

// UploadAttendancePhoto attaches photo evidence to an attendance record
func (ac *AttendanceController) UploadAttendancePhoto(c *fiber.Ctx) error {
	studentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID invalido"})
	}
	recordID, err := strconv.ParseUint(c.Params("recordId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID de registro invalido"})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(studentID)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Estudiante no encontrado"})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil || !convivencia.CanAccess(user, student.Grado, student.Grupo) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "No tiene acceso a este estudiante",
		})
	}

	var record models.AttendanceRecord
	if err := database.DB.Where("id = ? AND student_id = ?", uint(recordID), uint(studentID)).First(&record).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registro no encontrado"})
	}

	file, err := c.FormFile("foto")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Archivo 'foto' requerido"})
	}

	svc, err := storage.NewStorageService()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Almacenamiento no disponible",
		})
	}

	url, err := svc.UploadEvidence(file, "asistencia", uint(studentID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if record.FotoURL != "" {
		if err := svc.DeleteFile(record.FotoURL); err != nil {
			logrus.WithError(err).Warn("No se pudo eliminar la foto anterior")
		}
	}

	if err := database.DB.Model(&record).Update("foto_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudo guardar la foto",
		})
	}

	middleware.LogActivity(c, "UPDATE", "asistencia", record.ID, fiber.Map{
		"student_id": studentID,
		"action":     "foto_evidencia",
	})

	return c.JSON(fiber.Map{"message": "Foto guardada", "fotoUrl": url})
}
