package controllers

import (
	"errors"
	"strconv"
	"strings"

	"asistencia_colegio_go/database"
	"asistencia_colegio_go/middleware"
	"asistencia_colegio_go/models"
	"asistencia_colegio_go/services/convivencia"
	"asistencia_colegio_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StudentController struct{}

// StudentRequest represents the create/update payload for a student
type StudentRequest struct {
	Nombre          string          `json:"nombre" validate:"required"`
	Identificacion  string          `json:"identificacion" validate:"required"`
	Grado           string          `json:"grado" validate:"required"`
	Grupo           string          `json:"grupo" validate:"required"`
	FechaNacimiento string          `json:"fechaNacimiento"`
	Direccion       string          `json:"direccion"`
	Telefono        string          `json:"telefono"`
	Email           string          `json:"email"`
	Padre           models.Guardian `json:"padre"`
	Madre           models.Guardian `json:"madre"`
	Tutor           models.Guardian `json:"tutor"`
}

// resolveScope loads the caller and translates their assignment into a
// query scope. A nil scope with nil error means unrestricted access.
func resolveScope(c *fiber.Ctx) (*convivencia.Scope, *models.User, error) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return nil, nil, err
	}
	scope, err := convivencia.ScopeFilter(user)
	if err != nil {
		return nil, user, err
	}
	return scope, user, nil
}

// GetStudents lists students visible to the caller, with optional
// grado, grupo and busqueda filters.
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	scope, _, err := resolveScope(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "No tiene un grado y grupo asignados",
		})
	}

	var students []models.Student
	if err := database.DB.Order("nombre ASC").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudieron obtener los estudiantes",
		})
	}

	grado := c.Query("grado")
	grupo := c.Query("grupo")
	busqueda := strings.ToLower(strings.TrimSpace(c.Query("busqueda")))

	result := make([]utils.StudentShort, 0, len(students))
	for _, s := range students {
		if scope != nil && !scope.Matches(s.Grado, s.Grupo) {
			continue
		}
		if grado != "" && convivencia.NormalizeGrade(s.Grado) != convivencia.NormalizeGrade(grado) {
			continue
		}
		if grupo != "" && convivencia.NormalizeGroup(s.Grupo) != convivencia.NormalizeGroup(grupo) {
			continue
		}
		if busqueda != "" &&
			!strings.Contains(strings.ToLower(s.Nombre), busqueda) &&
			!strings.Contains(strings.ToLower(s.Identificacion), busqueda) {
			continue
		}
		result = append(result, utils.ToStudentShort(s))
	}

	return c.JSON(fiber.Map{"estudiantes": result, "total": len(result)})
}

// GetStudent returns a single student with guardians
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
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

	return c.JSON(fiber.Map{"estudiante": utils.ToStudentDetail(student)})
}

// CreateStudent registers a new student
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cuerpo de la peticion invalido",
		})
	}

	if strings.TrimSpace(req.Nombre) == "" || strings.TrimSpace(req.Identificacion) == "" ||
		strings.TrimSpace(req.Grado) == "" || strings.TrimSpace(req.Grupo) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nombre, identificacion, grado y grupo son requeridos",
		})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil || !convivencia.CanAccess(user, req.Grado, req.Grupo) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "No tiene acceso a este grado y grupo",
		})
	}

	var existing models.Student
	if err := database.DB.Where("identificacion = ?", strings.TrimSpace(req.Identificacion)).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Ya existe un estudiante con esa identificacion",
		})
	}

	student := models.Student{
		Nombre:         strings.TrimSpace(req.Nombre),
		Identificacion: strings.TrimSpace(req.Identificacion),
		Grado:          convivencia.NormalizeGrade(req.Grado),
		Grupo:          convivencia.NormalizeGroup(req.Grupo),
		Direccion:      req.Direccion,
		Telefono:       req.Telefono,
		Email:          req.Email,
		Padre:          req.Padre,
		Madre:          req.Madre,
		Tutor:          req.Tutor,
	}
	if fecha, ok := convivencia.ParseDate(req.FechaNacimiento); ok {
		student.FechaNacimiento = &fecha
	}

	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudo crear el estudiante",
		})
	}

	middleware.LogActivity(c, "CREATE", "estudiantes", student.ID, fiber.Map{
		"nombre":         student.Nombre,
		"identificacion": student.Identificacion,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Estudiante creado correctamente",
		"estudiante": utils.ToStudentDetail(student),
	})
}

// UpdateStudent updates a student's identity and guardian data
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
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

	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cuerpo de la peticion invalido",
		})
	}

	if req.Nombre != "" {
		student.Nombre = strings.TrimSpace(req.Nombre)
	}
	if req.Identificacion != "" && strings.TrimSpace(req.Identificacion) != student.Identificacion {
		var existing models.Student
		if err := database.DB.Where("identificacion = ? AND id <> ?",
			strings.TrimSpace(req.Identificacion), student.ID).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Ya existe un estudiante con esa identificacion",
			})
		}
		student.Identificacion = strings.TrimSpace(req.Identificacion)
	}
	if req.Grado != "" || req.Grupo != "" {
		grado := student.Grado
		grupo := student.Grupo
		if req.Grado != "" {
			grado = convivencia.NormalizeGrade(req.Grado)
		}
		if req.Grupo != "" {
			grupo = convivencia.NormalizeGroup(req.Grupo)
		}
		// Moving a student out of the caller's own group is an admin operation
		if !convivencia.CanAccess(user, grado, grupo) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "No tiene acceso al grado y grupo destino",
			})
		}
		student.Grado = grado
		student.Grupo = grupo
	}
	if req.FechaNacimiento != "" {
		if fecha, ok := convivencia.ParseDate(req.FechaNacimiento); ok {
			student.FechaNacimiento = &fecha
		} else {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Fecha de nacimiento invalida",
			})
		}
	}
	if req.Direccion != "" {
		student.Direccion = req.Direccion
	}
	if req.Telefono != "" {
		student.Telefono = req.Telefono
	}
	if req.Email != "" {
		student.Email = req.Email
	}
	mergeGuardian(&student.Padre, req.Padre)
	mergeGuardian(&student.Madre, req.Madre)
	mergeGuardian(&student.Tutor, req.Tutor)

	if err := database.DB.Save(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudo actualizar el estudiante",
		})
	}

	middleware.LogActivity(c, "UPDATE", "estudiantes", student.ID, fiber.Map{
		"nombre": student.Nombre,
	})

	return c.JSON(fiber.Map{
		"message":    "Estudiante actualizado correctamente",
		"estudiante": utils.ToStudentDetail(student),
	})
}

// DeleteStudent removes a student and cascades to its history (admin only)
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID invalido"})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Estudiante no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error interno"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", student.ID).Delete(&models.AttendanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", student.ID).Delete(&models.ConductReport{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", student.ID).Delete(&models.RiskSnapshot{}).Error; err != nil {
			return err
		}
		return tx.Delete(&student).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudo eliminar el estudiante",
		})
	}

	middleware.LogActivity(c, "DELETE", "estudiantes", student.ID, fiber.Map{
		"nombre":         student.Nombre,
		"identificacion": student.Identificacion,
	})

	return c.JSON(fiber.Map{"message": "Estudiante eliminado correctamente"})
}

func mergeGuardian(dst *models.Guardian, src models.Guardian) {
	if src.Nombre != "" {
		dst.Nombre = src.Nombre
	}
	if src.Telefono != "" {
		dst.Telefono = src.Telefono
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.Ocupacion != "" {
		dst.Ocupacion = src.Ocupacion
	}
	if src.Parentesco != "" {
		dst.Parentesco = src.Parentesco
	}
}

