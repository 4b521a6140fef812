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

type UserController struct{}

// CreateUserRequest represents the payload for creating an account
type CreateUserRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=50"`
	Password      string `json:"password" validate:"required,min=6"`
	Nombre        string `json:"nombre" validate:"required"`
	Rol           string `json:"rol" validate:"required"`
	GradoAsignado string `json:"grado_asignado"`
	GrupoAsignado string `json:"grupo_asignado"`
}

// GetUsers returns all accounts (admin only)
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("username ASC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudieron obtener los usuarios",
		})
	}

	result := make([]utils.UserShort, 0, len(users))
	for _, u := range users {
		result = append(result, utils.ToUserShort(u))
	}

	return c.JSON(fiber.Map{"usuarios": result, "total": len(result)})
}

// CreateUser creates a new account (admin only)
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cuerpo de la peticion invalido",
		})
	}

	if req.Username == "" || req.Password == "" || req.Nombre == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username, contrasena y nombre son requeridos",
		})
	}

	if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "La contrasena debe tener al menos 6 caracteres",
		})
	}

	if !utils.IsValidRole(req.Rol) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Rol invalido",
		})
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "El nombre de usuario ya existe",
		})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudo crear el usuario",
		})
	}

	user := models.User{
		Username:      req.Username,
		Password:      hashedPassword,
		Nombre:        req.Nombre,
		Rol:           req.Rol,
		GradoAsignado: req.GradoAsignado,
		GrupoAsignado: req.GrupoAsignado,
		Status:        "active",
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudo crear el usuario",
		})
	}

	middleware.LogActivity(c, "CREATE", "usuarios", user.ID, fiber.Map{
		"username": user.Username,
		"rol":      user.Rol,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Usuario creado correctamente",
		"usuario": utils.ToUserShort(user),
	})
}

// UpdateUser updates an account's assignment, role or status (admin only)
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID invalido"})
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Usuario no encontrado"})
	}

	var req struct {
		Nombre        *string `json:"nombre"`
		Rol           *string `json:"rol"`
		GradoAsignado *string `json:"grado_asignado"`
		GrupoAsignado *string `json:"grupo_asignado"`
		Status        *string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cuerpo de la peticion invalido",
		})
	}

	updates := map[string]interface{}{}
	if req.Nombre != nil {
		updates["nombre"] = *req.Nombre
	}
	if req.Rol != nil {
		if !utils.IsValidRole(*req.Rol) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rol invalido"})
		}
		updates["rol"] = *req.Rol
	}
	if req.GradoAsignado != nil {
		updates["grado_asignado"] = convivencia.NormalizeGrade(*req.GradoAsignado)
	}
	if req.GrupoAsignado != nil {
		updates["grupo_asignado"] = convivencia.NormalizeGroup(*req.GrupoAsignado)
	}
	if req.Status != nil {
		if !utils.IsValidStatus(*req.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Status invalido"})
		}
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "No se pudo actualizar el usuario",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "usuarios", user.ID, fiber.Map{
		"username": user.Username,
	})

	return c.JSON(fiber.Map{
		"message": "Usuario actualizado correctamente",
		"usuario": utils.ToUserShort(user),
	})
}
