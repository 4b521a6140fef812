package controllers

import (
	"strconv"
	"time"

	"asistencia_colegio_go/database"
	"asistencia_colegio_go/middleware"
	"asistencia_colegio_go/models"
	notifservice "asistencia_colegio_go/services/notifications"
	"asistencia_colegio_go/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct{}

// GetNotifications returns notifications for the current user
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Usuario no encontrado",
		})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var notifications []models.Notification
	var total int64

	query := database.DB.Model(&models.Notification{}).Where("user_id = ?", user.ID)

	if read := c.Query("read"); read == "true" {
		query = query.Where("`read` = ?", true)
	} else if read == "false" {
		query = query.Where("`read` = ?", false)
	}

	if notificationType := c.Query("type"); notificationType != "" {
		query = query.Where("type = ?", notificationType)
	}

	query.Count(&total)

	if err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudieron obtener las notificaciones",
		})
	}

	var unread int64
	database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", user.ID, false).Count(&unread)

	return c.JSON(fiber.Map{
		"notificaciones": notifications,
		"noLeidas":       unread,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// CreateNotification creates a notification for one or more users (admin only)
func (nc *NotificationController) CreateNotification(c *fiber.Ctx) error {
	var req struct {
		UserID  uint   `json:"user_id"`
		UserIDs []uint `json:"user_ids"`
		Rol     string `json:"rol"`
		Title   string `json:"title" validate:"required"`
		Message string `json:"message" validate:"required"`
		Type    string `json:"type" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cuerpo de la peticion invalido",
		})
	}

	if req.Title == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title y message son requeridos",
		})
	}

	validTypes := map[string]bool{"info": true, "warning": true, "error": true, "success": true}
	if !validTypes[req.Type] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Tipo de notificacion invalido (info, warning, error, success)",
		})
	}

	var userIDs []uint
	switch {
	case req.UserID != 0:
		userIDs = []uint{req.UserID}
	case len(req.UserIDs) > 0:
		userIDs = req.UserIDs
	case req.Rol != "":
		if !utils.IsValidRole(req.Rol) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rol invalido"})
		}
		var users []models.User
		if err := database.DB.Where("rol = ? AND status = ?", req.Rol, "active").Find(&users).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error interno"})
		}
		for _, u := range users {
			userIDs = append(userIDs, u.ID)
		}
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Debe indicar user_id, user_ids o rol",
		})
	}

	svc := notifservice.NewService()
	if err := svc.EnqueueOrCreate(userIDs, notifservice.Queued(req.Title, req.Message, req.Type)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudo crear la notificacion",
		})
	}

	middleware.LogActivity(c, "CREATE", "notificaciones", 0, fiber.Map{
		"destinatarios": len(userIDs),
		"type":          req.Type,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Notificacion creada",
		"destinatarios": len(userIDs),
	})
}

// MarkAsRead marks a single notification as read
func (nc *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Usuario no encontrado",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID invalido"})
	}

	var notification models.Notification
	if err := database.DB.Where("id = ? AND user_id = ?", uint(id), user.ID).First(&notification).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notificacion no encontrada"})
	}

	now := time.Now()
	if err := database.DB.Model(&notification).Updates(map[string]interface{}{
		"read":    true,
		"read_at": &now,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudo actualizar la notificacion",
		})
	}

	return c.JSON(fiber.Map{"message": "Notificacion marcada como leida"})
}

// MarkAllAsRead marks every unread notification of the current user as read
func (nc *NotificationController) MarkAllAsRead(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Usuario no encontrado",
		})
	}

	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", user.ID, false).
		Updates(map[string]interface{}{"read": true, "read_at": &now})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudieron actualizar las notificaciones",
		})
	}

	return c.JSON(fiber.Map{
		"message":      "Notificaciones marcadas como leidas",
		"actualizadas": result.RowsAffected,
	})
}
