package controllers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"asistencia_colegio_go/services/convivencia"

	"github.com/gofiber/fiber/v2"
)

func TestRespondScopeError(t *testing.T) {
	app := fiber.New()
	app.Get("/incompleto", func(c *fiber.Ctx) error {
		return respondScopeError(c, convivencia.ErrScopeIncomplete)
	})
	app.Get("/almacenamiento", func(c *fiber.Ctx) error {
		return respondScopeError(c, errors.New("dial tcp 127.0.0.1:3306: connect: connection refused"))
	})

	tests := []struct {
		path string
		want int
	}{
		{"/incompleto", fiber.StatusForbidden},
		{"/almacenamiento", fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
		if err != nil {
			t.Fatalf("GET %s: %v", tt.path, err)
		}
		if resp.StatusCode != tt.want {
			t.Errorf("GET %s: status = %d, want %d", tt.path, resp.StatusCode, tt.want)
		}
	}
}
