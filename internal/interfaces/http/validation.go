package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercial-api/internal/application/dto"
)

var validate = validator.New()

// bindJSON parsea el cuerpo y valida los tags `validate`. Responde 400 y devuelve false si falla.
func bindJSON(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		return false
	}
	if err := validate.Struct(out); err != nil {
		status, body := mapError(err)
		_ = c.Status(status).JSON(body)
		return false
	}
	return true
}

// pageFrom lee limit/offset de la query.
func pageFrom(c *fiber.Ctx) dto.Page {
	return dto.NewPage(c.QueryInt("limit"), c.QueryInt("offset"))
}
