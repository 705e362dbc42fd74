package handler

import (
	"strings"

	"github.com/fadilmartias/talent-assessment/internal/apperror"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.NewValidation("invalid request body", map[string]string{"body": err.Error()})
	}
	return nil
}

func parseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, apperror.NewValidation(field+" is required", map[string]string{field: "required"})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NewValidation("invalid "+field, map[string]string{field: "must be a UUID"})
	}
	return id, nil
}
