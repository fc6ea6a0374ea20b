package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/application/dto"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/pkg/i18n"
)

// RespondError traduce los errores de dominio a HTTP: código estable + mensaje
// localizado según Accept-Language (árabe por defecto). Los errores envueltos
// con %w conservan el sentinel, por eso errors.Is.
func RespondError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	lang := i18n.Resolve(c.Get("Accept-Language"))
	body := dto.ErrorResponse{
		Code:    code,
		Message: i18n.Message(lang, code),
	}
	// El texto técnico (p.ej. "solicitado 60, disponible 50") solo se expone
	// para errores de dominio; los 500 no filtran internals.
	if status != fiber.StatusInternalServerError {
		body.Detail = err.Error()
	}
	return c.Status(status).JSON(body)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, i18n.CodeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, i18n.CodeValidation
	case errors.Is(err, domain.ErrSameStatus):
		return fiber.StatusBadRequest, i18n.CodeSameStatus
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, i18n.CodeDuplicate
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, i18n.CodeInsufficientStock
	case errors.Is(err, domain.ErrLotClosed):
		return fiber.StatusConflict, i18n.CodeLotClosed
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, i18n.CodeConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, i18n.CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, i18n.CodeForbidden
	default:
		return fiber.StatusInternalServerError, i18n.CodeInternal
	}
}

// badRequest respuesta 400 directa para errores de parseo del body.
func badRequest(c *fiber.Ctx, detail string) error {
	lang := i18n.Resolve(c.Get("Accept-Language"))
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    i18n.CodeValidation,
		Message: i18n.Message(lang, i18n.CodeValidation),
		Detail:  detail,
	})
}
