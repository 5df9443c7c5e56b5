package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/contacts/api/http/presenter"
	"github.com/artem13815/contacts/pkg/apperr"
)

// NewErrorHandler is the only place where errors become HTTP responses.
// Handlers and middleware return errors; the kind decides the status.
func NewErrorHandler(log *slog.Logger, exposeStack bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return presenter.Error(c, fe.Code, fe.Message)
		}
		status := apperr.HTTPStatus(apperr.KindOf(err))
		if status >= fiber.StatusInternalServerError {
			log.ErrorContext(c.UserContext(), "request failed",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}
		resp := presenter.ErrorResponse{Message: apperr.Message(err)}
		if exposeStack {
			resp.Stack = apperr.Stack(err)
		}
		return presenter.JSON(c, status, resp)
	}
}
