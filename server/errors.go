package server

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rgonek/quill-md-converter/renderer"
	"github.com/rgonek/quill-md-converter/resolver"
	"github.com/rgonek/quill-md-converter/store"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

var errUnresolved = errors.New("unresolved images")

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, store.ErrInvalidPath):
		return fiber.StatusBadRequest
	case errors.Is(err, errUnresolved):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound), errors.Is(err, renderer.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, resolver.ErrInvalidSignature):
		return fiber.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	}
	return fiber.StatusInternalServerError
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		msg = "internal server error"
	}
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}
