package rest

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// envelope is the wire shape shared by every endpoint.
type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

func respondMessage(ctx router.Context, status int, message string) error {
	return ctx.JSON(status, envelope{
		Success: true,
		Message: message,
	})
}

func respondData(ctx router.Context, status int, data map[string]any) error {
	return ctx.JSON(status, envelope{
		Success: true,
		Data:    data,
	})
}

// respondError maps rich errors onto the envelope. Unclassified errors
// collapse to a generic 500 so internals never leak to clients.
func respondError(ctx router.Context, logger Logger, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = statusFromCategory(richErr.Category)
	}

	if logger != nil {
		if status >= 500 {
			logger.Error("request failed",
				"error", richErr.Message,
				"category", string(richErr.Category),
				"details", print.MaybePrettyJSON(richErr.Metadata),
			)
		} else {
			logger.Debug("request rejected",
				"error", richErr.Message,
				"category", string(richErr.Category),
				"text_code", richErr.TextCode,
			)
		}
	}

	message := richErr.Message
	if status >= 500 {
		message = "An unexpected server error occurred"
	}

	return ctx.JSON(status, envelope{
		Success: false,
		Message: message,
	})
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return router.StatusBadRequest
	case errors.CategoryAuth:
		return router.StatusUnauthorized
	case errors.CategoryAuthz:
		return router.StatusForbidden
	case errors.CategoryNotFound:
		return router.StatusNotFound
	case errors.CategoryConflict:
		return router.StatusConflict
	default:
		return router.StatusInternalServerError
	}
}
