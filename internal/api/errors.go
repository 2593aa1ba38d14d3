package api

import (
	"errors"
	"strings"

	"vehicle-fit/internal/domain"
	"vehicle-fit/internal/report"
	"vehicle-fit/internal/service"
	"vehicle-fit/internal/session"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error in the same envelope the handlers use.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

func writeError(c *fiber.Ctx, err error) error {
	detail := describeError(err)
	return c.Status(detail.Code).JSON(domain.ErrorResponse{Error: detail})
}

func describeError(err error) domain.ErrorDetail {
	var (
		fiberErr  *fiber.Error
		exceeded  *domain.CatalogExceededError
		noVehicle *domain.NoFeasibleVehicleError
		unknown   *domain.UnknownVehicleError
		numberErr *domain.InvalidNumberError
		qtyErr    *domain.InvalidQuantityError
	)

	switch {
	case errors.As(err, &fiberErr):
		return domain.ErrorDetail{Code: fiberErr.Code, Message: fiberErr.Message}
	case errors.Is(err, session.ErrNotFound):
		return domain.ErrorDetail{Code: fiber.StatusNotFound, Message: err.Error()}
	case errors.Is(err, service.ErrNotComputed), errors.Is(err, report.ErrEmptyEvaluation):
		return domain.ErrorDetail{Code: fiber.StatusConflict, Message: err.Error()}
	case errors.Is(err, domain.ErrNoLoads):
		return domain.ErrorDetail{Code: fiber.StatusUnprocessableEntity, Message: err.Error()}
	case errors.As(err, &exceeded):
		reasons := make([]domain.Constraint, len(exceeded.Exceeded))
		for i, l := range exceeded.Exceeded {
			reasons[i] = l.Constraint
		}
		return domain.ErrorDetail{
			Code:    fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Reasons: reasons,
			Details: exceeded.Exceeded,
		}
	case errors.As(err, &noVehicle):
		return domain.ErrorDetail{
			Code:    fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Reasons: noVehicle.Constraints(),
			Details: fiber.Map{
				"filtered":   noVehicle.Filtered,
				"rejections": noVehicle.Rejections,
			},
		}
	case errors.As(err, &unknown):
		return domain.ErrorDetail{Code: fiber.StatusBadRequest, Message: err.Error(), Details: unknown.Names}
	case errors.As(err, &numberErr), errors.As(err, &qtyErr):
		return domain.ErrorDetail{
			Code:    fiber.StatusBadRequest,
			Message: flatten(err),
			Fields:  domain.InvalidFields(err),
		}
	case strings.Contains(err.Error(), "validation"):
		return domain.ErrorDetail{Code: fiber.StatusBadRequest, Message: flatten(err)}
	default:
		return domain.ErrorDetail{Code: fiber.StatusInternalServerError, Message: "Internal server error"}
	}
}

// flatten puts joined errors on one line.
func flatten(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}
