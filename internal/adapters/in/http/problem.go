package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ContentTypeProblemJSON is the media type of RFC 7807 responses.
const ContentTypeProblemJSON = "application/problem+json"

const (
	TypeValidation         = "/problems/validation-error"
	TypeNotFound           = "/problems/not-found"
	TypeConflict           = "/problems/conflict"
	TypeInvalidTransition  = "/problems/invalid-transition"
	TypeServiceUnavailable = "/problems/service-unavailable"
	TypeBadGateway         = "/problems/bad-gateway"
	TypeInternal           = "/problems/internal-error"
)

// ProblemDetail is an RFC 7807 problem document. It implements error so that
// handlers can return it directly.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

func badRequest(detail string) ProblemDetail {
	return ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: detail,
	}
}

// ProblemFromError maps the error taxonomy onto HTTP statuses.
func ProblemFromError(err error) ProblemDetail {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return ProblemDetail{
			Type:   "about:blank",
			Title:  http.StatusText(httpErr.Code),
			Status: httpErr.Code,
			Detail: fmt.Sprint(httpErr.Message),
		}
	}

	var notFound *errs.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return ProblemDetail{
			Type:   TypeNotFound,
			Title:  "Resource Not Found",
			Status: http.StatusNotFound,
			Detail: fmt.Sprintf("%s with identifier '%v' not found", notFound.ParamName, notFound.ID),
		}.WithExtension("resourceType", notFound.ParamName).WithExtension("identifier", notFound.ID)
	}

	var invalid *errs.ValueIsInvalidError
	switch {
	case errors.Is(err, order.ErrShippingInProgress):
		return ProblemDetail{
			Type:   TypeConflict,
			Title:  "Conflict",
			Status: http.StatusConflict,
			Detail: "a shipment for this order is already being created, retry later",
		}
	case errors.Is(err, order.ErrShipmentAlreadyLinked), errors.Is(err, errs.ErrVersionIsInvalid):
		return ProblemDetail{
			Type:   TypeConflict,
			Title:  "Conflict",
			Status: http.StatusConflict,
			Detail: "the resource was modified concurrently, reload and retry",
		}
	case errors.As(err, &invalid) && invalid.ParamName == "user not found":
		return ProblemDetail{
			Type:   TypeValidation,
			Title:  "User Not Found",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
		}
	case errs.IsValidation(err):
		return badRequest(err.Error())
	case errors.Is(err, errs.ErrInvalidTransition):
		return ProblemDetail{
			Type:   TypeInvalidTransition,
			Title:  "Invalid Status Transition",
			Status: http.StatusUnprocessableEntity,
			Detail: err.Error(),
		}
	case errors.Is(err, errs.ErrRemoteServiceUnavailable):
		return ProblemDetail{
			Type:   TypeServiceUnavailable,
			Title:  "Service Unavailable",
			Status: http.StatusServiceUnavailable,
			Detail: err.Error(),
		}
	case errors.Is(err, errs.ErrRemoteAuth):
		return ProblemDetail{
			Type:   TypeBadGateway,
			Title:  "Upstream Authentication Failed",
			Status: http.StatusBadGateway,
			Detail: err.Error(),
		}
	default:
		return ProblemDetail{
			Type:   TypeInternal,
			Title:  "Internal Server Error",
			Status: http.StatusInternalServerError,
			Detail: "An unexpected error occurred",
		}
	}
}

// Responder renders errors returned by handlers. It is installed as the echo
// HTTPErrorHandler.
type Responder struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewResponder(logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{
		logger: logger.With("component", "http"),
		now:    time.Now,
	}
}

func (r *Responder) HandleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	problem := ProblemFromError(err)
	if problem.Instance == "" {
		problem.Instance = c.Request().URL.Path
	}
	problem = problem.WithExtension("timestamp", r.now().UTC())

	ctx := c.Request().Context()
	if problem.Status >= http.StatusInternalServerError {
		r.logger.ErrorContext(ctx, "request failed",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
			slog.Int("status", problem.Status),
			slog.String("error", err.Error()),
		)
	} else {
		r.logger.WarnContext(ctx, "request rejected",
			slog.String("path", c.Request().URL.Path),
			slog.Int("status", problem.Status),
			slog.String("error", err.Error()),
		)
	}

	c.Response().Header().Set(echo.HeaderContentType, ContentTypeProblemJSON)
	if writeErr := c.JSON(problem.Status, problem); writeErr != nil {
		r.logger.ErrorContext(ctx, "failed to write problem response", slog.String("error", writeErr.Error()))
	}
}
