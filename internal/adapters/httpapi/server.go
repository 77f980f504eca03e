// Package httpapi exposes the restaurant service over HTTP with echo.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"restaurantcore/internal/core"
	"restaurantcore/internal/shared/httputil"
)

// BasePath prefixes every resource route.
const BasePath = "/api/v1"

// HeaderTotalCount carries the filtered record count on list responses.
const HeaderTotalCount = "X-Total-Count"

const codeBadRequest = "bad_request"

var errBadRequest = errors.New("bad request")

// Options configures the router. Zero values fall back to defaults.
type Options struct {
	Logger *slog.Logger
	// Metrics is mounted at /metrics when set.
	Metrics         http.Handler
	DefaultPageSize int
	// MaxPageSize rejects larger page sizes; zero disables the bound.
	MaxPageSize int
}

// ErrorBody is the JSON document returned for failed requests.
type ErrorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type server struct {
	svc    *core.Service
	logger *slog.Logger
	mapper *httputil.ErrorMapper
	paging pagingOptions
}

// NewRouter builds an echo instance serving every resource of svc.
func NewRouter(svc *core.Service, opts Options) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &server{
		svc:    svc,
		logger: logger,
		mapper: httputil.DomainErrorMapper().WithMapping(errBadRequest, http.StatusBadRequest, codeBadRequest, ""),
		paging: pagingOptions{defaultSize: opts.DefaultPageSize, maxSize: opts.MaxPageSize},
	}
	if s.paging.defaultSize < 1 {
		s.paging.defaultSize = 20
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics))
	}

	api := e.Group(BasePath)
	register(api, s, svc.Dishes)
	register(api, s, svc.Menus)
	register(api, s, svc.MenuItems)
	register(api, s, svc.Locations)
	register(api, s, svc.LocationHours)
	register(api, s, svc.Positions)
	register(api, s, svc.Employees)
	register(api, s, svc.Managements)
	register(api, s, svc.Suppliers)
	register(api, s, svc.SupplyCategories)
	register(api, s, svc.SupplyLinks)
	register(api, s, svc.DishRequirements)
	return e
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// handleError renders every failure as an ErrorBody.
func (s *server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var info httputil.HTTPErrorInfo
	var he *echo.HTTPError
	if errors.As(err, &he) {
		info = httputil.HTTPErrorInfo{Status: he.Code, Code: codeForStatus(he.Code), Message: http.StatusText(he.Code)}
		if msg, ok := he.Message.(string); ok {
			info.Message = msg
		}
	} else {
		info = s.mapper.Map(err)
	}

	id := requestID(c)
	attrs := []any{"method", c.Request().Method, "path", c.Request().URL.Path, "status", info.Status, "request_id", id, "error", err}
	if info.Status >= http.StatusInternalServerError {
		s.logger.Error("request failed", attrs...)
	} else {
		s.logger.Debug("request refused", attrs...)
	}

	body := ErrorBody{Error: info.Code, Message: info.Message, RequestID: id}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(info.Status)
	} else {
		err = c.JSON(info.Status, body)
	}
	if err != nil {
		s.logger.Error("write error response", "request_id", id, "error", err)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return httputil.CodeNotFound
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusBadRequest:
		return codeBadRequest
	default:
		if status >= http.StatusInternalServerError {
			return "internal"
		}
		return "error"
	}
}
