// Package api exposes the application services over a JSON REST API.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/ports/primary"
)

// Services bundles the primary ports served over HTTP.
type Services struct {
	Users      primary.UserService
	Workspaces primary.WorkspaceService
	Boards     primary.BoardService
	States     primary.StateService
	Tasks      primary.TaskService
	Reorder    primary.ReorderService
	Sprints    primary.SprintService
}

// Options configures NewServer.
type Options struct {
	AllowOrigins []string
	JWTSecret    string
	// Registry receives the HTTP collectors and backs /metrics.
	Registry *prometheus.Registry
}

// NewServer builds the echo instance with middleware and every route registered.
func NewServer(svc Services, opts Options, logger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(ctxutil.WithRequestID(req.Context(), id)))
		},
	}))
	e.Use(requestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  origins,
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID, HeaderActorID},
		ExposeHeaders: []string{echo.HeaderXRequestID},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	}))

	if opts.Registry != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "taskboard_http",
			Registerer: opts.Registry,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Registry}))
	}

	Register(e, svc, NewAuth(opts.JWTSecret), logger)
	return e
}

func requestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(log.Fields{
				"method":     v.Method,
				"path":       v.URI,
				"status":     v.Status,
				"latency":    v.Latency.Round(time.Microsecond).String(),
				"request_id": v.RequestID,
			})
			switch {
			case v.Error != nil || v.Status >= http.StatusInternalServerError:
				entry.WithError(v.Error).Warn("request failed")
			case strings.HasPrefix(v.URI, "/healthz"), strings.HasPrefix(v.URI, "/metrics"):
				entry.Debug("request")
			default:
				entry.Info("request")
			}
			return nil
		},
	})
}

// sonicSerializer encodes responses with sonic and rejects unknown request fields.
type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (sonicSerializer) Deserialize(c echo.Context, i any) error {
	dec := sonic.ConfigStd.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	return nil
}
