package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/matheus3301/bookadmin/internal/api"
	"go.uber.org/zap"
)

// Credentials is the seeded ADMIN login.
type Credentials struct {
	Email    string
	Password string
}

// DefaultAdmin is used when Options.Admin is empty.
var DefaultAdmin = Credentials{Email: "admin@bookstore.dev", Password: "123456"}

// Options configures a Server.
type Options struct {
	Admin  Credentials
	Seed   bool
	Logger *zap.Logger
	Now    func() time.Time
}

// Server is an in-memory implementation of the bookstore REST backend.
type Server struct {
	echo   *echo.Echo
	data   *dataset
	logger *zap.Logger
}

// New builds the server and registers every route.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Admin.Email == "" {
		opts.Admin = DefaultAdmin
	}

	data := newDataset(opts.Now)
	if opts.Seed {
		data.seed(opts.Admin)
	} else {
		_, _ = data.addUser("Administrator", opts.Admin.Email, "0900000000", opts.Admin.Password, api.RoleAdmin)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &inputValidator{v: validator.New(validator.WithRequiredStructEnabled())}
	e.HTTPErrorHandler = errorHandler(opts.Logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit("10M"))
	e.Use(requestLogger(opts.Logger))

	s := &Server{echo: e, data: data, logger: opts.Logger}
	s.registerRoutes()

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("dev backend listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the listener, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type inputValidator struct {
	v *validator.Validate
}

func (iv *inputValidator) Validate(i any) error {
	return iv.v.Struct(i)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}
