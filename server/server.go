// Package server exposes the two pipeline triggers over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"autocontentgen/githost"
	"autocontentgen/workflow"
)

const (
	// generationTimeout bounds every trigger. Large-document generation
	// is slow, so the budget is generous.
	generationTimeout = 10 * time.Minute

	gracefulShutdownTimeout = 10 * time.Second
)

// Publisher triggers one branch-publication run; satisfied by
// workflow.Publisher.
type Publisher interface {
	Run(ctx context.Context) (*workflow.Result, error)
}

// Reviser triggers one revision run; satisfied by workflow.Reviser.
type Reviser interface {
	Run(ctx context.Context, number int) (*workflow.Result, error)
}

type Server struct {
	echo      *echo.Echo
	publisher Publisher
	reviser   Reviser
	addr      string
}

func New(publisher Publisher, reviser Reviser, addr string) (*Server, error) {
	if publisher == nil || reviser == nil {
		return nil, errors.New("publisher and reviser are required")
	}
	if addr == "" {
		addr = ":8080"
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(requestLogger())
	e.Use(middleware.Recover())

	s := &Server{echo: e, publisher: publisher, reviser: reviser, addr: addr}
	e.POST("/generate-blog-post", s.handleGenerate)
	e.POST("/pr-webhook/:number", s.handleReview)
	return s, nil
}

// Start serves until interrupted, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

type errorResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleGenerate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), generationTimeout)
	defer cancel()

	res, err := s.publisher.Run(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: err.Error()})
	}
	if res.Rejected {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: res.Message})
	}
	return c.JSON(http.StatusOK, map[string]string{"url": res.URL})
}

func (s *Server) handleReview(c echo.Context) error {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid pull request number"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), generationTimeout)
	defer cancel()

	if _, err := s.reviser.Run(ctx, number); err != nil {
		if errors.Is(err, githost.ErrPullRequestNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogLatency:  true,
		LogURI:      true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				slog.LogAttrs(context.Background(), slog.LevelInfo, "REQUEST",
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Duration("latency", v.Latency),
				)
			} else {
				slog.LogAttrs(context.Background(), slog.LevelError, "REQUEST_ERROR",
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("err", v.Error.Error()),
				)
			}
			return nil
		},
	})
}
