package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/framelift/tabshell/internal/shell"
	"github.com/framelift/tabshell/internal/snapshot"
	"github.com/framelift/tabshell/internal/uistream"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Service interface {
	ListTabs(ctx context.Context) ([]shell.Tab, int64, error)
	OpenTab(ctx context.Context, url string) (int64, error)
	CloseTab(ctx context.Context, id int64) error
	CloseActiveTab(ctx context.Context) error
	ActivateTab(ctx context.Context, id int64) error
	Navigate(ctx context.Context, input string) error
	GoBack(ctx context.Context) error
	GoForward(ctx context.Context) error
	Reload(ctx context.Context) error
	CurrentURL(ctx context.Context) (string, int64, error)
	Status(ctx context.Context) (shell.Status, error)
	ShellPage(ctx context.Context) string
	TakeScreenshot(ctx context.Context, notes string) (snapshot.Meta, error)
	ListScreenshots(ctx context.Context) ([]snapshot.Meta, error)
	GetScreenshot(ctx context.Context, id string) (snapshot.Meta, error)
	ReadScreenshotImage(ctx context.Context, id string) ([]byte, error)
	DeleteScreenshot(ctx context.Context, id string) error
}

func NewServer(svc Service, broker *uistream.Broker) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("Tab Shell API", "1.0.0")
	cfg.DocsPath = ""
	api := humachi.New(router, cfg)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(svc.ShellPage(r.Context()))); err != nil {
			slog.Debug("shell page write failed", "error", err)
		}
	})

	router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(docsHTML)); err != nil {
			slog.Debug("docs response write failed", "error", err)
		}
	})

	router.Get("/events", uistream.SSEHandler(broker))
	router.Get("/ws", uistream.WSHandler(broker))

	registerTabHandlers(api, svc)
	registerNavigationHandlers(api, svc)
	registerScreenshotHandlers(api, svc)

	return router
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *shell.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case shell.CodeValidation:
			return huma.Error400BadRequest(coded.Message)
		case shell.CodeTabNotFound, shell.CodeScreenshotNotFound:
			return huma.Error404NotFound(coded.Message)
		case shell.CodeHostNotFound:
			return huma.Error502BadGateway(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
