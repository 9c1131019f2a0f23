package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/framelift/tabshell/internal/shell"
)

func registerNavigationHandlers(api huma.API, svc Service) {
	huma.Register(api, huma.Operation{OperationID: "navigate", Method: http.MethodPost, Path: "/api/v1/navigate", Summary: "Navigate the active tab", Description: "Accepts a URL, a bare domain, or free text. Free text is routed to the configured search engine.", Tags: []string{"Navigation"}},
		func(ctx context.Context, input *struct {
			Body struct {
				Input string `json:"input" doc:"Address bar text: URL, domain, or search query"`
			}
		}) (*statusOutput, error) {
			if err := svc.Navigate(ctx, input.Body.Input); err != nil {
				return nil, mapErr(err)
			}
			out := &statusOutput{}
			out.Body.Status = "navigating"
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "history-back", Method: http.MethodPost, Path: "/api/v1/history/back", Summary: "Go back in the active tab", Tags: []string{"Navigation"}},
		func(ctx context.Context, input *struct{}) (*statusOutput, error) {
			if err := svc.GoBack(ctx); err != nil {
				return nil, mapErr(err)
			}
			out := &statusOutput{}
			out.Body.Status = "ok"
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "history-forward", Method: http.MethodPost, Path: "/api/v1/history/forward", Summary: "Go forward in the active tab", Tags: []string{"Navigation"}},
		func(ctx context.Context, input *struct{}) (*statusOutput, error) {
			if err := svc.GoForward(ctx); err != nil {
				return nil, mapErr(err)
			}
			out := &statusOutput{}
			out.Body.Status = "ok"
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "history-reload", Method: http.MethodPost, Path: "/api/v1/history/reload", Summary: "Reload the active tab", Tags: []string{"Navigation"}},
		func(ctx context.Context, input *struct{}) (*statusOutput, error) {
			if err := svc.Reload(ctx); err != nil {
				return nil, mapErr(err)
			}
			out := &statusOutput{}
			out.Body.Status = "reloading"
			return out, nil
		})

	type currentURLOutput struct {
		Body struct {
			URL         string `json:"url"`
			ActiveTabID int64  `json:"active_tab_id"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "current-url", Method: http.MethodGet, Path: "/api/v1/url", Summary: "Get the active tab's URL", Tags: []string{"Navigation"}},
		func(ctx context.Context, input *struct{}) (*currentURLOutput, error) {
			url, active, err := svc.CurrentURL(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &currentURLOutput{}
			out.Body.URL = url
			out.Body.ActiveTabID = active
			return out, nil
		})

	type loadStatusOutput struct {
		Body shell.Status
	}
	huma.Register(api, huma.Operation{OperationID: "load-status", Method: http.MethodGet, Path: "/api/v1/status", Summary: "Get the active tab's load status", Tags: []string{"Navigation"}},
		func(ctx context.Context, input *struct{}) (*loadStatusOutput, error) {
			status, err := svc.Status(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &loadStatusOutput{}
			out.Body = status
			return out, nil
		})
}
