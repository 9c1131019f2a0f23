package controller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/framelift/tabshell/internal/shell"
	"github.com/framelift/tabshell/internal/snapshot"
	"github.com/google/uuid"
)

// Service wraps shell operations for the HTTP layer.
type Service struct {
	shell *shell.Shell
	snaps *snapshot.Store
}

func NewService(sh *shell.Shell, snaps *snapshot.Store) *Service {
	return &Service{shell: sh, snaps: snaps}
}

func (s *Service) requireNonEmpty(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return &shell.CodedError{Code: shell.CodeValidation, Message: fieldName + " is required"}
	}
	return nil
}

// --- Tab methods ---

func (s *Service) ListTabs(ctx context.Context) ([]shell.Tab, int64, error) {
	return s.shell.Tabs(), s.shell.ActiveTabID(), nil
}

func (s *Service) OpenTab(ctx context.Context, url string) (int64, error) {
	return s.shell.NewTab(ctx, strings.TrimSpace(url))
}

func (s *Service) CloseTab(ctx context.Context, id int64) error {
	s.shell.CloseTab(ctx, id)
	return nil
}

func (s *Service) CloseActiveTab(ctx context.Context) error {
	active := s.shell.ActiveTabID()
	if active == 0 {
		return nil
	}
	s.shell.CloseTab(ctx, active)
	return nil
}

func (s *Service) ActivateTab(ctx context.Context, id int64) error {
	if !s.hasTab(id) {
		return &shell.CodedError{Code: shell.CodeTabNotFound, Message: fmt.Sprintf("tab %d not found", id)}
	}
	s.shell.SwitchTab(ctx, id)
	return nil
}

func (s *Service) hasTab(id int64) bool {
	for _, t := range s.shell.Tabs() {
		if t.ID == id {
			return true
		}
	}
	return false
}

// --- Navigation methods ---

func (s *Service) Navigate(ctx context.Context, input string) error {
	if err := s.requireNonEmpty(input, "input"); err != nil {
		return err
	}
	return s.shell.Navigate(ctx, input)
}

func (s *Service) GoBack(ctx context.Context) error    { return s.shell.GoBack(ctx) }
func (s *Service) GoForward(ctx context.Context) error { return s.shell.GoForward(ctx) }
func (s *Service) Reload(ctx context.Context) error    { return s.shell.Reload(ctx) }

func (s *Service) CurrentURL(ctx context.Context) (string, int64, error) {
	return s.shell.CurrentURL(), s.shell.ActiveTabID(), nil
}

func (s *Service) Status(ctx context.Context) (shell.Status, error) {
	return s.shell.Status(), nil
}

// ShellPage renders the chrome page for the anchor tab.
func (s *Service) ShellPage(ctx context.Context) string {
	return s.shell.RenderPage()
}

// --- Screenshot methods ---

func (s *Service) TakeScreenshot(ctx context.Context, notes string) (snapshot.Meta, error) {
	image, err := s.shell.ScreenshotActive(ctx)
	if err != nil {
		return snapshot.Meta{}, err
	}

	var url, title string
	active := s.shell.ActiveTabID()
	for _, t := range s.shell.Tabs() {
		if t.ID == active {
			url, title = t.URL, t.Title
			break
		}
	}

	meta := snapshot.Meta{
		ID:        uuid.New().String(),
		TabID:     active,
		URL:       url,
		Title:     title,
		SizeBytes: len(image),
		CreatedAt: time.Now().UTC(),
		Notes:     strings.TrimSpace(notes),
	}
	if err := s.snaps.Save(meta, image); err != nil {
		return snapshot.Meta{}, &shell.CodedError{Code: shell.CodeSurfaceFailure, Message: fmt.Sprintf("save screenshot: %v", err)}
	}
	return meta, nil
}

func (s *Service) ListScreenshots(ctx context.Context) ([]snapshot.Meta, error) {
	return s.snaps.List()
}

func (s *Service) GetScreenshot(ctx context.Context, id string) (snapshot.Meta, error) {
	if err := s.requireNonEmpty(id, "screenshot_id"); err != nil {
		return snapshot.Meta{}, err
	}

	meta, err := s.snaps.Get(strings.TrimSpace(id))
	if err != nil {
		return snapshot.Meta{}, &shell.CodedError{Code: shell.CodeScreenshotNotFound, Message: err.Error()}
	}
	return meta, nil
}

func (s *Service) ReadScreenshotImage(ctx context.Context, id string) ([]byte, error) {
	if err := s.requireNonEmpty(id, "screenshot_id"); err != nil {
		return nil, err
	}

	data, err := s.snaps.ReadImage(strings.TrimSpace(id))
	if err != nil {
		return nil, &shell.CodedError{Code: shell.CodeScreenshotNotFound, Message: err.Error()}
	}
	return data, nil
}

func (s *Service) DeleteScreenshot(ctx context.Context, id string) error {
	if err := s.requireNonEmpty(id, "screenshot_id"); err != nil {
		return err
	}

	if err := s.snaps.Delete(strings.TrimSpace(id)); err != nil {
		return &shell.CodedError{Code: shell.CodeScreenshotNotFound, Message: err.Error()}
	}
	return nil
}
