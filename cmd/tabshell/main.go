package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/framelift/tabshell/internal/api"
	"github.com/framelift/tabshell/internal/browser"
	"github.com/framelift/tabshell/internal/cdp"
	"github.com/framelift/tabshell/internal/config"
	"github.com/framelift/tabshell/internal/controller"
	"github.com/framelift/tabshell/internal/netutil"
	"github.com/framelift/tabshell/internal/notify"
	"github.com/framelift/tabshell/internal/shell"
	"github.com/framelift/tabshell/internal/snapshot"
	"github.com/framelift/tabshell/internal/uistream"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		_, _ = io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n")
		os.Exit(1)
	}

	slog.Info("config loaded",
		"bind_addr", cfg.BindAddr,
		"cdp_url", cfg.CDPURL(),
		"theme", cfg.Theme,
		"strip_headers", cfg.StripHeaders,
		"launch_browser", cfg.LaunchBrowser,
		"port_auto_fallback", cfg.PortAutoFallback,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	bindAddr, err := netutil.PickBindAddr(cfg.BindAddr, cfg.PortCandidates, cfg.PortAutoFallback)
	if err != nil {
		slog.Error("failed to pick bind address", "preferred", cfg.BindAddr, "error", err)
		os.Exit(1)
	}

	if cfg.LaunchBrowser {
		launcher := browser.NewLauncher(browser.Config{
			CDPAddress: cfg.CDPAddress,
			CDPPort:    cfg.CDPPort,
			ProfileDir: cfg.ProfileDir,
			WindowSize: cfg.WindowSize,
			UserAgent:  cfg.UserAgent,
		})
		if err := launcher.Launch(context.Background()); err != nil {
			slog.Error("failed to launch browser", "error", err)
			os.Exit(1)
		}
		defer launcher.Stop()
	}

	host := cdp.NewHost(cfg.CDPURL(), cfg.UserAgent, cfg.StripHeaders)
	if err := host.Connect(context.Background()); err != nil {
		slog.Error("failed to connect surface host", "cdp_url", cfg.CDPURL(), "error", err)
		os.Exit(1)
	}
	defer func() { _ = host.Close() }()

	broker := uistream.NewBroker()

	var callbacks shell.Callbacks
	if cfg.NotifyEndpoint != "" {
		endpoint := cfg.NotifyEndpoint
		callbacks.OnError = func(tab shell.Tab, err error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			msg := notify.LoadFailure(tab.ID, tab.URL, err.Error())
			if err := notify.Send(ctx, nil, endpoint, msg); err != nil {
				slog.Warn("load failure notification failed", "endpoint", endpoint, "error", err)
			}
		}
	}

	sh := shell.NewShell(host, shell.Options{
		Container:      cfg.CDPURL(),
		Theme:          shell.Theme(cfg.Theme),
		ShowTabs:       cfg.ShowTabs,
		ShowNavigation: cfg.ShowNavigation,
		ShowStatusBar:  cfg.ShowStatusBar,
		StartURL:       cfg.StartURL,
		SearchURL:      cfg.SearchURL,
		Callbacks:      callbacks,
		Sink:           broker,
	})
	if err := sh.Init(context.Background()); err != nil {
		slog.Error("shell init failed", "error", err)
		os.Exit(1)
	}
	defer sh.Close()

	snaps, err := snapshot.NewStore(cfg.ScreenshotDir)
	if err != nil {
		slog.Error("failed to open screenshot store", "dir", cfg.ScreenshotDir, "error", err)
		os.Exit(1)
	}

	svc := controller.NewService(sh, snaps)
	h := api.NewServer(svc, broker)

	srv := &http.Server{Addr: bindAddr, Handler: h}

	go func() {
		slog.Info("shell listening", "addr", bindAddr, "chrome", "http://"+bindAddr+"/", "docs", "http://"+bindAddr+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("shell server failed", "error", err)
			os.Exit(1)
		}
	}()

	if err := host.ShowChrome(context.Background(), "http://"+bindAddr+"/"); err != nil {
		slog.Warn("failed to open shell chrome page", "error", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shell shutdown failed", "error", err)
	}
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
