package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"github.com/ytget/tokbulk/internal/caption"
	"github.com/ytget/tokbulk/internal/config"
	"github.com/ytget/tokbulk/internal/download"
	"github.com/ytget/tokbulk/internal/log"
	loglogrus "github.com/ytget/tokbulk/internal/log/logrus"
	"github.com/ytget/tokbulk/internal/platform"
	"github.com/ytget/tokbulk/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.tokbulk"
	AppName = "TokBulk"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := newLogger()
	logger.Infof("%s v%s starting", AppName, version)

	myApp := app.NewWithID(AppID)
	settings := config.NewSettings(myApp)

	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		logger.Warningf("failed to ensure downloads dir: %s", err)
	}

	emitter, err := platform.NewFileEmitter(platform.EmitterConfig{
		Dir:        downloadsDir,
		AutoReveal: settings.GetAutoRevealOnComplete(),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create emitter: %w", err)
	}

	apiKey := settings.GetGeminiAPIKey()
	if apiKey == "" {
		apiKey = os.Getenv(config.EnvGeminiAPIKey)
	}
	if apiKey == "" {
		apiKey = os.Getenv(config.EnvAPIKey)
	}

	resolver, err := caption.NewDefault(context.Background(), caption.Config{
		GeminiAPIKey: apiKey,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("could not create caption resolver: %w", err)
	}

	downloadSvc, err := download.NewService(download.ServiceConfig{
		MaxParallel: settings.GetMaxParallelDownloads(),
		Resolver:    resolver,
		Emitter:     emitter,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create download service: %w", err)
	}
	defer downloadSvc.Close()

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))

	if _, err := ui.NewRootUI(ui.RootUIConfig{
		App:        myApp,
		Window:     myWindow,
		Downloader: downloadSvc,
		Revealer:   emitter,
		Settings:   settings,
		Logger:     logger,
	}); err != nil {
		return fmt.Errorf("could not create UI: %w", err)
	}

	myWindow.ShowAndRun()
	return nil
}

// newLogger logs to stderr with the text formatter, TOKBULK_DEBUG enables debug level.
func newLogger() log.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.SetFormatter(&logrus.TextFormatter{})
	if os.Getenv("TOKBULK_DEBUG") != "" {
		l.SetLevel(logrus.DebugLevel)
	}
	return loglogrus.NewLogrus(logrus.NewEntry(l)).WithValues(log.Kv{"version": version})
}
