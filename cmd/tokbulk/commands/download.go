package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/kingpin/v2"

	"github.com/ytget/tokbulk/internal/caption"
	"github.com/ytget/tokbulk/internal/config"
	"github.com/ytget/tokbulk/internal/download"
	"github.com/ytget/tokbulk/internal/log"
	"github.com/ytget/tokbulk/internal/model"
	"github.com/ytget/tokbulk/internal/platform"
)

// stdinArg reads URLs from the standard input when given as an URL argument.
const stdinArg = "-"

type DownloadCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	urls        []string
	file        string
	quality     string
	maxParallel int
	outputDir   string
	format      string
	reveal      bool
	retries     int
}

// NewDownloadCommand returns the download command.
func NewDownloadCommand(rootCmd *RootCommand, app *kingpin.Application) *DownloadCommand {
	c := &DownloadCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("download", "Queue video URLs and save them to the download directory.")
	c.Cmd.Arg("urls", "Video URLs, use - to read them from stdin.").StringsVar(&c.urls)
	c.Cmd.Flag("file", "File with one URL per line.").Short('f').StringVar(&c.file)
	c.Cmd.Flag("quality", "Video quality (720p, 1080p, Highest Quality).").Short('q').StringVar(&c.quality)
	c.Cmd.Flag("max-parallel", "Max parallel downloads (1-10).").IntVar(&c.maxParallel)
	c.Cmd.Flag("output-dir", "Download directory.").Short('o').StringVar(&c.outputDir)
	c.Cmd.Flag("format", "Output format (table, json).").Default(FormatTable).EnumVar(&c.format, FormatTable, FormatJSON)
	c.Cmd.Flag("reveal", "Reveal each saved file in the file manager.").BoolVar(&c.reveal)
	c.Cmd.Flag("retries", "Retries of failed tasks.").Default("0").IntVar(&c.retries)

	return c
}

func (c DownloadCommand) Name() string { return c.Cmd.FullCommand() }

func (c DownloadCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cfg, err := config.Load(c.rootCmd.ConfigPath)
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}
	if err := c.applyFlags(cfg); err != nil {
		return err
	}

	text, err := collectURLs(c.urls, c.file, c.rootCmd.Stdin)
	if err != nil {
		return err
	}
	urls := download.ParseURLs(text)
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given: %w", model.ErrNotValid)
	}

	if err := platform.CreateDirectoryIfNotExists(cfg.DownloadDir); err != nil {
		return fmt.Errorf("could not create download directory: %w", err)
	}

	emitter, err := platform.NewFileEmitter(platform.EmitterConfig{
		Dir:        cfg.DownloadDir,
		AutoReveal: cfg.AutoReveal,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create emitter: %w", err)
	}

	resolver, err := caption.NewDefault(ctx, caption.Config{
		GeminiAPIKey:   cfg.GeminiAPIKey,
		GeminiModel:    cfg.GeminiModel,
		OEmbedEndpoint: cfg.OEmbedEndpoint,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("could not create caption resolver: %w", err)
	}

	svc, err := download.NewService(download.ServiceConfig{
		MaxParallel:    cfg.MaxParallel,
		Resolver:       resolver,
		Emitter:        emitter,
		CaptionTimeout: cfg.CaptionTimeout,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}
	defer svc.Close()

	svc.SetUpdateCallback(newProgressLogger(logger))

	tasks := svc.Add(urls, cfg.VideoQuality())
	logger.Infof("Queued %d videos into %s", len(tasks), cfg.DownloadDir)

	if err := svc.Wait(ctx); err != nil {
		return fmt.Errorf("could not wait for the queue: %w", err)
	}

	for attempt := 1; attempt <= c.retries; attempt++ {
		failed := failedIDs(svc.GetAllTasks())
		if len(failed) == 0 {
			break
		}
		logger.Infof("Retrying %d failed videos (attempt %d/%d)", len(failed), attempt, c.retries)
		for _, id := range failed {
			if err := svc.Retry(id); err != nil {
				return fmt.Errorf("could not retry %s: %w", id, err)
			}
		}
		if err := svc.Wait(ctx); err != nil {
			return fmt.Errorf("could not wait for the queue: %w", err)
		}
	}

	all := svc.GetAllTasks()
	stats := svc.Stats()
	if err := newPrinter(c.format, c.rootCmd).PrintResult(all, stats); err != nil {
		return fmt.Errorf("could not print result: %w", err)
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d videos failed", stats.Failed, stats.Total)
	}

	return nil
}

// applyFlags overrides the loaded configuration with the set flags.
func (c DownloadCommand) applyFlags(cfg *config.File) error {
	if c.outputDir != "" {
		cfg.DownloadDir = c.outputDir
	}
	if c.maxParallel != 0 {
		cfg.MaxParallel = download.ClampMaxParallel(c.maxParallel)
	}
	if c.quality != "" {
		q, err := model.ParseQuality(c.quality)
		if err != nil {
			return fmt.Errorf("invalid quality %q: %w", c.quality, err)
		}
		cfg.Quality = q.String()
	}
	if c.reveal {
		cfg.AutoReveal = true
	}
	if c.retries < 0 {
		return fmt.Errorf("retries can't be negative")
	}
	return nil
}

// collectURLs joins the URL arguments, the stdin (for "-") and the URL file
// into one newline separated text.
func collectURLs(args []string, file string, stdin io.Reader) (string, error) {
	var sb strings.Builder

	for _, arg := range args {
		if arg != stdinArg {
			sb.WriteString(arg)
			sb.WriteByte('\n')
			continue
		}
		if stdin == nil {
			continue
		}
		if err := copyLines(&sb, stdin); err != nil {
			return "", fmt.Errorf("could not read stdin: %w", err)
		}
	}

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("could not open URL file: %w", err)
		}
		defer f.Close()
		if err := copyLines(&sb, f); err != nil {
			return "", fmt.Errorf("could not read URL file: %w", err)
		}
	}

	return sb.String(), nil
}

func copyLines(sb *strings.Builder, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		sb.WriteString(sc.Text())
		sb.WriteByte('\n')
	}
	return sc.Err()
}

func failedIDs(tasks []*model.DownloadTask) []string {
	var ids []string
	for _, t := range tasks {
		if t.Status == model.TaskStatusFailed {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// newProgressLogger logs status transitions and saved files of the queue.
func newProgressLogger(logger log.Logger) func(model.DownloadTask) {
	var mu sync.Mutex
	last := map[string]model.DownloadTask{}

	return func(t model.DownloadTask) {
		mu.Lock()
		prev, seen := last[t.ID]
		last[t.ID] = t
		mu.Unlock()

		l := logger.WithValues(log.Kv{"task": t.ID})
		if !seen || prev.Status != t.Status {
			switch t.Status {
			case model.TaskStatusDownloading:
				l.Debugf("Downloading %s", t.URL)
			case model.TaskStatusDone:
				l.Debugf("Done %q", t.GetDisplayTitle())
			case model.TaskStatusFailed:
				l.Warningf("Failed %s: %s", t.URL, t.Error)
			}
		}
		if prev.OutputPath == "" && t.OutputPath != "" {
			l.Infof("Saved %s", t.OutputPath)
		}
	}
}
