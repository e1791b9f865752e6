package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ytget/tokbulk/internal/log"
	"github.com/ytget/tokbulk/internal/model"
)

// VideoExtension is the extension of emitted files.
const VideoExtension = ".mp4"

const maxNameCollisions = 1000

const placeholderFormat = `VIDEO DOWNLOAD SIMULATION
-------------------------
Source: %s
Caption: %s
Quality: %s
Downloaded: %s

Note: The video stream is not fetched. This file stands in for the
downloaded video and demonstrates the save workflow.
`

// Artifact is a finished task handed to the emitter.
type Artifact struct {
	TaskID   string
	URL      string
	Filename string
	Quality  model.VideoQuality
}

// EmitterConfig is the configuration of the file emitter.
type EmitterConfig struct {
	Dir string
	// AutoReveal opens the file manager on each emitted file.
	AutoReveal bool
	Logger     log.Logger
	Now        func() time.Time
	// Reveal defaults to OpenFileInManager.
	Reveal func(path string) error
}

func (c *EmitterConfig) defaults() error {
	if c.Dir == "" {
		dir, err := GetHomeDownloadsDir()
		if err != nil {
			return err
		}
		c.Dir = dir
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "platform.FileEmitter"})
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Reveal == nil {
		c.Reveal = OpenFileInManager
	}
	return nil
}

// FileEmitter saves finished tasks as files in a directory.
type FileEmitter struct {
	mu         sync.RWMutex
	dir        string
	autoReveal bool

	logger log.Logger
	now    func() time.Time
	reveal func(path string) error
}

// NewFileEmitter returns a new file emitter.
func NewFileEmitter(cfg EmitterConfig) (*FileEmitter, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &FileEmitter{
		dir:        cfg.Dir,
		autoReveal: cfg.AutoReveal,
		logger:     cfg.Logger,
		now:        cfg.Now,
		reveal:     cfg.Reveal,
	}, nil
}

// SetDir changes the output directory for the next emitted files.
func (e *FileEmitter) SetDir(dir string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dir = dir
}

// Dir returns the output directory.
func (e *FileEmitter) Dir() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dir
}

// SetAutoReveal toggles revealing emitted files.
func (e *FileEmitter) SetAutoReveal(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoReveal = v
}

// Emit writes the artifact and returns the path of the created file.
// Existing files are never overwritten: "name (n).mp4" is used instead.
func (e *FileEmitter) Emit(ctx context.Context, a Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.mu.RLock()
	dir, autoReveal := e.dir, e.autoReveal
	e.mu.RUnlock()

	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return "", fmt.Errorf("could not create output directory: %w", err)
	}

	name := SanitizeFilename(a.Filename, a.TaskID)
	f, path, err := createUnique(dir, name)
	if err != nil {
		return "", err
	}

	content := fmt.Sprintf(placeholderFormat, a.URL, a.Filename, a.Quality, e.now().Format(time.DateTime))
	_, werr := f.WriteString(content)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return "", fmt.Errorf("could not write %s: %w", path, err)
	}

	e.logger.Debugf("Saved %s", path)

	if autoReveal {
		if err := e.reveal(path); err != nil {
			e.logger.Warningf("Could not reveal %s: %s", path, err)
		}
	}

	return path, nil
}

func createUnique(dir, name string) (*os.File, string, error) {
	for i := 0; i < maxNameCollisions; i++ {
		fileName := name + VideoExtension
		if i > 0 {
			fileName = fmt.Sprintf("%s (%d)%s", name, i, VideoExtension)
		}

		path := filepath.Join(dir, fileName)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, DefaultFilePermissions)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("could not create %s: %w", path, err)
		}
	}

	return nil, "", fmt.Errorf("too many files named %q in %s", name, dir)
}
