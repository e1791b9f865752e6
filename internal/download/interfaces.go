package download

import (
	"context"

	"github.com/ytget/tokbulk/internal/model"
	"github.com/ytget/tokbulk/internal/platform"
	"github.com/ytget/tokbulk/internal/simulate"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(model.DownloadTask))
	Add(urls []string, quality model.VideoQuality) []*model.DownloadTask
	AddText(text string, quality model.VideoQuality) []*model.DownloadTask
	Retry(id string) error
	Clear()
	GetTask(id string) (*model.DownloadTask, bool)
	GetAllTasks() []*model.DownloadTask
	Stats() model.QueueStats

	// SetMaxParallelDownloads sets the maximum number of parallel downloads
	SetMaxParallelDownloads(max int)

	// SetDownloadDirectory sets the download directory
	SetDownloadDirectory(dir string)

	// Wait blocks until every task settled and every file was emitted.
	Wait(ctx context.Context) error
	Close()
}

// Simulator produces the transfer events of a task run.
type Simulator interface {
	Start(ctx context.Context, taskID string) <-chan simulate.Event
}

// Emitter saves a finished task.
type Emitter interface {
	Emit(ctx context.Context, a platform.Artifact) (string, error)
}

// dirSetter is implemented by emitters with a configurable output directory.
type dirSetter interface {
	SetDir(dir string)
}

var _ Downloader = (*Service)(nil)
