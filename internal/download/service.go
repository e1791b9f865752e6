package download

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/ytget/tokbulk/internal/caption"
	"github.com/ytget/tokbulk/internal/log"
	"github.com/ytget/tokbulk/internal/model"
	"github.com/ytget/tokbulk/internal/platform"
	"github.com/ytget/tokbulk/internal/simulate"
)

// Queue defaults
const (
	DefaultMaxParallel    = 10
	MinMaxParallel        = 1
	MaxMaxParallel        = 10
	DefaultEmitDelay      = 300 * time.Millisecond
	DefaultCaptionTimeout = 30 * time.Second
	TaskIDPrefix          = "task-"
)

// ErrClosed is returned when the service has been closed.
var ErrClosed = errors.New("download service closed")

// ServiceConfig is the configuration of the download service.
type ServiceConfig struct {
	MaxParallel int
	Simulator   Simulator
	Resolver    caption.Resolver
	Emitter     Emitter
	// EmitDelay is the wait between a task completing and its file being emitted.
	EmitDelay      time.Duration
	CaptionTimeout time.Duration
	Logger         log.Logger
	Now            func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if c.MaxParallel == 0 {
		c.MaxParallel = DefaultMaxParallel
	}
	c.MaxParallel = ClampMaxParallel(c.MaxParallel)

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "download.Service"})

	if c.Emitter == nil {
		return fmt.Errorf("emitter is required")
	}

	if c.Simulator == nil {
		sim, err := simulate.NewSimulator(simulate.Config{Logger: c.Logger})
		if err != nil {
			return fmt.Errorf("could not create simulator: %w", err)
		}
		c.Simulator = sim
	}

	if c.Resolver == nil {
		c.Resolver = caption.ResolverFunc(func(context.Context, string) (string, error) {
			return "", caption.ErrNoCaption
		})
	}

	if c.EmitDelay < 0 {
		return fmt.Errorf("emit delay can't be negative")
	}
	if c.EmitDelay == 0 {
		c.EmitDelay = DefaultEmitDelay
	}

	if c.CaptionTimeout < 0 {
		return fmt.Errorf("caption timeout can't be negative")
	}
	if c.CaptionTimeout == 0 {
		c.CaptionTimeout = DefaultCaptionTimeout
	}

	if c.Now == nil {
		c.Now = time.Now
	}

	return nil
}

// ClampMaxParallel bounds a parallel downloads value to the supported range.
func ClampMaxParallel(n int) int {
	if n < MinMaxParallel {
		return MinMaxParallel
	}
	if n > MaxMaxParallel {
		return MaxMaxParallel
	}
	return n
}

// run is a single dispatch of a task. A retried task gets a new run, events of
// older runs are ignored.
type run struct {
	token  uint64
	cancel context.CancelFunc
}

// Service handles the download queue.
type Service struct {
	mu          sync.Mutex
	tasks       []*model.DownloadTask // insertion order
	index       map[string]*model.DownloadTask
	inFlight    map[string]*run
	lastToken   uint64
	maxParallel int
	emitting    int
	closed      bool

	onUpdate func(model.DownloadTask)
	updates  []model.DownloadTask
	flushing bool
	changed  chan struct{}

	sim            Simulator
	resolver       caption.Resolver
	emitter        Emitter
	emitDelay      time.Duration
	captionTimeout time.Duration
	logger         log.Logger
	now            func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a new download service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		index:          map[string]*model.DownloadTask{},
		inFlight:       map[string]*run{},
		maxParallel:    cfg.MaxParallel,
		changed:        make(chan struct{}),
		sim:            cfg.Simulator,
		resolver:       cfg.Resolver,
		emitter:        cfg.Emitter,
		emitDelay:      cfg.EmitDelay,
		captionTimeout: cfg.CaptionTimeout,
		logger:         cfg.Logger,
		now:            cfg.Now,
		ctx:            ctx,
		cancel:         cancel,
	}, nil
}

// SetUpdateCallback sets the callback function for task updates. The callback
// receives a copy of the task after every change, in order, and never while
// the service lock is held. Delivery may happen on another goroutine.
func (s *Service) SetUpdateCallback(callback func(model.DownloadTask)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// ParseURLs splits user input into URLs: one per line, trimmed, blank lines skipped.
func ParseURLs(text string) []string {
	var urls []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			urls = append(urls, line)
		}
	}
	return urls
}

// AddText queues every URL of a newline separated text.
func (s *Service) AddText(text string, quality model.VideoQuality) []*model.DownloadTask {
	return s.Add([]string{text}, quality)
}

// Add queues a task per URL and dispatches as many as the cap allows.
func (s *Service) Add(urls []string, quality model.VideoQuality) []*model.DownloadTask {
	var lines []string
	for _, u := range urls {
		lines = append(lines, ParseURLs(u)...)
	}
	if len(lines) == 0 {
		return nil
	}
	if quality == "" {
		quality = model.DefaultQuality
	}

	batchID := ulid.Make().String()
	now := s.now()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warningf("Service closed, ignoring %d URLs", len(lines))
		return nil
	}

	added := make([]*model.DownloadTask, 0, len(lines))
	for _, u := range lines {
		t := &model.DownloadTask{
			ID:        generateTaskID(),
			BatchID:   batchID,
			URL:       u,
			Filename:  model.PlaceholderFilename,
			Status:    model.TaskStatusPending,
			Quality:   quality,
			CreatedAt: now,
		}
		s.tasks = append(s.tasks, t)
		s.index[t.ID] = t
		s.publishLocked(t)

		cp := *t
		added = append(added, &cp)
	}
	s.logger.WithValues(log.Kv{"batch": batchID}).Infof("Queued %d tasks", len(added))

	s.reconcileLocked()
	s.mu.Unlock()

	s.flush()
	return added
}

// Retry moves a failed task back to the queue.
func (s *Service) Retry(id string) error {
	s.mu.Lock()
	t, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	if err := model.ValidateTransition(t.Status, model.TaskStatusPending); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("could not retry task %s: %w", id, err)
	}

	if r, ok := s.inFlight[id]; ok {
		r.cancel()
		delete(s.inFlight, id)
	}
	t.Status = model.TaskStatusPending
	t.Progress = 0
	t.Error = ""
	t.FinishedAt = time.Time{}
	s.publishLocked(t)
	s.logger.Debugf("Task %s retried", id)

	s.reconcileLocked()
	s.mu.Unlock()

	s.flush()
	return nil
}

// Clear removes every task and cancels their runs.
func (s *Service) Clear() {
	s.mu.Lock()
	for _, r := range s.inFlight {
		r.cancel()
	}
	n := len(s.tasks)
	s.tasks = nil
	s.index = map[string]*model.DownloadTask{}
	s.inFlight = map[string]*run{}
	s.broadcastLocked()
	s.mu.Unlock()

	s.logger.Infof("Cleared %d tasks", n)
}

// GetTask returns a copy of a task by ID.
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.index[id]
	if !ok {
		return nil, false
	}
	cp := *t
	return &cp, true
}

// GetAllTasks returns a copy of all tasks in insertion order.
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]*model.DownloadTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		cp := *t
		tasks = append(tasks, &cp)
	}
	return tasks
}

// Stats returns the status breakdown of the queue.
func (s *Service) Stats() model.QueueStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.NewQueueStats(s.tasks)
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads.
// Lowering it never stops running tasks.
func (s *Service) SetMaxParallelDownloads(max int) {
	s.mu.Lock()
	s.maxParallel = ClampMaxParallel(max)
	s.reconcileLocked()
	s.mu.Unlock()

	s.flush()
}

// SetDownloadDirectory sets the download directory of the emitter.
func (s *Service) SetDownloadDirectory(dir string) {
	ds, ok := s.emitter.(dirSetter)
	if !ok {
		s.logger.Warningf("Emitter does not support changing the download directory")
		return
	}
	ds.SetDir(dir)
}

// Wait blocks until no task is pending or downloading and every completed
// task has been emitted.
func (s *Service) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return ErrClosed
		}
		if model.NewQueueStats(s.tasks).Settled() && s.emitting == 0 {
			s.mu.Unlock()
			return nil
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels every run and pending emission and waits for them to stop.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for _, r := range s.inFlight {
		r.cancel()
	}
	s.inFlight = map[string]*run{}
	s.cancel()
	s.broadcastLocked()
	s.mu.Unlock()

	s.wg.Wait()
}

// reconcileLocked promotes pending tasks, oldest first, while there is capacity.
func (s *Service) reconcileLocked() {
	if s.closed {
		return
	}

	active := 0
	for _, t := range s.tasks {
		if t.Status.IsActive() {
			active++
		}
	}

	for _, t := range s.tasks {
		if active >= s.maxParallel {
			return
		}
		if t.Status != model.TaskStatusPending {
			continue
		}
		if _, ok := s.inFlight[t.ID]; ok {
			continue
		}

		s.startLocked(t)
		active++
	}
}

func (s *Service) startLocked(t *model.DownloadTask) {
	t.Status = model.TaskStatusDownloading
	t.Progress = 0
	t.StartedAt = s.now()
	s.publishLocked(t)

	ctx, cancel := context.WithCancel(s.ctx)
	s.lastToken++
	r := &run{token: s.lastToken, cancel: cancel}
	s.inFlight[t.ID] = r

	s.wg.Add(1)
	go s.process(ctx, t.ID, t.URL, r)
}

// process resolves the caption of a task and follows its simulated transfer.
func (s *Service) process(ctx context.Context, id, url string, r *run) {
	defer s.wg.Done()
	defer r.cancel()

	name := s.resolveCaption(ctx, url)

	s.mu.Lock()
	t, ok := s.currentLocked(id, r.token)
	if ok {
		t.Filename = name
		s.publishLocked(t)
	}
	s.mu.Unlock()
	s.flush()
	if !ok {
		return
	}

	for ev := range s.sim.Start(ctx, id) {
		s.handleEvent(id, r.token, ev)
	}
}

func (s *Service) resolveCaption(ctx context.Context, url string) string {
	ctx, cancel := context.WithTimeout(ctx, s.captionTimeout)
	defer cancel()

	name, err := s.resolver.Resolve(ctx, url)
	if err == nil && strings.TrimSpace(name) != "" {
		return name
	}

	fallback := caption.FallbackName(url, s.now())
	if err != nil {
		s.logger.Debugf("Could not resolve caption of %s, using %s: %s", url, fallback, err)
	}
	return fallback
}

func (s *Service) handleEvent(id string, token uint64, ev simulate.Event) {
	s.mu.Lock()
	t, ok := s.currentLocked(id, token)
	if !ok || !t.Status.IsActive() {
		s.mu.Unlock()
		return
	}

	switch ev.Kind {
	case simulate.EventProgress:
		t.Progress = model.ClampProgress(ev.Progress)

	case simulate.EventComplete:
		t.Status = model.TaskStatusDone
		t.Progress = 100
		t.FinishedAt = s.now()
		delete(s.inFlight, id)
		s.scheduleEmitLocked(t)
		s.logger.Debugf("Task %s done", id)

	case simulate.EventFail:
		err := ev.Err
		if err == nil {
			err = simulate.ErrNetworkTimeout
		}
		t.Status = model.TaskStatusFailed
		t.Error = err.Error()
		t.FinishedAt = s.now()
		delete(s.inFlight, id)
		s.logger.Warningf("Task %s failed: %s", id, err)
	}

	s.publishLocked(t)
	if ev.Kind != simulate.EventProgress {
		s.reconcileLocked()
	}
	s.mu.Unlock()

	s.flush()
}

// currentLocked returns the task only when the run is still the active one.
func (s *Service) currentLocked(id string, token uint64) (*model.DownloadTask, bool) {
	if s.closed {
		return nil, false
	}
	r, ok := s.inFlight[id]
	if !ok || r.token != token {
		return nil, false
	}
	t, ok := s.index[id]
	return t, ok
}

func (s *Service) scheduleEmitLocked(t *model.DownloadTask) {
	a := platform.Artifact{
		TaskID:   t.ID,
		URL:      t.URL,
		Filename: platform.SanitizeFilename(t.Filename, t.ID),
		Quality:  t.Quality,
	}
	s.emitting++

	s.wg.Add(1)
	go s.emit(a)
}

// emit saves a finished task after the emit delay. The file is written even
// when the task was cleared meanwhile, the path is only recorded if it's still there.
func (s *Service) emit(a platform.Artifact) {
	defer s.wg.Done()

	timer := time.NewTimer(s.emitDelay)
	defer timer.Stop()

	var (
		path string
		err  error
	)
	select {
	case <-timer.C:
		path, err = s.emitter.Emit(s.ctx, a)
	case <-s.ctx.Done():
		err = s.ctx.Err()
	}

	s.mu.Lock()
	s.emitting--
	if err != nil {
		s.logger.Errorf("Could not save task %s: %s", a.TaskID, err)
	} else if t, ok := s.index[a.TaskID]; ok && t.Status == model.TaskStatusDone {
		t.OutputPath = path
		s.publishLocked(t)
	}
	s.broadcastLocked()
	s.mu.Unlock()

	s.flush()
}

func (s *Service) publishLocked(t *model.DownloadTask) {
	s.updates = append(s.updates, *t)
	s.broadcastLocked()
}

func (s *Service) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// flush delivers queued updates. Only one goroutine delivers at a time so
// callbacks observe updates in the order they happened.
func (s *Service) flush() {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return
	}
	s.flushing = true

	for {
		batch := s.updates
		s.updates = nil
		cb := s.onUpdate
		if len(batch) == 0 {
			s.flushing = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		if cb != nil {
			for _, t := range batch {
				cb(t)
			}
		}

		s.mu.Lock()
	}
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
