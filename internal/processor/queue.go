package processor

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidforge/vidforge/pkg/logger"
)

// Config fixes the queue's behavior at construction time.
type Config struct {
	MaxConcurrent int
	PollInterval  time.Duration
	VideoBucket   string
	MediaBucket   string
	TempDir       string
	Keywords      []string
}

// Queue is a single-process FIFO scheduler with a bounded number of
// concurrently executing job bodies. State is mutex-guarded; a single
// scheduler goroutine owns dispatch, while Enqueue/Start/Stop/Clear/Stats are
// safe from any goroutine.
//
// Invariants: a video id appears at most once across pending and inFlight,
// and len(inFlight) never exceeds MaxConcurrent.
type Queue struct {
	cfg       Config
	records   RecordStore
	blobs     BlobStore
	notifier  Notifier
	inspector Inspector
	logger    logger.Logger
	metrics   *Metrics

	mu         sync.Mutex
	pending    []uuid.UUID
	pendingSet map[uuid.UUID]struct{}
	inFlight   map[uuid.UUID]struct{}
	running    bool
	loopActive bool
	listeners  []func(Event)

	// wake is poked on enqueue and on job completion so the scheduler does
	// not have to wait out the poll interval.
	wake chan struct{}
}

// Stats is a point-in-time queue snapshot.
type Stats struct {
	Queued        int  `json:"queued"`
	Processing    int  `json:"processing"`
	MaxConcurrent int  `json:"max_concurrent"`
	IsRunning     bool `json:"is_running"`
}

func NewQueue(cfg Config, records RecordStore, blobs BlobStore, notifier Notifier, inspector Inspector, log logger.Logger, metrics *Metrics) *Queue {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = DefaultKeywords
	}
	return &Queue{
		cfg:        cfg,
		records:    records,
		blobs:      blobs,
		notifier:   notifier,
		inspector:  inspector,
		logger:     log,
		metrics:    metrics,
		pendingSet: make(map[uuid.UUID]struct{}),
		inFlight:   make(map[uuid.UUID]struct{}),
		wake:       make(chan struct{}, 1),
	}
}

// Enqueue appends a video id for processing. Re-enqueuing an id that is
// already pending or in flight is a silent no-op. Starts the scheduler if it
// is not running. Never fails.
func (q *Queue) Enqueue(videoID uuid.UUID) {
	q.mu.Lock()
	if _, ok := q.pendingSet[videoID]; ok {
		q.mu.Unlock()
		return
	}
	if _, ok := q.inFlight[videoID]; ok {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, videoID)
	q.pendingSet[videoID] = struct{}{}
	running := q.running
	q.metrics.setDepth(len(q.pending), len(q.inFlight))
	q.mu.Unlock()

	q.emit(Event{Type: EventEnqueued, VideoID: videoID})
	if !running {
		q.Start()
	} else {
		q.signal()
	}
}

// Start begins pulling work. Idempotent.
func (q *Queue) Start() {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	spawn := !q.loopActive
	if spawn {
		q.loopActive = true
	}
	q.mu.Unlock()

	q.emit(Event{Type: EventStarted})
	if spawn {
		go q.loop()
	}
	q.signal()
}

// Stop halts dispatch of new jobs. In-flight jobs run to completion.
// Idempotent.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.mu.Unlock()

	q.emit(Event{Type: EventStopped})
	q.signal()
}

// Clear drops all queue state. Test and administrative reset only; it must
// not be called while jobs are genuinely in flight in production.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.pending = nil
	q.pendingSet = make(map[uuid.UUID]struct{})
	q.inFlight = make(map[uuid.UUID]struct{})
	q.metrics.setDepth(0, 0)
	q.mu.Unlock()

	q.emit(Event{Type: EventCleared})
}

func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Queued:        len(q.pending),
		Processing:    len(q.inFlight),
		MaxConcurrent: q.cfg.MaxConcurrent,
		IsRunning:     q.running,
	}
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// loop is the scheduler. It exits when the queue is stopped, so a stopped
// queue burns no cycles; Start spawns a fresh loop.
func (q *Queue) loop() {
	ticker := time.NewTicker(q.cfg.PollInterval)
	defer ticker.Stop()

	for {
		q.mu.Lock()
		if !q.running {
			q.loopActive = false
			q.mu.Unlock()
			return
		}
		if len(q.pending) == 0 || len(q.inFlight) >= q.cfg.MaxConcurrent {
			q.mu.Unlock()
			select {
			case <-q.wake:
			case <-ticker.C:
			}
			continue
		}

		videoID := q.pending[0]
		q.pending = q.pending[1:]
		delete(q.pendingSet, videoID)
		q.inFlight[videoID] = struct{}{}
		q.metrics.setDepth(len(q.pending), len(q.inFlight))
		q.mu.Unlock()

		q.emit(Event{Type: EventProcessing, VideoID: videoID})
		go q.dispatch(videoID)
	}
}

// dispatch runs one job body and unconditionally releases its concurrency
// slot. Nothing a job does may take down the scheduler.
func (q *Queue) dispatch(videoID uuid.UUID) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Errorf("processor: job %s panicked: %v", videoID, r)
			q.emit(Event{Type: EventError, VideoID: videoID, Message: "job panicked"})
		}
		q.mu.Lock()
		delete(q.inFlight, videoID)
		q.metrics.setDepth(len(q.pending), len(q.inFlight))
		q.mu.Unlock()

		q.emit(Event{Type: EventCompleted, VideoID: videoID})
		q.signal()
	}()

	q.runJob(videoID)
}
