package processor_test

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidforge/vidforge/internal/models"
	"github.com/vidforge/vidforge/internal/processor"
)

const waitFor = 3 * time.Second

type nopLogger struct{}

func (nopLogger) InitLogger()                                  {}
func (nopLogger) Debug(args ...interface{})                    {}
func (nopLogger) Debugf(template string, args ...interface{})  {}
func (nopLogger) Info(args ...interface{})                     {}
func (nopLogger) Infof(template string, args ...interface{})   {}
func (nopLogger) Warn(args ...interface{})                     {}
func (nopLogger) Warnf(template string, args ...interface{})   {}
func (nopLogger) Error(args ...interface{})                    {}
func (nopLogger) Errorf(template string, args ...interface{})  {}
func (nopLogger) DPanic(args ...interface{})                   {}
func (nopLogger) DPanicf(template string, args ...interface{}) {}
func (nopLogger) Fatal(args ...interface{})                    {}
func (nopLogger) Fatalf(template string, args ...interface{})  {}

type fakeRecords struct {
	mu        sync.Mutex
	videos    map[uuid.UUID]*models.Video
	getCalls  int
	updateErr error
}

func newFakeRecords(videos ...*models.Video) *fakeRecords {
	f := &fakeRecords{videos: make(map[uuid.UUID]*models.Video)}
	for _, v := range videos {
		f.videos[v.VideoID] = v
	}
	return f
}

func (f *fakeRecords) GetVideoByID(_ context.Context, videoID uuid.UUID) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	v, ok := f.videos[videoID]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *v
	return &cp, nil
}

func (f *fakeRecords) UpdateVideo(_ context.Context, video *models.Video) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	cp := *video
	f.videos[video.VideoID] = &cp
	return &cp, nil
}

func (f *fakeRecords) get(videoID uuid.UUID) *models.Video {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.videos[videoID]
}

type uploadedObject struct {
	bucket      string
	key         string
	contentType string
}

type fakeBlobs struct {
	mu          sync.Mutex
	downloads   int
	uploads     []uploadedObject
	downloadErr error
	// block, when non-nil, stalls every download until it is closed.
	block chan struct{}
}

func (f *fakeBlobs) DownloadObject(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	f.downloads++
	block := f.block
	err := f.downloadErr
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader("fake video bytes")), nil
}

func (f *fakeBlobs) UploadObject(_ context.Context, bucket, key string, body io.Reader, contentType string) error {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, uploadedObject{bucket: bucket, key: key, contentType: contentType})
	return nil
}

func (f *fakeBlobs) downloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.downloads
}

func (f *fakeBlobs) uploadedKeys() []uploadedObject {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uploadedObject(nil), f.uploads...)
}

type fakeNotifier struct {
	mu       sync.Mutex
	progress []processor.ProgressPayload
	statuses []processor.StatusPayload
	errs     []processor.ErrorPayload
}

func (f *fakeNotifier) EmitProgress(_ context.Context, _ uuid.UUID, payload processor.ProgressPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress = append(f.progress, payload)
}

func (f *fakeNotifier) EmitStatus(_ context.Context, _ uuid.UUID, payload processor.StatusPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, payload)
}

func (f *fakeNotifier) EmitError(_ context.Context, _ uuid.UUID, payload processor.ErrorPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, payload)
}

func (f *fakeNotifier) progressPercents() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	percents := make([]int, 0, len(f.progress))
	for _, p := range f.progress {
		percents = append(percents, p.Percent)
	}
	return percents
}

func (f *fakeNotifier) statusValues() []models.VideoStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	statuses := make([]models.VideoStatus, 0, len(f.statuses))
	for _, s := range f.statuses {
		statuses = append(statuses, s.Status)
	}
	return statuses
}

func (f *fakeNotifier) errorCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errs)
}

type fakeInspector struct {
	mu       sync.Mutex
	info     *processor.MediaInfo
	probeErr error
	probes   int
}

func (f *fakeInspector) Probe(_ context.Context, _ string) (*processor.MediaInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	cp := *f.info
	return &cp, nil
}

func (f *fakeInspector) ExtractThumbnail(_ context.Context, _, thumbPath string, _ float64) error {
	return os.WriteFile(thumbPath, []byte("jpeg"), 0o644)
}

func (f *fakeInspector) probeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probes
}

func normalMediaInfo() *processor.MediaInfo {
	return &processor.MediaInfo{
		Duration: 60,
		Format:   "mov,mp4,m4a,3gp,3g2,mj2",
		Size:     10_000_000,
		BitRate:  1_300_000,
		Video:    processor.VideoStreamInfo{Codec: "h264", Width: 1920, Height: 1080, FrameRate: 30},
		Audio:    &processor.AudioStreamInfo{Codec: "aac", SampleRate: 44100, Channels: 2},
	}
}

func testVideo(id uuid.UUID) *models.Video {
	return &models.Video{
		VideoID:  id,
		UserID:   uuid.New(),
		Title:    "holiday clip",
		FileName: "holiday.mp4",
		FileSize: 10_000_000,
		S3Key:    "uploads/u/holiday.mp4",
		S3Bucket: "videos",
		Status:   models.VideoStatusUploaded,
	}
}

type env struct {
	queue     *processor.Queue
	records   *fakeRecords
	blobs     *fakeBlobs
	notifier  *fakeNotifier
	inspector *fakeInspector
	completed chan processor.Event
}

func newEnv(t *testing.T, maxConcurrent int, videos ...*models.Video) *env {
	t.Helper()
	e := &env{
		records:   newFakeRecords(videos...),
		blobs:     &fakeBlobs{},
		notifier:  &fakeNotifier{},
		inspector: &fakeInspector{info: normalMediaInfo()},
		completed: make(chan processor.Event, 64),
	}
	e.queue = processor.NewQueue(processor.Config{
		MaxConcurrent: maxConcurrent,
		PollInterval:  10 * time.Millisecond,
		VideoBucket:   "videos",
		MediaBucket:   "media",
		TempDir:       t.TempDir(),
	}, e.records, e.blobs, e.notifier, e.inspector, nopLogger{}, nil)
	e.queue.OnEvent(func(ev processor.Event) {
		if ev.Type == processor.EventCompleted {
			e.completed <- ev
		}
	})
	t.Cleanup(e.queue.Stop)
	return e
}

func (e *env) waitCompleted(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-e.completed:
		case <-time.After(waitFor):
			t.Fatalf("timed out waiting for job %d of %d to complete", i+1, n)
		}
	}
}

func TestQueueProcessesVideoToReady(t *testing.T) {
	id := uuid.New()
	e := newEnv(t, 2, testVideo(id))

	e.queue.Enqueue(id)
	e.waitCompleted(t, 1)

	stored := e.records.get(id)
	require.NotNil(t, stored)
	assert.Equal(t, models.VideoStatusReady, stored.Status)
	assert.Equal(t, int64(60), stored.Duration)
	assert.Equal(t, 1920, stored.Width)
	assert.Equal(t, 1080, stored.Height)
	assert.Equal(t, "h264", stored.Codec)
	assert.Equal(t, "aac", stored.AudioCodec)
	assert.Equal(t, models.SensitivitySafe, stored.Sensitivity)
	assert.Empty(t, stored.SensitivityFlags)
	assert.Empty(t, stored.ProcessingError)
	assert.Equal(t, "thumbnails/"+id.String()+".jpg", stored.ThumbnailKey)

	uploads := e.blobs.uploadedKeys()
	require.Len(t, uploads, 1)
	assert.Equal(t, "media", uploads[0].bucket)
	assert.Equal(t, "thumbnails/"+id.String()+".jpg", uploads[0].key)
	assert.Equal(t, "image/jpeg", uploads[0].contentType)

	assert.Equal(t, []int{0, 25, 75, 100}, e.notifier.progressPercents())
	assert.Equal(t, []models.VideoStatus{models.VideoStatusProcessing, models.VideoStatusReady}, e.notifier.statusValues())
	assert.Zero(t, e.notifier.errorCount())
}

func TestQueueFailureIsTerminalAndExclusive(t *testing.T) {
	id := uuid.New()
	e := newEnv(t, 1, testVideo(id))
	e.inspector.probeErr = errors.New("ffprobe exploded")

	e.queue.Enqueue(id)
	e.waitCompleted(t, 1)

	stored := e.records.get(id)
	require.NotNil(t, stored)
	assert.Equal(t, models.VideoStatusFailed, stored.Status)
	assert.Contains(t, stored.ProcessingError, "media inspection failed")
	// A failed video never reaches the classifier or thumbnail upload.
	assert.Empty(t, stored.Sensitivity)
	assert.Empty(t, e.blobs.uploadedKeys())

	assert.Equal(t, 1, e.notifier.errorCount())
	assert.Equal(t, []models.VideoStatus{models.VideoStatusProcessing, models.VideoStatusFailed}, e.notifier.statusValues())
}

func TestQueueMissingRecordIsAbandoned(t *testing.T) {
	e := newEnv(t, 1)

	e.queue.Enqueue(uuid.New())
	e.waitCompleted(t, 1)

	assert.Zero(t, e.blobs.downloadCount())
	assert.Zero(t, e.inspector.probeCount())
	assert.Zero(t, e.notifier.errorCount())
}

func TestQueueEnqueueDeduplicates(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	e := newEnv(t, 1, testVideo(first), testVideo(second))

	release := make(chan struct{})
	e.blobs.block = release

	e.queue.Enqueue(first)
	require.Eventually(t, func() bool {
		return e.queue.Stats().Processing == 1
	}, waitFor, 5*time.Millisecond)

	e.queue.Enqueue(second)
	e.queue.Enqueue(second)
	e.queue.Enqueue(first) // in flight, must not re-queue

	stats := e.queue.Stats()
	assert.Equal(t, 1, stats.Queued)
	assert.Equal(t, 1, stats.Processing)

	close(release)
	e.waitCompleted(t, 2)
	assert.Equal(t, 2, e.blobs.downloadCount())
}

func TestQueueRespectsConcurrencyBound(t *testing.T) {
	e := newEnv(t, 2)
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
		v := testVideo(ids[i])
		e.records.videos[ids[i]] = v
	}

	release := make(chan struct{})
	e.blobs.block = release

	for _, id := range ids {
		e.queue.Enqueue(id)
	}

	require.Eventually(t, func() bool {
		return e.queue.Stats().Processing == 2
	}, waitFor, 5*time.Millisecond)
	stats := e.queue.Stats()
	assert.Equal(t, 2, stats.Processing)
	assert.Equal(t, 3, stats.Queued)

	close(release)
	e.waitCompleted(t, 5)

	stats = e.queue.Stats()
	assert.Zero(t, stats.Queued)
	assert.Zero(t, stats.Processing)
}

func TestQueueDispatchesInFIFOOrder(t *testing.T) {
	e := newEnv(t, 1)
	ids := make([]uuid.UUID, 4)
	for i := range ids {
		ids[i] = uuid.New()
		e.records.videos[ids[i]] = testVideo(ids[i])
	}

	var mu sync.Mutex
	var order []uuid.UUID
	e.queue.OnEvent(func(ev processor.Event) {
		if ev.Type == processor.EventProcessing {
			mu.Lock()
			order = append(order, ev.VideoID)
			mu.Unlock()
		}
	})

	for _, id := range ids {
		e.queue.Enqueue(id)
	}
	e.waitCompleted(t, 4)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, ids, order)
}

func TestQueuePersistFailureDoesNotAbortJob(t *testing.T) {
	id := uuid.New()
	e := newEnv(t, 1, testVideo(id))
	e.records.updateErr = errors.New("db down")

	var mu sync.Mutex
	var sawSuccess bool
	e.queue.OnEvent(func(ev processor.Event) {
		if ev.Type == processor.EventSuccess {
			mu.Lock()
			sawSuccess = true
			mu.Unlock()
		}
	})

	e.queue.Enqueue(id)
	e.waitCompleted(t, 1)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, sawSuccess, "job should run to completion despite persist failures")
	assert.Equal(t, []int{0, 25, 75, 100}, e.notifier.progressPercents())
}

func TestQueueStopHaltsDispatch(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	e := newEnv(t, 1, testVideo(first), testVideo(second))

	release := make(chan struct{})
	e.blobs.block = release

	e.queue.Enqueue(first)
	require.Eventually(t, func() bool {
		return e.queue.Stats().Processing == 1
	}, waitFor, 5*time.Millisecond)
	e.queue.Enqueue(second)

	e.queue.Stop()
	close(release)
	e.waitCompleted(t, 1)

	// The pending job must stay queued while the scheduler is stopped.
	time.Sleep(50 * time.Millisecond)
	stats := e.queue.Stats()
	assert.False(t, stats.IsRunning)
	assert.Equal(t, 1, stats.Queued)
	assert.Zero(t, stats.Processing)

	e.queue.Start()
	e.waitCompleted(t, 1)
	assert.Zero(t, e.queue.Stats().Queued)
}

func TestQueueStartStopIdempotent(t *testing.T) {
	e := newEnv(t, 1)

	e.queue.Start()
	e.queue.Start()
	assert.True(t, e.queue.Stats().IsRunning)

	e.queue.Stop()
	e.queue.Stop()
	assert.False(t, e.queue.Stats().IsRunning)
}

func TestQueueClearDropsPending(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	e := newEnv(t, 1, testVideo(first), testVideo(second))

	release := make(chan struct{})
	e.blobs.block = release

	e.queue.Enqueue(first)
	require.Eventually(t, func() bool {
		return e.queue.Stats().Processing == 1
	}, waitFor, 5*time.Millisecond)
	e.queue.Enqueue(second)
	require.Equal(t, 1, e.queue.Stats().Queued)

	e.queue.Clear()
	assert.Zero(t, e.queue.Stats().Queued)

	close(release)
	e.waitCompleted(t, 1)
}
