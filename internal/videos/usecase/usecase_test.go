package usecase_test

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidforge/vidforge/internal/config"
	"github.com/vidforge/vidforge/internal/models"
	"github.com/vidforge/vidforge/internal/processor"
	"github.com/vidforge/vidforge/internal/videos/usecase"
	"github.com/vidforge/vidforge/pkg/utils"
)

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

type fakeRepo struct {
	mu        sync.Mutex
	videos    map[uuid.UUID]*models.Video
	createErr error
}

func newFakeRepo(vs ...*models.Video) *fakeRepo {
	f := &fakeRepo{videos: make(map[uuid.UUID]*models.Video)}
	for _, v := range vs {
		f.videos[v.VideoID] = v
	}
	return f
}

func (f *fakeRepo) CreateVideo(_ context.Context, video *models.Video) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *video
	cp.VideoID = uuid.New()
	f.videos[cp.VideoID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRepo) GetVideoByID(_ context.Context, videoID uuid.UUID) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[videoID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *v
	return &cp, nil
}

func (f *fakeRepo) GetVideos(_ context.Context, userID uuid.UUID, p *utils.Pagination) (*models.VideoList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := &models.VideoList{Videos: []*models.Video{}, Page: p.GetPage(), PageSize: p.GetSize()}
	for _, v := range f.videos {
		if v.UserID == userID {
			cp := *v
			list.Videos = append(list.Videos, &cp)
		}
	}
	list.TotalCount = len(list.Videos)
	return list, nil
}

func (f *fakeRepo) GetVideosByQuery(_ context.Context, userID uuid.UUID, query string, p *utils.Pagination) (*models.VideoList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := &models.VideoList{Videos: []*models.Video{}, Page: p.GetPage(), PageSize: p.GetSize()}
	for _, v := range f.videos {
		if v.UserID == userID && strings.Contains(strings.ToLower(v.Title), strings.ToLower(query)) {
			cp := *v
			list.Videos = append(list.Videos, &cp)
		}
	}
	list.TotalCount = len(list.Videos)
	return list, nil
}

func (f *fakeRepo) UpdateVideo(_ context.Context, video *models.Video) (*models.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.videos[video.VideoID]; !ok {
		return nil, sql.ErrNoRows
	}
	cp := *video
	f.videos[video.VideoID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRepo) DeleteVideo(_ context.Context, userID uuid.UUID, videoID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[videoID]
	if !ok || v.UserID != userID {
		return sql.ErrNoRows
	}
	delete(f.videos, videoID)
	return nil
}

func (f *fakeRepo) get(videoID uuid.UUID) *models.Video {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.videos[videoID]
}

type fakeAWS struct {
	mu      sync.Mutex
	uploads []string
	removed []string
}

func (f *fakeAWS) GetPresignedURL(_ context.Context, input *models.PresignInput) (string, error) {
	return "https://example.com/presigned/" + input.Key, nil
}

func (f *fakeAWS) UploadObject(_ context.Context, bucket, key string, body io.Reader, _ string) error {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, bucket+"/"+key)
	return nil
}

func (f *fakeAWS) DownloadObject(_ context.Context, _, _ string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("data")), nil
}

func (f *fakeAWS) ListObjects(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (f *fakeAWS) RemoveObject(_ context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, bucket+"/"+key)
	return nil
}

func (f *fakeAWS) removedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
}

func (f *fakeQueue) Enqueue(videoID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, videoID)
}

func (f *fakeQueue) Stats() processor.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return processor.Stats{Queued: len(f.enqueued), MaxConcurrent: 2, IsRunning: true}
}

func (f *fakeQueue) enqueuedIDs() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.enqueued...)
}

func testConfig() *config.Config {
	return &config.Config{
		S3: config.S3Config{VideoBucket: "videos", MediaBucket: "media"},
	}
}

func userCtx(user *models.User) context.Context {
	return context.WithValue(context.Background(), utils.UserCtxKey{}, user)
}

func testUser(role models.Role) *models.User {
	return &models.User{UserID: uuid.New(), Username: "tester", Email: "tester@example.com", Role: role}
}

func ownedVideo(owner uuid.UUID, status models.VideoStatus) *models.Video {
	return &models.Video{
		VideoID:  uuid.New(),
		UserID:   owner,
		Title:    "clip",
		FileName: "clip.mp4",
		FileSize: 1024,
		S3Key:    "uploads/x/clip.mp4",
		S3Bucket: "videos",
		Status:   status,
	}
}

func TestUploadVideoCreatesRecordAndEnqueues(t *testing.T) {
	repo := newFakeRepo()
	aws := &fakeAWS{}
	queue := &fakeQueue{}
	uc := usecase.NewVideoUseCase(testConfig(), repo, aws, queue, nopLogger{})

	user := testUser(models.UserRole)
	created, err := uc.UploadVideo(userCtx(user), &models.UploadVideoInput{
		Title:    "my clip",
		FileName: "clip.mp4",
		Size:     2048,
		MimeType: "video/mp4",
		File:     strings.NewReader("bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.VideoStatusUploaded, created.Status)
	assert.Equal(t, user.UserID, created.UserID)
	assert.Equal(t, "videos", created.S3Bucket)
	assert.True(t, strings.HasPrefix(created.S3Key, "uploads/"+user.UserID.String()+"/"))

	require.Len(t, queue.enqueuedIDs(), 1)
	assert.Equal(t, created.VideoID, queue.enqueuedIDs()[0])
}

func TestUploadVideoCleansUpBlobOnRecordFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = sql.ErrConnDone
	aws := &fakeAWS{}
	queue := &fakeQueue{}
	uc := usecase.NewVideoUseCase(testConfig(), repo, aws, queue, nopLogger{})

	_, err := uc.UploadVideo(userCtx(testUser(models.UserRole)), &models.UploadVideoInput{
		Title:    "my clip",
		FileName: "clip.mp4",
		Size:     2048,
		MimeType: "video/mp4",
		File:     strings.NewReader("bytes"),
	})
	require.Error(t, err)

	assert.Len(t, aws.removedKeys(), 1)
	assert.Empty(t, queue.enqueuedIDs())
}

func TestUploadVideoRequiresUser(t *testing.T) {
	uc := usecase.NewVideoUseCase(testConfig(), newFakeRepo(), &fakeAWS{}, &fakeQueue{}, nopLogger{})

	_, err := uc.UploadVideo(context.Background(), &models.UploadVideoInput{
		Title:    "my clip",
		FileName: "clip.mp4",
		Size:     2048,
		MimeType: "video/mp4",
		File:     strings.NewReader("bytes"),
	})
	assert.Error(t, err)
}

func TestGetVideoEnforcesOwnership(t *testing.T) {
	owner := testUser(models.UserRole)
	video := ownedVideo(owner.UserID, models.VideoStatusReady)
	repo := newFakeRepo(video)
	uc := usecase.NewVideoUseCase(testConfig(), repo, &fakeAWS{}, &fakeQueue{}, nopLogger{})

	got, err := uc.GetVideo(userCtx(owner), video.VideoID)
	require.NoError(t, err)
	assert.Equal(t, video.VideoID, got.VideoID)

	stranger := testUser(models.UserRole)
	_, err = uc.GetVideo(userCtx(stranger), video.VideoID)
	assert.Error(t, err)

	admin := testUser(models.AdminRole)
	_, err = uc.GetVideo(userCtx(admin), video.VideoID)
	assert.NoError(t, err)
}

func TestGetVideoNotFound(t *testing.T) {
	uc := usecase.NewVideoUseCase(testConfig(), newFakeRepo(), &fakeAWS{}, &fakeQueue{}, nopLogger{})

	_, err := uc.GetVideo(userCtx(testUser(models.UserRole)), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetVideoStatusProjectsRecord(t *testing.T) {
	owner := testUser(models.UserRole)
	video := ownedVideo(owner.UserID, models.VideoStatusReady)
	video.Sensitivity = models.SensitivityUnknown
	video.SensitivityFlags = []string{"very short duration"}
	video.ThumbnailKey = "thumbnails/x.jpg"
	repo := newFakeRepo(video)
	uc := usecase.NewVideoUseCase(testConfig(), repo, &fakeAWS{}, &fakeQueue{}, nopLogger{})

	status, err := uc.GetVideoStatus(userCtx(owner), video.VideoID)
	require.NoError(t, err)
	assert.Equal(t, models.VideoStatusReady, status.Status)
	assert.Equal(t, models.SensitivityUnknown, status.Sensitivity)
	assert.Equal(t, []string{"very short duration"}, status.SensitivityFlags)
	assert.Equal(t, "thumbnails/x.jpg", status.ThumbnailKey)
}

func TestDeleteVideoRemovesBlobs(t *testing.T) {
	owner := testUser(models.UserRole)
	video := ownedVideo(owner.UserID, models.VideoStatusReady)
	video.ThumbnailKey = "thumbnails/" + video.VideoID.String() + ".jpg"
	repo := newFakeRepo(video)
	aws := &fakeAWS{}
	uc := usecase.NewVideoUseCase(testConfig(), repo, aws, &fakeQueue{}, nopLogger{})

	require.NoError(t, uc.DeleteVideo(userCtx(owner), video.VideoID))

	assert.Nil(t, repo.get(video.VideoID))
	removed := aws.removedKeys()
	require.Len(t, removed, 2)
	assert.Contains(t, removed, "videos/"+video.S3Key)
	assert.Contains(t, removed, "media/"+video.ThumbnailKey)
}

func TestReprocessVideoResetsAndEnqueues(t *testing.T) {
	owner := testUser(models.UserRole)
	video := ownedVideo(owner.UserID, models.VideoStatusFailed)
	video.ProcessingError = "download failed"
	repo := newFakeRepo(video)
	queue := &fakeQueue{}
	uc := usecase.NewVideoUseCase(testConfig(), repo, &fakeAWS{}, queue, nopLogger{})

	require.NoError(t, uc.ReprocessVideo(userCtx(owner), video.VideoID))

	stored := repo.get(video.VideoID)
	assert.Equal(t, models.VideoStatusUploaded, stored.Status)
	assert.Empty(t, stored.ProcessingError)
	require.Len(t, queue.enqueuedIDs(), 1)
	assert.Equal(t, video.VideoID, queue.enqueuedIDs()[0])
}

func TestReprocessVideoRejectsInFlight(t *testing.T) {
	owner := testUser(models.UserRole)
	video := ownedVideo(owner.UserID, models.VideoStatusProcessing)
	repo := newFakeRepo(video)
	queue := &fakeQueue{}
	uc := usecase.NewVideoUseCase(testConfig(), repo, &fakeAWS{}, queue, nopLogger{})

	err := uc.ReprocessVideo(userCtx(owner), video.VideoID)
	assert.Error(t, err)
	assert.Empty(t, queue.enqueuedIDs())
}

func TestSearchVideosRequiresQuery(t *testing.T) {
	uc := usecase.NewVideoUseCase(testConfig(), newFakeRepo(), &fakeAWS{}, &fakeQueue{}, nopLogger{})

	_, err := uc.SearchVideos(userCtx(testUser(models.UserRole)), "", nil)
	assert.Error(t, err)
}

func TestQueueStatsPassthrough(t *testing.T) {
	queue := &fakeQueue{}
	uc := usecase.NewVideoUseCase(testConfig(), newFakeRepo(), &fakeAWS{}, queue, nopLogger{})

	stats := uc.QueueStats()
	assert.Equal(t, 2, stats.MaxConcurrent)
	assert.True(t, stats.IsRunning)
}
