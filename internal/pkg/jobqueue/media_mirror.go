package jobqueue

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/newsdesk/newsdesk/internal/pkg/s3backup"
)

// Uploader stores files in the mirror bucket
type Uploader interface {
	UploadFile(ctx context.Context, localFilePath, objectKey string) (*s3backup.UploadResult, error)
	ObjectExists(ctx context.Context, objectKey string) (bool, error)
}

// LocalResolver maps a public media path to the file on disk
type LocalResolver interface {
	LocalPath(publicPath string) (string, error)
}

// Enqueuer is the part of Queue the mirror needs
type Enqueuer interface {
	EnqueueJob(jobType JobType, payload map[string]interface{}) (*Job, error)
	Handle(jobType JobType, h Handler)
}

// MediaMirror copies uploaded article media to S3 in the background.
type MediaMirror struct {
	queue    Enqueuer
	uploader Uploader
	config   *s3backup.Config
	files    LocalResolver
}

// NewMediaMirror registers the mirror job handler on queue.
func NewMediaMirror(queue Enqueuer, uploader Uploader, config *s3backup.Config, files LocalResolver) *MediaMirror {
	m := &MediaMirror{
		queue:    queue,
		uploader: uploader,
		config:   config,
		files:    files,
	}
	queue.Handle(JobTypeMediaMirror, m.processMediaMirrorJob)
	return m
}

// MirrorMedia enqueues a copy of the file at publicPath.
func (m *MediaMirror) MirrorMedia(newsID uint, publicPath string) error {
	if publicPath == "" {
		return nil
	}
	payload := MediaMirrorJobPayload{NewsID: newsID, PublicPath: publicPath}
	job, err := m.queue.EnqueueJob(JobTypeMediaMirror, payload.ToMap())
	if err != nil {
		return fmt.Errorf("failed to enqueue media mirror for news %d: %w", newsID, err)
	}
	log.Debugf("[S3Mirror] Enqueued job %s for %s", job.ID, publicPath)
	return nil
}

func (m *MediaMirror) processMediaMirrorJob(ctx context.Context, job *Job) error {
	payload, err := MediaMirrorJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("failed to parse media mirror payload: %w", err)
	}

	objectKey, err := m.config.ObjectKey(payload.PublicPath)
	if err != nil {
		return err
	}
	localPath, err := m.files.LocalPath(payload.PublicPath)
	if err != nil {
		return err
	}

	exists, err := m.uploader.ObjectExists(ctx, objectKey)
	if err != nil {
		return err
	}
	if exists {
		log.Infof("[S3Mirror] %s already mirrored, skipping", objectKey)
		return nil
	}

	result, err := m.uploader.UploadFile(ctx, localPath, objectKey)
	if err != nil {
		return err
	}
	log.Infof("[S3Mirror] Mirrored media of news %d to s3://%s/%s", payload.NewsID, result.BucketName, result.ObjectKey)
	return nil
}
