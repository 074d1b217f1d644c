package newsroom

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/app/repository"
	"github.com/newsdesk/newsdesk/internal/pkg/apperror"
	"github.com/newsdesk/newsdesk/internal/pkg/storage"
	"github.com/newsdesk/newsdesk/internal/pkg/testutil"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")
	mp4Bytes = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom\x00\x00\x00\x08free")
)

func fileOf(name string, data []byte) *UploadedFile {
	return &UploadedFile{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

type recordingMirror struct {
	paths []string
}

func (m *recordingMirror) MirrorMedia(newsID uint, publicPath string) error {
	m.paths = append(m.paths, publicPath)
	return nil
}

type submissionFixture struct {
	db       *gorm.DB
	root     string
	svc      *SubmissionService
	mirror   *recordingMirror
	reporter models.Actor
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	root := t.TempDir()
	store, err := storage.NewMediaStore(root)
	require.NoError(t, err)

	mirror := &recordingMirror{}
	svc := NewSubmissionService(repository.NewNewsRepository(db), store).WithMirror(mirror)
	reporter := testutil.CreateUser(t, db, "reporter", models.RoleJournalist)

	return &submissionFixture{db: db, root: root, svc: svc, mirror: mirror, reporter: reporter.Actor()}
}

func (f *submissionFixture) filesIn(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.root, dir))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSubmitStripsQuotesAndStartsPending(t *testing.T) {
	f := newSubmissionFixture(t)

	news, err := f.svc.Submit(f.reporter, SubmissionInput{
		Title:       `"Hello"`,
		Content:     `'Body text'`,
		Category:    `"Sports"`,
		ContentType: `"standard"`,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello", news.Title)
	assert.Equal(t, "Body text", news.Content)
	assert.Equal(t, models.CategorySports, news.Category)
	assert.Equal(t, models.NewsStatusPending, news.Status)
	assert.Equal(t, f.reporter.ID, news.JournalistID)
	assert.Nil(t, news.EditorID)

	var stored models.News
	require.NoError(t, f.db.First(&stored, news.ID).Error)
	assert.Equal(t, "Hello", stored.Title)
	assert.Equal(t, models.NewsStatusPending, stored.Status)
}

func TestSubmitDefaultsToStandard(t *testing.T) {
	f := newSubmissionFixture(t)

	news, err := f.svc.Submit(f.reporter, SubmissionInput{Title: "t", Content: "c", Category: "national"})
	require.NoError(t, err)
	assert.Equal(t, models.ContentTypeStandard, news.ContentType)
}

func TestSubmitStandardWithImage(t *testing.T) {
	f := newSubmissionFixture(t)

	news, err := f.svc.Submit(f.reporter, SubmissionInput{
		Title:       "Photo story",
		Content:     "c",
		Category:    "national",
		ContentType: "standard",
		YoutubeURL:  "https://youtu.be/abcdefghijk",
		File:        fileOf("cover.png", pngBytes),
	})
	require.NoError(t, err)

	require.NotNil(t, news.FeaturedImage)
	assert.True(t, strings.HasPrefix(*news.FeaturedImage, "/uploads/images/featuredImage-"))
	assert.Equal(t, *news.FeaturedImage, *news.ThumbnailURL)
	assert.Nil(t, news.YoutubeURL)
	assert.Len(t, f.filesIn(t, storage.DirImages), 1)
	assert.Equal(t, []string{*news.FeaturedImage}, f.mirror.paths)
}

func TestSubmitVideoWithYouTubeLink(t *testing.T) {
	f := newSubmissionFixture(t)

	news, err := f.svc.Submit(f.reporter, SubmissionInput{
		Title:       "Clip",
		Content:     "c",
		Category:    "entertainment",
		ContentType: "video",
		YoutubeURL:  "https://youtu.be/XXXXXXXXXXX",
		File:        fileOf("ignored.mp4", mp4Bytes),
	})
	require.NoError(t, err)

	require.NotNil(t, news.ThumbnailURL)
	assert.Equal(t, "https://img.youtube.com/vi/XXXXXXXXXXX/hqdefault.jpg", *news.ThumbnailURL)
	assert.Equal(t, "https://youtu.be/XXXXXXXXXXX", *news.YoutubeURL)
	assert.Nil(t, news.VideoPath)
	assert.Empty(t, f.filesIn(t, storage.DirImages))
	assert.Empty(t, f.filesIn(t, storage.DirVideos))
	assert.Empty(t, f.mirror.paths)
}

func TestSubmitVideoFileIsMovedToVideos(t *testing.T) {
	f := newSubmissionFixture(t)

	news, err := f.svc.Submit(f.reporter, SubmissionInput{
		Title:       "Upload",
		Content:     "c",
		Category:    "district",
		ContentType: "video",
		File:        fileOf("clip.mp4", mp4Bytes),
	})
	require.NoError(t, err)

	require.NotNil(t, news.VideoPath)
	assert.True(t, strings.HasPrefix(*news.VideoPath, "/uploads/videos/featuredImage-"))
	assert.Nil(t, news.ThumbnailURL)
	assert.Empty(t, f.filesIn(t, storage.DirImages))
	assert.Len(t, f.filesIn(t, storage.DirVideos), 1)
}

// stuckMover stores files but cannot move them between directories.
type stuckMover struct {
	*storage.MediaStore
}

func (stuckMover) MoveFile(filename, fromDir, toDir string) (*storage.FileOperation, error) {
	return nil, errors.New("videos directory is read-only")
}

func TestSubmitVideoFileRemovedWhenMoveFails(t *testing.T) {
	f := newSubmissionFixture(t)
	store, err := storage.NewMediaStore(f.root)
	require.NoError(t, err)
	svc := NewSubmissionService(repository.NewNewsRepository(f.db), stuckMover{store})

	_, err = svc.Submit(f.reporter, SubmissionInput{
		Title:       "Upload",
		Content:     "c",
		Category:    "district",
		ContentType: "video",
		File:        fileOf("clip.mp4", mp4Bytes),
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.As(err).Kind)

	assert.Empty(t, f.filesIn(t, storage.DirImages))
	assert.Empty(t, f.filesIn(t, storage.DirVideos))
}

func TestSubmitValidationHasNoFileSideEffects(t *testing.T) {
	f := newSubmissionFixture(t)

	tests := []struct {
		name    string
		in      SubmissionInput
		message string
	}{
		{
			name:    "missing title",
			in:      SubmissionInput{Content: "c", Category: "national", File: fileOf("a.png", pngBytes)},
			message: MsgSubmissionFieldsRequired,
		},
		{
			name:    "quoted empty title",
			in:      SubmissionInput{Title: `""`, Content: "c", Category: "national"},
			message: MsgSubmissionFieldsRequired,
		},
		{
			name:    "unknown category",
			in:      SubmissionInput{Title: "t", Content: "c", Category: "weather", File: fileOf("a.png", pngBytes)},
			message: MsgInvalidCategory,
		},
		{
			name:    "unknown content type",
			in:      SubmissionInput{Title: "t", Content: "c", Category: "national", ContentType: "audio"},
			message: MsgInvalidContentType,
		},
		{
			name:    "video as image",
			in:      SubmissionInput{Title: "t", Content: "c", Category: "national", File: fileOf("a.png", mp4Bytes)},
			message: "Error uploading file: File content does not match its extension",
		},
		{
			name:    "image as video",
			in:      SubmissionInput{Title: "t", Content: "c", Category: "national", ContentType: "video", File: fileOf("a.png", pngBytes)},
			message: "Error uploading file: " + "Only the following video formats are supported: MP4, M4V, MOV, WEBM, MKV, AVI",
		},
		{
			name: "too large",
			in: SubmissionInput{Title: "t", Content: "c", Category: "national", File: &UploadedFile{
				Name: "big.png",
				Size: 50*1024*1024 + 1,
				Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(pngBytes)), nil },
			}},
			message: "Error uploading file: File too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Submit(f.reporter, tt.in)
			require.Error(t, err)
			appErr := apperror.As(err)
			assert.Equal(t, apperror.KindBadRequest, appErr.Kind)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}

	assert.Empty(t, f.filesIn(t, storage.DirImages))
	assert.Empty(t, f.filesIn(t, storage.DirVideos))

	var count int64
	require.NoError(t, f.db.Model(&models.News{}).Count(&count).Error)
	assert.Zero(t, count)
}
