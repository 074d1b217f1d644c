package newsroom

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/app/repository"
	"github.com/newsdesk/newsdesk/internal/pkg/apperror"
	"github.com/newsdesk/newsdesk/internal/pkg/storage"
	"github.com/newsdesk/newsdesk/internal/pkg/upload"
)

// FeaturedImageField is the multipart field carrying the uploaded media.
const FeaturedImageField = "featuredImage"

const (
	MsgSubmissionFieldsRequired = "Title, content, and category are required"
	MsgInvalidCategory          = "Invalid category"
	MsgInvalidContentType       = "Invalid content type"
	uploadErrorPrefix           = "Error uploading file: "
)

// UploadedFile is a file received with a submission.
type UploadedFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// SubmissionInput is the raw article input as received from the client.
type SubmissionInput struct {
	Title       string
	Content     string
	Category    string
	ContentType string
	YoutubeURL  string
	File        *UploadedFile
}

// MediaStorage persists uploaded media files.
type MediaStorage interface {
	UniqueName(field, originalName string) string
	SaveFile(data io.Reader, dir, filename string) (*storage.FileOperation, error)
	MoveFile(filename, fromDir, toDir string) (*storage.FileOperation, error)
	DeleteFile(publicPath string) error
}

// MediaMirror copies stored media to a secondary location.
type MediaMirror interface {
	MirrorMedia(newsID uint, publicPath string) error
}

type SubmissionService struct {
	news   repository.NewsRepository
	media  MediaStorage
	mirror MediaMirror
}

func NewSubmissionService(news repository.NewsRepository, media MediaStorage) *SubmissionService {
	return &SubmissionService{news: news, media: media}
}

// WithMirror enables mirroring of stored media. A nil mirror disables it.
func (s *SubmissionService) WithMirror(mirror MediaMirror) *SubmissionService {
	s.mirror = mirror
	return s
}

type validSubmission struct {
	title       string
	content     string
	category    models.Category
	contentType models.ContentType
	youtubeURL  string
	file        *UploadedFile
}

func normalizeSubmission(in SubmissionInput) SubmissionInput {
	in.Title = StripQuotes(in.Title)
	in.Content = StripQuotes(in.Content)
	in.Category = StripQuotes(in.Category)
	in.ContentType = StripQuotes(in.ContentType)
	in.YoutubeURL = StripQuotes(in.YoutubeURL)
	return in
}

func validateSubmission(in SubmissionInput) (*validSubmission, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" || strings.TrimSpace(in.Category) == "" {
		return nil, apperror.BadRequest(MsgSubmissionFieldsRequired)
	}

	category, ok := models.ParseCategory(in.Category)
	if !ok {
		return nil, apperror.BadRequest(MsgInvalidCategory)
	}

	contentType := models.ContentType(strings.ToLower(strings.TrimSpace(in.ContentType)))
	if contentType == "" {
		contentType = models.ContentTypeStandard
	}
	if !contentType.IsValid() {
		return nil, apperror.BadRequest(MsgInvalidContentType)
	}

	v := &validSubmission{
		title:       in.Title,
		content:     in.Content,
		category:    category,
		contentType: contentType,
		youtubeURL:  strings.TrimSpace(in.YoutubeURL),
		file:        in.File,
	}

	// a linked video wins over an uploaded file, which is then ignored
	if v.contentType == models.ContentTypeVideo && v.youtubeURL != "" {
		v.file = nil
	}
	if v.contentType == models.ContentTypeStandard {
		v.youtubeURL = ""
	}

	if v.file != nil {
		if err := upload.CheckSize(v.file.Size); err != nil {
			return nil, apperror.BadRequest(uploadErrorPrefix + err.Error())
		}
		if err := sniffFile(v.file, v.contentType); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func sniffFile(file *UploadedFile, contentType models.ContentType) error {
	r, err := file.Open()
	if err != nil {
		return apperror.Internal(uploadErrorPrefix+"could not read file", err)
	}
	defer r.Close()

	head := make([]byte, upload.SniffLength)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return apperror.Internal(uploadErrorPrefix+"could not read file", err)
	}
	head = head[:n]

	if contentType == models.ContentTypeVideo {
		_, err = upload.ValidateVideoBySniff(file.Name, head)
	} else {
		_, err = upload.ValidateImageBySniff(file.Name, head)
	}
	if err != nil {
		return apperror.BadRequest(uploadErrorPrefix + err.Error())
	}
	return nil
}

// Submit validates the input, stores any media and creates the article in
// status pending on behalf of caller.
func (s *SubmissionService) Submit(caller models.Actor, in SubmissionInput) (*models.News, error) {
	valid, err := validateSubmission(normalizeSubmission(in))
	if err != nil {
		return nil, err
	}

	media, err := s.storeMedia(valid)
	if err != nil {
		return nil, err
	}

	news := &models.News{
		Title:        valid.title,
		Content:      valid.content,
		Category:     valid.category,
		ContentType:  valid.contentType,
		Status:       models.NewsStatusPending,
		JournalistID: caller.ID,
	}
	ApplyMedia(news, media)

	if err := s.news.Create(news); err != nil {
		if media != nil && media.StoredFile() != "" {
			if delErr := s.media.DeleteFile(media.StoredFile()); delErr != nil {
				log.Warnf("[Submission] Failed to remove %s after insert error: %v", media.StoredFile(), delErr)
			}
		}
		return nil, apperror.Internal("Error creating news", err)
	}

	log.Infof("[Submission] %s created news %d (%s, %s)", caller.Username, news.ID, news.ContentType, news.Category)

	if s.mirror != nil && media != nil && media.StoredFile() != "" {
		if err := s.mirror.MirrorMedia(news.ID, media.StoredFile()); err != nil {
			log.Errorf("[Submission] Failed to queue mirror of %s: %v", media.StoredFile(), err)
		}
	}
	return news, nil
}

// storeMedia writes the uploaded file, if any, and classifies the media.
func (s *SubmissionService) storeMedia(v *validSubmission) (Media, error) {
	switch v.contentType {
	case models.ContentTypeVideo:
		if v.youtubeURL != "" {
			return NewYouTubeMedia(v.youtubeURL), nil
		}
		if v.file == nil {
			return nil, nil
		}
		// uploads always land in the images directory first
		op, err := s.save(v.file)
		if err != nil {
			return nil, err
		}
		moved, err := s.media.MoveFile(op.Filename, storage.DirImages, storage.DirVideos)
		if err != nil {
			if derr := s.media.DeleteFile(op.PublicPath); derr != nil {
				log.Warnf("[Submission] Failed to remove %s after a failed move: %v", op.PublicPath, derr)
			}
			return nil, apperror.Internal(uploadErrorPrefix+"could not store video", err)
		}
		return VideoFileMedia{Path: moved.PublicPath}, nil
	default:
		if v.file == nil {
			return nil, nil
		}
		op, err := s.save(v.file)
		if err != nil {
			return nil, err
		}
		return StandardMedia{ImagePath: op.PublicPath}, nil
	}
}

func (s *SubmissionService) save(file *UploadedFile) (*storage.FileOperation, error) {
	r, err := file.Open()
	if err != nil {
		return nil, apperror.Internal(uploadErrorPrefix+"could not read file", err)
	}
	defer r.Close()

	name := s.media.UniqueName(FeaturedImageField, file.Name)
	op, err := s.media.SaveFile(r, storage.DirImages, name)
	if err != nil {
		return nil, apperror.Internal(uploadErrorPrefix+"could not store file", err)
	}
	return op, nil
}
