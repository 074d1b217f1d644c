package newsroom

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/app/repository"
	"github.com/newsdesk/newsdesk/internal/pkg/apperror"
)

const (
	MsgInvalidStatus = "Invalid status. Use 'approved' or 'rejected'"
	MsgNewsNotFound  = "News not found"
)

type ReviewService struct {
	news repository.NewsRepository
}

func NewReviewService(news repository.NewsRepository) *ReviewService {
	return &ReviewService{news: news}
}

// UpdateStatus records an editor decision on an article. The last decision
// wins, earlier ones are overwritten.
func (s *ReviewService) UpdateStatus(caller models.Actor, newsID uint, status string, feedback string) (*models.News, error) {
	target := models.NewsStatus(status)
	if !target.IsReviewOutcome() {
		return nil, apperror.BadRequest(MsgInvalidStatus)
	}

	news, err := s.news.GetByID(newsID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(MsgNewsNotFound)
		}
		return nil, apperror.Internal("Error updating news status", err)
	}

	editorID := caller.ID
	news.Status = target
	news.EditorID = &editorID
	news.Feedback = nil
	if feedback != "" {
		news.Feedback = &feedback
	}

	if err := s.news.UpdateReview(news); err != nil {
		return nil, apperror.Internal("Error updating news status", err)
	}

	log.Infof("[Review] %s marked news %d as %s", caller.Username, news.ID, target)
	return news, nil
}

// StatusMessage is the confirmation shown after a review.
func StatusMessage(status models.NewsStatus) string {
	return fmt.Sprintf("News %s successfully", status)
}
