package newsroom

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/app/repository"
	"github.com/newsdesk/newsdesk/internal/pkg/apperror"
)

const MsgCommentRequired = "Comment content is required"

// LikeResult is the state of a like after a toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

// EngagementService handles likes, comments and shares on approved articles.
type EngagementService struct {
	news       repository.NewsRepository
	engagement repository.EngagementRepository
}

func NewEngagementService(news repository.NewsRepository, engagement repository.EngagementRepository) *EngagementService {
	return &EngagementService{news: news, engagement: engagement}
}

func (s *EngagementService) requireApproved(newsID uint) error {
	_, err := s.news.GetApprovedByID(newsID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound(MsgNewsNotFound)
		}
		return apperror.Internal("Error fetching news", err)
	}
	return nil
}

func (s *EngagementService) ToggleLike(caller models.Actor, newsID uint) (*LikeResult, error) {
	if err := s.requireApproved(newsID); err != nil {
		return nil, err
	}
	liked, err := s.engagement.ToggleLike(newsID, caller.ID)
	if err != nil {
		return nil, apperror.Internal("Error updating like", err)
	}
	counts, err := s.engagement.Counts(newsID)
	if err != nil {
		return nil, apperror.Internal("Error updating like", err)
	}
	return &LikeResult{Liked: liked, LikesCount: counts.LikesCount}, nil
}

func (s *EngagementService) AddComment(caller models.Actor, newsID uint, content string) (*models.Comment, error) {
	if err := s.requireApproved(newsID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		NewsID:  newsID,
		UserID:  caller.ID,
		Content: strings.TrimSpace(StripQuotes(content)),
	}
	if err := comment.Validate(); err != nil {
		return nil, apperror.BadRequest(MsgCommentRequired)
	}
	if err := s.engagement.AddComment(comment); err != nil {
		return nil, apperror.Internal("Error adding comment", err)
	}
	comment.User = &models.User{ID: caller.ID, Username: caller.Username}
	return comment, nil
}

func (s *EngagementService) ListComments(newsID uint) ([]models.Comment, error) {
	if err := s.requireApproved(newsID); err != nil {
		return nil, err
	}
	comments, err := s.engagement.ListComments(newsID)
	if err != nil {
		return nil, apperror.Internal("Error fetching comments", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// Share records a share, platform is free text and optional.
func (s *EngagementService) Share(caller models.Actor, newsID uint, platform string) (*models.Share, error) {
	if err := s.requireApproved(newsID); err != nil {
		return nil, err
	}
	share := &models.Share{
		NewsID:   newsID,
		UserID:   caller.ID,
		Platform: strings.ToLower(strings.TrimSpace(StripQuotes(platform))),
	}
	if err := s.engagement.AddShare(share); err != nil {
		return nil, apperror.Internal("Error sharing news", err)
	}
	return share, nil
}

func (s *EngagementService) Counts(newsID uint) (*models.EngagementCounts, error) {
	if err := s.requireApproved(newsID); err != nil {
		return nil, err
	}
	counts, err := s.engagement.Counts(newsID)
	if err != nil {
		return nil, apperror.Internal("Error fetching counts", err)
	}
	return counts, nil
}
