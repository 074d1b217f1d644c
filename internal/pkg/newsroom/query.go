package newsroom

import (
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/app/repository"
	"github.com/newsdesk/newsdesk/internal/pkg/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	TrendingSize = 5
)

// Page is one page of the public listing.
type Page struct {
	Items        []models.News `json:"items"`
	TotalItems   int64         `json:"totalItems"`
	TotalPages   int           `json:"totalPages"`
	CurrentPage  int           `json:"currentPage"`
	ItemsPerPage int           `json:"itemsPerPage"`
}

// NormalizePaging applies the defaults and the upper bound on limit.
func NormalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// TotalPages is the number of pages needed for total items.
func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ViewCounter records article views.
type ViewCounter interface {
	IncrementView(newsID uint) error
}

type QueryService struct {
	news  repository.NewsRepository
	users repository.UserRepository
	views ViewCounter
}

func NewQueryService(news repository.NewsRepository, users repository.UserRepository) *QueryService {
	return &QueryService{news: news, users: users}
}

// WithViewCounter routes view counting through counter instead of writing
// to the database on every read.
func (s *QueryService) WithViewCounter(counter ViewCounter) *QueryService {
	s.views = counter
	return s
}

// PublicNews lists approved articles, newest first.
func (s *QueryService) PublicNews(page, limit int) (*Page, error) {
	page, limit = NormalizePaging(page, limit)

	total, err := s.news.CountByStatus(models.NewsStatusApproved)
	if err != nil {
		return nil, apperror.Internal("Error fetching public news", err)
	}
	items, err := s.news.ListApproved((page-1)*limit, limit)
	if err != nil {
		return nil, apperror.Internal("Error fetching public news", err)
	}
	if items == nil {
		items = []models.News{}
	}

	return &Page{
		Items:        items,
		TotalItems:   total,
		TotalPages:   TotalPages(total, limit),
		CurrentPage:  page,
		ItemsPerPage: limit,
	}, nil
}

// NewsByCategory lists approved articles of one category with engagement counts.
func (s *QueryService) NewsByCategory(raw string) (models.Category, []repository.NewsWithCounts, error) {
	category, ok := models.ParseCategory(raw)
	if !ok {
		return "", nil, apperror.BadRequest(MsgInvalidCategory)
	}
	items, err := s.news.ListApprovedWithCounts(repository.CountsFilter{Category: category})
	if err != nil {
		return "", nil, apperror.Internal("Error fetching category news", err)
	}
	return category, items, nil
}

// TrendingNews returns the most recently created approved articles. It does
// not rank by engagement.
func (s *QueryService) TrendingNews() ([]repository.NewsWithCounts, error) {
	items, err := s.news.ListApprovedWithCounts(repository.CountsFilter{Limit: TrendingSize})
	if err != nil {
		return nil, apperror.Internal("Error fetching trending news", err)
	}
	return items, nil
}

// MyNews lists every article written by caller.
func (s *QueryService) MyNews(caller models.Actor) ([]models.News, error) {
	return s.listByJournalist(caller, "", "Error fetching your news")
}

// MyNewsByStatus lists the articles of caller in one status.
func (s *QueryService) MyNewsByStatus(caller models.Actor, status models.NewsStatus) ([]models.News, error) {
	return s.listByJournalist(caller, status, "Error fetching your "+string(status)+" news")
}

func (s *QueryService) listByJournalist(caller models.Actor, status models.NewsStatus, failure string) ([]models.News, error) {
	items, err := s.news.ListByJournalist(caller.ID, repository.JournalistFilter{Status: status})
	if err != nil {
		return nil, apperror.Internal(failure, err)
	}
	if items == nil {
		items = []models.News{}
	}
	return items, nil
}

// PendingNews lists everything awaiting review.
func (s *QueryService) PendingNews() ([]models.News, error) {
	items, err := s.news.ListByStatus(models.NewsStatusPending)
	if err != nil {
		return nil, apperror.Internal("Error fetching pending news", err)
	}
	if items == nil {
		items = []models.News{}
	}
	return items, nil
}

// AssignedJournalists lists the journalists whose articles caller reviewed.
func (s *QueryService) AssignedJournalists(caller models.Actor) ([]repository.JournalistAssignment, error) {
	items, err := s.users.GetAssignedJournalists(caller.ID)
	if err != nil {
		return nil, apperror.Internal("Error fetching assigned journalists", err)
	}
	return items, nil
}

// NewsDetail returns one approved article and counts the view.
func (s *QueryService) NewsDetail(id uint) (*models.News, error) {
	news, err := s.news.GetApprovedByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(MsgNewsNotFound)
		}
		return nil, apperror.Internal("Error fetching news", err)
	}

	if err := s.countView(id); err != nil {
		log.Warnf("[Query] Failed to count view of news %d: %v", id, err)
	} else {
		news.Views++
	}
	return news, nil
}

func (s *QueryService) countView(id uint) error {
	if s.views != nil {
		if err := s.views.IncrementView(id); err == nil {
			return nil
		}
	}
	return s.news.IncrementViews(id, 1)
}
