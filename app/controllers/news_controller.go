package controllers

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/newsdesk/newsdesk/app/models"
	"github.com/newsdesk/newsdesk/app/repository"
	"github.com/newsdesk/newsdesk/internal/pkg/apperror"
	"github.com/newsdesk/newsdesk/internal/pkg/newsroom"
	"github.com/newsdesk/newsdesk/internal/pkg/usercontext"
)

type SubmissionService interface {
	Submit(caller models.Actor, in newsroom.SubmissionInput) (*models.News, error)
}

type ReviewService interface {
	UpdateStatus(caller models.Actor, newsID uint, status string, feedback string) (*models.News, error)
}

type QueryService interface {
	PublicNews(page, limit int) (*newsroom.Page, error)
	NewsByCategory(raw string) (models.Category, []repository.NewsWithCounts, error)
	TrendingNews() ([]repository.NewsWithCounts, error)
	MyNews(caller models.Actor) ([]models.News, error)
	MyNewsByStatus(caller models.Actor, status models.NewsStatus) ([]models.News, error)
	PendingNews() ([]models.News, error)
	AssignedJournalists(caller models.Actor) ([]repository.JournalistAssignment, error)
	NewsDetail(id uint) (*models.News, error)
}

// NewsController handles article submission, review and listings
type NewsController struct {
	submission SubmissionService
	review     ReviewService
	query      QueryService
}

func NewNewsController(submission SubmissionService, review ReviewService, query QueryService) *NewsController {
	return &NewsController{
		submission: submission,
		review:     review,
		query:      query,
	}
}

type createNewsRequest struct {
	Title       string `json:"title" form:"title"`
	Content     string `json:"content" form:"content"`
	Category    string `json:"category" form:"category"`
	ContentType string `json:"contentType" form:"contentType"`
	YoutubeURL  string `json:"youtubeUrl" form:"youtubeUrl"`
}

type updateStatusRequest struct {
	Status   string `json:"status" form:"status"`
	Feedback string `json:"feedback" form:"feedback"`
}

func uploadedFile(fh *multipart.FileHeader) *newsroom.UploadedFile {
	return &newsroom.UploadedFile{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// HandleCreateNews accepts a multipart or JSON submission
func (nc *NewsController) HandleCreateNews(c *fiber.Ctx) error {
	var req createNewsRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperror.BadRequest(newsroom.MsgSubmissionFieldsRequired))
	}

	in := newsroom.SubmissionInput{
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		ContentType: req.ContentType,
		YoutubeURL:  req.YoutubeURL,
	}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			log.Errorf("[News] Error parsing multipart form: %v", err)
			return respondError(c, apperror.BadRequest("Error uploading file: "+err.Error()))
		}
		files := form.File[newsroom.FeaturedImageField]
		if len(files) > 1 {
			return respondError(c, apperror.BadRequest("Error uploading file: Unexpected field"))
		}
		if len(files) == 1 {
			in.File = uploadedFile(files[0])
		}
	}

	news, err := nc.submission.Submit(usercontext.GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "News created successfully", news)
}

// HandlePublicNews lists approved articles page by page
func (nc *NewsController) HandlePublicNews(c *fiber.Ctx) error {
	page, err := nc.query.PublicNews(c.QueryInt("page", newsroom.DefaultPage), c.QueryInt("limit", newsroom.DefaultLimit))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Public news fetched successfully", page)
}

func (nc *NewsController) HandleNewsByCategory(c *fiber.Ctx) error {
	category, items, err := nc.query.NewsByCategory(c.Params("category"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, string(category)+" news fetched successfully", items)
}

func (nc *NewsController) HandleTrendingNews(c *fiber.Ctx) error {
	items, err := nc.query.TrendingNews()
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Trending news fetched successfully", items)
}

// HandleNewsDetail shows one approved article
func (nc *NewsController) HandleNewsDetail(c *fiber.Ctx) error {
	id, err := newsIDParam(c)
	if err != nil {
		return respondError(c, err)
	}
	news, err := nc.query.NewsDetail(id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "News fetched successfully", news)
}

func (nc *NewsController) HandleMyNews(c *fiber.Ctx) error {
	items, err := nc.query.MyNews(usercontext.GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Your news fetched successfully", items)
}

// HandleMyNewsByStatus returns a handler listing the caller's articles in status
func (nc *NewsController) HandleMyNewsByStatus(status models.NewsStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := nc.query.MyNewsByStatus(usercontext.GetActor(c), status)
		if err != nil {
			return respondError(c, err)
		}
		return respond(c, fiber.StatusOK, "Your "+string(status)+" news fetched successfully", items)
	}
}

func (nc *NewsController) HandlePendingNews(c *fiber.Ctx) error {
	items, err := nc.query.PendingNews()
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Pending news fetched successfully", items)
}

// HandleUpdateStatus approves or rejects an article
func (nc *NewsController) HandleUpdateStatus(c *fiber.Ctx) error {
	id, err := newsIDParam(c)
	if err != nil {
		return respondError(c, err)
	}
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperror.BadRequest(newsroom.MsgInvalidStatus))
	}

	news, err := nc.review.UpdateStatus(usercontext.GetActor(c), id, req.Status, req.Feedback)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, newsroom.StatusMessage(news.Status), news)
}
