package newsroom

import (
	"fmt"
	"regexp"

	"github.com/newsdesk/newsdesk/app/models"
)

// youtubePattern accepts watch, embed, v/, nested paths and youtu.be links.
var youtubePattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// ExtractYouTubeID returns the 11 character video id of a YouTube link.
func ExtractYouTubeID(url string) (string, bool) {
	m := youtubePattern.FindStringSubmatch(url)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// YouTubeThumbnail returns the high quality preview image of a video.
func YouTubeThumbnail(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}

// Media is the media attached to an article. Exactly one variant applies.
type Media interface {
	// StoredFile is the public path of a file kept by the service, if any.
	StoredFile() string
	apply(n *models.News)
}

// StandardMedia is an optional featured image of a text article.
type StandardMedia struct {
	ImagePath string
}

func (m StandardMedia) StoredFile() string { return m.ImagePath }

func (m StandardMedia) apply(n *models.News) {
	path := m.ImagePath
	n.FeaturedImage = &path
	n.ThumbnailURL = &path
}

// YouTubeMedia links an external video. VideoID is empty when the link was
// not recognised, the URL is kept anyway.
type YouTubeMedia struct {
	URL     string
	VideoID string
}

func (m YouTubeMedia) StoredFile() string { return "" }

func (m YouTubeMedia) apply(n *models.News) {
	url := m.URL
	n.YoutubeURL = &url
	if m.VideoID != "" {
		thumb := YouTubeThumbnail(m.VideoID)
		n.ThumbnailURL = &thumb
	}
}

// VideoFileMedia is an uploaded video file.
type VideoFileMedia struct {
	Path string
}

func (m VideoFileMedia) StoredFile() string { return m.Path }

func (m VideoFileMedia) apply(n *models.News) {
	path := m.Path
	n.VideoPath = &path
}

// NewYouTubeMedia classifies a YouTube link.
func NewYouTubeMedia(url string) YouTubeMedia {
	id, _ := ExtractYouTubeID(url)
	return YouTubeMedia{URL: url, VideoID: id}
}

// ApplyMedia maps media onto the nullable media columns of n. A nil media
// clears them.
func ApplyMedia(n *models.News, media Media) {
	n.FeaturedImage = nil
	n.ThumbnailURL = nil
	n.YoutubeURL = nil
	n.VideoPath = nil
	if media != nil {
		media.apply(n)
	}
}
