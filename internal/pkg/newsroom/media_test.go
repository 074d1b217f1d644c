package newsroom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/newsdesk/newsdesk/app/models"
)

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=10", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/user/someone/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://vimeo.com/123456789", "", false},
		{"https://youtu.be/short", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ExtractYouTubeID(tt.url)
		assert.Equal(t, tt.wantOK, ok, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestApplyMedia(t *testing.T) {
	t.Run("standard image is featured image and thumbnail", func(t *testing.T) {
		n := &models.News{}
		ApplyMedia(n, StandardMedia{ImagePath: "/uploads/images/a.png"})
		assert.Equal(t, "/uploads/images/a.png", *n.FeaturedImage)
		assert.Equal(t, "/uploads/images/a.png", *n.ThumbnailURL)
		assert.Nil(t, n.VideoPath)
		assert.Nil(t, n.YoutubeURL)
	})

	t.Run("youtube link gets a thumbnail", func(t *testing.T) {
		n := &models.News{}
		ApplyMedia(n, NewYouTubeMedia("https://youtu.be/abcdefghijk"))
		assert.Equal(t, "https://youtu.be/abcdefghijk", *n.YoutubeURL)
		assert.Equal(t, "https://img.youtube.com/vi/abcdefghijk/hqdefault.jpg", *n.ThumbnailURL)
		assert.Nil(t, n.VideoPath)
		assert.Nil(t, n.FeaturedImage)
	})

	t.Run("unrecognised youtube link keeps the url only", func(t *testing.T) {
		n := &models.News{}
		ApplyMedia(n, NewYouTubeMedia("https://example.com/video"))
		assert.Equal(t, "https://example.com/video", *n.YoutubeURL)
		assert.Nil(t, n.ThumbnailURL)
	})

	t.Run("video file", func(t *testing.T) {
		n := &models.News{}
		ApplyMedia(n, VideoFileMedia{Path: "/uploads/videos/v.mp4"})
		assert.Equal(t, "/uploads/videos/v.mp4", *n.VideoPath)
		assert.Nil(t, n.ThumbnailURL)
	})

	t.Run("nil clears", func(t *testing.T) {
		path := "/uploads/images/a.png"
		n := &models.News{FeaturedImage: &path}
		ApplyMedia(n, nil)
		assert.Nil(t, n.FeaturedImage)
	})
}

func TestStripQuotes(t *testing.T) {
	tests := map[string]string{
		`"Hello"`:         "Hello",
		`'Hello'`:         "Hello",
		`"mixed'`:         "mixed",
		`""`:              "",
		`Hello`:           "Hello",
		`"unbalanced`:     `"unbalanced`,
		`""double""`:      `"double"`,
		"\"multi\nline\"": "\"multi\nline\"",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripQuotes(in), in)
	}
}
