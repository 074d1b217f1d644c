package s3backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsdesk/internal/pkg/env"
)

func TestLoadConfigDisabledByDefault(t *testing.T) {
	env.Env = map[string]string{}
	t.Cleanup(func() { env.Env = nil })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.IsEnabled())
}

func TestLoadConfigRequiresCredentialsWhenEnabled(t *testing.T) {
	env.Env = map[string]string{
		"S3_MIRROR_ENABLED": "true",
		"S3_ACCESS_KEY_ID":  "key",
	}
	t.Cleanup(func() { env.Env = nil })

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_SECRET_ACCESS_KEY")

	env.Env["S3_SECRET_ACCESS_KEY"] = "secret"
	env.Env["S3_BUCKET_NAME"] = "newsdesk-media"
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsEnabled())
	assert.Equal(t, "newsdesk-media", cfg.BucketName)
}

func TestObjectKey(t *testing.T) {
	cfg := &Config{}

	key, err := cfg.ObjectKey("/uploads/images/featuredImage-1-abc.png")
	require.NoError(t, err)
	assert.Equal(t, "media/images/featuredImage-1-abc.png", key)

	key, err = cfg.ObjectKey("/uploads/videos/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "media/videos/clip.mp4", key)

	for _, bad := range []string{"", "/etc/passwd", "/uploads/", "/uploads/../secret/x.png", "/uploads/file.png"} {
		_, err := cfg.ObjectKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", getContentType(".JPG"))
	assert.Equal(t, "video/mp4", getContentType(".m4v"))
	assert.Equal(t, "video/quicktime", getContentType(".mov"))
	assert.Equal(t, "application/octet-stream", getContentType(".bin"))
}
