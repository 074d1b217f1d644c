package s3backup

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/newsdesk/newsdesk/internal/pkg/env"
)

// Config holds the settings of the S3 media mirror
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Enabled         bool
}

// LoadConfig loads S3 configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnvBool("S3_MIRROR_ENABLED", false),
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when the S3 mirror is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when the S3 mirror is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when the S3 mirror is enabled")
		}
	}

	return config, nil
}

func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// ObjectKey maps a public media path such as /uploads/images/x.png to
// media/images/x.png.
func (c *Config) ObjectKey(publicPath string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(publicPath))
	rel := strings.TrimPrefix(clean, "/uploads/")
	if rel == clean || rel == "" {
		return "", fmt.Errorf("not a media path: %q", publicPath)
	}
	dir, file := path.Split(rel)
	if dir == "" || file == "" {
		return "", fmt.Errorf("not a media path: %q", publicPath)
	}
	return "media/" + rel, nil
}

// GetAppEnv returns the current application environment
func GetAppEnv() string {
	return env.GetEnv("APP_ENV", "dev")
}
