package upload

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxFileSize is the ceiling for a single uploaded file.
const MaxFileSize int64 = 50 * 1024 * 1024

// SniffLength is how many leading bytes are inspected.
const SniffLength = 512

var (
	ErrFileTooLarge      = errors.New("File too large")
	ErrUnsupportedImage  = errors.New("Only the following image formats are supported: JPG, JPEG, PNG, GIF, WEBP, AVIF, BMP")
	ErrUnsupportedVideo  = errors.New("Only the following video formats are supported: MP4, M4V, MOV, WEBM, MKV, AVI")
	ErrScriptableContent = errors.New("Invalid file type: HTML content is not allowed")
	ErrXMLContent        = errors.New("SVG/XML files are not supported")
	ErrTypeMismatch      = errors.New("File content does not match its extension")
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
	".bmp":  true,
}

var allowedImageMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/avif": true,
	"image/bmp":  true,
}

var allowedVideoExt = map[string]bool{
	".mp4":  true,
	".m4v":  true,
	".mov":  true,
	".webm": true,
	".mkv":  true,
	".avi":  true,
}

var allowedVideoMime = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/avi":       true,
	"video/quicktime": true,
}

// CheckSize rejects files above MaxFileSize.
func CheckSize(size int64) error {
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// rejectScriptable blocks markup regardless of the claimed extension.
func rejectScriptable(detected string) error {
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return ErrScriptableContent
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		return ErrXMLContent
	}
	return nil
}

// ValidateImageBySniff checks the provided filename (extension) and the first bytes (head)
// against a whitelist of image types. Returns detected mime or an error.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt[ext] {
		return "", ErrUnsupportedImage
	}

	detected := http.DetectContentType(head)
	if err := rejectScriptable(detected); err != nil {
		return "", err
	}

	// AVIF is reported as octet-stream by the sniffer, allow by extension
	if detected == "application/octet-stream" {
		return detected, nil
	}
	if allowedImageMime[detected] {
		return detected, nil
	}
	return "", ErrTypeMismatch
}

// ValidateVideoBySniff is the video counterpart of ValidateImageBySniff.
func ValidateVideoBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedVideoExt[ext] {
		return "", ErrUnsupportedVideo
	}

	detected := http.DetectContentType(head)
	if err := rejectScriptable(detected); err != nil {
		return "", err
	}

	// QuickTime and some MP4 brands are not recognised by the sniffer
	if detected == "application/octet-stream" {
		return detected, nil
	}
	if allowedVideoMime[detected] {
		return detected, nil
	}
	return "", ErrTypeMismatch
}
