package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Media directories below the upload root. They are served under /uploads.
const (
	DirImages = "images"
	DirVideos = "videos"
)

// PublicPrefix is the URL prefix the upload root is served under.
const PublicPrefix = "/uploads"

// FileOperation represents a file operation result
type FileOperation struct {
	Success    bool          `json:"success"`
	FilePath   string        `json:"file_path"`
	PublicPath string        `json:"public_path"`
	Filename   string        `json:"filename"`
	Size       int64         `json:"size"`
	Duration   time.Duration `json:"duration"`
	Error      error         `json:"error,omitempty"`
}

// MediaStore keeps uploaded media on the local disk.
type MediaStore struct {
	root string
	now  func() time.Time
}

// NewMediaStore creates a store rooted at root and makes sure the media
// directories exist.
func NewMediaStore(root string) (*MediaStore, error) {
	ms := &MediaStore{root: root, now: time.Now}
	for _, dir := range []string{DirImages, DirVideos} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create media directory %s: %w", dir, err)
		}
	}
	return ms, nil
}

// UniqueName builds "<field>-<unixMillis>-<random><ext>" for an uploaded file.
func (ms *MediaStore) UniqueName(field, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s-%d-%s%s", field, ms.now().UnixMilli(), suffix, ext)
}

// PublicPath returns the URL path a stored file is reachable under.
func PublicPath(dir, filename string) string {
	return path.Join(PublicPrefix, dir, filename)
}

// LocalPath maps a public path back onto the disk.
func (ms *MediaStore) LocalPath(publicPath string) (string, error) {
	rel := strings.TrimPrefix(publicPath, PublicPrefix+"/")
	if rel == publicPath || strings.Contains(rel, "..") {
		return "", fmt.Errorf("not a media path: %s", publicPath)
	}
	return filepath.Join(ms.root, filepath.FromSlash(rel)), nil
}

// SaveFile writes data to dir/filename below the store root.
func (ms *MediaStore) SaveFile(data io.Reader, dir, filename string) (*FileOperation, error) {
	startTime := time.Now()

	operation := &FileOperation{Filename: filename}

	fullPath := filepath.Join(ms.root, dir, filename)
	operation.FilePath = fullPath

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		operation.Error = fmt.Errorf("failed to create directory %s: %w", dir, err)
		operation.Duration = time.Since(startTime)
		return operation, operation.Error
	}

	// O_EXCL keeps two requests from ever sharing a file
	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		operation.Error = fmt.Errorf("failed to create file %s: %w", fullPath, err)
		operation.Duration = time.Since(startTime)
		return operation, operation.Error
	}
	defer file.Close()

	bytesWritten, err := io.Copy(file, data)
	if err != nil {
		operation.Error = fmt.Errorf("failed to write file %s: %w", fullPath, err)
		operation.Duration = time.Since(startTime)
		// Clean up partial file
		os.Remove(fullPath)
		return operation, operation.Error
	}

	operation.Success = true
	operation.Size = bytesWritten
	operation.PublicPath = PublicPath(dir, filename)
	operation.Duration = time.Since(startTime)

	log.Infof("[MediaStore] Saved %s (%d bytes) in %v", operation.PublicPath, bytesWritten, operation.Duration)
	return operation, nil
}

// MoveFile relocates filename from one media directory to another.
func (ms *MediaStore) MoveFile(filename, fromDir, toDir string) (*FileOperation, error) {
	startTime := time.Now()

	operation := &FileOperation{Filename: filename}
	source := filepath.Join(ms.root, fromDir, filename)
	destination := filepath.Join(ms.root, toDir, filename)
	operation.FilePath = destination

	if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		operation.Error = fmt.Errorf("failed to create directory %s: %w", toDir, err)
		operation.Duration = time.Since(startTime)
		return operation, operation.Error
	}

	if err := os.Rename(source, destination); err != nil {
		// rename fails across devices, fall back to copy and delete
		if copyErr := copyFile(source, destination); copyErr != nil {
			operation.Error = fmt.Errorf("failed to move %s to %s: %w", source, destination, copyErr)
			operation.Duration = time.Since(startTime)
			return operation, operation.Error
		}
		if err := os.Remove(source); err != nil {
			log.Warnf("[MediaStore] Failed to remove source %s after copy: %v", source, err)
		}
	}

	if info, err := os.Stat(destination); err == nil {
		operation.Size = info.Size()
	}
	operation.Success = true
	operation.PublicPath = PublicPath(toDir, filename)
	operation.Duration = time.Since(startTime)

	log.Debugf("[MediaStore] Moved %s from %s to %s", filename, fromDir, toDir)
	return operation, nil
}

// DeleteFile removes a stored file by its public path. Missing files are ignored.
func (ms *MediaStore) DeleteFile(publicPath string) error {
	local, err := ms.LocalPath(publicPath)
	if err != nil {
		return err
	}
	if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", local, err)
	}
	return nil
}

// HealthCheck verifies that every media directory is writable.
func (ms *MediaStore) HealthCheck() error {
	for _, dir := range []string{DirImages, DirVideos} {
		tmp, err := os.CreateTemp(filepath.Join(ms.root, dir), ".tmp-*")
		if err != nil {
			return fmt.Errorf("media directory %s is not writable: %w", dir, err)
		}
		name := tmp.Name()
		tmp.Close()
		os.Remove(name)
	}
	return nil
}

func copyFile(source, destination string) error {
	src, err := os.Open(source)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(destination)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(destination)
		return err
	}
	return dst.Close()
}
