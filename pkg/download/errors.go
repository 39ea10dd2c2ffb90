package download

import (
	"errors"
	"fmt"
)

var (
	ErrNoResults = errors.New("no results to download")
	ErrNoMedia   = errors.New("no media attachments to download")
)

type DirectoryCreateError struct {
	Path string
	Err  error
}

func (e *DirectoryCreateError) Error() string {
	return fmt.Sprintf("failed to create download directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryCreateError) Unwrap() error { return e.Err }

// FileDownloadError 单个文件下载失败，只记录日志，不影响整批
type FileDownloadError struct {
	URL    string
	Status int
	Err    error
}

func (e *FileDownloadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to download %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
}

func (e *FileDownloadError) Unwrap() error { return e.Err }
