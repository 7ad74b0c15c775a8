package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xchange/skill-exchange/internal/core/domain"
)

// FileStore persists uploaded files and returns the path to reference them by.
type FileStore interface {
	Save(field string, fh *multipart.FileHeader) (string, error)
	Remove(path string) error
}

// saveUpload stores the optional file sent under field. It returns an empty
// path when the request is not multipart or carries no such file.
func saveUpload(c echo.Context, files FileStore, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %s: %v", domain.ErrBadInput, field, err)
	}
	return files.Save(field, fh)
}

// discardUpload removes a stored file after the owning operation failed.
func discardUpload(files FileStore, path string) {
	if path != "" {
		_ = files.Remove(path)
	}
}
