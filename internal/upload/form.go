// Package upload validates and submits new media items to the catalog.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ytget/pixhub/internal/catalog"
	"github.com/ytget/pixhub/internal/model"
)

// ErrValidation matches every ValidationError with errors.Is.
var ErrValidation = errors.New("invalid upload form")

// Messages shown to the user for an incomplete form.
const (
	MsgMissingFile     = "Please select a file to upload."
	MsgMissingCategory = "Please enter a category."
	MsgMissingTitle    = "Please enter a title."
)

// ValidationError is a form problem the user has to fix. Nothing was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Form is the upload form as the user filled it in.
type Form struct {
	Title       string
	FilePath    string
	MediaType   model.MediaType // empty means detect from the file
	Category    string
	Description string
}

// Validate checks the form in the order the fields are reported to the
// user: file, category, title. The media type is checked last and only
// when a file is present.
func (f Form) Validate() error {
	if strings.TrimSpace(f.FilePath) == "" {
		return &ValidationError{Field: "file", Message: MsgMissingFile}
	}
	if strings.TrimSpace(f.Category) == "" {
		return &ValidationError{Field: "category", Message: MsgMissingCategory}
	}
	if strings.TrimSpace(f.Title) == "" {
		return &ValidationError{Field: "title", Message: MsgMissingTitle}
	}
	if _, err := catalog.ParseCategoryID(f.Category); err != nil {
		return &ValidationError{Field: "category", Message: "Category must be a positive number."}
	}
	if f.MediaType != "" && !f.MediaType.Valid() {
		return &ValidationError{Field: "media_type", Message: fmt.Sprintf("Unknown media type %q.", f.MediaType)}
	}
	return nil
}

// DetectMediaType sniffs the file content and maps it to a media type.
func DetectMediaType(path string) (model.MediaType, string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", "", pkgerrors.Wrapf(err, "detect type of %s", path)
	}
	mime := mt.String()
	switch {
	case strings.HasPrefix(mime, "image/"):
		return model.MediaTypeImage, mime, nil
	case strings.HasPrefix(mime, "video/"):
		return model.MediaTypeVideo, mime, nil
	default:
		return "", mime, &ValidationError{Field: "file", Message: fmt.Sprintf("Unsupported file type %s.", mime)}
	}
}

// Submit validates the form, checks the file against the declared media
// type and uploads it.
func Submit(ctx context.Context, client catalog.Catalog, form Form) (model.MediaItem, error) {
	if err := form.Validate(); err != nil {
		return model.MediaItem{}, err
	}
	categoryID, _ := catalog.ParseCategoryID(form.Category)

	detected, mime, err := DetectMediaType(form.FilePath)
	if err != nil {
		return model.MediaItem{}, err
	}
	mediaType := form.MediaType
	if mediaType == "" {
		mediaType = detected
	} else if mediaType != detected {
		return model.MediaItem{}, &ValidationError{
			Field:   "media_type",
			Message: fmt.Sprintf("Selected file is not %s.", withArticle(mediaType)),
		}
	}

	file, err := os.Open(form.FilePath)
	if err != nil {
		return model.MediaItem{}, pkgerrors.Wrap(err, "open upload file")
	}
	defer file.Close()

	logrus.WithFields(logrus.Fields{
		"title":      form.Title,
		"media_type": mediaType,
		"mime":       mime,
	}).Info("Uploading media item")

	return client.Upload(ctx, catalog.UploadRequest{
		Title:       strings.TrimSpace(form.Title),
		MediaType:   mediaType,
		CategoryID:  categoryID,
		Description: strings.TrimSpace(form.Description),
		FileName:    filepath.Base(form.FilePath),
		ContentType: mime,
		File:        file,
	})
}

func withArticle(mt model.MediaType) string {
	if mt == model.MediaTypeImage {
		return "an image"
	}
	return "a " + string(mt)
}
