package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/pixhub/internal/catalog"
	"github.com/ytget/pixhub/internal/model"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	mp4Header = []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2mp41")
)

type recordingCatalog struct {
	catalog.Catalog
	req  catalog.UploadRequest
	body []byte
	err  error
}

func (r *recordingCatalog) Upload(_ context.Context, req catalog.UploadRequest) (model.MediaItem, error) {
	r.req = req
	r.body, _ = io.ReadAll(req.File)
	if r.err != nil {
		return model.MediaItem{}, r.err
	}
	return model.MediaItem{ID: model.IntID(10), Title: req.Title, MediaType: req.MediaType}, nil
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestValidate_Order(t *testing.T) {
	tests := []struct {
		name string
		form Form
		msg  string
	}{
		{"nothing", Form{}, MsgMissingFile},
		{"no file", Form{Title: "t", Category: "1"}, MsgMissingFile},
		{"no category", Form{FilePath: "/x.png"}, MsgMissingCategory},
		{"no title", Form{FilePath: "/x.png", Category: "1"}, MsgMissingTitle},
		{"blank title", Form{FilePath: "/x.png", Category: "1", Title: "  "}, MsgMissingTitle},
		{"bad category", Form{FilePath: "/x.png", Category: "abc", Title: "t"}, "Category must be a positive number."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Equal(t, tt.msg, err.Error())
		})
	}

	assert.NoError(t, Form{FilePath: "/x.png", Category: "1", Title: "t"}.Validate())
}

func TestDetectMediaType(t *testing.T) {
	mt, mime, err := DetectMediaType(writeFile(t, "a.png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, model.MediaTypeImage, mt)
	assert.Equal(t, "image/png", mime)

	mt, mime, err = DetectMediaType(writeFile(t, "a.mp4", mp4Header))
	require.NoError(t, err)
	assert.Equal(t, model.MediaTypeVideo, mt)
	assert.Equal(t, "video/mp4", mime)

	_, _, err = DetectMediaType(writeFile(t, "a.txt", []byte("hello world")))
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = DetectMediaType(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestSubmit(t *testing.T) {
	path := writeFile(t, "sunset.png", pngHeader)
	rec := &recordingCatalog{}

	created, err := Submit(context.Background(), rec, Form{
		Title:       " Sunset ",
		FilePath:    path,
		Category:    "3",
		Description: "orange",
	})
	require.NoError(t, err)
	assert.Equal(t, model.IntID(10), created.ID)

	assert.Equal(t, "Sunset", rec.req.Title)
	assert.Equal(t, model.MediaTypeImage, rec.req.MediaType, "media type is detected when not declared")
	assert.Equal(t, int64(3), rec.req.CategoryID)
	assert.Equal(t, "orange", rec.req.Description)
	assert.Equal(t, "sunset.png", rec.req.FileName)
	assert.Equal(t, "image/png", rec.req.ContentType)
	assert.Equal(t, pngHeader, rec.body)
}

func TestSubmit_MediaTypeMismatch(t *testing.T) {
	path := writeFile(t, "clip.png", pngHeader)
	rec := &recordingCatalog{}

	_, err := Submit(context.Background(), rec, Form{
		Title:     "Clip",
		FilePath:  path,
		Category:  "1",
		MediaType: model.MediaTypeVideo,
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Selected file is not a video.", err.Error())
	assert.Empty(t, rec.req.Title, "nothing is sent for an invalid form")
}

func TestSubmit_InvalidFormNotSent(t *testing.T) {
	rec := &recordingCatalog{}

	_, err := Submit(context.Background(), rec, Form{Title: "x"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, rec.req.File)
}

func TestSubmit_CatalogFailure(t *testing.T) {
	rec := &recordingCatalog{err: &catalog.APIError{StatusCode: 500}}

	_, err := Submit(context.Background(), rec, Form{
		Title:    "Sea",
		FilePath: writeFile(t, "sea.png", pngHeader),
		Category: "1",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.True(t, catalog.IsNetworkFailure(err))
}
