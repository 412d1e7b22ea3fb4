package catalog

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ytget/pixhub/internal/model"
)

// UploadRequest is the multipart body of POST /media-items/.
type UploadRequest struct {
	Title       string
	MediaType   model.MediaType
	CategoryID  int64
	Description string

	FileName    string
	ContentType string // sent as the file part's Content-Type when set
	File        io.Reader
}

// Upload submits a new media item. The file is streamed, not buffered.
func (c *Client) Upload(ctx context.Context, up UploadRequest) (model.MediaItem, error) {
	if up.File == nil {
		return model.MediaItem{}, errors.New("upload without file")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadBody(mw, up))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+mediaItemsPath, pr)
	if err != nil {
		_ = pr.Close()
		return model.MediaItem{}, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var created model.MediaItem
	if err := c.do(req, &created); err != nil {
		_ = pr.Close()
		return model.MediaItem{}, err
	}
	c.log.WithField("id", created.ID.String()).Info("Media item uploaded")
	return created, nil
}

// writeUploadBody writes the form fields in the order the web form sent
// them: title, file, media_type, category, description.
func writeUploadBody(mw *multipart.Writer, up UploadRequest) error {
	if err := mw.WriteField("title", up.Title); err != nil {
		return err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(up.FileName)))
	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, up.File); err != nil {
		return errors.Wrap(err, "read upload file")
	}

	fields := [][2]string{
		{"media_type", string(up.MediaType)},
		{"category", strconv.FormatInt(up.CategoryID, 10)},
		{"description", up.Description},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
