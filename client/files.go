package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/andrejsstepanovs/collab/models"
	"github.com/opus-domini/fast-shot/constant/mime"
)

const fileField = "file"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadFile sends content as a multipart upload. The request is bounded only by ctx.
func (c *Client) UploadFile(ctx context.Context, doc models.UploadedDocument, content io.Reader) (models.UploadResponse, error) {
	var res models.UploadResponse
	if err := postMultipart(ctx, c, "/files/upload", doc, content, &res); err != nil {
		return models.UploadResponse{}, err
	}
	return res, nil
}

// CheckPlagiarism submits content for scoring. The request is bounded only by ctx.
func (c *Client) CheckPlagiarism(ctx context.Context, doc models.UploadedDocument, content io.Reader) (models.PlagiarismResult, error) {
	var res models.PlagiarismResult
	if err := postMultipart(ctx, c, "/plagiarism/check", doc, content, &res); err != nil {
		return models.PlagiarismResult{}, err
	}
	return res, nil
}

func postMultipart[T any](ctx context.Context, c *Client, path string, doc models.UploadedDocument, content io.Reader, result *T) error {
	body, contentType, err := multipartBody(doc, content)
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}

	req := c.prepare(ctx, c.files.POST(c.endpoint(path)), mime.Type(contentType))

	c.log.Debug().
		Str("path", path).
		Str("name", doc.Name).
		Str("mime", doc.MimeType).
		Int64("size", doc.Size).
		Msg("uploading file")
	resp, err := req.Body().AsReader(body).Send()

	return finish(ctx, c, http.MethodPost, path, resp, err, result)
}

func multipartBody(doc models.UploadedDocument, content io.Reader) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fileField, quoteEscaper.Replace(doc.Name)))
	mimeType := doc.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}
