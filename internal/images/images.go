package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

const DefaultMaxBytes = 10 << 20

var (
	ErrTooLarge = errors.New("image too large")
	ErrNotImage = errors.New("file is not an image")
)

// Upload is one image file received from a form, already size checked and
// sniffed.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Sink turns an upload into the imageUrl sent to the API.
type Sink interface {
	Store(ctx context.Context, u Upload) (string, error)
}

// Read loads r up to limit bytes and checks the content is an image. The
// declared content type is ignored; the bytes decide.
func Read(r io.Reader, filename string, limit int64) (Upload, error) {
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if int64(len(data)) > limit {
		return Upload{}, fmt.Errorf("%s: %w", filename, ErrTooLarge)
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return Upload{}, fmt.Errorf("%s (%s): %w", filename, ct, ErrNotImage)
	}
	return Upload{Filename: filename, ContentType: ct, Data: data}, nil
}

// FromForm reads every file of a multipart field in submission order. Empty
// file inputs are skipped.
func FromForm(files []*multipart.FileHeader, limit int64) ([]Upload, error) {
	out := make([]Upload, 0, len(files))
	for _, fh := range files {
		if fh.Size == 0 && fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		u, err := Read(f, fh.Filename, limit)
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// DataURL inlines the image as data:<mime>;base64,...
type DataURL struct{}

func (DataURL) Store(_ context.Context, u Upload) (string, error) {
	return "data:" + u.ContentType + ";base64," + base64.StdEncoding.EncodeToString(u.Data), nil
}

func extension(u Upload) string {
	switch u.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return strings.ToLower(filepath.Ext(u.Filename))
}
