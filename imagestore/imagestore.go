// Package imagestore uploads post images to Cloudinary. When the Cloudinary
// credentials are absent the store reports ErrNotConfigured and callers
// degrade to text-only posts instead of failing the request.
package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/user/linkup-go/apperror"
	"github.com/user/linkup-go/config"
)

// ErrNotConfigured is returned when no Cloudinary credentials were supplied.
var ErrNotConfigured = errors.New("image store not configured")

const (
	// MaxFiles is the most images a single post may carry.
	MaxFiles = 5
	// MaxFileSize caps each image at 5MB.
	MaxFileSize = 5 << 20
)

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// File is one validated image read out of a multipart request.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FromMultipart reads and validates the "images" parts of a parsed multipart
// form. It enforces the file count, per-file size and content type limits.
func FromMultipart(form *multipart.Form) ([]File, error) {
	headers := form.File["images"]
	if len(headers) == 0 {
		return nil, nil
	}
	if len(headers) > MaxFiles {
		return nil, apperror.NewBadRequestError(
			fmt.Sprintf("A maximum of %d images is allowed per post", MaxFiles), nil)
	}

	files := make([]File, 0, len(headers))
	for _, hdr := range headers {
		if hdr.Size > MaxFileSize {
			return nil, apperror.NewBadRequestError(
				fmt.Sprintf("Image %s exceeds the 5MB size limit", hdr.Filename), nil)
		}
		f, err := hdr.Open()
		if err != nil {
			return nil, apperror.NewBadRequestError("Failed to read uploaded image", err)
		}
		data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
		f.Close()
		if err != nil {
			return nil, apperror.NewBadRequestError("Failed to read uploaded image", err)
		}
		if len(data) > MaxFileSize {
			return nil, apperror.NewBadRequestError(
				fmt.Sprintf("Image %s exceeds the 5MB size limit", hdr.Filename), nil)
		}

		contentType := hdr.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		if _, ok := allowedTypes[contentType]; !ok {
			return nil, apperror.NewBadRequestError(
				"Only jpeg, png, gif and webp images are allowed", nil)
		}

		files = append(files, File{Name: hdr.Filename, ContentType: contentType, Data: data})
	}
	return files, nil
}

// Store uploads images and returns their public URLs.
type Store interface {
	Upload(ctx context.Context, files []File) ([]string, error)
}

// uploadAPI is the slice of the Cloudinary upload client the store uses.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

type cloudinaryStore struct {
	uploads uploadAPI
	folder  string
	logger  *zap.Logger
}

// New builds the Cloudinary-backed store. It returns ErrNotConfigured when
// the credentials are missing so main can wire a nil store and keep serving.
func New(cfg config.ImageConfig, logger *zap.Logger) (Store, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &cloudinaryStore{uploads: &cld.Upload, folder: cfg.Folder, logger: logger}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, file := range files {
		resp, err := s.uploads.Upload(ctx, bytes.NewReader(file.Data), uploader.UploadParams{
			Folder: s.folder,
		})
		if err != nil {
			return nil, apperror.NewExternalServiceError("Failed to upload image", err)
		}
		// The SDK reports API-level failures in the response body with a nil
		// error, so the error field has to be checked before trusting the URL.
		if resp.Error.Message != "" {
			return nil, apperror.NewExternalServiceError("Failed to upload image",
				errors.New(resp.Error.Message))
		}
		s.logger.Debug("image uploaded",
			zap.String("file", file.Name),
			zap.String("url", resp.SecureURL))
		urls = append(urls, resp.SecureURL)
	}
	return urls, nil
}
