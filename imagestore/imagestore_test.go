package imagestore

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/linkup-go/apperror"
	"github.com/user/linkup-go/config"
)

func buildForm(t *testing.T, files map[string]string) *multipart.Form {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="images"; filename="`+name+`"`)
		hdr.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	reader := multipart.NewReader(&buf, mw.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form
}

func TestFromMultipart(t *testing.T) {
	t.Run("no images yields nil", func(t *testing.T) {
		form := buildForm(t, nil)
		files, err := FromMultipart(form)
		require.NoError(t, err)
		assert.Nil(t, files)
	})

	t.Run("valid images pass", func(t *testing.T) {
		form := buildForm(t, map[string]string{"a.png": "data-a", "b.png": "data-b"})
		files, err := FromMultipart(form)
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("too many files rejected", func(t *testing.T) {
		many := map[string]string{}
		for _, n := range []string{"1", "2", "3", "4", "5", "6"} {
			many[n+".png"] = "x"
		}
		form := buildForm(t, many)
		_, err := FromMultipart(form)
		require.Error(t, err)
		appErr, ok := apperror.FromError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.StatusCode())
	})

	t.Run("disallowed content type rejected", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="images"; filename="notes.txt"`)
		hdr.Set("Content-Type", "text/plain")
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("plain text"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(32 << 20)
		require.NoError(t, err)
		defer form.RemoveAll()

		_, err = FromMultipart(form)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jpeg")
	})

	t.Run("oversized file rejected", func(t *testing.T) {
		form := buildForm(t, map[string]string{"big.png": strings.Repeat("x", MaxFileSize+1)})
		_, err := FromMultipart(form)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "5MB")
	})
}

func TestNewNotConfigured(t *testing.T) {
	_, err := New(config.ImageConfig{}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

type fakeUploader struct {
	result *uploader.UploadResult
	err    error
}

func (f *fakeUploader) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	return f.result, f.err
}

func TestUpload(t *testing.T) {
	files := []File{{Name: "a.png", ContentType: "image/png", Data: []byte("data")}}

	t.Run("returns the secure url", func(t *testing.T) {
		store := &cloudinaryStore{
			uploads: &fakeUploader{result: &uploader.UploadResult{SecureURL: "https://cdn/a.png"}},
			folder:  "linkup",
			logger:  zap.NewNop(),
		}
		urls, err := store.Upload(t.Context(), files)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn/a.png"}, urls)
	})

	t.Run("transport error surfaces as external service error", func(t *testing.T) {
		store := &cloudinaryStore{
			uploads: &fakeUploader{err: errors.New("connection refused")},
			folder:  "linkup",
			logger:  zap.NewNop(),
		}
		_, err := store.Upload(t.Context(), files)
		require.Error(t, err)
		appErr, ok := apperror.FromError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.ExternalServiceError, appErr.Type)
	})

	t.Run("api error in the response body is rejected", func(t *testing.T) {
		store := &cloudinaryStore{
			uploads: &fakeUploader{result: &uploader.UploadResult{
				Error: api.ErrorResp{Message: "Invalid API key"},
			}},
			folder: "linkup",
			logger: zap.NewNop(),
		}
		_, err := store.Upload(t.Context(), files)
		require.Error(t, err)
		appErr, ok := apperror.FromError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.ExternalServiceError, appErr.Type)
		assert.Contains(t, err.Error(), "Invalid API key")
	})
}
