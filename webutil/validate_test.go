package webutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/linkup-go/apperror"
)

type sampleDTO struct {
	Username string  `json:"username" validate:"required,min=3,max=30"`
	Email    string  `json:"email" validate:"required,email"`
	Website  *string `json:"website" validate:"omitempty,url"`
}

func TestValidate(t *testing.T) {
	t.Run("passes a valid struct", func(t *testing.T) {
		assert.NoError(t, Validate(&sampleDTO{Username: "ada", Email: "ada@example.com"}))
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := Validate(&sampleDTO{Username: "ab", Email: "nope"})
		require.Error(t, err)

		appErr, ok := apperror.FromError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.StatusCode())
		require.Len(t, appErr.Fields, 2)

		fields := []string{appErr.Fields[0].Field, appErr.Fields[1].Field}
		assert.Contains(t, fields, "username")
		assert.Contains(t, fields, "email")
	})

	t.Run("skips absent optional fields", func(t *testing.T) {
		assert.NoError(t, Validate(&sampleDTO{Username: "ada", Email: "ada@example.com", Website: nil}))
	})

	t.Run("rejects malformed optional url", func(t *testing.T) {
		bad := "not a url"
		err := Validate(&sampleDTO{Username: "ada", Email: "ada@example.com", Website: &bad})
		require.Error(t, err)
	})
}
