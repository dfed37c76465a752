package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/linkup-go/apperror"
)

func TestParseDate(t *testing.T) {
	t.Run("date only", func(t *testing.T) {
		got, err := parseDate("2021-06-15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("rfc3339", func(t *testing.T) {
		got, err := parseDate("2021-06-15T10:30:00Z")
		require.NoError(t, err)
		assert.Equal(t, 2021, got.Year())
		assert.Equal(t, 10, got.Hour())
	})

	t.Run("garbage is a validation error", func(t *testing.T) {
		_, err := parseDate("June 15th")
		require.Error(t, err)
		appErr, ok := apperror.FromError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.StatusCode())
		require.Len(t, appErr.Fields, 1)
	})
}

func TestParseOptionalDate(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		got, err := parseOptionalDate(nil, "endDate")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("valid value parses", func(t *testing.T) {
		v := "2022-01-31"
		got, err := parseOptionalDate(&v, "endDate")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 31, got.Day())
	})

	t.Run("invalid value names the field", func(t *testing.T) {
		v := "soon"
		_, err := parseOptionalDate(&v, "endDate")
		require.Error(t, err)
		appErr, ok := apperror.FromError(err)
		require.True(t, ok)
		require.Len(t, appErr.Fields, 1)
		assert.Equal(t, "endDate", appErr.Fields[0].Field)
	})
}
