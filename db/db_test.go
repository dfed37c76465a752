package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "alice", "alice"},
		{"percent escaped", "100%", `100\%`},
		{"underscore escaped", "snake_case", `snake\_case`},
		{"backslash escaped first", `a\%b`, `a\\\%b`},
		{"empty string", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EscapeLike(tc.in))
		})
	}
}
