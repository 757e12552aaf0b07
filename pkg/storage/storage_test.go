package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"properties/12/cover.jpg", "properties/12/cover.jpg", true},
		{"properties/12/", "properties/12", true},
		{"/etc/passwd", "", false},
		{"../secret.png", "", false},
		{"a/../../b.png", "", false},
		{"a//b.png", "", false},
		{"a/./b.png", "", false},
		{`a\b.png`, "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CleanKey(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	ct, err := ContentTypeFor("docs/lease.PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ct)

	_, err = ContentTypeFor("run.exe")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocalStorage_Put(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "http://localhost:8080/uploads/")

	url, err := s.Put(context.Background(), "properties/7/a.png", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/properties/7/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "properties", "7", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "local", s.Driver())
}
