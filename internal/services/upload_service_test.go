package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key, err := ObjectKey("properties/12/cover.jpg", "IMG_0001.JPG")
	require.NoError(t, err)
	assert.Equal(t, "properties/12/cover.jpg", key)

	key, err = ObjectKey("properties/12/", "IMG_0001.JPG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "properties/12/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Len(t, key, len("properties/12/")+36+len(".jpg"))

	for _, bad := range []string{"", "/etc/passwd", "../secret.png", "a/../../b.png", `a\b.png`} {
		_, err := ObjectKey(bad, "x.png")
		assert.Error(t, err, bad)
	}
}
