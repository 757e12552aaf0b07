package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rentalhub/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, fn func(c *gin.Context)) map[string]interface{} {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fn(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestFromError(t *testing.T) {
	t.Run("app error keeps code", func(t *testing.T) {
		body := render(t, func(c *gin.Context) {
			FromError(c, fmt.Errorf("load: %w", errors.NotFound("property not found")), "failed")
		})
		assert.EqualValues(t, 404, body["code"])
		assert.Equal(t, "property not found", body["message"])
	})

	t.Run("validation details", func(t *testing.T) {
		body := render(t, func(c *gin.Context) {
			FromError(c, errors.Validation("invalid form", map[string]string{"title": "required"}), "failed")
		})
		assert.EqualValues(t, 422, body["code"])
		assert.Equal(t, map[string]interface{}{"title": "required"}, body["data"])
	})

	t.Run("unknown error hidden", func(t *testing.T) {
		body := render(t, func(c *gin.Context) {
			FromError(c, assert.AnError, "failed to save")
		})
		assert.EqualValues(t, 500, body["code"])
		assert.Equal(t, "failed to save", body["message"])
	})
}

func TestSuccessWithPage(t *testing.T) {
	body := render(t, func(c *gin.Context) {
		SuccessWithPage(c, []int{1, 2}, nil)
	})
	assert.EqualValues(t, 200, body["code"])
	assert.Contains(t, body, "page_info")
}
