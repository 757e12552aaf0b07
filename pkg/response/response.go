package response

import (
	"net/http"

	"rentalhub/pkg/errors"
	"rentalhub/pkg/logger"
	"rentalhub/pkg/pagination"

	"github.com/gin-gonic/gin"
)

// Response is the common envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ========== success ==========

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    errors.CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    errors.CodeSuccess,
		Message: message,
		Data:    data,
	})
}

func SuccessWithPage(c *gin.Context, data interface{}, pageInfo *pagination.PageInfo) {
	c.JSON(http.StatusOK, gin.H{
		"code":      errors.CodeSuccess,
		"message":   "success",
		"data":      data,
		"page_info": pageInfo,
	})
}

// ========== errors ==========

// Error writes an error envelope. The HTTP status is always 200; clients read
// the code field.
func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, errors.CodeInvalidParam, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, errors.CodeUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, errors.CodeForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, errors.CodeNotFound, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, errors.CodeConflict, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Error(c, errors.CodeTooMany, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, errors.CodeServerError, message)
}

// FromError renders a service error. AppErrors keep their code and message,
// anything else is logged and hidden behind fallback.
func FromError(c *gin.Context, err error, fallback string) {
	if appErr, ok := errors.As(err); ok {
		if appErr.Details != nil {
			ErrorWithData(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}
		Error(c, appErr.Code, appErr.Message)
		return
	}
	logger.GetLogger().WithError(err).WithField("path", c.FullPath()).Error(fallback)
	ServerError(c, fallback)
}
