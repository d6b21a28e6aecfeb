package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const CodeInternal = "internal_error"

// Response is the only error body the API emits: {"error":{"message","code"},"detail"}.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

func NewResponse(status int, code, msg string, detail any) Response {
	resp := Response{Status: status, Detail: detail}
	resp.Error.Message = msg
	resp.Error.Code = code
	return resp
}

func Internal() Response {
	return NewResponse(http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
}

// AbortWithError keeps err on the context so the logging middleware can report it.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	code := ""
	if status == http.StatusInternalServerError {
		code = CodeInternal
	}
	AbortWithCode(c, status, err, code, msg, detail)
}

func AbortWithCode(c *gin.Context, status int, err error, code, msg string, detail any) {
	if err == nil {
		panic("httperr: abort without an error")
	}

	resp := NewResponse(status, code, msg, detail)
	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
