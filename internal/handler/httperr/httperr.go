package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the public error envelope. The cause is recorded on the gin
// context for the logging middleware but never serialized to the client.
type Response struct {
	Status int       `json:"-"`
	Error  ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("httperr: nil error")
	}

	resp := Response{
		Status: status,
		Error:  ErrorBody{Message: msg, Detail: detail},
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
