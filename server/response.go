package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/rpckit/errors"
)

// Response is the success envelope of a procedure call.
type Response struct {
	Result ResultBody `json:"result"`
}

// ResultBody holds the procedure output.
type ResultBody struct {
	Data any `json:"data"`
}

// RespondWithError writes err as an errors.ErrorResponse. Errors that are not
// an *errors.AppError are sent as INTERNAL_ERROR without exposing the cause.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.From(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondData sends a 200 response wrapping a procedure output.
func RespondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Result: ResultBody{Data: data}})
}
