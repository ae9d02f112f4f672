package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/seqkit/errors"
)

// RespondWithError renders err as an error envelope. AppErrors keep their
// code and map to errors.HTTPStatus; anything else becomes INTERNAL_ERROR.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.FromError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(errors.HTTPStatus(appErr.Code), appErr.ToResponse())
}

// RespondOK sends a 200 response with body as JSON.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
