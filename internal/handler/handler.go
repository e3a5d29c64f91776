package handler

import (
	"backend/pkg/apperror"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to the HTTP status and envelope carrying
// its machine-readable kind.
func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	c.JSON(status, response.ErrorWithKind(status, string(apperror.KindOf(err)), err.Error()))
}
