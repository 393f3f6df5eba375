package handler

import (
	"net/http"

	"hotelsearch/internal/errs"

	"github.com/gin-gonic/gin"
)

// respondError writes err with the status matching its kind. Internal errors
// are not echoed to the client.
func respondError(c *gin.Context, prefix string, err error) {
	status := errs.HTTPStatus(err)
	_ = c.Error(err)

	message := prefix + ": " + err.Error()
	if status == http.StatusInternalServerError {
		message = prefix
	}
	c.JSON(status, gin.H{"error": message})
}
