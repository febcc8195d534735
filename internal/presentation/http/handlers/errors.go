// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/wip"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/upstream"
	"github.com/gin-gonic/gin"
)

// respondError translates service errors into gateway status codes.
// Malformed ids are the caller's fault (400). Unimplemented features get
// their own loud status (501) so clients can render "not available" instead
// of "something went wrong". An upstream 404 passes through; every other
// upstream failure is reported as a bad gateway, never mirrored verbatim.
func respondError(c *gin.Context, err error) {
	var formatErr *wip.FormatError
	if errors.As(err, &formatErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatErr.Error()})
		return
	}

	if upstream.IsUnimplemented(err) {
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
		return
	}

	if fetchErr, ok := upstream.AsFetchError(err); ok {
		if fetchErr.StatusCode == http.StatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": fetchErr.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
