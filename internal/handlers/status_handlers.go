package handlers

import (
	"net/http"

	"charmlive/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// StatusHandlers serves the host telemetry endpoint for the dashboard
// footer.
type StatusHandlers struct{}

// NewStatusHandlers constructs the status handler set.
func NewStatusHandlers() *StatusHandlers {
	return &StatusHandlers{}
}

// APIStatus returns a point-in-time host resource sample.
func (h *StatusHandlers) APIStatus(c *gin.Context) {
	c.JSON(http.StatusOK, telemetry.Sample(c.Request.Context()))
}
