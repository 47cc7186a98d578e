package handlers

import (
	"net/http"

	"github.com/Tototoyo/cctv-pr/internal/models"
	"github.com/gin-gonic/gin"
)

// GetOptions returns the option vocabularies and the initial selection
func GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, models.GetOptionSets())
}
