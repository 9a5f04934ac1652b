package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veritube/ytverifier/src/api/types"
	"github.com/veritube/ytverifier/src/youtube"
	"gorm.io/gorm"
)

const listLimit = 20

// Reports serves the stored fact-check history.
type Reports struct {
	DB *gorm.DB
}

func (h Reports) List(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "persistence not configured"})
		return
	}

	var reports []types.Report
	if err := h.DB.Order("created_at DESC").Limit(listLimit).Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports})
}

func (h Reports) ByVideo(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "persistence not configured"})
		return
	}

	videoID, err := youtube.ExtractVideoID(c.Param("videoID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid video ID"})
		return
	}

	var reports []types.Report
	if err := h.DB.Where("video_id = ?", videoID).Order("created_at DESC").Limit(listLimit).Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports})
}
