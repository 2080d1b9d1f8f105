package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	activitydomain "github.com/smallbiznis/badgescan/internal/activity/domain"
	scandomain "github.com/smallbiznis/badgescan/internal/scan/domain"
)

type recordScanRequest struct {
	ActivityName     string `json:"activity_name"`
	ActivityCategory string `json:"activity_category"`
}

func (s *Server) RecordScan(c *gin.Context) {
	var req recordScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError("invalid scan payload"))
		return
	}

	resp, err := s.scanSvc.Record(c.Request.Context(), scandomain.RecordScanRequest{
		BadgeCode:        c.Param("code"),
		ActivityName:     req.ActivityName,
		ActivityCategory: req.ActivityCategory,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListScanStats(c *gin.Context) {
	var query struct {
		MinFrequency     string `form:"min_frequency"`
		MaxFrequency     string `form:"max_frequency"`
		ActivityCategory string `form:"activity_category"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError("invalid query"))
		return
	}

	minFrequency, err := parseOptionalInt(query.MinFrequency)
	if err != nil {
		AbortWithError(c, invalidRequestError("min_frequency must be an integer"))
		return
	}
	maxFrequency, err := parseOptionalInt(query.MaxFrequency)
	if err != nil {
		AbortWithError(c, invalidRequestError("max_frequency must be an integer"))
		return
	}

	req := activitydomain.StatsQuery{
		MinFrequency: minFrequency,
		MaxFrequency: maxFrequency,
	}
	if category := strings.TrimSpace(query.ActivityCategory); category != "" {
		req.Category = &category
	}

	stats, err := s.activitySvc.QueryStats(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(stats) == 0 {
		AbortWithError(c, ErrNoScans)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func parseOptionalInt(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
