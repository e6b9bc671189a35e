package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"garmin-fitness/internal/analysis"
	"garmin-fitness/internal/fitfile"
	"garmin-fitness/internal/store"
)

// timestampLayout matches the upload response's wall-clock format.
const timestampLayout = "2006-01-02 15:04:05"

// uploadResponse carries the decoded series. Power and heart rate stay
// aligned with timestamps; a sample that lacks a field marshals as null
// at its position, never as 0.
type uploadResponse struct {
	Timestamps []string   `json:"timestamps"`
	Power      []*float64 `json:"power"`
	HeartRate  []*float64 `json:"heart_rate"`
}

// activityResponse is the list/detail DTO for stored activities.
type activityResponse struct {
	ActivityID int64     `json:"activity_id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	StartTime  time.Time `json:"start_time"`
	Distance   float64   `json:"distance_m"`
	Duration   float64   `json:"duration_s"`
	AvgPower   *float64  `json:"avg_power,omitempty"`
	AvgHR      *float64  `json:"avg_hr,omitempty"`

	NormalizedPower     *float64 `json:"normalized_power,omitempty"`
	IntensityFactor     *float64 `json:"intensity_factor,omitempty"`
	TrainingStressScore *float64 `json:"training_stress_score,omitempty"`
}

// metricsResponse is the full computed bundle for one activity.
type metricsResponse struct {
	ActivityID          int64    `json:"activity_id"`
	FTP                 float64  `json:"ftp"`
	NormalizedPower     *float64 `json:"normalized_power"`
	IntensityFactor     *float64 `json:"intensity_factor"`
	TrainingStressScore *float64 `json:"training_stress_score"`
	AvgPower            *float64 `json:"avg_power"`
	VariabilityIndex    *float64 `json:"variability_index"`
	EfficiencyFactor    *float64 `json:"efficiency_factor"`
	Decoupling          *float64 `json:"decoupling"`
	AvgHR               *float64 `json:"avg_hr"`
	DataQualityScore    *float64 `json:"data_quality_score"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleUpload accepts a multipart FIT file and responds with its raw
// HR/power series.
func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing multipart field 'file'"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".fit") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type, expected .fit"})
		return
	}

	tempDir := s.cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	tempPath := filepath.Join(tempDir, uuid.NewString()+".fit")
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("saving upload: %v", err)})
		return
	}
	defer os.Remove(tempPath)

	activity, err := fitfile.ParseFile(tempPath)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fitfile.ErrCorrupted) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": fmt.Sprintf("processing file: %v", err)})
		return
	}

	c.JSON(http.StatusOK, buildUploadResponse(activity.Samples))
}

func buildUploadResponse(samples []analysis.Sample) uploadResponse {
	resp := uploadResponse{
		Timestamps: make([]string, 0, len(samples)),
		Power:      make([]*float64, 0, len(samples)),
		HeartRate:  make([]*float64, 0, len(samples)),
	}
	for _, sample := range samples {
		resp.Timestamps = append(resp.Timestamps, sample.Time.Format(timestampLayout))
		resp.Power = append(resp.Power, sample.Power)
		resp.HeartRate = append(resp.HeartRate, sample.HeartRate)
	}
	return resp
}

func (s *Server) handleListActivities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	if limit <= 0 {
		limit = 50
	}

	list, err := s.queries.GetActivitiesList(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]activityResponse, 0, len(list))
	for _, item := range list {
		resp = append(resp, activityResponse{
			ActivityID:          item.Activity.ActivityID,
			Name:                item.Activity.Name,
			Type:                item.Activity.Type,
			StartTime:           item.Activity.StartTimeGMT,
			Distance:            item.Activity.Distance,
			Duration:            item.Activity.Duration,
			AvgPower:            item.Activity.AvgPower,
			AvgHR:               item.Activity.AvgHR,
			NormalizedPower:     item.Metrics.NormalizedPower,
			IntensityFactor:     item.Metrics.IntensityFactor,
			TrainingStressScore: item.Metrics.TrainingStressScore,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// handleActivityMetrics serves the metric bundle for one activity,
// recomputed on the fly when ?ftp= differs from the cached value.
func (s *Server) handleActivityMetrics(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}

	ftp := s.queries.FTP()
	if raw := c.Query("ftp"); raw != "" {
		ftp, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ftp"})
			return
		}
	}

	metrics, err := s.queries.GetActivityMetrics(id, ftp)
	switch {
	case errors.Is(err, analysis.ErrInvalidParameter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, store.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, metricsResponse{
		ActivityID:          metrics.ActivityID,
		FTP:                 metrics.FTP,
		NormalizedPower:     metrics.NormalizedPower,
		IntensityFactor:     metrics.IntensityFactor,
		TrainingStressScore: metrics.TrainingStressScore,
		AvgPower:            metrics.AvgPower,
		VariabilityIndex:    metrics.VariabilityIndex,
		EfficiencyFactor:    metrics.EfficiencyFactor,
		Decoupling:          metrics.Decoupling,
		AvgHR:               metrics.AvgHR,
		DataQualityScore:    metrics.DataQualityScore,
	})
}
