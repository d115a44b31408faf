package api

import (
	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- DTOs ---

type SessionStatusRequest struct {
	Status domain.SessionStatus `json:"status" binding:"required,oneof=completed skipped cancelled"`
}

type LogMetricRequest struct {
	Type       domain.MetricType `json:"type" binding:"required"`
	Value      float64           `json:"value" binding:"required,gt=0"`
	Unit       string            `json:"unit,omitempty"`
	RecordedAt string            `json:"recordedAt,omitempty"` // YYYY-MM-DD, defaults to today
	Notes      string            `json:"notes,omitempty"`
}

type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmPhotoRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// --- Sessions ---

// GetMySessions lists the client's sessions in a date window. Query params
// "from" and "to" are YYYY-MM-DD; the default window is today plus 14 days.
func (h *ClientHandler) GetMySessions(c *gin.Context) {
	clientID, ok := actingUserID(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 14)

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.ParseInLocation(domain.DateLayout, fromStr, time.UTC)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid 'from' date.")
			return
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.ParseInLocation(domain.DateLayout, toStr, time.UTC)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid 'to' date.")
			return
		}
		to = parsed
	}

	sessions, err := h.clientService.GetMySessions(c.Request.Context(), clientID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve sessions.")
		return
	}
	if sessions == nil {
		sessions = []service.SessionDetails{}
	}
	c.JSON(http.StatusOK, sessions)
}

// SetSessionStatus marks a session completed, skipped, or cancelled.
func (h *ClientHandler) SetSessionStatus(c *gin.Context) {
	var req SessionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, ok := actingUserID(c)
	if !ok {
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format.")
		return
	}

	session, err := h.clientService.SetSessionStatus(c.Request.Context(), clientID, sessionID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionNotOwned):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidSessionStatus):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update session.")
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// --- Progress Metrics ---

// LogMetric records one measurement for the client.
func (h *ClientHandler) LogMetric(c *gin.Context) {
	var req LogMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, ok := actingUserID(c)
	if !ok {
		return
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != "" {
		parsed, err := time.ParseInLocation(domain.DateLayout, req.RecordedAt, time.UTC)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid recordedAt date.")
			return
		}
		recordedAt = parsed
	}

	metric, err := h.clientService.LogMetric(c.Request.Context(), clientID, req.Type, req.Value, req.Unit, recordedAt, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMetric) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to log metric.")
		}
		return
	}
	c.JSON(http.StatusCreated, metric)
}

// GetMetricSeries returns a chart-ready series of the client's measurements.
func (h *ClientHandler) GetMetricSeries(c *gin.Context) {
	clientID, ok := actingUserID(c)
	if !ok {
		return
	}
	metricType := domain.MetricType(c.Param("type"))

	series, err := h.clientService.GetMetricSeries(c.Request.Context(), clientID, metricType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMetric) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve metrics.")
		}
		return
	}
	c.JSON(http.StatusOK, series)
}

// --- Progress Photos ---

// RequestPhotoUpload returns a presigned PUT URL for a progress photo.
func (h *ClientHandler) RequestPhotoUpload(c *gin.Context) {
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, ok := actingUserID(c)
	if !ok {
		return
	}

	resp, err := h.clientService.RequestPhotoUploadURL(c.Request.Context(), clientID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedContentType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL.")
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmPhotoUpload records metadata after the client uploaded the file.
func (h *ClientHandler) ConfirmPhotoUpload(c *gin.Context) {
	var req ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	clientID, ok := actingUserID(c)
	if !ok {
		return
	}

	upload, err := h.clientService.ConfirmPhotoUpload(c.Request.Context(), clientID, req.ObjectKey, req.FileName, req.Size, req.ContentType)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to confirm upload.")
		return
	}
	c.JSON(http.StatusCreated, upload)
}
