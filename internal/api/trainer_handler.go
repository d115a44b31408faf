package api

import (
	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrainerHandler struct {
	trainerService  service.TrainerService
	scheduleService service.ScheduleService
}

func NewTrainerHandler(trainerService service.TrainerService, scheduleService service.ScheduleService) *TrainerHandler {
	return &TrainerHandler{
		trainerService:  trainerService,
		scheduleService: scheduleService,
	}
}

// --- DTOs ---

type AddClientRequest struct {
	ClientEmail string `json:"clientEmail" binding:"required,email"`
}

// ScheduleRequest is the wire form of a recurrence payload. Template IDs are
// hex strings converted to ObjectIDs here, before domain validation runs.
type ScheduleRequest struct {
	Type    string                       `json:"type" binding:"required,oneof=weekly monthly custom"`
	Weekly  map[string]string            `json:"weekly,omitempty"`
	Monthly map[string]map[string]string `json:"monthly,omitempty"`
	Custom  []CustomEntryRequest         `json:"custom,omitempty"`
}

type CustomEntryRequest struct {
	Date       string `json:"date" binding:"required"`
	TemplateID string `json:"templateId" binding:"required"`
	Label      string `json:"label,omitempty"`
}

type PlanRequest struct {
	ClientID    string          `json:"clientId" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description,omitempty"`
	StartDate   string          `json:"startDate" binding:"required"` // YYYY-MM-DD
	EndDate     string          `json:"endDate" binding:"required"`   // YYYY-MM-DD
	Schedule    ScheduleRequest `json:"schedule" binding:"required"`
	IsActive    bool            `json:"isActive,omitempty"`
}

func (r ScheduleRequest) toDomain() (domain.Schedule, error) {
	schedule := domain.Schedule{Type: domain.ScheduleType(r.Type)}

	if len(r.Weekly) > 0 {
		schedule.Weekly = domain.WeekdayMap{}
		for day, hexID := range r.Weekly {
			templateID, err := primitive.ObjectIDFromHex(hexID)
			if err != nil {
				return domain.Schedule{}, fmt.Errorf("invalid template ID for %s: %w", day, err)
			}
			schedule.Weekly[day] = templateID
		}
	}
	if len(r.Monthly) > 0 {
		schedule.Monthly = map[string]domain.WeekdayMap{}
		for week, days := range r.Monthly {
			weekMap := domain.WeekdayMap{}
			for day, hexID := range days {
				templateID, err := primitive.ObjectIDFromHex(hexID)
				if err != nil {
					return domain.Schedule{}, fmt.Errorf("invalid template ID for week %s %s: %w", week, day, err)
				}
				weekMap[day] = templateID
			}
			schedule.Monthly[week] = weekMap
		}
	}
	if len(r.Custom) > 0 {
		for i, entry := range r.Custom {
			templateID, err := primitive.ObjectIDFromHex(entry.TemplateID)
			if err != nil {
				return domain.Schedule{}, fmt.Errorf("invalid template ID in entry %d: %w", i, err)
			}
			schedule.Custom = append(schedule.Custom, domain.CustomEntry{
				Date:       entry.Date,
				TemplateID: templateID,
				Label:      entry.Label,
			})
		}
	}
	return schedule, nil
}

// --- Client Management ---

// AddClientByEmail associates an existing client user with the authenticated trainer.
func (h *TrainerHandler) AddClientByEmail(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}

	client, err := h.trainerService.AddClientByEmail(c.Request.Context(), trainerID, req.ClientEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotRole), errors.Is(err, service.ErrClientAlreadyAssigned):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetManagedClients lists the authenticated trainer's clients.
func (h *TrainerHandler) GetManagedClients(c *gin.Context) {
	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}

	clients, err := h.trainerService.GetManagedClients(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve managed clients.")
		return
	}

	resp := make([]UserResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, MapUserToResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// --- Plan Management ---

// CreatePlan stores a new plan for a managed client.
func (h *TrainerHandler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}
	startDate, endDate, schedule, err := parsePlanPayload(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.trainerService.CreatePlan(c.Request.Context(), trainerID, clientID, req.Name, req.Description, startDate, endDate, schedule)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, domain.ErrInvalidSchedule), errors.Is(err, domain.ErrInvalidDateRange):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create plan.")
		}
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// GetPlansForClient lists the trainer's plans for one client.
func (h *TrainerHandler) GetPlansForClient(c *gin.Context) {
	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}

	plans, err := h.trainerService.GetPlansForClient(c.Request.Context(), trainerID, clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans.")
		return
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// UpdatePlan replaces a plan's declaration. Sessions generated from the old
// declaration stay in place until the trainer regenerates.
func (h *TrainerHandler) UpdatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}
	startDate, endDate, schedule, err := parsePlanPayload(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.trainerService.UpdatePlan(c.Request.Context(), trainerID, planID, req.Name, req.Description, startDate, endDate, schedule, req.IsActive)
	if err != nil {
		h.abortPlanError(c, err, "Failed to update plan.")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a plan and all of its generated sessions.
func (h *TrainerHandler) DeletePlan(c *gin.Context) {
	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	if err := h.trainerService.DeletePlan(c.Request.Context(), trainerID, planID); err != nil {
		h.abortPlanError(c, err, "Failed to delete plan.")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Schedule Expansion ---

// GetPlanSessions returns the generated calendar for a plan.
func (h *TrainerHandler) GetPlanSessions(c *gin.Context) {
	h.withOwnedPlan(c, func(trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error) {
		return h.trainerService.GetPlanSessions(c.Request.Context(), trainerID, planID)
	})
}

// GenerateSessions expands the plan's schedule and persists the result.
// Calling it again without regenerating duplicates sessions.
func (h *TrainerHandler) GenerateSessions(c *gin.Context) {
	h.withOwnedPlan(c, func(trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error) {
		return h.scheduleService.GenerateSessions(c.Request.Context(), trainerID, planID)
	})
}

// RegenerateSessions deletes the plan's sessions and generates a fresh set.
func (h *TrainerHandler) RegenerateSessions(c *gin.Context) {
	h.withOwnedPlan(c, func(trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error) {
		return h.scheduleService.RegenerateSessions(c.Request.Context(), trainerID, planID)
	})
}

// PreviewSessions expands the plan without persisting anything.
func (h *TrainerHandler) PreviewSessions(c *gin.Context) {
	h.withOwnedPlan(c, func(trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error) {
		return h.scheduleService.PreviewSessions(c.Request.Context(), trainerID, planID)
	})
}

// --- Client Progress Review ---

// GetClientMetricSeries returns a chart-ready metric series for a managed client.
func (h *TrainerHandler) GetClientMetricSeries(c *gin.Context) {
	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}
	metricType := domain.MetricType(c.Param("type"))

	series, err := h.trainerService.GetClientMetricSeries(c.Request.Context(), trainerID, clientID, metricType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetClientPhotos lists a managed client's progress photos with download URLs.
func (h *TrainerHandler) GetClientPhotos(c *gin.Context) {
	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}

	photos, err := h.trainerService.GetClientPhotos(c.Request.Context(), trainerID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve photos.")
		}
		return
	}
	c.JSON(http.StatusOK, photos)
}

// --- helpers ---

func (h *TrainerHandler) withOwnedPlan(c *gin.Context, fn func(trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error)) {
	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	sessions, err := fn(trainerID, planID)
	if err != nil {
		h.abortPlanError(c, err, "Failed to process plan sessions.")
		return
	}
	if sessions == nil {
		sessions = []domain.PlanSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *TrainerHandler) abortPlanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidSchedule), errors.Is(err, domain.ErrInvalidDateRange):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

func parsePlanPayload(req PlanRequest) (startDate, endDate time.Time, schedule domain.Schedule, err error) {
	startDate, err = time.ParseInLocation(domain.DateLayout, req.StartDate, time.UTC)
	if err != nil {
		return startDate, endDate, schedule, fmt.Errorf("invalid start date %q", req.StartDate)
	}
	endDate, err = time.ParseInLocation(domain.DateLayout, req.EndDate, time.UTC)
	if err != nil {
		return startDate, endDate, schedule, fmt.Errorf("invalid end date %q", req.EndDate)
	}
	schedule, err = req.Schedule.toDomain()
	return startDate, endDate, schedule, err
}

// actingUserID reads the authenticated user's ID set by AuthMiddleware.
// Every service call threads this explicit ID; there is no ambient
// current-user lookup anywhere below the API layer.
func actingUserID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}
