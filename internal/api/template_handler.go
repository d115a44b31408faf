package api

import (
	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TemplateHandler struct {
	templateService service.TemplateService
}

func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// --- DTOs ---

type TemplateExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Sets        int    `json:"sets,omitempty"`
	Reps        string `json:"reps,omitempty"`
	RestSeconds int    `json:"restSeconds,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type TemplateRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Description string                    `json:"description,omitempty"`
	Category    string                    `json:"category,omitempty"`
	Difficulty  string                    `json:"difficulty,omitempty" binding:"omitempty,oneof=Novice Medium Advanced"`
	Exercises   []TemplateExerciseRequest `json:"exercises,omitempty" binding:"dive"`
}

func (r TemplateRequest) exercises() []domain.TemplateExercise {
	exercises := make([]domain.TemplateExercise, 0, len(r.Exercises))
	for _, ex := range r.Exercises {
		exercises = append(exercises, domain.TemplateExercise{
			Name:        ex.Name,
			Sets:        ex.Sets,
			Reps:        ex.Reps,
			RestSeconds: ex.RestSeconds,
			Notes:       ex.Notes,
		})
	}
	return exercises
}

// --- Handlers ---

// CreateTemplate adds a workout template to the trainer's library.
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), trainerID, req.Name, req.Description, req.Category, req.Difficulty, req.exercises())
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create template.")
		}
		return
	}
	c.JSON(http.StatusCreated, template)
}

// GetTrainerTemplates lists the trainer's template library.
func (h *TemplateHandler) GetTrainerTemplates(c *gin.Context) {
	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}

	templates, err := h.templateService.GetTemplatesByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve templates.")
		return
	}
	if templates == nil {
		templates = []domain.WorkoutTemplate{}
	}
	c.JSON(http.StatusOK, templates)
}

// UpdateTemplate replaces a template's content.
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}
	templateID, err := primitive.ObjectIDFromHex(c.Param("templateId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format.")
		return
	}

	template, err := h.templateService.UpdateTemplate(c.Request.Context(), trainerID, templateID, req.Name, req.Description, req.Category, req.Difficulty, req.exercises())
	if err != nil {
		h.abortTemplateError(c, err, "Failed to update template.")
		return
	}
	c.JSON(http.StatusOK, template)
}

// DeleteTemplate removes a template from the library.
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	trainerID, ok := actingUserID(c)
	if !ok {
		return
	}
	templateID, err := primitive.ObjectIDFromHex(c.Param("templateId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid template ID format.")
		return
	}

	if err := h.templateService.DeleteTemplate(c.Request.Context(), trainerID, templateID); err != nil {
		h.abortTemplateError(c, err, "Failed to delete template.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TemplateHandler) abortTemplateError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTemplateAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
