package service

import (
	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrTemplateNotFound     = errors.New("workout template not found")
	ErrTemplateAccessDenied = errors.New("access denied to modify or delete this template")
	ErrValidationFailed     = errors.New("template validation failed")
)

type TemplateService interface {
	CreateTemplate(ctx context.Context, trainerID primitive.ObjectID, name, description, category, difficulty string, exercises []domain.TemplateExercise) (*domain.WorkoutTemplate, error)
	GetTemplateByID(ctx context.Context, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error)
	GetTemplatesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	UpdateTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID, name, description, category, difficulty string, exercises []domain.TemplateExercise) (*domain.WorkoutTemplate, error)
	DeleteTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) error
}

// templateService implements the TemplateService interface.
type templateService struct {
	templateRepo repository.WorkoutTemplateRepository
}

// NewTemplateService creates a new instance of templateService.
func NewTemplateService(templateRepo repository.WorkoutTemplateRepository) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
	}
}

// CreateTemplate handles the creation of a new workout template by a trainer.
func (s *templateService) CreateTemplate(ctx context.Context, trainerID primitive.ObjectID, name, description, category, difficulty string, exercises []domain.TemplateExercise) (*domain.WorkoutTemplate, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required to create a template")
	}
	for _, ex := range exercises {
		if ex.Name == "" {
			return nil, ErrValidationFailed
		}
	}

	template := &domain.WorkoutTemplate{
		TrainerID:   trainerID,
		Name:        name,
		Description: description,
		Category:    category,
		Difficulty:  difficulty,
		Exercises:   exercises,
	}

	templateID, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	// Fetch again so timestamps set by the repository are populated.
	return s.templateRepo.GetByID(ctx, templateID)
}

// GetTemplateByID retrieves a single template.
func (s *templateService) GetTemplateByID(ctx context.Context, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

// GetTemplatesByTrainer retrieves a trainer's template library.
func (s *templateService) GetTemplatesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	return s.templateRepo.GetByTrainerID(ctx, trainerID)
}

// UpdateTemplate replaces a template's content after an ownership check.
func (s *templateService) UpdateTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID, name, description, category, difficulty string, exercises []domain.TemplateExercise) (*domain.WorkoutTemplate, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}

	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if template.TrainerID != trainerID {
		return nil, ErrTemplateAccessDenied
	}

	template.Name = name
	template.Description = description
	template.Category = category
	template.Difficulty = difficulty
	template.Exercises = exercises

	if err := s.templateRepo.Update(ctx, template); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, templateID)
}

// DeleteTemplate removes a template from the trainer's library.
func (s *templateService) DeleteTemplate(ctx context.Context, trainerID, templateID primitive.ObjectID) error {
	if trainerID == primitive.NilObjectID || templateID == primitive.NilObjectID {
		return errors.New("trainer ID and template ID are required")
	}
	err := s.templateRepo.Delete(ctx, templateID, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Not found or not owned; the repo filter cannot tell them apart.
			return ErrTemplateNotFound
		}
		return err
	}
	return nil
}
