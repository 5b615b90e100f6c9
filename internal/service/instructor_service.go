package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

type instructorRepository interface {
	List(ctx context.Context) ([]models.Instructor, error)
	ListBySchool(ctx context.Context, autoEcoleID string) ([]models.Instructor, error)
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, instructor *models.Instructor) error
	Update(ctx context.Context, instructor *models.Instructor) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}

type slotCounter interface {
	CountByInstructor(ctx context.Context, moniteurID string) (int, error)
}

// InstructorRequest carries the mutable fields of a moniteur.
type InstructorRequest struct {
	Nom              string  `json:"nom" validate:"required,max=100"`
	Prenom           string  `json:"prenom" validate:"required,max=100"`
	Email            string  `json:"email" validate:"required,email"`
	Telephone        *string `json:"telephone" validate:"omitempty,max=30"`
	Specialite       *string `json:"specialite" validate:"omitempty,max=100"`
	ExperienceAnnees *int    `json:"experienceAnnees" validate:"omitempty,gte=0"`
	NumeroAgrement   *string `json:"numeroAgrement" validate:"omitempty,max=50"`
	AutoEcoleID      *string `json:"autoEcoleId"`
}

// InstructorService manages moniteurs.
type InstructorService struct {
	instructors instructorRepository
	slots       slotCounter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewInstructorService constructs an InstructorService.
func NewInstructorService(instructors instructorRepository, slots slotCounter, validate *validator.Validate, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{instructors: instructors, slots: slots, validator: validate, logger: logger}
}

// List returns all moniteurs, optionally scoped to one school.
func (s *InstructorService) List(ctx context.Context, autoEcoleID string) ([]models.Instructor, error) {
	var (
		instructors []models.Instructor
		err         error
	)
	if autoEcoleID != "" {
		instructors, err = s.instructors.ListBySchool(ctx, autoEcoleID)
	} else {
		instructors, err = s.instructors.List(ctx)
	}
	if err != nil {
		return nil, internalError(err, "failed to list moniteurs")
	}
	return instructors, nil
}

// Get returns a single moniteur.
func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := s.instructors.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "moniteur not found")
	}
	return instructor, nil
}

// Create registers a moniteur. New moniteurs start available.
func (s *InstructorService) Create(ctx context.Context, req InstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid moniteur payload")
	}
	exists, err := s.instructors.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, internalError(err, "failed to check moniteur email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a moniteur with this email already exists")
	}

	instructor := &models.Instructor{
		Nom:              req.Nom,
		Prenom:           req.Prenom,
		Email:            req.Email,
		Telephone:        req.Telephone,
		Specialite:       req.Specialite,
		ExperienceAnnees: req.ExperienceAnnees,
		NumeroAgrement:   req.NumeroAgrement,
		Disponible:       true,
		AutoEcoleID:      req.AutoEcoleID,
	}
	if err := s.instructors.Create(ctx, instructor); err != nil {
		return nil, internalError(err, "failed to create moniteur")
	}
	s.logger.Info("moniteur created", zap.String("moniteur_id", instructor.ID), zap.String("email", instructor.Email))
	return instructor, nil
}

// Update overwrites a moniteur's mutable fields.
func (s *InstructorService) Update(ctx context.Context, id string, req InstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid moniteur payload")
	}
	instructor, err := s.instructors.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "moniteur not found")
	}
	exists, err := s.instructors.ExistsByEmail(ctx, req.Email, id)
	if err != nil {
		return nil, internalError(err, "failed to check moniteur email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a moniteur with this email already exists")
	}

	instructor.Nom = req.Nom
	instructor.Prenom = req.Prenom
	instructor.Email = req.Email
	instructor.Telephone = req.Telephone
	instructor.Specialite = req.Specialite
	instructor.ExperienceAnnees = req.ExperienceAnnees
	instructor.NumeroAgrement = req.NumeroAgrement
	instructor.AutoEcoleID = req.AutoEcoleID
	if err := s.instructors.Update(ctx, instructor); err != nil {
		return nil, internalError(err, "failed to update moniteur")
	}
	return instructor, nil
}

// SetAvailability toggles whether the moniteur appears in booking flows.
func (s *InstructorService) SetAvailability(ctx context.Context, id string, available bool) (*models.Instructor, error) {
	instructor, err := s.instructors.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "moniteur not found")
	}
	if err := s.instructors.SetAvailability(ctx, id, available); err != nil {
		return nil, internalError(err, "failed to update moniteur availability")
	}
	instructor.Disponible = available
	return instructor, nil
}

// Delete removes a moniteur. Refused while the moniteur still owns time
// slots, so the scheduling history stays consistent.
func (s *InstructorService) Delete(ctx context.Context, id string) error {
	if _, err := s.instructors.FindByID(ctx, id); err != nil {
		return loadError(err, "moniteur not found")
	}
	count, err := s.slots.CountByInstructor(ctx, id)
	if err != nil {
		return internalError(err, "failed to count moniteur time slots")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "moniteur still owns time slots and cannot be deleted")
	}
	if err := s.instructors.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete moniteur")
	}
	s.logger.Info("moniteur deleted", zap.String("moniteur_id", id))
	return nil
}
