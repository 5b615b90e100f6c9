package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/autoecole-app/autoecole-api/internal/models"
	appErrors "github.com/autoecole-app/autoecole-api/pkg/errors"
)

type schoolRepository interface {
	List(ctx context.Context) ([]models.School, error)
	FindByID(ctx context.Context, id string) (*models.School, error)
	ExistsByUniqueFields(ctx context.Context, email, telephone, siret, excludeID string) (bool, error)
	CountClients(ctx context.Context, id string) (int, error)
	CountInstructors(ctx context.Context, id string) (int, error)
	Create(ctx context.Context, school *models.School) error
	Update(ctx context.Context, school *models.School) error
	Delete(ctx context.Context, id string) error
}

// SchoolRequest carries the mutable fields of an auto-école.
type SchoolRequest struct {
	Nom         string  `json:"nom" validate:"required,max=255"`
	Email       string  `json:"email" validate:"required,email"`
	Telephone   string  `json:"telephone" validate:"required,max=30"`
	Adresse     string  `json:"adresse" validate:"required"`
	Siret       string  `json:"siret" validate:"required,len=14"`
	CodePostal  *string `json:"codePostal" validate:"omitempty,max=10"`
	Ville       *string `json:"ville" validate:"omitempty,max=100"`
	SiteWeb     *string `json:"siteWeb" validate:"omitempty,url"`
	Description *string `json:"description"`
	Horaires    *string `json:"horaires"`
}

// SchoolService manages auto-école records.
type SchoolService struct {
	schools   schoolRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolService constructs a SchoolService.
func NewSchoolService(schools schoolRepository, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{schools: schools, validator: validate, logger: logger}
}

// List returns every registered school.
func (s *SchoolService) List(ctx context.Context) ([]models.School, error) {
	schools, err := s.schools.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list schools")
	}
	return schools, nil
}

// Get returns a single school.
func (s *SchoolService) Get(ctx context.Context, id string) (*models.School, error) {
	school, err := s.schools.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "auto-ecole not found")
	}
	return school, nil
}

// Statistics returns the client and instructor headcounts of a school.
func (s *SchoolService) Statistics(ctx context.Context, id string) (*models.SchoolStatistics, error) {
	if _, err := s.schools.FindByID(ctx, id); err != nil {
		return nil, loadError(err, "auto-ecole not found")
	}
	clients, err := s.schools.CountClients(ctx, id)
	if err != nil {
		return nil, internalError(err, "failed to count clients")
	}
	instructors, err := s.schools.CountInstructors(ctx, id)
	if err != nil {
		return nil, internalError(err, "failed to count moniteurs")
	}
	return &models.SchoolStatistics{
		AutoEcoleID:     id,
		NombreClients:   clients,
		NombreMoniteurs: instructors,
	}, nil
}

// Create registers a school. Email, telephone and SIRET must all be unique
// across schools.
func (s *SchoolService) Create(ctx context.Context, req SchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid auto-ecole payload")
	}
	exists, err := s.schools.ExistsByUniqueFields(ctx, req.Email, req.Telephone, req.Siret, "")
	if err != nil {
		return nil, internalError(err, "failed to check auto-ecole uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an auto-ecole with the same email, telephone or SIRET already exists")
	}

	school := &models.School{
		Nom:         req.Nom,
		Email:       req.Email,
		Telephone:   req.Telephone,
		Adresse:     req.Adresse,
		Siret:       req.Siret,
		CodePostal:  req.CodePostal,
		Ville:       req.Ville,
		SiteWeb:     req.SiteWeb,
		Description: req.Description,
		Horaires:    req.Horaires,
	}
	if err := s.schools.Create(ctx, school); err != nil {
		return nil, internalError(err, "failed to create auto-ecole")
	}
	s.logger.Info("auto-ecole created", zap.String("auto_ecole_id", school.ID), zap.String("nom", school.Nom))
	return school, nil
}

// Update overwrites a school's mutable fields, keeping the uniqueness rule.
func (s *SchoolService) Update(ctx context.Context, id string, req SchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid auto-ecole payload")
	}
	school, err := s.schools.FindByID(ctx, id)
	if err != nil {
		return nil, loadError(err, "auto-ecole not found")
	}
	exists, err := s.schools.ExistsByUniqueFields(ctx, req.Email, req.Telephone, req.Siret, id)
	if err != nil {
		return nil, internalError(err, "failed to check auto-ecole uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an auto-ecole with the same email, telephone or SIRET already exists")
	}

	school.Nom = req.Nom
	school.Email = req.Email
	school.Telephone = req.Telephone
	school.Adresse = req.Adresse
	school.Siret = req.Siret
	school.CodePostal = req.CodePostal
	school.Ville = req.Ville
	school.SiteWeb = req.SiteWeb
	school.Description = req.Description
	school.Horaires = req.Horaires
	if err := s.schools.Update(ctx, school); err != nil {
		return nil, internalError(err, "failed to update auto-ecole")
	}
	return school, nil
}

// Delete removes a school. Instructors and clients keep their rows with the
// school reference cleared by the schema.
func (s *SchoolService) Delete(ctx context.Context, id string) error {
	if _, err := s.schools.FindByID(ctx, id); err != nil {
		return loadError(err, "auto-ecole not found")
	}
	if err := s.schools.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete auto-ecole")
	}
	s.logger.Info("auto-ecole deleted", zap.String("auto_ecole_id", id))
	return nil
}
